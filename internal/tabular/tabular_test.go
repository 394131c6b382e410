package tabular

import (
	"testing"
	"time"
)

type item struct {
	ID      string
	Name    string
	Status  string
	Price   float64
	Active  bool
	Created string
}

func itemConfig() Config[item] {
	return Config[item]{
		Fields: map[string]FieldFunc[item]{
			"id":      func(r item) any { return r.ID },
			"name":    func(r item) any { return r.Name },
			"status":  func(r item) any { return r.Status },
			"price":   func(r item) any { return r.Price },
			"active":  func(r item) any { return r.Active },
			"created": func(r item) any { return r.Created },
		},
		SearchFields: []string{"name"},
		FilterFields: []FilterField{
			{Key: "status", Type: FilterSelect},
			{Key: "price", Type: FilterNumber},
			{Key: "active", Type: FilterBoolean},
		},
		SortableFields:      []string{"name", "price", "created"},
		DefaultItemsPerPage: 10,
	}
}

func mustEngine(t *testing.T, rows []item) *Engine[item] {
	t.Helper()
	e, err := New(itemConfig(), rows)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

func manyItems(n int) []item {
	rows := make([]item, n)
	for i := range rows {
		rows[i] = item{ID: string(rune('a' + i%26)), Name: "item", Price: float64(i)}
	}
	return rows
}

func TestNew_RejectsNonPositivePageSize(t *testing.T) {
	cfg := itemConfig()
	cfg.DefaultItemsPerPage = 0
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error for zero page size")
	}
}

func TestNew_RejectsUnknownField(t *testing.T) {
	cfg := itemConfig()
	cfg.SearchFields = append(cfg.SearchFields, "nope")
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error for field without accessor")
	}
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	e := mustEngine(t, []item{{Name: "Alpha"}, {Name: "beta"}})
	e.SetSearchTerm("AL")

	v := e.View()
	if v.TotalItems != 1 {
		t.Fatalf("expected 1 match, got %d", v.TotalItems)
	}
	if v.FilteredData[0].Name != "Alpha" {
		t.Errorf("expected Alpha, got %q", v.FilteredData[0].Name)
	}
}

func TestSearch_NumberViaDecimalString(t *testing.T) {
	cfg := itemConfig()
	cfg.SearchFields = []string{"price"}
	e, err := New(cfg, []item{{Name: "a", Price: 19.5}, {Name: "b", Price: 200}})
	if err != nil {
		t.Fatal(err)
	}

	e.SetSearchTerm("19.5")
	if v := e.View(); v.TotalItems != 1 || v.FilteredData[0].Name != "a" {
		t.Fatalf("expected only the 19.5 row, got %d items", v.TotalItems)
	}
}

func TestFilter_NumberEquality(t *testing.T) {
	e := mustEngine(t, []item{{Price: 10}, {Price: 20}, {Price: 20}})
	e.SetFilter("price", "20")

	v := e.View()
	if v.TotalItems != 2 {
		t.Fatalf("expected 2 matches, got %d", v.TotalItems)
	}
	for _, r := range v.FilteredData {
		if r.Price != 20 {
			t.Errorf("unexpected price %v", r.Price)
		}
	}
}

func TestFilter_Boolean(t *testing.T) {
	e := mustEngine(t, []item{{Name: "on", Active: true}, {Name: "off", Active: false}})
	e.SetFilter("active", "true")

	v := e.View()
	if v.TotalItems != 1 || v.FilteredData[0].Name != "on" {
		t.Fatalf("expected only the active row, got %d items", v.TotalItems)
	}

	// Query-string values are always strings, so "false", "0" and "no" must
	// select the inactive rows rather than coerce truthy.
	for _, val := range []string{"false", "0", "no"} {
		e.SetFilter("active", val)
		v = e.View()
		if v.TotalItems != 1 || v.FilteredData[0].Name != "off" {
			t.Fatalf("filter %q: expected only the inactive row, got %d items", val, v.TotalItems)
		}
	}
}

func TestFilter_AllSentinelIsInactive(t *testing.T) {
	e := mustEngine(t, []item{{Status: "draft"}, {Status: "published"}})
	e.SetFilter("status", "all")

	if v := e.View(); v.TotalItems != 2 {
		t.Fatalf("'all' should deactivate the filter, got %d items", v.TotalItems)
	}
}

func TestFilters_AreConjunctive(t *testing.T) {
	e := mustEngine(t, []item{
		{Status: "draft", Active: true},
		{Status: "draft", Active: false},
		{Status: "published", Active: true},
	})
	e.SetFilter("status", "draft")
	e.SetFilter("active", "true")

	v := e.View()
	if v.TotalItems != 1 {
		t.Fatalf("expected 1 match, got %d", v.TotalItems)
	}
}

func TestSort_Toggle(t *testing.T) {
	e := mustEngine(t, nil)

	e.SetSort("name")
	if st := e.State(); st.SortColumn != "name" || st.SortDirection != Asc {
		t.Fatalf("expected name/asc, got %s/%s", st.SortColumn, st.SortDirection)
	}

	e.SetSort("name")
	if st := e.State(); st.SortColumn != "name" || st.SortDirection != Desc {
		t.Fatalf("expected name/desc after toggle, got %s/%s", st.SortColumn, st.SortDirection)
	}

	// Switching columns starts over at asc.
	e.SetSort("price")
	if st := e.State(); st.SortColumn != "price" || st.SortDirection != Asc {
		t.Fatalf("expected price/asc, got %s/%s", st.SortColumn, st.SortDirection)
	}
}

func TestSort_DoesNotMovePage(t *testing.T) {
	e := mustEngine(t, manyItems(35))
	e.SetPage(3)
	e.SetSort("price")

	if st := e.State(); st.CurrentPage != 3 {
		t.Fatalf("sorting must not change the page, got %d", st.CurrentPage)
	}
}

func TestSort_Numeric(t *testing.T) {
	e := mustEngine(t, []item{{Price: 30}, {Price: 10}, {Price: 20}})
	e.SetSort("price")

	v := e.View()
	want := []float64{10, 20, 30}
	for i, p := range want {
		if v.FilteredData[i].Price != p {
			t.Fatalf("position %d: expected %v, got %v", i, p, v.FilteredData[i].Price)
		}
	}

	e.SetSort("price") // toggle to desc
	v = e.View()
	if v.FilteredData[0].Price != 30 {
		t.Fatalf("expected 30 first after desc toggle, got %v", v.FilteredData[0].Price)
	}
}

func TestSort_DateStrings(t *testing.T) {
	e := mustEngine(t, []item{
		{Name: "mar", Created: "2026-03-01"},
		{Name: "jan", Created: "2026-01-15"},
		{Name: "feb", Created: "2026-02-10"},
	})
	e.SetSort("created")

	v := e.View()
	want := []string{"jan", "feb", "mar"}
	for i, n := range want {
		if v.FilteredData[i].Name != n {
			t.Fatalf("position %d: expected %s, got %s", i, n, v.FilteredData[i].Name)
		}
	}
}

func TestSort_LexicographicFallback(t *testing.T) {
	e := mustEngine(t, []item{{Name: "cherry"}, {Name: "apple"}, {Name: "banana"}})
	e.SetSort("name")

	v := e.View()
	if v.FilteredData[0].Name != "apple" || v.FilteredData[2].Name != "cherry" {
		t.Fatalf("expected lexicographic order, got %+v", v.FilteredData)
	}
}

func TestHandleSort_RejectsUnknownColumn(t *testing.T) {
	e := mustEngine(t, nil)
	e.HandleSort("status") // not in SortableFields

	if st := e.State(); st.SortColumn != "" {
		t.Fatalf("HandleSort should be a no-op for non-sortable column, got %q", st.SortColumn)
	}
}

func TestPagination_Invariant(t *testing.T) {
	for _, tc := range []struct {
		n, per, wantPages int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{35, 10, 4},
		{35, 7, 5},
	} {
		cfg := itemConfig()
		cfg.DefaultItemsPerPage = tc.per
		e, err := New(cfg, manyItems(tc.n))
		if err != nil {
			t.Fatal(err)
		}
		if v := e.View(); v.TotalPages != tc.wantPages {
			t.Errorf("n=%d per=%d: expected %d pages, got %d", tc.n, tc.per, tc.wantPages, v.TotalPages)
		}
	}
}

func TestPagination_Slice(t *testing.T) {
	e := mustEngine(t, manyItems(25))
	e.SetPage(3)

	v := e.View()
	if len(v.PaginatedData) != 5 {
		t.Fatalf("expected 5 items on last page, got %d", len(v.PaginatedData))
	}
	if v.TotalItems != 25 || v.TotalPages != 3 {
		t.Fatalf("expected 25 items / 3 pages, got %d / %d", v.TotalItems, v.TotalPages)
	}
}

func TestSetPage_Clamps(t *testing.T) {
	e := mustEngine(t, manyItems(25))

	e.SetPage(99)
	if st := e.State(); st.CurrentPage != 3 || st.PageInputValue != "3" {
		t.Fatalf("expected clamp to page 3, got %d (%q)", st.CurrentPage, st.PageInputValue)
	}

	e.SetPage(-4)
	if st := e.State(); st.CurrentPage != 1 {
		t.Fatalf("expected clamp to page 1, got %d", st.CurrentPage)
	}
}

func TestMutations_ResetPage(t *testing.T) {
	reset := []struct {
		name string
		do   func(e *Engine[item])
	}{
		{"SetSearchTerm", func(e *Engine[item]) { e.SetSearchTerm("x") }},
		{"SetFilter", func(e *Engine[item]) { e.SetFilter("status", "draft") }},
		{"SetItemsPerPage", func(e *Engine[item]) {
			if err := e.SetItemsPerPage(5); err != nil {
				panic(err)
			}
		}},
		{"ResetFilters", func(e *Engine[item]) { e.ResetFilters() }},
	}

	for _, tc := range reset {
		e := mustEngine(t, manyItems(50))
		e.SetPage(4)
		tc.do(e)
		if st := e.State(); st.CurrentPage != 1 {
			t.Errorf("%s: expected page reset to 1, got %d", tc.name, st.CurrentPage)
		}
	}
}

func TestSetItemsPerPage_RejectsNonPositive(t *testing.T) {
	e := mustEngine(t, nil)
	if err := e.SetItemsPerPage(0); err == nil {
		t.Fatal("expected error for zero page size")
	}
	if err := e.SetItemsPerPage(-3); err == nil {
		t.Fatal("expected error for negative page size")
	}
}

func TestResetFilters_KeepsSort(t *testing.T) {
	e := mustEngine(t, manyItems(5))
	e.SetSort("price")
	e.SetSearchTerm("item")
	e.SetFilter("status", "draft")

	e.ResetFilters()

	st := e.State()
	if st.SearchTerm != "" || len(st.Filters) != 0 {
		t.Fatal("expected search and filters cleared")
	}
	if st.SortColumn != "price" {
		t.Fatalf("sort should survive a filter reset, got %q", st.SortColumn)
	}
	if st.PageInputValue != "1" {
		t.Fatalf("expected page input \"1\", got %q", st.PageInputValue)
	}
}

func TestEmptyInput(t *testing.T) {
	e := mustEngine(t, nil)
	v := e.View()
	if v.TotalPages != 1 || v.TotalItems != 0 || len(v.PaginatedData) != 0 {
		t.Fatalf("empty input: got pages=%d items=%d page=%d", v.TotalPages, v.TotalItems, len(v.PaginatedData))
	}
	if st := e.State(); st.CurrentPage != 1 {
		t.Fatalf("expected page 1 on empty input, got %d", st.CurrentPage)
	}
}

func TestDefaultSortApplied(t *testing.T) {
	cfg := itemConfig()
	cfg.DefaultSort = &Sort{Field: "price", Direction: Desc}
	e, err := New(cfg, []item{{Price: 1}, {Price: 3}, {Price: 2}})
	if err != nil {
		t.Fatal(err)
	}

	v := e.View()
	if v.FilteredData[0].Price != 3 {
		t.Fatalf("expected default sort desc by price, got %v first", v.FilteredData[0].Price)
	}
}

func TestSetRows_ReclampsPage(t *testing.T) {
	e := mustEngine(t, manyItems(50))
	e.SetPage(5)

	e.SetRows(manyItems(12))
	if st := e.State(); st.CurrentPage != 2 {
		t.Fatalf("expected page re-clamped to 2, got %d", st.CurrentPage)
	}
}

func TestCompareValues_TimeType(t *testing.T) {
	a := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if compareValues(a, b) >= 0 {
		t.Fatal("expected earlier time to compare less")
	}
}

func TestApply_Reducer(t *testing.T) {
	id := func(r item) string { return r.ID }
	list := []item{{ID: "1", Name: "one"}, {ID: "2", Name: "two"}}

	inserted := Apply(list, Change[item]{Kind: Insert, Row: item{ID: "3", Name: "three"}}, id)
	if len(inserted) != 3 || inserted[0].ID != "3" {
		t.Fatalf("insert should prepend, got %+v", inserted)
	}

	replaced := Apply(list, Change[item]{Kind: Replace, ID: "2", Row: item{ID: "2", Name: "TWO"}}, id)
	if replaced[1].Name != "TWO" {
		t.Fatalf("replace should swap in place, got %+v", replaced)
	}

	removed := Apply(list, Change[item]{Kind: Remove, ID: "1"}, id)
	if len(removed) != 1 || removed[0].ID != "2" {
		t.Fatalf("remove should filter out, got %+v", removed)
	}

	// Original list is untouched.
	if len(list) != 2 || list[0].ID != "1" || list[1].Name != "two" {
		t.Fatalf("input list was mutated: %+v", list)
	}
}

func TestColumn_Cell(t *testing.T) {
	fields := itemConfig().Fields
	row := item{Name: "widget", Price: 12.5}

	plain := Column[item]{Header: "Name", Field: "name"}
	if got := plain.Cell(fields, row); got != "widget" {
		t.Fatalf("expected widget, got %q", got)
	}

	rendered := Column[item]{
		Header: "Price",
		Field:  "price",
		Render: func(v any, _ item) string { return "$" + stringify(v) },
	}
	if got := rendered.Cell(fields, row); got != "$12.5" {
		t.Fatalf("expected $12.5, got %q", got)
	}
}
