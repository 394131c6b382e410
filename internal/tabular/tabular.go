// Package tabular derives filtered, sorted, paginated views over in-memory
// record lists. It is the engine behind every list endpoint in the admin API:
// handlers load rows from a store, apply the caller's search/filter/sort/page
// parameters through an Engine, and return the resulting page plus counts.
package tabular

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// FilterType governs the comparison semantics of a filter field.
type FilterType string

const (
	FilterSelect  FilterType = "select"
	FilterBoolean FilterType = "boolean"
	FilterDate    FilterType = "date"
	FilterNumber  FilterType = "number"
)

// filterAll is the sentinel value that deactivates a filter.
const filterAll = "all"

// FieldFunc extracts a named field's value from a record. Returned values may
// be strings, numeric types, bools, or time.Time.
type FieldFunc[T any] func(T) any

// FilterField declares one typed filter axis over records.
type FilterField struct {
	Key  string
	Type FilterType
}

// Sort pairs a field name with a direction.
type Sort struct {
	Field     string
	Direction Direction
}

// Config declares, for a record shape T, which fields are searchable,
// filterable, and sortable, plus the default sort and page size.
type Config[T any] struct {
	// Fields maps field names to accessors. Every name referenced by
	// SearchFields, FilterFields, SortableFields, or DefaultSort must
	// appear here.
	Fields map[string]FieldFunc[T]

	SearchFields        []string
	FilterFields        []FilterField
	SortableFields      []string
	DefaultSort         *Sort
	DefaultItemsPerPage int
}

// State is the mutable view state of one table instance.
type State struct {
	SearchTerm    string
	Filters       map[string]string
	SortColumn    string
	SortDirection Direction
	CurrentPage   int
	ItemsPerPage  int

	// PageInputValue mirrors CurrentPage as a string for free-text
	// page-jump inputs.
	PageInputValue string
}

// View is the derived output of the pipeline.
type View[T any] struct {
	FilteredData  []T
	PaginatedData []T
	TotalPages    int
	TotalItems    int
}

// Engine applies a Config and a State to a record list. It is created fresh
// per table instance and is not safe for concurrent use.
type Engine[T any] struct {
	cfg   Config[T]
	rows  []T
	state State
}

// New creates an Engine over the given rows. It returns an error if the
// default page size is not positive or if a configured field name has no
// accessor; both are caller bugs that must not be silently corrected.
func New[T any](cfg Config[T], rows []T) (*Engine[T], error) {
	if cfg.DefaultItemsPerPage <= 0 {
		return nil, fmt.Errorf("default items per page must be positive, got %d", cfg.DefaultItemsPerPage)
	}

	var declared []string
	declared = append(declared, cfg.SearchFields...)
	declared = append(declared, cfg.SortableFields...)
	for _, f := range cfg.FilterFields {
		declared = append(declared, f.Key)
	}
	if cfg.DefaultSort != nil {
		declared = append(declared, cfg.DefaultSort.Field)
	}
	for _, name := range declared {
		if _, ok := cfg.Fields[name]; !ok {
			return nil, fmt.Errorf("field %q has no accessor", name)
		}
	}

	e := &Engine[T]{
		cfg:  cfg,
		rows: rows,
		state: State{
			Filters:        make(map[string]string),
			SortDirection:  Asc,
			CurrentPage:    1,
			ItemsPerPage:   cfg.DefaultItemsPerPage,
			PageInputValue: "1",
		},
	}
	if cfg.DefaultSort != nil {
		e.state.SortColumn = cfg.DefaultSort.Field
		e.state.SortDirection = cfg.DefaultSort.Direction
	}
	return e, nil
}

// State returns a copy of the current view state.
func (e *Engine[T]) State() State {
	st := e.state
	st.Filters = make(map[string]string, len(e.state.Filters))
	for k, v := range e.state.Filters {
		st.Filters[k] = v
	}
	return st
}

// SetRows replaces the input record list and re-clamps the current page
// against the new filtered set.
func (e *Engine[T]) SetRows(rows []T) {
	e.rows = rows
	e.setPage(e.state.CurrentPage)
}

// SetSearchTerm sets the search term and resets to the first page.
func (e *Engine[T]) SetSearchTerm(term string) {
	e.state.SearchTerm = term
	e.resetPage()
}

// SetFilter upserts the value for a filter key and resets to the first page.
// An empty value or the sentinel "all" deactivates the filter.
func (e *Engine[T]) SetFilter(key, value string) {
	e.state.Filters[key] = value
	e.resetPage()
}

// SetSort sets the sort column. With no explicit direction, sorting by the
// current column toggles asc/desc and sorting by a new column starts at asc.
// The current page is left alone. SetSort does not check membership in
// SortableFields; HandleSort does.
func (e *Engine[T]) SetSort(column string, direction ...Direction) {
	if len(direction) > 0 {
		e.state.SortColumn = column
		e.state.SortDirection = direction[0]
		return
	}
	if e.state.SortColumn == column {
		if e.state.SortDirection == Asc {
			e.state.SortDirection = Desc
		} else {
			e.state.SortDirection = Asc
		}
		return
	}
	e.state.SortColumn = column
	e.state.SortDirection = Asc
}

// HandleSort sorts by column only if it is declared sortable; otherwise it is
// a no-op.
func (e *Engine[T]) HandleSort(column string) {
	for _, c := range e.cfg.SortableFields {
		if c == column {
			e.SetSort(column)
			return
		}
	}
}

// SetPage moves to the given page, clamped into [1, totalPages].
func (e *Engine[T]) SetPage(page int) {
	e.setPage(page)
}

// SetItemsPerPage changes the page size and resets to the first page. A
// non-positive size is a precondition violation and returns an error.
func (e *Engine[T]) SetItemsPerPage(n int) error {
	if n <= 0 {
		return fmt.Errorf("items per page must be positive, got %d", n)
	}
	e.state.ItemsPerPage = n
	e.resetPage()
	return nil
}

// ResetFilters clears the search term and all filters and returns to the
// first page. The sort is kept.
func (e *Engine[T]) ResetFilters() {
	e.state.SearchTerm = ""
	e.state.Filters = make(map[string]string)
	e.resetPage()
}

func (e *Engine[T]) resetPage() {
	e.state.CurrentPage = 1
	e.state.PageInputValue = "1"
}

func (e *Engine[T]) setPage(page int) {
	total := e.totalPages(len(e.filtered()))
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	e.state.CurrentPage = page
	e.state.PageInputValue = strconv.Itoa(page)
}

// totalPages is ceil(n/itemsPerPage), never less than 1 so that CurrentPage
// always has a valid home even for an empty filtered set.
func (e *Engine[T]) totalPages(n int) int {
	pages := (n + e.state.ItemsPerPage - 1) / e.state.ItemsPerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

// View runs the derivation pipeline: search, conjunctive filters, sort, then
// the page slice.
func (e *Engine[T]) View() View[T] {
	filtered := e.filtered()
	e.sort(filtered)

	total := e.totalPages(len(filtered))
	page := e.state.CurrentPage
	if page > total {
		page = total
	}

	start := (page - 1) * e.state.ItemsPerPage
	end := start + e.state.ItemsPerPage
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return View[T]{
		FilteredData:  filtered,
		PaginatedData: filtered[start:end],
		TotalPages:    total,
		TotalItems:    len(filtered),
	}
}

func (e *Engine[T]) filtered() []T {
	out := make([]T, 0, len(e.rows))
	for _, row := range e.rows {
		if !e.matchesSearch(row) {
			continue
		}
		if !e.matchesFilters(row) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// matchesSearch reports whether row matches the search term: true when the
// term or the configured search fields are empty, otherwise a case-insensitive
// substring match over each field's string form.
func (e *Engine[T]) matchesSearch(row T) bool {
	term := e.state.SearchTerm
	if term == "" || len(e.cfg.SearchFields) == 0 {
		return true
	}
	needle := strings.ToLower(term)
	for _, name := range e.cfg.SearchFields {
		v := e.cfg.Fields[name](row)
		if strings.Contains(strings.ToLower(stringify(v)), needle) {
			return true
		}
	}
	return false
}

func (e *Engine[T]) matchesFilters(row T) bool {
	for _, f := range e.cfg.FilterFields {
		value, ok := e.state.Filters[f.Key]
		if !ok || value == "" || value == filterAll {
			continue
		}
		field := e.cfg.Fields[f.Key](row)
		if !matchFilter(f.Type, field, value) {
			return false
		}
	}
	return true
}

func matchFilter(typ FilterType, field any, value string) bool {
	switch typ {
	case FilterBoolean:
		return truthy(field) == truthyString(value)
	case FilterNumber:
		fn, ok := toFloat(field)
		if !ok {
			fn, ok = parseFloat(stringify(field))
			if !ok {
				return false
			}
		}
		vn, ok := parseFloat(value)
		if !ok {
			return false
		}
		return fn == vn
	default:
		// select, date, and unknown types compare string forms exactly.
		return stringify(field) == value
	}
}

func (e *Engine[T]) sort(rows []T) {
	column := e.state.SortColumn
	if column == "" {
		return
	}
	accessor, ok := e.cfg.Fields[column]
	if !ok {
		return
	}
	desc := e.state.SortDirection == Desc

	sort.SliceStable(rows, func(i, j int) bool {
		c := compareValues(accessor(rows[i]), accessor(rows[j]))
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// compareValues is the type-aware comparator: numeric when both sides are
// numeric, timestamp when both string forms parse as dates, otherwise
// lexicographic over string forms.
func compareValues(a, b any) int {
	if an, aok := toFloat(a); aok {
		if bn, bok := toFloat(b); bok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			default:
				return 0
			}
		}
	}

	if at, aok := toTime(a); aok {
		if bt, bok := toTime(b); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}

	return strings.Compare(stringify(a), stringify(b))
}

// dateLayouts are the accepted string forms for date comparison, most
// specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func toTime(v any) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

// stringify renders a field value in its canonical string form; numbers use
// their decimal representation.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case time.Time:
		return s.Format(time.RFC3339)
	default:
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return fmt.Sprintf("%v", v)
	}
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return truthyString(b)
	default:
		if f, ok := toFloat(v); ok {
			return f != 0
		}
		return v != nil
	}
}

func truthyString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "0", "no":
		return false
	default:
		return true
	}
}
