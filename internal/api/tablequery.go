package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/stewardhq/steward/internal/tabular"
)

// listResponse is the envelope for every table-backed list endpoint.
type listResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// tableView drives a tabular engine from the request's query parameters:
// q (search), filter.<key>=<value>, sort and dir, per_page, and page. Search
// and filter changes reset the page, so the page parameter is applied last.
func tableView[T any](r *http.Request, cfg tabular.Config[T], rows []T) (*listResponse[T], error) {
	eng, err := tabular.New(cfg, rows)
	if err != nil {
		return nil, err
	}

	query := r.URL.Query()

	if q := query.Get("q"); q != "" {
		eng.SetSearchTerm(q)
	}
	for _, f := range cfg.FilterFields {
		if v := query.Get("filter." + f.Key); v != "" {
			eng.SetFilter(f.Key, v)
		}
	}

	if col := query.Get("sort"); col != "" {
		switch dir := query.Get("dir"); dir {
		case "":
			eng.HandleSort(col)
		case string(tabular.Asc), string(tabular.Desc):
			if !sortable(cfg, col) {
				return nil, fmt.Errorf("cannot sort by %q", col)
			}
			eng.SetSort(col, tabular.Direction(dir))
		default:
			return nil, fmt.Errorf("dir must be asc or desc")
		}
	}

	if s := query.Get("per_page"); s != "" {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("per_page must be an integer")
		}
		if err := eng.SetItemsPerPage(n); err != nil {
			return nil, err
		}
	}
	if s := query.Get("page"); s != "" {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("page must be an integer")
		}
		eng.SetPage(n)
	}

	view := eng.View()
	state := eng.State()
	items := view.PaginatedData
	if items == nil {
		items = []T{}
	}

	return &listResponse[T]{
		Items:      items,
		Page:       state.CurrentPage,
		PerPage:    state.ItemsPerPage,
		TotalItems: view.TotalItems,
		TotalPages: view.TotalPages,
	}, nil
}

func sortable[T any](cfg tabular.Config[T], col string) bool {
	for _, c := range cfg.SortableFields {
		if c == col {
			return true
		}
	}
	return false
}
