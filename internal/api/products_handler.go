package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/stewardhq/steward/internal/catalog"
	"github.com/stewardhq/steward/internal/tabular"
)

// productsHandler groups product HTTP handlers.
type productsHandler struct {
	store *catalog.Store
	audit *recorder
}

func newProductsHandler(store *catalog.Store, rec *recorder) *productsHandler {
	return &productsHandler{store: store, audit: rec}
}

func productTableConfig() tabular.Config[*catalog.Product] {
	return tabular.Config[*catalog.Product]{
		Fields: map[string]tabular.FieldFunc[*catalog.Product]{
			"name":       func(p *catalog.Product) any { return p.Name },
			"category":   func(p *catalog.Product) any { return p.Category },
			"price":      func(p *catalog.Product) any { return p.Price },
			"stock":      func(p *catalog.Product) any { return p.Stock },
			"active":     func(p *catalog.Product) any { return p.Active },
			"created_at": func(p *catalog.Product) any { return p.CreatedAt },
		},
		SearchFields: []string{"name", "category"},
		FilterFields: []tabular.FilterField{
			{Key: "category", Type: tabular.FilterSelect},
			{Key: "active", Type: tabular.FilterBoolean},
			{Key: "price", Type: tabular.FilterNumber},
		},
		SortableFields:      []string{"name", "category", "price", "stock", "created_at"},
		DefaultSort:         &tabular.Sort{Field: "created_at", Direction: tabular.Desc},
		DefaultItemsPerPage: 20,
	}
}

// ListProducts handles GET /api/v1/admin/products.
func (h *productsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}

	resp, err := tableView(r, productTableConfig(), products)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetProduct handles GET /api/v1/admin/products/{id}.
func (h *productsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProduct handles POST /api/v1/admin/products.
func (h *productsHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input catalog.CreateProductInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if input.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}
	if input.Price < 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "price must not be negative")
		return
	}
	if input.Stock < 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "stock must not be negative")
		return
	}

	p, err := h.store.CreateProduct(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create product")
		return
	}

	h.audit.record(r, "create", "product", p.ID, p.Name)
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /api/v1/admin/products/{id}.
func (h *productsHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input catalog.UpdateProductInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if input.Price != nil && *input.Price < 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "price must not be negative")
		return
	}
	if input.Stock != nil && *input.Stock < 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "stock must not be negative")
		return
	}

	p, err := h.store.UpdateProduct(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update product")
		return
	}

	h.audit.record(r, "update", "product", id, "")
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /api/v1/admin/products/{id}.
func (h *productsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete product")
		return
	}

	h.audit.record(r, "delete", "product", id, "")
	w.WriteHeader(http.StatusNoContent)
}
