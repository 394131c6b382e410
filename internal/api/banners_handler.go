package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/stewardhq/steward/internal/content"
	"github.com/stewardhq/steward/internal/tabular"
)

// bannersHandler groups banner HTTP handlers.
type bannersHandler struct {
	store *content.Store
	audit *recorder
}

func newBannersHandler(store *content.Store, rec *recorder) *bannersHandler {
	return &bannersHandler{store: store, audit: rec}
}

func bannerTableConfig() tabular.Config[*content.Banner] {
	return tabular.Config[*content.Banner]{
		Fields: map[string]tabular.FieldFunc[*content.Banner]{
			"title":      func(b *content.Banner) any { return b.Title },
			"placement":  func(b *content.Banner) any { return b.Placement },
			"active":     func(b *content.Banner) any { return b.Active },
			"created_at": func(b *content.Banner) any { return b.CreatedAt },
		},
		SearchFields: []string{"title"},
		FilterFields: []tabular.FilterField{
			{Key: "placement", Type: tabular.FilterSelect},
			{Key: "active", Type: tabular.FilterBoolean},
		},
		SortableFields:      []string{"title", "placement", "created_at"},
		DefaultSort:         &tabular.Sort{Field: "created_at", Direction: tabular.Desc},
		DefaultItemsPerPage: 20,
	}
}

// ListBanners handles GET /api/v1/admin/banners.
func (h *bannersHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.store.ListBanners(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list banners")
		return
	}

	resp, err := tableView(r, bannerTableConfig(), banners)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBanner handles GET /api/v1/admin/banners/{id}.
func (h *bannersHandler) GetBanner(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, err := h.store.GetBanner(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "banner not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get banner")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// CreateBanner handles POST /api/v1/admin/banners.
func (h *bannersHandler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	var input content.CreateBannerInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if input.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "title is required")
		return
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "ends_at must be after starts_at")
		return
	}

	b, err := h.store.CreateBanner(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create banner")
		return
	}

	h.audit.record(r, "create", "banner", b.ID, b.Title)
	writeJSON(w, http.StatusCreated, b)
}

// UpdateBanner handles PUT /api/v1/admin/banners/{id}.
func (h *bannersHandler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input content.UpdateBannerInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "ends_at must be after starts_at")
		return
	}

	b, err := h.store.UpdateBanner(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "banner not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update banner")
		return
	}

	h.audit.record(r, "update", "banner", id, "")
	writeJSON(w, http.StatusOK, b)
}

// DeleteBanner handles DELETE /api/v1/admin/banners/{id}.
func (h *bannersHandler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteBanner(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "banner not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete banner")
		return
	}

	h.audit.record(r, "delete", "banner", id, "")
	w.WriteHeader(http.StatusNoContent)
}
