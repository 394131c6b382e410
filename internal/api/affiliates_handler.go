package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/stewardhq/steward/internal/affiliate"
	"github.com/stewardhq/steward/internal/tabular"
)

// affiliatesHandler groups affiliate HTTP handlers.
type affiliatesHandler struct {
	store *affiliate.Store
	audit *recorder
}

func newAffiliatesHandler(store *affiliate.Store, rec *recorder) *affiliatesHandler {
	return &affiliatesHandler{store: store, audit: rec}
}

func affiliateTableConfig() tabular.Config[*affiliate.Affiliate] {
	return tabular.Config[*affiliate.Affiliate]{
		Fields: map[string]tabular.FieldFunc[*affiliate.Affiliate]{
			"name":            func(a *affiliate.Affiliate) any { return a.Name },
			"email":           func(a *affiliate.Affiliate) any { return a.Email },
			"referral_code":   func(a *affiliate.Affiliate) any { return a.ReferralCode },
			"commission_rate": func(a *affiliate.Affiliate) any { return a.CommissionRate },
			"active":          func(a *affiliate.Affiliate) any { return a.Active },
			"created_at":      func(a *affiliate.Affiliate) any { return a.CreatedAt },
		},
		SearchFields: []string{"name", "email", "referral_code"},
		FilterFields: []tabular.FilterField{
			{Key: "active", Type: tabular.FilterBoolean},
		},
		SortableFields:      []string{"name", "email", "commission_rate", "created_at"},
		DefaultSort:         &tabular.Sort{Field: "created_at", Direction: tabular.Desc},
		DefaultItemsPerPage: 20,
	}
}

// ListAffiliates handles GET /api/v1/admin/affiliates.
func (h *affiliatesHandler) ListAffiliates(w http.ResponseWriter, r *http.Request) {
	affiliates, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list affiliates")
		return
	}

	resp, err := tableView(r, affiliateTableConfig(), affiliates)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAffiliate handles GET /api/v1/admin/affiliates/{id}.
func (h *affiliatesHandler) GetAffiliate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "affiliate not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get affiliate")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// CreateAffiliate handles POST /api/v1/admin/affiliates.
func (h *affiliatesHandler) CreateAffiliate(w http.ResponseWriter, r *http.Request) {
	var input affiliate.CreateAffiliateInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if input.Name == "" || input.Email == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name and email are required")
		return
	}
	if input.CommissionRate < 0 || input.CommissionRate > 1 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "commission_rate must be between 0 and 1")
		return
	}

	a, err := h.store.Create(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create affiliate")
		return
	}

	h.audit.record(r, "create", "affiliate", a.ID, a.Name)
	writeJSON(w, http.StatusCreated, a)
}

// UpdateAffiliate handles PUT /api/v1/admin/affiliates/{id}.
func (h *affiliatesHandler) UpdateAffiliate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input affiliate.UpdateAffiliateInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if input.CommissionRate != nil && (*input.CommissionRate < 0 || *input.CommissionRate > 1) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "commission_rate must be between 0 and 1")
		return
	}

	a, err := h.store.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "affiliate not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update affiliate")
		return
	}

	h.audit.record(r, "update", "affiliate", id, "")
	writeJSON(w, http.StatusOK, a)
}

// DeleteAffiliate handles DELETE /api/v1/admin/affiliates/{id}.
func (h *affiliatesHandler) DeleteAffiliate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "affiliate not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete affiliate")
		return
	}

	h.audit.record(r, "delete", "affiliate", id, "")
	w.WriteHeader(http.StatusNoContent)
}
