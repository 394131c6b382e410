package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/stewardhq/steward/internal/catalog"
	"github.com/stewardhq/steward/internal/tabular"
)

// brokersHandler groups broker HTTP handlers.
type brokersHandler struct {
	store *catalog.Store
	audit *recorder
}

func newBrokersHandler(store *catalog.Store, rec *recorder) *brokersHandler {
	return &brokersHandler{store: store, audit: rec}
}

func brokerTableConfig() tabular.Config[*catalog.Broker] {
	return tabular.Config[*catalog.Broker]{
		Fields: map[string]tabular.FieldFunc[*catalog.Broker]{
			"name":        func(b *catalog.Broker) any { return b.Name },
			"rating":      func(b *catalog.Broker) any { return b.Rating },
			"regulation":  func(b *catalog.Broker) any { return b.Regulation },
			"min_deposit": func(b *catalog.Broker) any { return b.MinDeposit },
			"featured":    func(b *catalog.Broker) any { return b.Featured },
			"created_at":  func(b *catalog.Broker) any { return b.CreatedAt },
		},
		SearchFields: []string{"name", "regulation"},
		FilterFields: []tabular.FilterField{
			{Key: "regulation", Type: tabular.FilterSelect},
			{Key: "featured", Type: tabular.FilterBoolean},
			{Key: "rating", Type: tabular.FilterNumber},
		},
		SortableFields:      []string{"name", "rating", "min_deposit", "created_at"},
		DefaultSort:         &tabular.Sort{Field: "rating", Direction: tabular.Desc},
		DefaultItemsPerPage: 20,
	}
}

// ListBrokers handles GET /api/v1/admin/brokers.
func (h *brokersHandler) ListBrokers(w http.ResponseWriter, r *http.Request) {
	brokers, err := h.store.ListBrokers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list brokers")
		return
	}

	resp, err := tableView(r, brokerTableConfig(), brokers)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBroker handles GET /api/v1/admin/brokers/{id}.
func (h *brokersHandler) GetBroker(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, err := h.store.GetBroker(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "broker not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get broker")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// CreateBroker handles POST /api/v1/admin/brokers.
func (h *brokersHandler) CreateBroker(w http.ResponseWriter, r *http.Request) {
	var input catalog.CreateBrokerInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if input.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}
	if input.Rating < 0 || input.Rating > 5 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "rating must be between 0 and 5")
		return
	}

	b, err := h.store.CreateBroker(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create broker")
		return
	}

	h.audit.record(r, "create", "broker", b.ID, b.Name)
	writeJSON(w, http.StatusCreated, b)
}

// UpdateBroker handles PUT /api/v1/admin/brokers/{id}.
func (h *brokersHandler) UpdateBroker(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input catalog.UpdateBrokerInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if input.Rating != nil && (*input.Rating < 0 || *input.Rating > 5) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "rating must be between 0 and 5")
		return
	}

	b, err := h.store.UpdateBroker(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "broker not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update broker")
		return
	}

	h.audit.record(r, "update", "broker", id, "")
	writeJSON(w, http.StatusOK, b)
}

// DeleteBroker handles DELETE /api/v1/admin/brokers/{id}.
func (h *brokersHandler) DeleteBroker(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteBroker(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "broker not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete broker")
		return
	}

	h.audit.record(r, "delete", "broker", id, "")
	w.WriteHeader(http.StatusNoContent)
}
