package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/stewardhq/steward/internal/audit"
)

// auditHandler serves the audit-log view of the dashboard.
type auditHandler struct {
	store *audit.Store
}

func newAuditHandler(store *audit.Store) *auditHandler {
	return &auditHandler{store: store}
}

// ListEvents handles GET /api/v1/admin/audit. Events are filtered server-side
// and paged by cursor; the log can grow far past what a client-side table
// should hold.
func (h *auditHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	query := audit.Query{
		ActorID:    r.URL.Query().Get("actor_id"),
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entity_type"),
		Cursor:     r.URL.Query().Get("cursor"),
	}

	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_query", "from must be an RFC 3339 timestamp")
			return
		}
		query.From = t
	}
	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_query", "to must be an RFC 3339 timestamp")
			return
		}
		query.To = t
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_query", "limit must be a positive integer")
			return
		}
		query.Limit = n
	}

	events, nextCursor, err := h.store.List(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "failed to list audit events")
		return
	}
	if events == nil {
		events = []*audit.Event{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events":      events,
		"next_cursor": nextCursor,
	})
}

// ActionCounts handles GET /api/v1/admin/audit/counts.
func (h *auditHandler) ActionCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.CountsByAction(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to count audit events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"counts": counts})
}
