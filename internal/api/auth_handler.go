package api

import (
	"net/http"

	"github.com/stewardhq/steward/internal/auth"
	"github.com/stewardhq/steward/internal/metrics"
	"github.com/stewardhq/steward/internal/user"
)

// authHandler groups authentication HTTP handlers.
type authHandler struct {
	store   *user.Store
	metrics *metrics.Metrics
}

func newAuthHandler(store *user.Store, m *metrics.Metrics) *authHandler {
	return &authHandler{store: store, metrics: m}
}

// Login handles POST /api/v1/auth/login.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email and password are required")
		return
	}

	u, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil || !user.CheckPassword(u, req.Password) {
		h.metrics.IncAuthFailure("password")
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}
	if u.Status != user.StatusActive {
		h.metrics.IncAuthFailure("password")
		writeError(w, http.StatusUnauthorized, "unauthorized", "account is not active")
		return
	}

	token, _, err := h.store.CreateSession(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create session")
		return
	}

	h.metrics.IncAuthSuccess("password")
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":        u.ID,
			"email":     u.Email,
			"full_name": u.FullName,
			"role":      u.Role,
		},
	})
}

// Me handles GET /api/v1/auth/me.
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        u.ID,
		"email":     u.Email,
		"full_name": u.FullName,
		"role":      u.Role,
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.ExtractBearerToken(r)
	if token == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	_ = h.store.DeleteSession(r.Context(), token)
	w.WriteHeader(http.StatusNoContent)
}
