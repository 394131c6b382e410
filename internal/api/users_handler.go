package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/stewardhq/steward/internal/auth"
	"github.com/stewardhq/steward/internal/metrics"
	"github.com/stewardhq/steward/internal/onboarding"
	"github.com/stewardhq/steward/internal/tabular"
	"github.com/stewardhq/steward/internal/user"
)

// usersHandler groups user management HTTP handlers (admin only).
type usersHandler struct {
	store      *user.Store
	onboarding *onboarding.Service
	metrics    *metrics.Metrics
	audit      *recorder
}

func newUsersHandler(store *user.Store, ob *onboarding.Service, m *metrics.Metrics, rec *recorder) *usersHandler {
	return &usersHandler{store: store, onboarding: ob, metrics: m, audit: rec}
}

func userTableConfig() tabular.Config[*user.User] {
	return tabular.Config[*user.User]{
		Fields: map[string]tabular.FieldFunc[*user.User]{
			"email":      func(u *user.User) any { return u.Email },
			"full_name":  func(u *user.User) any { return u.FullName },
			"role":       func(u *user.User) any { return u.Role },
			"status":     func(u *user.User) any { return u.Status },
			"created_at": func(u *user.User) any { return u.CreatedAt },
		},
		SearchFields: []string{"email", "full_name"},
		FilterFields: []tabular.FilterField{
			{Key: "role", Type: tabular.FilterSelect},
			{Key: "status", Type: tabular.FilterSelect},
		},
		SortableFields:      []string{"email", "full_name", "role", "status", "created_at"},
		DefaultSort:         &tabular.Sort{Field: "created_at", Direction: tabular.Desc},
		DefaultItemsPerPage: 20,
	}
}

// ListUsers handles GET /api/v1/admin/users.
func (h *usersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list users")
		return
	}

	resp, err := tableView(r, userTableConfig(), users)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateUser handles POST /api/v1/admin/users. It creates an already-active
// account; the invitation flow is the usual path for new users.
func (h *usersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "password is required")
		return
	}
	if req.Role != "" && !user.ValidRole(req.Role) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "role must be admin, editor, or viewer")
		return
	}

	u, err := h.store.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create user")
		return
	}

	h.audit.record(r, "create", "user", u.ID, "email "+u.Email)
	writeJSON(w, http.StatusCreated, u)
}

// InviteUser handles POST /api/v1/admin/users/invitations. It creates an
// invited account and dispatches the first one-time code.
func (h *usersHandler) InviteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email is required")
		return
	}
	if !user.ValidRole(req.Role) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "role must be admin, editor, or viewer")
		return
	}

	in := user.InviteUserInput{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
	}
	if caller := auth.UserFromContext(r.Context()); caller != nil {
		in.InvitedBy = caller.ID
	}

	u, err := h.onboarding.Invite(r.Context(), in)
	if err != nil {
		if errors.Is(err, onboarding.ErrAlreadyActive) {
			writeError(w, http.StatusConflict, "conflict", "an active account already exists for this email")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to send invitation")
		return
	}

	h.metrics.IncCodeSent("invite")
	h.audit.record(r, "invite", "user", u.ID, fmt.Sprintf("invited %s as %s", u.Email, u.Role))
	writeJSON(w, http.StatusCreated, u)
}

// UpdateUser handles PUT /api/v1/admin/users/{id}.
func (h *usersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_id", "user id is required")
		return
	}

	var input user.UpdateUserInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if input.Role != nil && !user.ValidRole(*input.Role) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "role must be admin, editor, or viewer")
		return
	}

	// Demoting the last admin would lock everyone out of user management.
	if input.Role != nil && *input.Role != user.RoleAdmin {
		lastAdmin, err := h.isLastAdmin(r, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to check admin constraint")
			return
		}
		if lastAdmin {
			writeError(w, http.StatusConflict, "constraint_error", "cannot demote the last admin")
			return
		}
	}

	u, err := h.store.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update user")
		return
	}

	h.audit.record(r, "update", "user", id, "")
	writeJSON(w, http.StatusOK, u)
}

// UpdateSelf handles PUT /api/v1/users/me — update own profile.
func (h *usersHandler) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	var req struct {
		FullName *string `json:"full_name"`
		Password *string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	input := user.UpdateUserInput{
		FullName: req.FullName,
		Password: req.Password,
	}

	u, err := h.store.Update(r.Context(), caller.ID, input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /api/v1/admin/users/{id}.
func (h *usersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_id", "user id is required")
		return
	}

	lastAdmin, err := h.isLastAdmin(r, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to check admin constraint")
		return
	}
	if lastAdmin {
		writeError(w, http.StatusConflict, "constraint_error", "cannot delete the last admin")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete user")
		return
	}

	h.audit.record(r, "delete", "user", id, "")
	w.WriteHeader(http.StatusNoContent)
}

// isLastAdmin reports whether the user with id is the only active admin.
func (h *usersHandler) isLastAdmin(r *http.Request, id string) (bool, error) {
	target, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		return false, err
	}
	if target.Role != user.RoleAdmin || target.Status != user.StatusActive {
		return false, nil
	}

	all, err := h.store.List(r.Context())
	if err != nil {
		return false, err
	}
	for _, u := range all {
		if u.ID != id && u.Role == user.RoleAdmin && u.Status == user.StatusActive {
			return false, nil
		}
	}
	return true, nil
}
