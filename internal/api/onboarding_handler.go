package api

import (
	"errors"
	"net/http"

	"github.com/stewardhq/steward/internal/metrics"
	"github.com/stewardhq/steward/internal/onboarding"
)

// onboardingHandler groups the public invitation-flow endpoints: verify a
// code, resend one, and set the initial password.
type onboardingHandler struct {
	service *onboarding.Service
	metrics *metrics.Metrics
	audit   *recorder
}

func newOnboardingHandler(svc *onboarding.Service, m *metrics.Metrics, rec *recorder) *onboardingHandler {
	return &onboardingHandler{service: svc, metrics: m, audit: rec}
}

// Verify handles POST /api/v1/onboarding/verify.
func (h *onboardingHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email is required")
		return
	}

	v, err := h.service.Verify(r.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, onboarding.ErrInvalidCode):
			h.metrics.IncVerification("invalid")
			writeError(w, http.StatusUnauthorized, "invalid_code", "the code is incorrect")
		case errors.Is(err, onboarding.ErrCodeExpired):
			h.metrics.IncVerification("expired")
			writeError(w, http.StatusUnauthorized, "code_expired", "the code has expired, request a new one")
		case errors.Is(err, onboarding.ErrTooManyAttempts):
			h.metrics.IncVerification("locked")
			writeError(w, http.StatusTooManyRequests, "too_many_attempts", "too many failed attempts, request a new code")
		case errors.Is(err, onboarding.ErrUnknownEmail):
			h.metrics.IncVerification("invalid")
			writeError(w, http.StatusNotFound, "not_found", "no pending invitation for this email")
		case errors.Is(err, onboarding.ErrAlreadyActive):
			writeError(w, http.StatusConflict, "conflict", "this account is already active")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to verify code")
		}
		return
	}

	h.metrics.IncVerification("success")
	writeJSON(w, http.StatusOK, v)
}

// Resend handles POST /api/v1/onboarding/resend.
func (h *onboardingHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email is required")
		return
	}

	if err := h.service.Resend(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, onboarding.ErrCooldownActive):
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error": map[string]any{
					"code":          "cooldown_active",
					"message":       "a code was sent recently",
					"retry_seconds": h.service.ResendRemaining(req.Email),
				},
			})
		case errors.Is(err, onboarding.ErrUnknownEmail):
			writeError(w, http.StatusNotFound, "not_found", "no pending invitation for this email")
		case errors.Is(err, onboarding.ErrAlreadyActive):
			writeError(w, http.StatusConflict, "conflict", "this account is already active")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to resend code")
		}
		return
	}

	h.metrics.IncCodeSent("resend")
	writeJSON(w, http.StatusAccepted, map[string]any{
		"retry_seconds": h.service.ResendRemaining(req.Email),
	})
}

// CompletePassword handles POST /api/v1/onboarding/password.
func (h *onboardingHandler) CompletePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SetupToken      string `json:"setup_token"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.SetupToken == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "setup_token is required")
		return
	}

	u, err := h.service.CompletePassword(r.Context(), req.SetupToken, req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, onboarding.ErrPolicyUnmet):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error": map[string]any{
					"code":    "policy_unmet",
					"message": "password does not meet the policy",
				},
				"policy": onboarding.CheckPassword(req.Password, req.ConfirmPassword),
			})
		case errors.Is(err, onboarding.ErrNotVerified):
			writeError(w, http.StatusUnauthorized, "not_verified", "verify your email before setting a password")
		case errors.Is(err, onboarding.ErrAlreadyActive):
			writeError(w, http.StatusConflict, "conflict", "this account is already active")
		case errors.Is(err, onboarding.ErrUnknownEmail):
			writeError(w, http.StatusNotFound, "not_found", "no pending invitation for this email")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to activate account")
		}
		return
	}

	h.metrics.IncActivation()
	h.audit.record(r, "update", "user", u.ID, "account activated")
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     u.ID,
		"email":  u.Email,
		"status": u.Status,
	})
}

// CheckPassword handles POST /api/v1/onboarding/password/check: a dry run of
// the policy so the setup screen can show a live checklist.
func (h *onboardingHandler) CheckPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	check := onboarding.CheckPassword(req.Password, req.ConfirmPassword)
	writeJSON(w, http.StatusOK, map[string]any{
		"policy": check,
		"ok":     check.OK(),
	})
}

// State handles GET /api/v1/onboarding/state.
func (h *onboardingHandler) State(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email is required")
		return
	}

	state, err := h.service.StateOf(r.Context(), email)
	if err != nil {
		if errors.Is(err, onboarding.ErrUnknownEmail) {
			writeError(w, http.StatusNotFound, "not_found", "no pending invitation for this email")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to derive onboarding state")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"email":         email,
		"state":         state,
		"retry_seconds": h.service.ResendRemaining(email),
	})
}
