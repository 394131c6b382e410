package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey int

const userContextKey contextKey = iota

// ContextWithUser returns a new context carrying the given user.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the user from the context, or nil if not present.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// SessionMiddleware validates the session token and injects the user into
// context. Any role is accepted.
func SessionMiddleware(sessions SessionLookup) func(http.Handler) http.Handler {
	return middleware(sessions, func(*User) string { return "" })
}

// AdminMiddleware validates the session token and requires the admin role.
func AdminMiddleware(sessions SessionLookup) func(http.Handler) http.Handler {
	return middleware(sessions, func(u *User) string {
		if !u.IsAdmin() {
			return "admin access required"
		}
		return ""
	})
}

// EditorMiddleware validates the session token and requires a role allowed to
// modify content (admin or editor).
func EditorMiddleware(sessions SessionLookup) func(http.Handler) http.Handler {
	return middleware(sessions, func(u *User) string {
		if !u.CanEdit() {
			return "editor access required"
		}
		return ""
	})
}

// middleware is the shared session-validation core. deny inspects the
// resolved user and returns a forbidden message, or "" to allow.
func middleware(sessions SessionLookup, deny func(*User) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r)
			if token == "" {
				writeUnauthorized(w, "missing or malformed authorization header")
				return
			}

			user, err := sessions.LookupSession(r.Context(), token)
			if err != nil || user == nil {
				writeUnauthorized(w, "invalid or expired session")
				return
			}
			if msg := deny(user); msg != "" {
				writeForbidden(w, msg)
				return
			}

			ctx := ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractBearerToken extracts the token from a Bearer Authorization header.
func ExtractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorBody{
			Code:    "unauthorized",
			Message: message,
		},
	})
}

func writeForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorBody{
			Code:    "forbidden",
			Message: message,
		},
	})
}
