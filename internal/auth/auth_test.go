package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// --- mock session lookup ---

type mockSessions struct {
	users map[string]*User
}

func (m *mockSessions) LookupSession(_ context.Context, token string) (*User, error) {
	u, ok := m.users[token]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func sessionsWith(token string, u *User) *mockSessions {
	return &mockSessions{users: map[string]*User{token: u}}
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func do(t *testing.T, mw func(http.Handler) http.Handler, token string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	called := false
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mw(okHandler(&called)).ServeHTTP(rec, req)
	return rec, called
}

// --- role helpers ---

func TestRoleHelpers(t *testing.T) {
	admin := &User{Role: "admin"}
	editor := &User{Role: "editor"}
	viewer := &User{Role: "viewer"}

	if !admin.IsAdmin() || editor.IsAdmin() || viewer.IsAdmin() {
		t.Error("IsAdmin should hold for admin only")
	}
	if !admin.CanEdit() || !editor.CanEdit() {
		t.Error("admin and editor should be able to edit")
	}
	if viewer.CanEdit() {
		t.Error("viewer should not be able to edit")
	}
}

// --- middleware ---

func TestSessionMiddleware_ValidToken(t *testing.T) {
	sessions := sessionsWith("tok", &User{ID: "u1", Email: "a@b.c", Role: "viewer"})

	var seen *User
	handler := SessionMiddleware(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == nil || seen.ID != "u1" {
		t.Fatalf("expected user u1 in context, got %+v", seen)
	}
}

func TestSessionMiddleware_MissingHeader(t *testing.T) {
	rec, called := do(t, SessionMiddleware(&mockSessions{}), "")
	if called {
		t.Fatal("handler should not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body.Error.Code != "unauthorized" {
		t.Errorf("expected code unauthorized, got %q", body.Error.Code)
	}
}

func TestSessionMiddleware_InvalidToken(t *testing.T) {
	rec, called := do(t, SessionMiddleware(&mockSessions{}), "bogus")
	if called {
		t.Fatal("handler should not run with an unknown token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminMiddleware_RejectsNonAdmin(t *testing.T) {
	sessions := sessionsWith("tok", &User{ID: "u1", Role: "editor"})
	rec, called := do(t, AdminMiddleware(sessions), "tok")
	if called {
		t.Fatal("handler should not run for non-admin")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminMiddleware_AllowsAdmin(t *testing.T) {
	sessions := sessionsWith("tok", &User{ID: "u1", Role: "admin"})
	rec, called := do(t, AdminMiddleware(sessions), "tok")
	if !called {
		t.Fatal("handler should run for admin")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEditorMiddleware(t *testing.T) {
	for role, want := range map[string]bool{"admin": true, "editor": true, "viewer": false} {
		sessions := sessionsWith("tok", &User{ID: "u1", Role: role})
		_, called := do(t, EditorMiddleware(sessions), "tok")
		if called != want {
			t.Errorf("role %s: handler called=%v, want %v", role, called, want)
		}
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Basic abc123", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := ExtractBearerToken(req); got != tc.want {
			t.Errorf("header %q: got %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	if u := UserFromContext(context.Background()); u != nil {
		t.Fatalf("expected nil user, got %+v", u)
	}
}
