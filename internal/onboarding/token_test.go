package onboarding

import (
	"testing"
	"time"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute)

	token, err := issuer.Issue("new@example.com", "editor")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Email != "new@example.com" {
		t.Errorf("expected email new@example.com, got %q", claims.Email)
	}
	if claims.Role != "editor" {
		t.Errorf("expected role editor, got %q", claims.Role)
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return base }

	token, err := issuer.Issue("new@example.com", "viewer")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	issuer.now = func() time.Time { return base.Add(31 * time.Minute) }
	if _, err := issuer.Parse(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute)
	other := NewTokenIssuer("other-secret", 30*time.Minute)

	token, err := issuer.Issue("new@example.com", "viewer")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute)
	if _, err := issuer.Parse("not-a-token"); err == nil {
		t.Fatal("expected malformed token to be rejected")
	}
}
