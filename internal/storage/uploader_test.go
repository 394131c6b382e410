package storage

import (
	"strings"
	"testing"
	"time"
)

func TestAllowedType(t *testing.T) {
	for _, ct := range []string{"image/png", "image/jpeg", "image/gif", "image/webp"} {
		if !AllowedType(ct) {
			t.Errorf("expected %s to be allowed", ct)
		}
	}
	for _, ct := range []string{"image/svg+xml", "application/pdf", "text/html", ""} {
		if AllowedType(ct) {
			t.Errorf("expected %s to be rejected", ct)
		}
	}
}

func TestKeyFor(t *testing.T) {
	u := &Uploader{now: func() time.Time {
		return time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	}}

	key := u.keyFor("png")

	if !strings.HasPrefix(key, "uploads/2025/03/") {
		t.Errorf("expected year/month prefix, got %q", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("expected .png suffix, got %q", key)
	}
	if key == u.keyFor("png") {
		t.Error("expected distinct keys per call")
	}
}
