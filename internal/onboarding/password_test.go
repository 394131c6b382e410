package onboarding

import "testing"

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		want     PasswordCheck
	}{
		{
			name:     "all predicates hold",
			password: "Sterling7",
			confirm:  "Sterling7",
			want:     PasswordCheck{MinLength: true, Uppercase: true, Lowercase: true, Digit: true, Match: true},
		},
		{
			name:     "too short",
			password: "Ab1",
			confirm:  "Ab1",
			want:     PasswordCheck{Uppercase: true, Lowercase: true, Digit: true, Match: true},
		},
		{
			name:     "no uppercase",
			password: "sterling7",
			confirm:  "sterling7",
			want:     PasswordCheck{MinLength: true, Lowercase: true, Digit: true, Match: true},
		},
		{
			name:     "no lowercase",
			password: "STERLING7",
			confirm:  "STERLING7",
			want:     PasswordCheck{MinLength: true, Uppercase: true, Digit: true, Match: true},
		},
		{
			name:     "no digit",
			password: "Sterlings",
			confirm:  "Sterlings",
			want:     PasswordCheck{MinLength: true, Uppercase: true, Lowercase: true, Match: true},
		},
		{
			name:     "confirmation mismatch",
			password: "Sterling7",
			confirm:  "Sterling8",
			want:     PasswordCheck{MinLength: true, Uppercase: true, Lowercase: true, Digit: true},
		},
		{
			name:     "empty confirmation never matches",
			password: "",
			confirm:  "",
			want:     PasswordCheck{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckPassword(tt.password, tt.confirm)
			if got != tt.want {
				t.Errorf("CheckPassword(%q, %q) = %+v, want %+v", tt.password, tt.confirm, got, tt.want)
			}
		})
	}
}

func TestPasswordCheck_OKRequiresAllPredicates(t *testing.T) {
	if !CheckPassword("Sterling7", "Sterling7").OK() {
		t.Fatal("expected OK for a conforming password")
	}

	// Toggling any single predicate false disables OK.
	failing := []struct {
		name     string
		password string
		confirm  string
	}{
		{"short", "Ab1Ab1", "Ab1Ab1"},
		{"no upper", "sterling7", "sterling7"},
		{"no lower", "STERLING7", "STERLING7"},
		{"no digit", "Sterlings", "Sterlings"},
		{"mismatch", "Sterling7", "sterling7"},
	}
	for _, tt := range failing {
		t.Run(tt.name, func(t *testing.T) {
			if CheckPassword(tt.password, tt.confirm).OK() {
				t.Errorf("expected OK=false for %q / %q", tt.password, tt.confirm)
			}
		})
	}
}
