package onboarding

import "unicode"

// PasswordCheck holds the result of evaluating a candidate password against
// the account-setup policy. Each predicate is reported independently so the
// UI can display a live checklist.
type PasswordCheck struct {
	MinLength bool `json:"min_length"`
	Uppercase bool `json:"uppercase"`
	Lowercase bool `json:"lowercase"`
	Digit     bool `json:"digit"`
	Match     bool `json:"match"`
}

// OK reports whether every policy predicate holds.
func (c PasswordCheck) OK() bool {
	return c.MinLength && c.Uppercase && c.Lowercase && c.Digit && c.Match
}

// CheckPassword evaluates password against the setup policy: at least 8
// characters, one uppercase letter, one lowercase letter, one digit, and a
// non-empty confirmation that matches exactly.
func CheckPassword(password, confirm string) PasswordCheck {
	check := PasswordCheck{
		MinLength: len(password) >= 8,
		Match:     confirm != "" && password == confirm,
	}
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			check.Uppercase = true
		case unicode.IsLower(r):
			check.Lowercase = true
		case unicode.IsDigit(r):
			check.Digit = true
		}
	}
	return check
}
