package auth

import (
	"context"
)

// User represents an authenticated dashboard user.
type User struct {
	ID       string
	Email    string
	FullName string
	Role     string // "admin", "editor", or "viewer"
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// CanEdit returns true if the user may create or modify content entities.
func (u *User) CanEdit() bool {
	return u.Role == "admin" || u.Role == "editor"
}

// SessionLookup is the interface for resolving session tokens to users.
type SessionLookup interface {
	LookupSession(ctx context.Context, token string) (*User, error)
}
