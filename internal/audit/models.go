package audit

import "time"

// Actions recorded in the audit log.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionInvite = "invite"
	ActionLogin  = "login"
)

// Event is a single audit log entry: who did what to which entity, and when.
// Detail carries a short human-readable description of the change.
type Event struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	ActorEmail string    `json:"actor_email"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Detail     string    `json:"detail,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Query filters audit events. Zero values mean "no filter". Cursor is an
// opaque pagination token returned by a previous List call.
type Query struct {
	ActorID    string
	Action     string
	EntityType string
	From       time.Time
	To         time.Time
	Limit      int
	Cursor     string
}
