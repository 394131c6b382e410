package api

import (
	"log/slog"
	"net/http"

	"github.com/stewardhq/steward/internal/audit"
	"github.com/stewardhq/steward/internal/auth"
	"github.com/stewardhq/steward/internal/metrics"
	"github.com/stewardhq/steward/internal/ratelimit"
)

// recorder emits audit entries both to the structured log and, when a
// collector is wired, to the persistent audit trail shown in the dashboard.
type recorder struct {
	collector *audit.Collector
	metrics   *metrics.Metrics
}

// record captures one admin action. detail is a short human-readable note.
func (rec *recorder) record(r *http.Request, action, entityType, entityID, detail string) {
	attrs := []any{
		"action", action,
		"entity_type", entityType,
		"entity_id", entityID,
		"ip", ratelimit.ClientIP(r),
		"request_id", RequestIDFromContext(r.Context()),
	}

	e := audit.Event{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if u := auth.UserFromContext(r.Context()); u != nil {
		attrs = append(attrs, "user_id", u.ID, "user_email", u.Email)
		e.ActorID = u.ID
		e.ActorEmail = u.Email
	}
	if detail != "" {
		attrs = append(attrs, "detail", detail)
	}

	slog.Info("audit", attrs...)
	rec.metrics.AuditEventsTotal.Inc()
	if rec.collector != nil {
		rec.collector.Record(e)
	}
}
