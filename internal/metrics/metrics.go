package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the Steward dashboard
// backend.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Auth metrics.
	AuthFailuresTotal  *prometheus.CounterVec
	AuthSuccessesTotal *prometheus.CounterVec

	// Rate limiting.
	RateLimitRejectionsTotal *prometheus.CounterVec

	// Onboarding flow metrics.
	OnboardingCodesSentTotal     *prometheus.CounterVec
	OnboardingVerificationsTotal *prometheus.CounterVec
	OnboardingActivationsTotal   prometheus.Counter

	// Audit collector metrics.
	AuditBufferSize  prometheus.Gauge
	AuditEventsTotal prometheus.Counter

	// Upload metrics.
	UploadsTotal *prometheus.CounterVec

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "steward_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "steward_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		HTTPResponseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "steward_http_response_size_bytes",
			Help:    "HTTP response size in bytes.",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"method", "path_pattern"}),

		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "steward_auth_failures_total",
			Help: "Total number of authentication failures.",
		}, []string{"auth_type"}),

		AuthSuccessesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "steward_auth_successes_total",
			Help: "Total number of successful authentications.",
		}, []string{"auth_type"}),

		RateLimitRejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "steward_ratelimit_rejections_total",
			Help: "Total number of rate limit rejections.",
		}, []string{"scope"}),

		OnboardingCodesSentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "steward_onboarding_codes_sent_total",
			Help: "Total number of one-time codes dispatched.",
		}, []string{"reason"}),

		OnboardingVerificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "steward_onboarding_verifications_total",
			Help: "Total number of code verification attempts by result.",
		}, []string{"result"}),

		OnboardingActivationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "steward_onboarding_activations_total",
			Help: "Total number of accounts activated through onboarding.",
		}),

		AuditBufferSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "steward_audit_buffer_size",
			Help: "Current number of buffered audit events.",
		}),

		AuditEventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "steward_audit_events_total",
			Help: "Total number of audit events recorded.",
		}),

		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "steward_uploads_total",
			Help: "Total number of editor image uploads by result.",
		}, []string{"result"}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "steward_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.AuthFailuresTotal,
		m.AuthSuccessesTotal,
		m.RateLimitRejectionsTotal,
		m.OnboardingCodesSentTotal,
		m.OnboardingVerificationsTotal,
		m.OnboardingActivationsTotal,
		m.AuditBufferSize,
		m.AuditEventsTotal,
		m.UploadsTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// IncAuthFailure increments the auth failure counter for the given auth type.
func (m *Metrics) IncAuthFailure(authType string) {
	m.AuthFailuresTotal.WithLabelValues(authType).Inc()
}

// IncAuthSuccess increments the auth success counter for the given auth type.
func (m *Metrics) IncAuthSuccess(authType string) {
	m.AuthSuccessesTotal.WithLabelValues(authType).Inc()
}

// IncRateLimitRejection increments the rate limit rejection counter.
func (m *Metrics) IncRateLimitRejection(scope string) {
	m.RateLimitRejectionsTotal.WithLabelValues(scope).Inc()
}

// IncCodeSent increments the dispatched-code counter. reason is "invite" or
// "resend".
func (m *Metrics) IncCodeSent(reason string) {
	m.OnboardingCodesSentTotal.WithLabelValues(reason).Inc()
}

// IncVerification increments the verification counter. result is "success",
// "invalid", "expired", or "locked".
func (m *Metrics) IncVerification(result string) {
	m.OnboardingVerificationsTotal.WithLabelValues(result).Inc()
}

// IncActivation increments the activated-accounts counter.
func (m *Metrics) IncActivation() {
	m.OnboardingActivationsTotal.Inc()
}

// IncUpload increments the upload counter. result is "success" or "rejected".
func (m *Metrics) IncUpload(result string) {
	m.UploadsTotal.WithLabelValues(result).Inc()
}
