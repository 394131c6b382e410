package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stewardhq/steward/internal/affiliate"
	"github.com/stewardhq/steward/internal/audit"
	"github.com/stewardhq/steward/internal/auth"
	"github.com/stewardhq/steward/internal/catalog"
	"github.com/stewardhq/steward/internal/content"
	"github.com/stewardhq/steward/internal/metrics"
	"github.com/stewardhq/steward/internal/onboarding"
	"github.com/stewardhq/steward/internal/ratelimit"
	"github.com/stewardhq/steward/internal/storage"
	"github.com/stewardhq/steward/internal/user"
)

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	UserStore      *user.Store
	ContentStore   *content.Store
	CatalogStore   *catalog.Store
	AffiliateStore *affiliate.Store
	AuditStore     *audit.Store
	AuditCollector *audit.Collector
	Onboarding     *onboarding.Service
	Sessions       auth.SessionLookup
	Uploader       *storage.Uploader
	Metrics        *metrics.Metrics
	LoginLimiter   *ratelimit.Limiter
	AllowedOrigins []string
	UI             http.Handler
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(slogRequestLogger)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(metricsMiddleware(deps.Metrics))

	// Handlers.
	rec := &recorder{collector: deps.AuditCollector, metrics: deps.Metrics}
	authH := newAuthHandler(deps.UserStore, deps.Metrics)
	usersH := newUsersHandler(deps.UserStore, deps.Onboarding, deps.Metrics, rec)
	onboardH := newOnboardingHandler(deps.Onboarding, deps.Metrics, rec)
	postsH := newPostsHandler(deps.ContentStore, rec)
	bannersH := newBannersHandler(deps.ContentStore, rec)
	brokersH := newBrokersHandler(deps.CatalogStore, rec)
	productsH := newProductsHandler(deps.CatalogStore, rec)
	affiliatesH := newAffiliatesHandler(deps.AffiliateStore, rec)
	auditH := newAuditHandler(deps.AuditStore)
	uploadsH := newUploadsHandler(deps.Uploader, deps.Metrics, rec)

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Prometheus scrape endpoint on the private registry.
	r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{}))

	// Public (unauthenticated) routes.
	r.Route("/api/v1", func(pr chi.Router) {
		loginLimit := ratelimit.Middleware(deps.LoginLimiter, func() {
			deps.Metrics.IncRateLimitRejection("login")
		})
		pr.With(loginLimit).Post("/auth/login", authH.Login)

		pr.Post("/onboarding/verify", onboardH.Verify)
		pr.Post("/onboarding/resend", onboardH.Resend)
		pr.Post("/onboarding/password", onboardH.CompletePassword)
		pr.Post("/onboarding/password/check", onboardH.CheckPassword)
		pr.Get("/onboarding/state", onboardH.State)
	})

	// Session-authed routes.
	r.Route("/api/v1/auth", func(ar chi.Router) {
		ar.Use(auth.SessionMiddleware(deps.Sessions))

		ar.Get("/me", authH.Me)
		ar.Post("/logout", authH.Logout)
	})
	r.With(auth.SessionMiddleware(deps.Sessions)).Put("/api/v1/users/me", usersH.UpdateSelf)

	// Editor routes: content and catalog management.
	r.Route("/api/v1/admin", func(er chi.Router) {
		er.Use(auth.EditorMiddleware(deps.Sessions))

		er.Get("/posts", postsH.ListPosts)
		er.Post("/posts", postsH.CreatePost)
		er.Get("/posts/{id}", postsH.GetPost)
		er.Put("/posts/{id}", postsH.UpdatePost)
		er.Delete("/posts/{id}", postsH.DeletePost)

		er.Get("/banners", bannersH.ListBanners)
		er.Post("/banners", bannersH.CreateBanner)
		er.Get("/banners/{id}", bannersH.GetBanner)
		er.Put("/banners/{id}", bannersH.UpdateBanner)
		er.Delete("/banners/{id}", bannersH.DeleteBanner)

		er.Get("/brokers", brokersH.ListBrokers)
		er.Post("/brokers", brokersH.CreateBroker)
		er.Get("/brokers/{id}", brokersH.GetBroker)
		er.Put("/brokers/{id}", brokersH.UpdateBroker)
		er.Delete("/brokers/{id}", brokersH.DeleteBroker)

		er.Get("/products", productsH.ListProducts)
		er.Post("/products", productsH.CreateProduct)
		er.Get("/products/{id}", productsH.GetProduct)
		er.Put("/products/{id}", productsH.UpdateProduct)
		er.Delete("/products/{id}", productsH.DeleteProduct)

		er.Post("/uploads", uploadsH.Upload)

		// Admin-only management.
		er.Group(func(adr chi.Router) {
			adr.Use(auth.AdminMiddleware(deps.Sessions))

			adr.Get("/users", usersH.ListUsers)
			adr.Post("/users", usersH.CreateUser)
			adr.Post("/users/invitations", usersH.InviteUser)
			adr.Put("/users/{id}", usersH.UpdateUser)
			adr.Delete("/users/{id}", usersH.DeleteUser)

			adr.Get("/affiliates", affiliatesH.ListAffiliates)
			adr.Post("/affiliates", affiliatesH.CreateAffiliate)
			adr.Get("/affiliates/{id}", affiliatesH.GetAffiliate)
			adr.Put("/affiliates/{id}", affiliatesH.UpdateAffiliate)
			adr.Delete("/affiliates/{id}", affiliatesH.DeleteAffiliate)

			adr.Get("/audit", auditH.ListEvents)
			adr.Get("/audit/counts", auditH.ActionCounts)

			adr.Get("/metrics/summary", deps.Metrics.Handler())
		})
	})

	// Admin UI.
	if deps.UI != nil {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			deps.UI.ServeHTTP(w, req)
		})
	}

	return r
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}
