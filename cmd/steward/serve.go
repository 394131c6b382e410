package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/stewardhq/steward/internal/affiliate"
	"github.com/stewardhq/steward/internal/api"
	"github.com/stewardhq/steward/internal/audit"
	"github.com/stewardhq/steward/internal/catalog"
	"github.com/stewardhq/steward/internal/config"
	"github.com/stewardhq/steward/internal/content"
	"github.com/stewardhq/steward/internal/crypto"
	"github.com/stewardhq/steward/internal/metrics"
	"github.com/stewardhq/steward/internal/onboarding"
	"github.com/stewardhq/steward/internal/ratelimit"
	"github.com/stewardhq/steward/internal/storage"
	"github.com/stewardhq/steward/internal/ui"
	"github.com/stewardhq/steward/internal/user"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Steward admin server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	var cipher *crypto.Cipher
	if cfg.Auth.PayoutKey != "" {
		cipher, err = crypto.NewCipher(cfg.Auth.PayoutKey)
		if err != nil {
			return err
		}
	}

	userStore := user.NewStore(pool, cfg.Auth.SessionTTL)
	contentStore := content.NewStore(pool)
	catalogStore := catalog.NewStore(pool)
	affiliateStore := affiliate.NewStore(pool, cipher)
	auditStore := audit.NewStore(pool)
	codeStore := onboarding.NewStore(pool)

	m := metrics.New()
	m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
		stat := pool.Stat()
		return stat.TotalConns(), stat.IdleConns(), stat.AcquiredConns()
	})

	collector := audit.NewCollector(auditStore, cfg.Audit.BatchSize, cfg.Audit.FlushInterval)
	go collector.Start(ctx)
	go trackAuditBuffer(ctx, collector, m)

	var sender onboarding.Sender = &onboarding.LogSender{}
	if cfg.Onboarding.SMTPAddr != "" {
		sender = &onboarding.SMTPSender{Addr: cfg.Onboarding.SMTPAddr, From: cfg.Onboarding.SMTPFrom}
	}
	tokens := onboarding.NewTokenIssuer(cfg.Onboarding.SetupTokenSecret, cfg.Onboarding.SetupTokenTTL)
	onboardingService := onboarding.NewService(userStore, codeStore, sender, tokens,
		cfg.Onboarding.CodeTTL, cfg.Onboarding.ResendCooldown)

	var uploader *storage.Uploader
	if cfg.Storage.Bucket != "" {
		uploader, err = storage.NewUploader(ctx, storage.Options{
			Bucket:   cfg.Storage.Bucket,
			Region:   cfg.Storage.Region,
			Endpoint: cfg.Storage.Endpoint,
			BaseURL:  cfg.Storage.BaseURL,
		})
		if err != nil {
			return err
		}
	}

	loginLimiter := ratelimit.New(cfg.RateLimit.Login, cfg.RateLimit.LoginWindow)

	router := api.NewRouter(api.RouterDeps{
		UserStore:      userStore,
		ContentStore:   contentStore,
		CatalogStore:   catalogStore,
		AffiliateStore: affiliateStore,
		AuditStore:     auditStore,
		AuditCollector: collector,
		Onboarding:     onboardingService,
		Sessions:       user.NewAuthAdapter(userStore),
		Uploader:       uploader,
		Metrics:        m,
		LoginLimiter:   loginLimiter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		UI:             ui.Handler(),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	collector.Stop()

	return srv.Shutdown(shutdownCtx)
}

// trackAuditBuffer mirrors the collector's buffer depth into the gauge.
func trackAuditBuffer(ctx context.Context, c *audit.Collector, m *metrics.Metrics) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.AuditBufferSize.Set(float64(c.Pending()))
		}
	}
}
