package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/diagnosis/founder-playbook/internal/http/handlers"
	"github.com/diagnosis/founder-playbook/internal/http/middleware"
	"github.com/diagnosis/founder-playbook/internal/http/response"
	"github.com/diagnosis/founder-playbook/internal/http/router"
	"github.com/diagnosis/founder-playbook/internal/platform/auth"
	"github.com/diagnosis/founder-playbook/internal/platform/mailer"
	"github.com/diagnosis/founder-playbook/internal/platform/session"
	"github.com/diagnosis/founder-playbook/internal/repo/postgres"
	"github.com/diagnosis/founder-playbook/internal/service"
	"github.com/diagnosis/founder-playbook/pkg/config"
	"github.com/diagnosis/founder-playbook/pkg/database"
	"github.com/diagnosis/founder-playbook/pkg/events"
	"github.com/diagnosis/founder-playbook/pkg/logger"
	"github.com/diagnosis/founder-playbook/pkg/metrics"
	"github.com/diagnosis/founder-playbook/pkg/telemetry"
)

const serviceName = "founder-playbook-api"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	if cfg.IsProduction() && os.Getenv("SESSION_SECRET") == "" {
		logger.Error("SESSION_SECRET must be set in production")
		os.Exit(1)
	}
	response.ExposeDetails = cfg.Env == "development"

	shutdownTracing := telemetry.Setup(ctx, serviceName)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("Tracer shutdown error", "error", err)
		}
	}()

	// Connect to database
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Error("Failed to apply migrations", "error", err)
		os.Exit(1)
	}

	// Connect to session store
	rdb, err := session.Connect(ctx, cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Connect to event bus
	var bus events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		nb, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		bus = nb
	}
	defer bus.Close()

	var mail mailer.Service = mailer.NewDevMailer()
	if ms := mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail); ms.Enabled {
		mail = ms
	}

	admin, err := auth.NewAdminSecret(cfg.Auth.AdminPassword, cfg.Auth.AdminPasswordHash)
	if err != nil {
		logger.Error("Invalid ADMIN_PASSWORD_HASH", "error", err)
		os.Exit(1)
	}
	if !admin.Configured() {
		logger.Warn("ADMIN_PASSWORD is not set; admin login is disabled")
	}

	m := metrics.New()

	// Initialize repositories
	timeout := cfg.Database.StoreTimeout
	codeRepo := postgres.NewAccessCodeRepo(pool, timeout)
	logRepo := postgres.NewAccessLogRepo(pool, timeout)
	providerRepo := postgres.NewProviderRepo(pool, timeout)
	categoryRepo := postgres.NewCategoryRepo(pool, timeout)
	sectionRepo := postgres.NewSectionRepo(pool, timeout)
	checklistRepo := postgres.NewChecklistRepo(pool, timeout)
	progressRepo := postgres.NewProgressRepo(pool, timeout)
	rateLimitRepo := postgres.NewRateLimitRepo(pool, timeout)
	sessions := session.NewRedisStore(rdb, timeout)

	if n, err := rateLimitRepo.CleanupExpired(ctx); err != nil {
		logger.Warn("Rate limit cleanup failed", "error", err)
	} else if n > 0 {
		logger.Info("Removed expired rate limit windows", "count", n)
	}

	// Initialize services
	gate := service.NewGateService(codeRepo, logRepo, sessions, admin, bus, m,
		service.GateConfig{SessionTTL: cfg.Auth.SessionTTL})
	directory := service.NewDirectoryService(providerRepo, categoryRepo, bus)
	content := service.NewContentService(sectionRepo, checklistRepo, progressRepo, bus)
	adminSvc := service.NewAdminService(codeRepo, logRepo, providerRepo, categoryRepo, mail, bus, cfg.Email.PortalURL)

	cookies := session.Cookies{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.IsProduction(),
		Codec:  auth.NewTokenCodec(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL),
	}

	// Setup router
	var handler http.Handler = router.New(router.Config{
		ServiceName:    serviceName,
		AllowedOrigins: cfg.AllowedOrigins(),
		TrustProxy:     cfg.Server.TrustProxy,
		Handlers:       handlers.New(gate, directory, content, adminSvc, cookies, cfg.Auth.AdminSessionTTL),
		Sessions: &middleware.Sessions{
			Store:       sessions,
			Cookies:     cookies,
			TTL:         cfg.Auth.SessionTTL,
			AdminWindow: cfg.Auth.AdminSessionTTL,
		},
		Metrics: m,
		GateLimiter: middleware.NewRateLimiter(rateLimitRepo, middleware.RateLimitConfig{
			Scope:    "gate",
			Requests: cfg.RateLimit.AccessAttempts,
			Window:   cfg.RateLimit.Window,
		}),
	})
	if telemetry.Enabled() {
		handler = otelhttp.NewHandler(handler, serviceName)
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API", "port", cfg.Server.Port, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}
