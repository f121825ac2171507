package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/lhweb/site-backend/internal/api/router"
	appconfig "github.com/lhweb/site-backend/internal/config"
	"github.com/lhweb/site-backend/internal/leads"
	"github.com/lhweb/site-backend/internal/notify"
	"github.com/lhweb/site-backend/internal/observability/metrics"
	"github.com/lhweb/site-backend/internal/ratelimit"
	"github.com/lhweb/site-backend/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel).With("service", "site-backend")
	logger.Info("starting lhweb site backend",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Lead store
	var repo leads.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = leads.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, storing leads in process memory")
		repo = leads.NewInMemoryRepository()
	}

	// Rate limiter: shared state when Redis is configured and reachable,
	// process-local otherwise.
	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("redis not available, using in-process rate limiting", "error", err)
		} else {
			limiter = ratelimit.NewRedisLimiter(client, cfg.RateLimitWindow, cfg.RateLimitThreshold)
		}
	}
	if limiter == nil {
		limiter = ratelimit.NewFixedWindow(cfg.RateLimitWindow, cfg.RateLimitThreshold)
	}

	leadMetrics := metrics.NewLeadMetrics(nil)
	notifier := buildNotifier(ctx, cfg, logger)

	leadsHandler := leads.NewHandler(repo, limiter, leadMetrics, notifier, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		AdminJWTSecret:     cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildNotifier wires the new-lead email, or returns nil when no provider
// is configured.
func buildNotifier(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) leads.Notifier {
	if cfg.LeadNotifyEmail == "" {
		return nil
	}

	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger); s != nil {
			sender = s
		}
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config, lead notifications disabled", "error", err)
			return nil
		}
		if s := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger); s != nil {
			sender = s
		}
	default:
		return nil
	}

	if sender == nil {
		logger.Warn("email provider configured but incomplete, lead notifications disabled",
			"provider", cfg.EmailProvider)
		return nil
	}
	return notify.NewService(sender, cfg.LeadNotifyEmail, logger)
}
