package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/glowsalon/loyalty-platform/internal/api/router"
	"github.com/glowsalon/loyalty-platform/internal/appointments"
	"github.com/glowsalon/loyalty-platform/internal/auth"
	appconfig "github.com/glowsalon/loyalty-platform/internal/config"
	"github.com/glowsalon/loyalty-platform/internal/observability/metrics"
	"github.com/glowsalon/loyalty-platform/internal/profiles"
	"github.com/glowsalon/loyalty-platform/internal/referrals"
	"github.com/glowsalon/loyalty-platform/internal/rewards"
	"github.com/glowsalon/loyalty-platform/internal/services"
	"github.com/glowsalon/loyalty-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments set environment variables.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting loyalty-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
		defer func() { _ = redisClient.Close() }()
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	loyaltyMetrics := metrics.NewLoyaltyMetrics(registry)

	// Stores and services
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTokenTTL)
	authStore := auth.NewStore(pool)
	profileStore := profiles.NewStore(pool)
	serviceStore := services.NewStore(pool)
	catalog := services.NewCatalog(serviceStore, redisClient, logger)
	apptStore := appointments.NewStore(pool)
	apptService := appointments.NewService(apptStore, catalog, logger, loyaltyMetrics)
	rewardStore := rewards.NewStore(pool)
	referralStore := referrals.NewStore(pool)

	r := router.New(&router.Config{
		Logger:              logger,
		TokenIssuer:         issuer,
		AuthHandler:         auth.NewHandler(authStore, profileStore, issuer, cfg.IsProduction(), logger),
		AppointmentsHandler: appointments.NewHandler(apptService, logger),
		ServicesHandler:     services.NewHandler(serviceStore, catalog, logger),
		ProfilesHandler:     profiles.NewHandler(profileStore, logger),
		RewardsHandler:      rewards.NewHandler(rewardStore, logger),
		ReferralsHandler:    referrals.NewHandler(referralStore, logger, loyaltyMetrics),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerSecond:  cfg.RateLimitPerSecond,
		RateLimitBurst:      cfg.RateLimitBurst,
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
