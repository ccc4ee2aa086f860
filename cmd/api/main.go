// marciomma | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/admin"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/auth"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/config"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/core"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/directory"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/health"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/middleware"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/portfolio"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/server"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/store"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	genKeys := flag.Bool("generate-keys", false, "generate an ES256 key pair and exit")
	flag.Parse()

	if *genKeys {
		if err := auth.GenerateKeyPair("keys/private.pem", "keys/public.pem"); err != nil {
			slog.Error("key generation failed", "error", err)
			os.Exit(1)
		}
		slog.Info("key pair written", "dir", "keys")
		return
	}

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	collections := store.New(redis, cfg.Store.CacheTTL)

	portfolioRepo := portfolio.NewRepository(collections)
	portfolioSvc := portfolio.NewService(portfolioRepo, collections)
	portfolioHandler := portfolio.NewHandler(portfolioSvc)

	userRepo := directory.NewRepository(collections)
	userSvc := directory.NewService(userRepo)
	userHandler := directory.NewHandler(userSvc)

	authSvc := auth.NewService(userSvc, jwtManager, redis)
	authHandler := auth.NewHandler(authSvc, userSvc)

	healthHandler := health.NewHandler(
		redis,
		health.CheckerFunc(func(ctx context.Context) error {
			var entries []portfolio.StatusViewEntry
			return collections.GetCollection(
				ctx,
				store.KeyStatusView,
				&entries,
			)
		}),
	)

	adminHandler := admin.NewHandler(collections)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client(), middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			authHandler.RegisterProtectedRoutes(r)
		})

		portfolioHandler.RegisterRoutes(r, authenticator, adminOnly)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
