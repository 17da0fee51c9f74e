// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/rolodex/internal/admin"
	"github.com/carterperez-dev/rolodex/internal/auth"
	"github.com/carterperez-dev/rolodex/internal/config"
	"github.com/carterperez-dev/rolodex/internal/core"
	"github.com/carterperez-dev/rolodex/internal/entry"
	"github.com/carterperez-dev/rolodex/internal/health"
	"github.com/carterperez-dev/rolodex/internal/kv"
	"github.com/carterperez-dev/rolodex/internal/metrics"
	"github.com/carterperez-dev/rolodex/internal/middleware"
	"github.com/carterperez-dev/rolodex/internal/server"
	"github.com/carterperez-dev/rolodex/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

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

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	// Redis is optional only when the entry store runs in memory;
	// config validation enforces that pairing.
	var redisConn *core.Redis
	if cfg.Redis.URL != "" {
		conn, redisErr := core.NewRedis(ctx, cfg.Redis)
		if redisErr != nil {
			return redisErr
		}
		redisConn = conn
		logger.Info("redis connected",
			"pool_size", cfg.Redis.PoolSize,
		)
	}

	var rdb *redis.Client
	if redisConn != nil {
		rdb = redisConn.Client
	}

	var store kv.Store
	if cfg.Store.Backend == "memory" {
		store = kv.NewMemoryStore()
	} else {
		store = kv.NewRedisStore(rdb, kv.WithScanCount(cfg.Store.ScanCount))
	}
	logger.Info("entry store ready",
		"backend", cfg.Store.Backend,
		"key_prefix", cfg.Store.KeyPrefix,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	var blacklist auth.Blacklist
	if redisConn != nil {
		blacklist = auth.NewRedisBlacklist(rdb)
	} else {
		blacklist = auth.NewMemoryBlacklist()
	}

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc, blacklist)
	authHandler := auth.NewHandler(authSvc)

	go authSvc.StartTokenCleanup(ctx, time.Hour)

	entryMetrics := metrics.New()
	entryRepo := entry.NewRepository(store, cfg.Store.KeyPrefix)
	entrySvc := entry.NewService(entryRepo, entryMetrics)
	entryHandler := entry.NewHandler(entrySvc)

	healthHandler := health.NewHandler(db, store)

	adminCfg := admin.HandlerConfig{
		DBStats: db.Stats,
		DBPing:  db.Ping,
		Entries: entrySvc,
		Users:   userSvc,
	}
	if redisConn != nil {
		adminCfg.RedisStats = redisConn.PoolStats
		adminCfg.RedisPing = redisConn.Ping
	}
	adminHandler := admin.NewHandler(adminCfg)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
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
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.With(middleware.RequireServiceKey(cfg.Signup.ServiceKey)).
		Post("/signup", authHandler.Signup)

	verifier := auth.NewVerifier(jwtManager, blacklist)
	authenticator := middleware.Authenticator(verifier)

	// Authenticated routes also get the per-role limiter; it must run
	// after the authenticator so the identity is on the context.
	authenticated := chi.Chain(
		authenticator,
		middleware.RoleRateLimiter(rdb, middleware.DefaultRoleLimits),
	).Handler

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		entryHandler.RegisterRoutes(r, authenticated, middleware.RequireAdmin)
		adminHandler.RegisterRoutes(r, authenticated, middleware.RequireAdmin)
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

	if redisConn != nil {
		if err := redisConn.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
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
