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
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pulsecrm/pulse-crm/internal/activity"
	"github.com/pulsecrm/pulse-crm/internal/auth"
	"github.com/pulsecrm/pulse-crm/internal/config"
	"github.com/pulsecrm/pulse-crm/internal/core"
	"github.com/pulsecrm/pulse-crm/internal/dashboard"
	"github.com/pulsecrm/pulse-crm/internal/health"
	"github.com/pulsecrm/pulse-crm/internal/lead"
	"github.com/pulsecrm/pulse-crm/internal/middleware"
	"github.com/pulsecrm/pulse-crm/internal/notify"
	"github.com/pulsecrm/pulse-crm/internal/realtime"
	"github.com/pulsecrm/pulse-crm/internal/server"
	"github.com/pulsecrm/pulse-crm/internal/user"
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

	_ = godotenv.Load() //nolint:errcheck // .env is optional

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)
	core.SetExposeErrors(!cfg.IsProduction())

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg)
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

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(ctx, db.DB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB.DB, "postgres"),
	)
	metrics := core.NewMetrics(registry)

	revocations := auth.NewRevocationStore(redis.Client)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	jwtManager.WithRevocation(revocations)
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
		"lifetime", jwtManager.TokenLifetime(),
	)

	hub := realtime.NewHub(realtime.HubConfig{
		SendBuffer: cfg.Realtime.SendBuffer,
		Logger:     logger,
		Metrics:    metrics,
	})
	if cfg.Realtime.RedisFanout {
		fanout := realtime.NewRedisFanout(redis.Client, cfg.Realtime.Channel, logger)
		if err := fanout.Run(ctx, hub); err != nil {
			return err
		}
		hub.SetPublisher(fanout)
		logger.Info("realtime redis fan-out enabled",
			"channel", cfg.Realtime.Channel,
		)
	}

	sender, err := notify.NewSender(cfg.Notify, logger)
	if err != nil {
		return err
	}
	notifier := notify.NewStatusChangeNotifier(
		sender,
		cfg.Notify.Timeout,
		logger,
		metrics,
	)
	logger.Info("lead won notifier initialized",
		"provider", cfg.Notify.Provider,
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, logger)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(jwtManager, userSvc, revocations)
	authHandler := auth.NewHandler(authSvc)

	activityRepo := activity.NewRepository(db.DB)
	leadRepo := lead.NewRepository(db.DB, activityRepo)

	leadSvc := lead.NewService(leadRepo, hub, notifier)
	leadHandler := lead.NewHandler(leadSvc)

	activitySvc := activity.NewService(activityRepo, leadRepo, hub)
	activityHandler := activity.NewHandler(activitySvc)

	dashboardHandler := dashboard.NewHandler(dashboard.HandlerConfig{
		Leads:           leadSvc,
		DBPing:          db.Ping,
		RedisPing:       redis.Ping,
		RedisPool:       redis.PoolStats,
		RealtimeClients: hub.ClientCount,
	})

	realtimeOrigins := cfg.Realtime.AllowedOrigins
	if len(realtimeOrigins) == 0 {
		realtimeOrigins = cfg.CORS.AllowedOrigins
	}
	realtimeHandler := realtime.NewHandler(
		hub,
		realtime.OriginPatterns(realtimeOrigins),
		logger,
	)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})
	srv.RegisterOnShutdown(hub.Close)

	router := srv.Router()

	router.Use(middleware.RequestID)
	if telemetry != nil {
		router.Use(otelhttp.NewMiddleware(cfg.Otel.ServiceName))
	}
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics(metrics))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
			BypassFunc: middleware.BypassPaths(
				"/health", "/healthz", "/livez", "/readyz", "/metrics",
			),
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	router.Get("/", welcome)
	router.Method(
		http.MethodGet,
		"/metrics",
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	)
	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(jwtManager)
	socketAuthenticator := middleware.QueryAuthenticator(jwtManager)

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		leadHandler.RegisterRoutes(r, authenticator)
		activityHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterRoutes(r, authenticator)
		dashboardHandler.RegisterRoutes(r, authenticator)
		realtimeHandler.RegisterRoutes(r, socketAuthenticator)
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

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func welcome(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, map[string]string{
		"message": "Welcome to the PulseCRM API",
		"status":  "running",
	})
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
