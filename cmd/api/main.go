// Package main is the entrypoint for the Plexo gateway server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/plexo/gateway/internal/auth"
	"github.com/plexo/gateway/internal/cache"
	"github.com/plexo/gateway/internal/config"
	"github.com/plexo/gateway/internal/gateway"
	"github.com/plexo/gateway/internal/handler"
	"github.com/plexo/gateway/internal/metrics"
	"github.com/plexo/gateway/internal/middleware"
	"github.com/plexo/gateway/internal/repository"
	"github.com/plexo/gateway/internal/server"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	deps := routerDeps{
		cfg:       cfg,
		logger:    logger,
		engine:    repo,
		validator: auth.NewKeyValidator(repo),
		keys:      repo,
		db:        repo,
		recorder:  metrics.NewInMemory(),
	}

	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cache.Options{
			PoolSize:  cfg.RedisPoolSize,
			OpTimeout: cfg.RedisOpTimeout,
		})
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			repo.Close()
			os.Exit(1)
		}
		logger.Info("connected to Redis")
		deps.cache = cacheClient
		deps.limiter = cacheClient
	} else {
		logger.Warn("REDIS_URL not set, rate limiting disabled")
	}

	r, err := newRouter(deps)
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"version", version,
		"rate_limit", cfg.RateLimitActive(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// routerDeps are the collaborators behind the HTTP surface. cache and
// limiter stay nil when Redis is not configured.
type routerDeps struct {
	cfg       *config.Config
	logger    *slog.Logger
	engine    gateway.Engine
	validator auth.CredentialValidator
	keys      handler.KeyManager
	db        handler.HealthChecker
	cache     handler.HealthChecker
	limiter   middleware.Limiter
	recorder  *metrics.InMemoryRecorder
}

// newRouter configures the chi router with all routes and middleware.
func newRouter(d routerDeps) (*chi.Mux, error) {
	reg, err := gateway.DefaultRegistry(d.engine)
	if err != nil {
		return nil, err
	}
	dispatcher := gateway.NewDispatcher(d.logger, d.recorder)

	h := handler.New(version)
	healthHandler := handler.NewHealthHandler(d.logger, d.db, d.cache)
	metricsHandler := handler.NewMetricsHandler(d.recorder)
	keyEnv := auth.EnvTest
	if d.cfg.IsProduction() {
		keyEnv = auth.EnvLive
	}
	apiKeyHandler := handler.NewAPIKeyHandler(d.logger, d.keys, keyEnv)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	// Unauthenticated endpoints
	r.Get("/", h.Info)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(middleware.AuthConfig{
			Logger:      d.logger,
			Validator:   d.validator,
			Metrics:     d.recorder,
			MinDuration: d.cfg.AuthMinDuration,
		}))
		r.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Logger:            d.logger,
			Limiter:           d.limiter,
			Metrics:           d.recorder,
			Enabled:           d.cfg.RateLimitEnabled,
			RequestsPerMinute: d.cfg.RateLimitRPM,
			Burst:             d.cfg.RateLimitBurst,
		}))

		reg.Mount(r, dispatcher)
		r.Route("/api-keys", apiKeyHandler.Routes)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r, nil
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
