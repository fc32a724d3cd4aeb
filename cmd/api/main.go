// Package main is the entrypoint for the formdrop server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/formdrop/formdrop/internal/config"
	"github.com/formdrop/formdrop/internal/handler"
	"github.com/formdrop/formdrop/internal/metrics"
	"github.com/formdrop/formdrop/internal/middleware"
	"github.com/formdrop/formdrop/internal/repository"
	"github.com/formdrop/formdrop/internal/server"
	"github.com/formdrop/formdrop/internal/service"
	"github.com/formdrop/formdrop/internal/validation"
	"github.com/formdrop/formdrop/internal/view"
)

// startupProbeTimeout bounds the connectivity probe and migrations at boot.
const startupProbeTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	dsn := cfg.DatabaseDSN()

	repo, err := repository.New(ctx, dsn, cfg.DBMaxConns)
	if err != nil {
		logger.Error("failed to configure database pool",
			slog.String("error", sanitizeError(err, dsn)),
			slog.String("database_url", redactURL(dsn)),
		)
		os.Exit(1)
	}

	probeDatabase(ctx, repo, dsn, logger)

	renderer, err := view.New()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	recorder := metrics.NewInMemory()
	userService := service.NewUserService(repo, recorder, logger)

	r := setupRouter(routes{
		base:    handler.New(),
		health:  handler.NewHealthHandler(repo),
		metrics: handler.NewMetricsHandler(recorder),
		form:    handler.NewFormHandler(userService, validation.New(), renderer, logger),
		users:   handler.NewUserHandler(userService, logger),
	}, cfg, logger)

	srv := server.New(r, server.Config{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})

	logger.Info("starting server",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"db_max_conns", cfg.DBMaxConns,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// probeDatabase checks connectivity once and applies migrations when reachable.
// Failures are logged and the process keeps serving; requests that need the
// database fail individually until it becomes reachable.
func probeDatabase(ctx context.Context, repo *repository.Repository, dsn string, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, startupProbeTimeout)
	defer cancel()

	if err := repo.Ping(ctx); err != nil {
		logger.Error("database_unreachable",
			slog.String("error", sanitizeError(err, dsn)),
			slog.String("database_url", redactURL(dsn)),
		)
		return
	}
	logger.Info("database_connected", slog.String("database_url", redactURL(dsn)))

	if err := repo.Migrate(ctx); err != nil {
		logger.Error("migrations_failed", slog.String("error", sanitizeError(err, dsn)))
		return
	}
	logger.Info("migrations_applied")
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routes struct {
	base    *handler.Handler
	health  *handler.HealthHandler
	metrics *handler.MetricsHandler
	form    *handler.FormHandler
	users   *handler.UserHandler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(h routes, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	r.Get("/healthz", h.health.Healthz)
	r.Get("/readyz", h.health.Readyz)
	r.Get("/metrics", h.metrics.Metrics)

	r.Get("/", h.form.Show)
	r.Post("/submit", h.form.Submit)

	// Debug listing. Exposes every stored record.
	r.Get("/users", h.users.List)

	r.NotFound(h.base.NotFound)
	r.MethodNotAllowed(h.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

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
