// Package main is the entrypoint for the Courtside API server.
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
	"github.com/joho/godotenv"

	"github.com/courtside/courtside/internal/auth"
	"github.com/courtside/courtside/internal/cache"
	"github.com/courtside/courtside/internal/config"
	"github.com/courtside/courtside/internal/features"
	"github.com/courtside/courtside/internal/handler"
	"github.com/courtside/courtside/internal/middleware"
	"github.com/courtside/courtside/internal/repository"
	"github.com/courtside/courtside/internal/server"
)

func main() {
	ctx := context.Background()

	// Local development reads .env; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.Options{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	flags := features.New(
		cfg.EnableMessaging,
		cfg.EnableParentPortal,
		cfg.EnableLiveScoreboard,
		cfg.EnableSeasonSignup,
	)
	logger.Info("feature flags loaded", "flags", flags.All())

	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	adminHandler := handler.NewAdminHandler(cfg, flags, logger)
	messagingHandler := handler.NewMessagingHandler(repo, logger)
	usersHandler := handler.NewUsersHandler(repo, logger)
	authHandler := handler.NewAuthHandler()
	tokenHandler := handler.NewTokenHandler(repo, sessions, cacheClient, !cfg.IsDevelopment(), logger)
	validateHandler := handler.NewValidateHandler(repo, logger)
	pagesHandler := handler.NewPagesHandler(sessions, repo, logger)
	accessKeyHandler := handler.NewAccessKeyHandler(repo, logger)

	r := setupRouter(routerDeps{
		cfg:       cfg,
		flags:     flags,
		logger:    logger,
		repo:      repo,
		cache:     cacheClient,
		sessions:  sessions,
		h:         h,
		health:    healthHandler,
		admin:     adminHandler,
		messaging: messagingHandler,
		users:     usersHandler,
		auth:      authHandler,
		token:     tokenHandler,
		validate:  validateHandler,
		pages:     pagesHandler,
		accessKey: accessKeyHandler,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
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

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	cfg       *config.Config
	flags     *features.Flags
	logger    *slog.Logger
	repo      *repository.Repository
	cache     *cache.Cache
	sessions  *auth.Sessions
	h         *handler.Handler
	health    *handler.HealthHandler
	admin     *handler.AdminHandler
	messaging *handler.MessagingHandler
	users     *handler.UsersHandler
	auth      *handler.AuthHandler
	token     *handler.TokenHandler
	validate  *handler.ValidateHandler
	pages     *handler.PagesHandler
	accessKey *handler.AccessKeyHandler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: d.cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	sessionMW := middleware.Session(middleware.SessionConfig{
		Logger:   d.logger,
		Sessions: d.sessions,
		Cache:    d.cache,
	})
	adminMW := middleware.RequireAdmin(d.repo, d.logger)
	authRateLimit := middleware.RateLimitAuth(middleware.RateLimitConfig{
		Logger:  d.logger,
		Cache:   d.cache,
		Enabled: d.cfg.RateLimitAuthEnabled,
		RPS:     d.cfg.RateLimitAuthRPS,
		Burst:   d.cfg.RateLimitAuthBurst,
	})

	// Health and root
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Get("/", d.h.Hello)

	// Pages (gates are handled inside the handlers)
	r.Get("/login", d.pages.Login)
	r.Get("/dashboard", d.pages.Dashboard)
	r.Get("/admin", d.pages.Admin)

	// Auth surface
	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/", d.auth.Index)
		r.Get("/signin/error", d.auth.SigninError)
		r.With(authRateLimit).Post("/token", d.token.Exchange)
		r.Post("/logout", d.token.Logout)
	})

	// Admin bootstrap check, credential-bearing so rate limited
	r.With(authRateLimit).Post("/api/admin/verify-access", d.admin.VerifyAccess)

	// Diagnostics
	r.Get("/api/debug", d.admin.Debug)

	// Signup pre-check, anonymous by design
	r.Post("/api/validate-parent-email", d.validate.ParentEmail)

	// Session-scoped API
	r.Group(func(r chi.Router) {
		r.Use(sessionMW)

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/admins", d.users.ListAdmins)
			r.Get("/me", d.users.Me)
			r.Patch("/me", d.users.UpdateMe)
		})

		if d.flags.Enabled(features.Messaging) {
			r.Route("/api/messaging", func(r chi.Router) {
				r.Get("/conversations", d.messaging.ListConversations)
				r.Post("/drafts", d.messaging.CreateDraft)
				r.Delete("/drafts/{id}", d.messaging.DeleteDraft)
			})
		}

		// Admin-only API
		r.Group(func(r chi.Router) {
			r.Use(adminMW)

			r.Get("/api/admin/stats", d.admin.Stats)
			r.Route("/api/admin/access-keys", func(r chi.Router) {
				r.Post("/", d.accessKey.Create)
				r.Get("/", d.accessKey.List)
				r.Delete("/{key_id}", d.accessKey.Revoke)
			})
		})
	})

	r.NotFound(d.h.NotFound)
	r.MethodNotAllowed(d.h.MethodNotAllowed)

	return r
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
