// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/config"
	"github.com/eventflow/eventflow-web/internal/handler"
	"github.com/eventflow/eventflow-web/internal/logging"
	"github.com/eventflow/eventflow-web/internal/middleware"
	"github.com/eventflow/eventflow-web/internal/model"
	"github.com/eventflow/eventflow-web/internal/render"
	"github.com/eventflow/eventflow-web/internal/service"
	"github.com/eventflow/eventflow-web/internal/session"
	"github.com/eventflow/eventflow-web/internal/version"
	"github.com/eventflow/eventflow-web/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "EventFlow - Campus Event Management Frontend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTFLOW_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTFLOW_API_URL          Backend API base URL (default: http://localhost:3001)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTFLOW_API_TIMEOUT      Backend request timeout in seconds (default: 15)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTFLOW_SESSION_DB_PATH  Session SQLite path (default: ./data/sessions.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTFLOW_SERVER_HOST      Server host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTFLOW_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTFLOW_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTFLOW_LOG_LEVEL        Log level: debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  EVENTFLOW_REDIS_URL        Redis URL for session storage (optional)\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Handle -v/-version flag
	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger: text handler wrapped so the request path from the
	// context is attached to WARN and ERROR records.
	logLevel := logging.ParseLevel(cfg.LogLevel)
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logging.NewContextHandler(textHandler))
	slog.SetDefault(logger)

	// Initialize session storage. Redis serves multi-instance
	// deployments; SQLite is the single-instance default.
	var sessionManager *session.Manager
	if cfg.UseRedisSessions() {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parsing redis URL: %w", err)
		}
		redisClient := redis.NewClient(opts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Error("error closing redis client", "error", err)
			}
		}()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}

		sessionManager = session.NewRedis(redisClient, cfg.IsDevelopment())
		slog.Info("session manager initialized", "store", "redis")
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.SessionDBPath), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		db, err := session.OpenSQLiteStore(cfg.SessionDBPath)
		if err != nil {
			return fmt.Errorf("opening session store: %w", err)
		}
		defer func(db *sql.DB) {
			if err := db.Close(); err != nil {
				slog.Error("error closing session database", "error", err)
			}
		}(db)

		sessionManager = session.New(db, cfg.IsDevelopment())
		slog.Info("session manager initialized", "store", "sqlite", "path", cfg.SessionDBPath)
	}

	// Backend API clients. The main client attaches the bearer token
	// from the caller's session; the probe client carries no token
	// source because /api/health is public and the probes may run
	// outside the session middleware.
	apiTimeout := time.Duration(cfg.APITimeout) * time.Second
	apiClient := api.New(cfg.APIBaseURL, apiTimeout, api.TokenSourceFunc(sessionManager.Token))
	probeClient := api.New(cfg.APIBaseURL, apiTimeout, nil)
	slog.Info("backend API client initialized", "base_url", cfg.APIBaseURL, "timeout", apiTimeout)

	// Service layer over the backend API
	authService := service.NewAuthService(apiClient)
	eventsService := service.NewEventsService(apiClient)
	registrationsService := service.NewRegistrationsService(apiClient)
	certificatesService := service.NewCertificatesService(apiClient)
	adminService := service.NewAdminService(apiClient)

	// Initialize template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		Sessions:    sessionManager,
		IsDev:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// CSRF protection for form routes
	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	// Initialize login protection
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	// Rate limiter for auth routes (defense-in-depth)
	// 10 requests per second with burst of 20 per IP
	authRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)
	slog.Info("auth rate limiter initialized", "rate", "10 req/s", "burst", 20)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, renderer, sessionManager, loginProtection)
	eventsHandler := handler.NewEventsHandler(eventsService, registrationsService, renderer, sessionManager)
	registrationsHandler := handler.NewRegistrationsHandler(registrationsService, renderer, sessionManager)
	certificatesHandler := handler.NewCertificatesHandler(certificatesService, renderer, sessionManager)
	profileHandler := handler.NewProfileHandler(authService, renderer, sessionManager)
	dashboardHandler := handler.NewDashboardHandler(eventsService, registrationsService, certificatesService, adminService, renderer, sessionManager)
	adminHandler := handler.NewAdminHandler(adminService, eventsService, renderer, sessionManager)
	frontendHandler := handler.NewFrontendHandler(eventsService, renderer, sessionManager)
	healthHandler := handler.NewHealthHandler(probeClient, sessionManager, appVersion)

	// Create router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))                    // Gzip compression with level 5
	r.Use(chimw.GetHead)                        // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(30 * time.Second)) // 30 second request timeout
	r.Use(middleware.StripTrailingSlash)        // Redirect /path/ to /path (301)

	// Security headers middleware (CSP, HSTS, X-Frame-Options, etc.)
	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	// Request path middleware for logging context
	r.Use(middleware.RequestPath)

	r.Use(sessionManager.LoadAndSave)

	// Health check routes (public, returns additional details for authenticated callers)
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Public routes: landing page, event catalog, event detail
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalLoadUser(sessionManager))
		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RouteEvents, eventsHandler.List)
		r.Get(handler.RouteEventsID, eventsHandler.Detail)
	})

	// Auth routes (public, with CSRF and rate limiting)
	// Defense-in-depth: authRateLimiter (10 req/s) + loginProtection (0.5 req/s on POST + account lockout)
	r.Route("/auth", func(r chi.Router) {
		r.Use(authRateLimiter.Middleware())
		r.Use(csrfMiddleware)
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteAdminLogin, authHandler.AdminLoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteAdminLogin, authHandler.AdminLogin)
		r.Get(handler.RouteRegister, authHandler.RegisterForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteRegister, authHandler.Register)
		r.Get(handler.RouteForgotPassword, authHandler.ForgotPasswordForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteForgotPassword, authHandler.ForgotPassword)
		r.Get(handler.RouteResetPassword, authHandler.ResetPasswordForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteResetPassword, authHandler.ResetPassword)
		r.Get(handler.RouteLogout, authHandler.Logout)
		r.Post(handler.RouteLogout, authHandler.Logout)
	})

	// Signed-in routes (protected with CSRF)
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.RequireAuth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, authService))

		// Event registration (any signed-in role)
		r.Post(handler.RouteEventsIDRegister, registrationsHandler.Register)

		// Event management (organizer + admin)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(model.RoleOrganizer, model.RoleAdmin))
			r.Get(handler.RouteEventsCreate, eventsHandler.CreateForm)
			r.Post(handler.RouteEventsCreate, eventsHandler.Create)
			r.Get(handler.RouteEventsIDEdit, eventsHandler.EditForm)
			r.Post(handler.RouteEventsIDEdit, eventsHandler.Update)
			r.Post(handler.RouteEventsIDDelete, eventsHandler.Delete)
			r.Get(handler.RouteEventsID+"/attendees", registrationsHandler.Attendees)
			r.Post(handler.RouteEventsID+"/attendees/{regId}", registrationsHandler.SetAttendance)
		})

		r.Route(handler.RouteDashboard, func(r chi.Router) {
			r.Get(handler.RouteRoot, dashboardHandler.Root)
			r.Get("/student", dashboardHandler.Student)
			r.Get(handler.RouteRegistrations, registrationsHandler.List)
			r.Post(handler.RouteRegistrations+"/{id}/cancel", registrationsHandler.Cancel)
			r.Get(handler.RouteCertificates, certificatesHandler.List)
			r.Get(handler.RouteProfile, profileHandler.Show)
			r.Post(handler.RouteProfile, profileHandler.Update)

			r.Route("/organizer", func(r chi.Router) {
				r.Use(middleware.RequireOrganizer())
				r.Get(handler.RouteRoot, dashboardHandler.Organizer)
				r.Get(handler.RouteEvents, eventsHandler.ListMine)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin())
				r.Get(handler.RouteRoot, dashboardHandler.Admin)
				r.Get(handler.RouteUsers, adminHandler.Users)
				r.Post(handler.RouteUsers+"/{id}/delete", adminHandler.DeleteUser)
				r.Post(handler.RouteUsers+"/{id}/role", adminHandler.SetUserRole)
				r.Get(handler.RouteEvents, adminHandler.Events)
			})
		})
	})

	// Static file serving
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	// Static assets: cache for 1 year (31536000 seconds)
	staticHandler := middleware.StaticCache(31536000)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/*", staticHandler)

	// 404 Not Found handler
	r.NotFound(frontendHandler.NotFound)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for slow connections
		IdleTimeout:       60 * time.Second, // Reduced from 120s to mitigate slowloris attacks
		MaxHeaderBytes:    1 << 20,          // 1MB max header size
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", appVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
