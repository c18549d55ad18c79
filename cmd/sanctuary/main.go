// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
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

	"github.com/sanctuary-web/sanctuary/internal/auth"
	"github.com/sanctuary-web/sanctuary/internal/cache"
	"github.com/sanctuary-web/sanctuary/internal/calendar"
	"github.com/sanctuary-web/sanctuary/internal/captcha"
	"github.com/sanctuary-web/sanctuary/internal/config"
	"github.com/sanctuary-web/sanctuary/internal/handler"
	"github.com/sanctuary-web/sanctuary/internal/handler/api"
	"github.com/sanctuary-web/sanctuary/internal/logging"
	"github.com/sanctuary-web/sanctuary/internal/mail"
	"github.com/sanctuary-web/sanctuary/internal/metrics"
	"github.com/sanctuary-web/sanctuary/internal/middleware"
	"github.com/sanctuary-web/sanctuary/internal/scheduler"
	"github.com/sanctuary-web/sanctuary/internal/service"
	"github.com/sanctuary-web/sanctuary/internal/session"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/summary"
	"github.com/sanctuary-web/sanctuary/internal/upload"
	"github.com/sanctuary-web/sanctuary/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = ""
	appGitCommit = ""
	appBuildTime = ""
)

const (
	// Public form endpoints: one submission every five seconds, bursts of 3.
	submitRateLimit = 0.2
	submitBurst     = 3
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Sanctuary - church website backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SANCTUARY_SESSION_SECRET   Session encryption key (required in production, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SANCTUARY_DB_PATH          SQLite database path (default: ./data/sanctuary.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SANCTUARY_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SANCTUARY_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SANCTUARY_REDIS_URL        Redis URL for the calendar cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SANCTUARY_SMTP_HOST        SMTP relay for form notifications (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SANCTUARY_GOOGLE_CLIENT_ID Google OAuth client for sign-in and calendar (optional)\n")
	}

	flag.Parse()

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := logging.ParseLevel(cfg.LogLevel)
	logOut, logCloser := logging.Output(cfg.LogFile)
	defer func() { _ = logCloser.Close() }()

	logger := slog.New(logging.NewHandler(logOut, logLevel))
	slog.SetDefault(logger)
	slog.Info("starting", "version", info.String(), "env", cfg.Env)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// WARN and ERROR records are also written to the event log table.
	logger = slog.New(logging.NewEventLogHandler(logging.NewHandler(logOut, logLevel), db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	eventService := service.NewEventService(db)

	// Calendar cache: Redis when configured, memory otherwise.
	calendarCache := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CalendarCacheTTL,
	}, logger)
	defer func() { _ = calendarCache.Close() }()
	if sp, ok := calendarCache.(cache.StatsProvider); ok {
		if err := metrics.RegisterCacheStats("calendar", sp); err != nil {
			slog.Warn("failed to register cache metrics", "error", err)
		}
	}

	calendarCfg := calendar.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		CalendarID:   cfg.GoogleCalendarID,
		RefreshToken: cfg.GoogleRefreshToken,
		APIKey:       cfg.GoogleAPIKey,
		Timezone:     cfg.CalendarTimezone,
	}
	googleCalendar := calendar.NewGoogle(calendarCfg)
	calendarFeed := calendar.NewFeed(googleCalendar, calendarCache, cfg.CalendarCacheTTL, calendarCfg, logger)

	summaries, err := summary.New(ctx, summary.Config{
		Provider: cfg.AIProvider,
		Model:    cfg.AIModel,
		APIKey:   cfg.AIAPIKey(),
	})
	if err != nil {
		return fmt.Errorf("initializing AI summaries: %w", err)
	}
	if !summaries.Enabled() {
		slog.Info("AI summaries disabled, no API key configured")
	}

	mailer := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if !mailer.Configured() {
		slog.Info("SMTP not configured, form notifications will be skipped")
	}

	var verifier captcha.Verifier = captcha.Noop{}
	if cfg.HCaptchaEnabled() {
		verifier = captcha.NewHCaptcha(cfg.HCaptchaSecretKey)
		slog.Info("hCaptcha verification enabled")
	}

	submissions := service.NewSubmissionService(db, mailer, verifier, service.SubmissionConfig{
		ChurchName: cfg.ChurchName,
		Recipient:  cfg.NotificationEmail,
	}, logger)

	uploadStore := upload.NewStore(db, cfg.UploadsDir)

	sched := scheduler.New(db, scheduler.DefaultEventRetention, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Handlers
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	googleLogin := auth.NewGoogleLogin(auth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleLoginRedirectURL,
	})
	authHandler := handler.NewAuthHandler(db, sessionManager, loginProtection, googleLogin, cfg.OAuthAutoCreate)
	calendarHandler := handler.NewCalendarConnectHandler(googleCalendar.OAuth(), calendarFeed, sessionManager, eventService, !cfg.IsDevelopment())
	uploadsHandler := handler.NewUploadsHandler(uploadStore, eventService)
	healthHandler := handler.NewHealthHandler(db, cfg.UploadsDir, info)

	apiHandler := api.NewHandler(db, eventService)
	apiHandler.SetSubmissionService(submissions)
	apiHandler.SetSummaryService(summaries)
	apiHandler.SetCalendarFeed(calendarFeed)
	apiHandler.SetUploadStore(uploadStore)

	submitLimiter := middleware.NewRateLimiter(submitRateLimit, submitBurst)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(metrics.Middleware)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	// Health and metrics stay outside the session and CSRF layers.
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.Handle("/metrics", metrics.Handler())

	r.Handle(upload.URLPrefix+"/*", uploadsHandler.Files())

	r.Group(func(r chi.Router) {
		r.Use(middleware.SkipCSRF("/api/auth/google/callback", "/api/calendar/callback"))
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.PublicURL)))
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.LoadUser(sessionManager, db))

		r.Get("/health", healthHandler.Health)

		r.Route("/api", func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.With(loginProtection.Middleware()).Post("/auth/login", authHandler.Login)
			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/session", authHandler.Session)
			r.Get("/auth/google", authHandler.GoogleStart)
			r.Get("/auth/google/callback", authHandler.GoogleCallback)

			calendarHandler.Routes(r)

			r.Get("/uploads", uploadsHandler.Endpoints)
			r.Post("/uploads/{endpoint}", uploadsHandler.Upload)

			apiHandler.Routes(r, api.RouteOptions{SubmitLimiter: submitLimiter.Middleware()})
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
