package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"evaltrack/internal/domain/audit"
	"evaltrack/internal/domain/auth"
	"evaltrack/internal/domain/departments"
	"evaltrack/internal/domain/evaluations"
	"evaltrack/internal/domain/forms"
	"evaltrack/internal/domain/notifications"
	"evaltrack/internal/domain/periods"
	"evaltrack/internal/domain/reports"
	"evaltrack/internal/domain/teams"
	"evaltrack/internal/domain/users"
	"evaltrack/internal/platform/config"
	"evaltrack/internal/platform/db"
	"evaltrack/internal/platform/email"
	"evaltrack/internal/platform/metrics"
	adminhandler "evaltrack/internal/transport/http/handlers/admin"
	audithandler "evaltrack/internal/transport/http/handlers/audit"
	authhandler "evaltrack/internal/transport/http/handlers/auth"
	departmentshandler "evaltrack/internal/transport/http/handlers/departments"
	evaluationshandler "evaltrack/internal/transport/http/handlers/evaluations"
	formshandler "evaltrack/internal/transport/http/handlers/forms"
	notificationshandler "evaltrack/internal/transport/http/handlers/notifications"
	periodshandler "evaltrack/internal/transport/http/handlers/periods"
	reportshandler "evaltrack/internal/transport/http/handlers/reports"
	teamshandler "evaltrack/internal/transport/http/handlers/teams"
	usershandler "evaltrack/internal/transport/http/handlers/users"
	"evaltrack/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// New connects, migrates, seeds and assembles the full HTTP router. It is
// the single composition point shared by main and the integration tests.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		dir := cfg.MigrationsDir
		if dir == "" {
			dir = "migrations"
		}
		if err := db.Migrate(ctx, pool, dir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	authStore := auth.NewStore(pool)
	userSvc := users.NewService(users.NewStore(pool))
	teamSvc := teams.NewService(teams.NewStore(pool))
	departmentSvc := departments.NewService(departments.NewStore(pool))
	periodStore := periods.NewStore(pool)
	formSvc := forms.NewService(forms.NewStore(pool))
	evalSvc := evaluations.NewService(evaluations.NewStore(pool), formSvc)
	reportSvc := reports.NewService(reports.NewStore(pool), evalSvc)
	notifySvc := notifications.New(notifications.NewStore(pool), email.New(cfg), cfg.EmailFrom)
	auditSvc := audit.New(pool)
	idemStore := middleware.NewIdempotencyStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authStore, userSvc, cfg.JWTSecret, cfg.TokenTTL)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Get("/auth/me", authHandler.HandleMe)
		r.Post("/auth/change-password", authHandler.HandleChangePassword)
		r.Post("/auth/mfa/setup", authHandler.HandleMFASetup)
		r.Post("/auth/mfa/enable", authHandler.HandleMFAEnable)
		r.Post("/auth/mfa/disable", authHandler.HandleMFADisable)

		usershandler.NewHandler(userSvc, authStore).RegisterRoutes(r)
		teamshandler.NewHandler(teamSvc, authStore, notifySvc).RegisterRoutes(r)
		departmentshandler.NewHandler(departmentSvc, authStore).RegisterRoutes(r)
		formshandler.NewHandler(formSvc, authStore, auditSvc).RegisterRoutes(r)
		evaluationshandler.NewHandler(evalSvc, reportSvc, authStore, notifySvc, auditSvc, idemStore, collector).RegisterRoutes(r)
		reportshandler.NewHandler(reportSvc, authStore).RegisterRoutes(r)
		periodshandler.NewHandler(periodStore, authStore).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, authStore).RegisterRoutes(r)
		adminhandler.NewHandler(collector, authStore).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
