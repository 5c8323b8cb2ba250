package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workforce/internal/domain/application"
	"workforce/internal/domain/audit"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/dashboard"
	"workforce/internal/domain/formtemplate"
	"workforce/internal/domain/freelancer"
	"workforce/internal/domain/notifications"
	"workforce/internal/domain/payment"
	"workforce/internal/domain/performance"
	"workforce/internal/domain/portal"
	"workforce/internal/domain/project"
	"workforce/internal/domain/tiering"
	"workforce/internal/domain/users"
	"workforce/internal/platform/cache"
	"workforce/internal/platform/config"
	cryptoutil "workforce/internal/platform/crypto"
	"workforce/internal/platform/db"
	"workforce/internal/platform/email"
	"workforce/internal/platform/jobs"
	"workforce/internal/platform/metrics"
	"workforce/internal/transport/http/api"
	applicationshandler "workforce/internal/transport/http/handlers/applications"
	audithandler "workforce/internal/transport/http/handlers/audit"
	authhandler "workforce/internal/transport/http/handlers/auth"
	dashboardhandler "workforce/internal/transport/http/handlers/dashboard"
	formtemplatehandler "workforce/internal/transport/http/handlers/formtemplate"
	freelancershandler "workforce/internal/transport/http/handlers/freelancers"
	notificationshandler "workforce/internal/transport/http/handlers/notifications"
	paymentshandler "workforce/internal/transport/http/handlers/payments"
	performancehandler "workforce/internal/transport/http/handlers/performance"
	portalhandler "workforce/internal/transport/http/handlers/portal"
	projectshandler "workforce/internal/transport/http/handlers/projects"
	tieringhandler "workforce/internal/transport/http/handlers/tiering"
	usershandler "workforce/internal/transport/http/handlers/users"
	"workforce/internal/transport/http/middleware"
)

// App owns every long-lived resource of the service. Close releases them.
type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Cache   cache.Cache
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	Router  http.Handler

	tiering *tiering.Service
}

// New connects to the database, applies migrations and seed data when
// configured, and assembles the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
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

	sealer, err := cryptoutil.NewSealer(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, err
	}
	c, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		slog.Warn("redis unavailable, caching disabled", "err", err)
		c = cache.Noop{}
	}

	collector := metrics.New()
	app := &App{
		Config:  cfg,
		DB:      pool,
		Cache:   c,
		Metrics: collector,
		Jobs:    jobs.New(jobs.PGRunStore{DB: pool}, collector),
	}
	app.Router = app.routes(sealer)
	return app, nil
}

func (a *App) routes(sealer *cryptoutil.Sealer) http.Handler {
	cfg := a.Config
	pool := a.DB

	mailer := email.New(cfg)
	notifier := notifications.New(notifications.NewStore(pool), mailer)
	notifier.DefaultFrom = cfg.EmailFrom

	authSvc := &auth.Service{
		Store:       auth.NewStore(pool),
		Sealer:      sealer,
		Mailer:      mailer,
		Secret:      cfg.JWTSecret,
		TTL:         cfg.JWTTTL,
		From:        cfg.EmailFrom,
		FrontendURL: cfg.FrontendURL,
	}
	auditSvc := audit.New(pool)

	freelancerSvc := freelancer.NewService(freelancer.NewStore(pool), a.Cache, cfg.CacheTTL)
	applicationSvc := application.NewService(application.NewStore(pool), notifier, freelancerSvc, loginURL(cfg.FrontendURL))
	projectSvc := project.NewService(project.NewStore(pool), notifier)
	performanceSvc := performance.NewService(performance.NewStore(pool), notifier)
	tieringSvc := tiering.NewService(tiering.NewStore(pool), notifier, a.Cache, cfg.CacheTTL)
	paymentSvc := payment.NewService(payment.NewStore(pool), notifier)
	paymentSvc.StatementDir = cfg.StatementDir
	paymentSvc.Sealer = sealer
	portalSvc := portal.NewService(freelancerSvc, projectSvc, performanceSvc)
	usersSvc := users.NewService(users.NewStore(pool), freelancerSvc)
	formSvc := formtemplate.NewService(formtemplate.NewStore(pool))
	dashboardSvc := dashboard.NewService(dashboard.NewStore(pool), tieringSvc, paymentSvc)
	a.tiering = tieringSvc

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

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
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		authhandler.NewHandler(authSvc, auditSvc).RegisterRoutes(r)
		applicationshandler.NewHandler(applicationSvc, authSvc, auditSvc).RegisterRoutes(r)
		freelancershandler.NewHandler(freelancerSvc, authSvc, auditSvc).RegisterRoutes(r)
		projectshandler.NewHandler(projectSvc, authSvc, auditSvc).RegisterRoutes(r)
		performancehandler.NewHandler(performanceSvc, authSvc, auditSvc).RegisterRoutes(r)
		tieringhandler.NewHandler(tieringSvc, authSvc, auditSvc, a.Jobs).RegisterRoutes(r)
		paymentshandler.NewHandler(paymentSvc, authSvc, auditSvc, middleware.NewIdempotencyStore(pool)).RegisterRoutes(r)
		notificationshandler.NewHandler(notifier).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, authSvc).RegisterRoutes(r)
		usershandler.NewHandler(usersSvc, authSvc, auditSvc).RegisterRoutes(r)
		formtemplatehandler.NewHandler(formSvc, authSvc, auditSvc).RegisterRoutes(r)
		dashboardhandler.NewHandler(dashboardSvc, authSvc).RegisterRoutes(r)

		portalHandler := &portalhandler.Handler{
			Portal:      portalSvc,
			Freelancers: freelancerSvc,
			Projects:    projectSvc,
			Performance: performanceSvc,
			Payments:    paymentSvc,
			Perms:       authSvc,
			Audit:       auditSvc,
		}
		portalHandler.RegisterRoutes(r)

		if cfg.MetricsEnabled {
			r.With(middleware.RequirePermission(auth.PermSystemAdmin, authSvc)).Get("/admin/metrics", func(w http.ResponseWriter, r *http.Request) {
				api.Success(w, a.Metrics.Snapshot(), "")
			})
		}
	})

	return router
}

// StartBackground starts the job worker and, when an interval is configured,
// the scheduled tier recalculation.
func (a *App) StartBackground(ctx context.Context) {
	a.Jobs.Start(ctx)
	opts := tiering.BulkOptions{Period: a.Config.TierRecalcPeriod, AutoApply: a.Config.TierRecalcAutoApply}
	a.Jobs.Schedule(ctx, jobs.JobTierRecalculation, a.Config.TierRecalcInterval, func(ctx context.Context) (any, error) {
		return a.tiering.Bulk(ctx, opts)
	})
}

func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			slog.Warn("cache close failed", "err", err)
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func loginURL(frontend string) string {
	return strings.TrimRight(frontend, "/") + "/login"
}

const shutdownGrace = 15 * time.Second

// Run serves until SIGINT or SIGTERM, then drains in-flight requests before
// the pool and cache are closed.
func Run() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	app.StartBackground(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		slog.Error("listen failed", "addr", cfg.Addr, "err", err)
		app.Close()
		os.Exit(1)
	}

	slog.Info("workforce server listening", "addr", ln.Addr().String())
	err = serve(ctx, srv, ln, shutdownGrace)
	app.Close()
	if err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

// serve blocks until ctx is cancelled and Shutdown has returned, so callers
// may release shared resources once it does.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	drained := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		drained <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-drained; err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
