package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maturity_backend/internal/admin"
	adminrepo "maturity_backend/internal/admin/repository"
	"maturity_backend/internal/catalog"
	"maturity_backend/internal/events"
	apphttp "maturity_backend/internal/http"
	"maturity_backend/internal/http/router"
	"maturity_backend/internal/leads"
	leadsrepo "maturity_backend/internal/leads/repository"
	"maturity_backend/internal/metrics"
	"maturity_backend/internal/quiz"
	"maturity_backend/internal/report"
	"maturity_backend/internal/scheduler"
	"maturity_backend/internal/storage"
	"maturity_backend/platform/config"
	"maturity_backend/platform/db"
	"maturity_backend/platform/logger"
	"maturity_backend/platform/redisx"
	"maturity_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	rdb, err := redisx.NewClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	if rdb == nil {
		log.Warn("REDIS_URL not configured; quiz sessions and submit locks stay in process memory")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	cat, err := catalog.Load()
	if err != nil {
		log.Error("failed to load question catalog", "error", err)
		panic("failed to load question catalog: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()
	renderer := report.NewRenderer(cat, report.SettingsFromConfig(cfg), log)

	archive := initArchive(ctx, cfg, log)

	deliveries, closeDeliveries := initDeliveryClient(cfg, log)
	if closeDeliveries != nil {
		defer closeDeliveries()
		scheduler.SubscribeReportDelivery(eventBus, deliveries)
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsRepo := leadsrepo.New(pool)

	quizModule := quiz.NewModule(rdb, cfg.GetQuizSessionTTL(), cat, renderer, val, log)
	leadsModule := leads.NewModule(leadsRepo, rdb, cfg, cat, quizModule.Service(), renderer, eventBus, val, log)
	adminModule := admin.NewModule(adminrepo.New(pool), leadsRepo, rdb, archive, cfg, cat, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Metrics:  metrics.Handler(),
		Modules: []apphttp.Module{
			quizModule,
			leadsModule,
			adminModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}

	// Let detached event handlers finish their enqueues before Redis closes.
	eventBus.Wait()
}

// initArchive returns nil when MinIO is not configured so the admin detail
// leaves the archived link out.
func initArchive(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.ReportArchive {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MinIO not configured; archived report links disabled")
		return nil
	}

	minioArchive, err := storage.NewMinIOArchive(cfg)
	if err != nil {
		log.Error("failed to initialize report archive", "error", err)
		panic("failed to initialize report archive: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure reports bucket", 5, 2*time.Second, func() error {
		return minioArchive.EnsureBucketExists(ctx)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketReports())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("report archive initialized", "bucket", cfg.GetMinioBucketReports())
	return minioArchive
}

func initDeliveryClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; report delivery disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize report delivery client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
