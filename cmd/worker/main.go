package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"maturity_backend/internal/catalog"
	"maturity_backend/internal/email"
	"maturity_backend/internal/events"
	leadsrepo "maturity_backend/internal/leads/repository"
	leadsservice "maturity_backend/internal/leads/service"
	"maturity_backend/internal/report"
	"maturity_backend/internal/scheduler"
	"maturity_backend/internal/storage"
	"maturity_backend/platform/config"
	"maturity_backend/platform/db"
	"maturity_backend/platform/logger"
	"maturity_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	cat, err := catalog.Load()
	if err != nil {
		log.Error("failed to load question catalog", "error", err)
		panic("failed to load question catalog: " + err.Error())
	}

	// Worker-side report loading; no HTTP handlers and no submissions.
	leads := leadsservice.New(leadsservice.Deps{
		Repo:    leadsrepo.New(pool),
		Guard:   leadsservice.NewLocalGuard(),
		Catalog: cat,
		Val:     validator.New(),
		Bus:     events.NewInMemoryBus(log),
		BaseURL: cfg.GetAppBaseURL(),
		Log:     log,
	})

	var archive storage.ReportArchive
	if cfg.IsMinIOEnabled() {
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
		archive = minioArchive
	} else {
		log.Warn("MinIO not configured; reports are emailed without archiving")
	}

	deliveries := scheduler.NewDeliveryRepository(pool)
	deliverer := scheduler.NewReportDeliverer(scheduler.DeliveryDeps{
		Source:     leads,
		Renderer:   report.NewRenderer(cat, report.SettingsFromConfig(cfg), log),
		Archive:    archive,
		Sender:     email.NewSender(cfg),
		Deliveries: deliveries,
		Log:        log,
	})

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize report delivery client", "error", err)
		panic("failed to initialize report delivery client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	sweep := scheduler.NewDeliverySweep(
		deliveries,
		client,
		log,
		getDurationEnv("DELIVERY_SWEEP_INTERVAL", 5*time.Minute),
		getDurationEnv("DELIVERY_SWEEP_GRACE", 10*time.Minute),
		getDurationEnv("DELIVERY_SWEEP_LOOKBACK", 7*24*time.Hour),
	)
	go sweep.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, deliverer, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}
