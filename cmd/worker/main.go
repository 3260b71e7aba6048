package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/casting-agency/casting-agency/internal/actors"
	"github.com/casting-agency/casting-agency/internal/app"
	"github.com/casting-agency/casting-agency/internal/movies"
	"github.com/casting-agency/casting-agency/internal/observability"
	"github.com/casting-agency/casting-agency/internal/platform/cache"
	"github.com/casting-agency/casting-agency/internal/platform/db"
	"github.com/casting-agency/casting-agency/internal/shared"
	"github.com/casting-agency/casting-agency/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	gdb, err := db.New(ctx, cfg.DatabaseURL, db.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalogCache := shared.NewCache(redisClient, cfg.CacheTTL)
	audit := shared.NewAuditLogger(gdb)
	movieRepo := movies.NewRepository(gdb)
	movieService := movies.NewService(movieRepo, catalogCache, audit, logger)
	actorService := actors.NewService(actors.NewRepository(gdb), movieRepo, catalogCache, audit, logger)

	metrics := observability.NewMetrics()
	if cfg.WorkerMetricsAddr != "" {
		metricsServer := metrics.Server(cfg.WorkerMetricsAddr)
		go func() {
			logger.Info("worker metrics listening", slog.String("addr", cfg.WorkerMetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("worker metrics server", slog.Any("error", err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("worker metrics shutdown", slog.Any("error", err))
			}
		}()
	}

	warmupJob := jobs.NewCatalogWarmupJob(actorService, movieService, logger, metrics.Jobs())
	warmupTask, err := jobs.NewCatalogWarmupTask(jobs.CatalogWarmupPayload{PageSize: 20, Pages: 3})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	var cron []jobs.CronRegistration
	if cfg.CatalogWarmupCron != "" {
		cron = append(cron, jobs.CronRegistration{
			Spec:    cfg.CatalogWarmupCron,
			Task:    warmupTask,
			Options: []asynq.Option{asynq.MaxRetry(3)},
		})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCatalogWarmup, Handler: warmupJob.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
