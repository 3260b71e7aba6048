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
	"github.com/redis/go-redis/v9"

	"github.com/casting-agency/casting-agency/cmd/casting/cli"
	"github.com/casting-agency/casting-agency/internal/actors"
	"github.com/casting-agency/casting-agency/internal/app"
	"github.com/casting-agency/casting-agency/internal/auth"
	"github.com/casting-agency/casting-agency/internal/movies"
	"github.com/casting-agency/casting-agency/internal/observability"
	"github.com/casting-agency/casting-agency/internal/platform/cache"
	"github.com/casting-agency/casting-agency/internal/platform/db"
	"github.com/casting-agency/casting-agency/internal/rbac"
	"github.com/casting-agency/casting-agency/internal/shared"
	"github.com/casting-agency/casting-agency/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		os.Exit(runJobsCommand(ctx, cfg, logger, os.Args[2:]))
	}

	gdb, err := db.New(ctx, cfg.DatabaseURL, db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxOpenConns / 2,
		ConnMaxLifetime: 30 * time.Minute,
		Logger:          logger,
	})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.DBAutoMigrate {
		models := append(movies.Models(), &shared.AuditEntry{})
		if err := db.Migrate(ctx, gdb, models...); err != nil {
			logger.Error("migrate", slog.Any("error", err))
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if client, err := cache.New(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", slog.Any("error", err))
	} else {
		redisClient = client
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	keySet, err := auth.NewKeySet(ctx, cfg.JWKSURL(), auth.KeySetOptions{
		TTL:        cfg.JWKSCacheTTL,
		MinRefresh: cfg.JWKSMinRefresh,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("jwks", slog.String("url", cfg.JWKSURL()), slog.Any("error", err))
		os.Exit(1)
	}
	verifier := auth.NewVerifier(keySet, auth.VerifierConfig{
		Issuer:     cfg.Issuer(),
		Audience:   cfg.APIAudience,
		Algorithms: cfg.Algorithms,
	})
	rbacMiddleware := rbac.NewMiddleware(verifier, logger)

	catalogCache := shared.NewCache(redisClient, cfg.CacheTTL)
	auditLogger := shared.NewAuditLogger(gdb)

	movieRepo := movies.NewRepository(gdb)
	movieService := movies.NewService(movieRepo, catalogCache, auditLogger, logger)
	movieHandler := movies.NewHandler(logger, movieService, rbacMiddleware)

	actorService := actors.NewService(actors.NewRepository(gdb), movieRepo, catalogCache, auditLogger, logger)
	actorHandler := actors.NewHandler(logger, actorService, rbacMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("asynq inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		ActorsHandler: actorHandler,
		MoviesHandler: movieHandler,
		JobHandler:    jobHandler,
		Metrics:       metrics,
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func runJobsCommand(ctx context.Context, cfg *app.Config, logger *slog.Logger, args []string) int {
	jobsCLI, err := cli.NewJobsCLI(cfg.RedisAddr)
	if err != nil {
		logger.Error("init jobs cli", slog.Any("error", err))
		return 1
	}
	defer func() {
		if err := jobsCLI.Close(); err != nil {
			logger.Warn("jobs cli close", slog.Any("error", err))
		}
	}()
	return jobsCLI.Command(ctx, args, os.Stdout, os.Stderr)
}
