package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/casting-agency/casting-agency/internal/actors"
	jobmetrics "github.com/casting-agency/casting-agency/internal/jobs"
	"github.com/casting-agency/casting-agency/internal/movies"
	"github.com/casting-agency/casting-agency/internal/shared"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ActorLister lists actors through the cached service path.
type ActorLister interface {
	List(ctx context.Context, filters shared.ListFilters) (actors.ListResult, error)
}

// MovieLister lists movies through the cached service path.
type MovieLister interface {
	List(ctx context.Context, filters shared.ListFilters) (movies.ListResult, error)
}

// CatalogWarmupJob pre-populates the catalog cache with the listings clients hit most.
type CatalogWarmupJob struct {
	Actors  ActorLister
	Movies  MovieLister
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewCatalogWarmupJob wires dependencies for the warmup handler.
func NewCatalogWarmupJob(actorSvc ActorLister, movieSvc MovieLister, logger *slog.Logger, metrics *jobmetrics.Metrics) *CatalogWarmupJob {
	return &CatalogWarmupJob{
		Actors:  actorSvc,
		Movies:  movieSvc,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes catalog warmup tasks.
func (j *CatalogWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Actors == nil || j.Movies == nil {
		return errors.New("catalog warmup: handler not configured")
	}
	var payload CatalogWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("catalog warmup: decode payload: %w", asynq.SkipRetry)
		}
	}

	tracker := j.metrics().Track(TaskCatalogWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	start := j.now()
	logger.Info("starting catalog warmup")

	actorCount, movieCount := 0, 0
	for _, filters := range warmupFilters(payload) {
		actorRes, err := j.Actors.List(ctx, filters)
		if err != nil {
			logger.Error("warm actors", slog.Int("page", filters.Page), slog.Any("error", err))
			return err
		}
		movieRes, err := j.Movies.List(ctx, filters)
		if err != nil {
			logger.Error("warm movies", slog.Int("page", filters.Page), slog.Any("error", err))
			return err
		}
		actorCount += len(actorRes.Actors)
		movieCount += len(movieRes.Movies)
	}
	j.metrics().AddWarmed("actors", actorCount)
	j.metrics().AddWarmed("movies", movieCount)

	logger.Info("completed catalog warmup",
		slog.Int("actors", actorCount),
		slog.Int("movies", movieCount),
		slog.Duration("duration", j.now().Sub(start)))
	return nil
}

func warmupFilters(payload CatalogWarmupPayload) []shared.ListFilters {
	filters := []shared.ListFilters{{}}
	if payload.PageSize <= 0 {
		return filters
	}
	pages := payload.Pages
	if pages <= 0 {
		pages = 1
	}
	limit := min(payload.PageSize, shared.MaxListLimit)
	for page := 1; page <= pages; page++ {
		filters = append(filters, shared.ListFilters{Page: page, Limit: limit})
	}
	return filters
}

func (j *CatalogWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCatalogWarmup))
	}
	return slog.Default().With(slog.String("job", TaskCatalogWarmup))
}

func (j *CatalogWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *CatalogWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
