package movies

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/casting-agency/casting-agency/internal/platform/httpx"
	"github.com/casting-agency/casting-agency/internal/shared"
)

const auditEntity = "movie"

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type Service struct {
	repo     Repository
	cache    *shared.Cache
	audit    AuditRecorder
	validate *validator.Validate
	logger   *slog.Logger
}

func NewService(repo Repository, cache *shared.Cache, audit AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		audit:    audit,
		validate: shared.NewValidator(),
		logger:   logger,
	}
}

// List returns movies matching filters, served from the catalog cache when warm.
func (s *Service) List(ctx context.Context, filters shared.ListFilters) (ListResult, error) {
	var (
		loaded  *ListResult
		loadErr error
	)
	load := func(ctx context.Context) (any, error) {
		movies, total, err := s.repo.List(ctx, filters)
		if err != nil {
			loadErr = err
			return nil, err
		}
		loaded = &ListResult{Movies: movies, Total: total}
		return *loaded, nil
	}

	key, err := s.cache.BuildKey(ctx, "catalog", "movies", filters.CacheToken())
	if err == nil {
		var res ListResult
		err = s.cache.FetchJSON(ctx, key, &res, load)
		if err != nil && loaded != nil {
			s.logger.Warn("movies cache write failed", slog.Any("error", err))
			res, err = *loaded, nil
		}
		if err == nil {
			if res.Movies == nil {
				res.Movies = []Movie{}
			}
			return res, nil
		}
		if loadErr != nil {
			return ListResult{}, loadErr
		}
	}
	s.logger.Warn("movies cache unavailable", slog.Any("error", err))
	movies, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Movies: movies, Total: total}, nil
}

// Get returns the movie with its cast.
func (s *Service) Get(ctx context.Context, id int64) (Movie, error) {
	if id <= 0 {
		return Movie{}, fmt.Errorf("movie %d: %w", id, httpx.ErrNotFound)
	}
	return s.repo.Get(ctx, id, true)
}

func (s *Service) Create(ctx context.Context, req CreateMovieRequest) (Movie, error) {
	if err := s.validateCreate(&req); err != nil {
		return Movie{}, err
	}
	date, err := ParseDate(req.ReleaseDate)
	if err != nil {
		return Movie{}, shared.InvalidField("release_date", "must be a date formatted as "+DateLayout)
	}
	movie := Movie{Title: req.Title, ReleaseDate: date}
	if err := s.repo.Create(ctx, &movie); err != nil {
		return Movie{}, err
	}
	s.afterWrite(ctx, shared.AuditCreate, movie.ID, map[string]any{"title": movie.Title})
	return movie, nil
}

// Update applies the non-empty fields of req to the movie.
func (s *Service) Update(ctx context.Context, id int64, req UpdateMovieRequest) (Movie, error) {
	if id <= 0 {
		return Movie{}, fmt.Errorf("movie %d: %w", id, httpx.ErrNotFound)
	}
	movie, err := s.repo.Get(ctx, id, false)
	if err != nil {
		return Movie{}, err
	}
	if err := s.validateUpdate(&req); err != nil {
		return Movie{}, err
	}

	changed := map[string]any{}
	if req.Title != "" && req.Title != movie.Title {
		movie.Title = req.Title
		changed["title"] = req.Title
	}
	if req.ReleaseDate != "" {
		date, err := ParseDate(req.ReleaseDate)
		if err != nil {
			return Movie{}, shared.InvalidField("release_date", "must be a date formatted as "+DateLayout)
		}
		if !date.Equal(movie.ReleaseDate.Time) {
			movie.ReleaseDate = date
			changed["release_date"] = date.String()
		}
	}
	if len(changed) > 0 {
		if err := s.repo.Update(ctx, &movie); err != nil {
			return Movie{}, err
		}
		s.afterWrite(ctx, shared.AuditUpdate, movie.ID, changed)
	}
	return s.repo.Get(ctx, id, true)
}

// Delete removes the movie; its actors are kept with no movie.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("movie %d: %w", id, httpx.ErrNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.afterWrite(ctx, shared.AuditDelete, id, nil)
	return nil
}

func (s *Service) afterWrite(ctx context.Context, action string, id int64, meta map[string]any) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("catalog cache bump failed", slog.Any("error", err))
	}
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   auditEntity,
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
	})
	if err != nil {
		s.logger.Error("audit record failed", slog.String("entity", auditEntity), slog.Int64("id", id), slog.Any("error", err))
	}
}
