package actors

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/casting-agency/casting-agency/internal/platform/httpx"
	"github.com/casting-agency/casting-agency/internal/shared"
)

const auditEntity = "actor"

// MovieLookup reports whether a movie exists.
type MovieLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type Service struct {
	repo     Repository
	movies   MovieLookup
	cache    *shared.Cache
	audit    AuditRecorder
	validate *validator.Validate
	logger   *slog.Logger
}

func NewService(repo Repository, movies MovieLookup, cache *shared.Cache, audit AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		movies:   movies,
		cache:    cache,
		audit:    audit,
		validate: shared.NewValidator(),
		logger:   logger,
	}
}

// List returns actors matching filters, served from the catalog cache when warm.
func (s *Service) List(ctx context.Context, filters shared.ListFilters) (ListResult, error) {
	var (
		loaded  *ListResult
		loadErr error
	)
	load := func(ctx context.Context) (any, error) {
		actors, total, err := s.repo.List(ctx, filters)
		if err != nil {
			loadErr = err
			return nil, err
		}
		loaded = &ListResult{Actors: actors, Total: total}
		return *loaded, nil
	}

	key, err := s.cache.BuildKey(ctx, "catalog", "actors", filters.CacheToken())
	if err == nil {
		var res ListResult
		err = s.cache.FetchJSON(ctx, key, &res, load)
		if err != nil && loaded != nil {
			s.logger.Warn("actors cache write failed", slog.Any("error", err))
			res, err = *loaded, nil
		}
		if err == nil {
			if res.Actors == nil {
				res.Actors = []Actor{}
			}
			return res, nil
		}
		if loadErr != nil {
			return ListResult{}, loadErr
		}
	}
	s.logger.Warn("actors cache unavailable", slog.Any("error", err))
	actors, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Actors: actors, Total: total}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Actor, error) {
	if id <= 0 {
		return Actor{}, fmt.Errorf("actor %d: %w", id, httpx.ErrNotFound)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateActorRequest) (Actor, error) {
	if err := s.validateCreate(&req); err != nil {
		return Actor{}, err
	}
	if err := s.ensureMovie(ctx, req.MovieID); err != nil {
		return Actor{}, err
	}
	actor := Actor{
		Name:    req.Name,
		Age:     int(req.Age.Value),
		Gender:  req.Gender,
		MovieID: req.MovieID.Ptr(),
	}
	if err := s.repo.Create(ctx, &actor); err != nil {
		return Actor{}, err
	}
	s.afterWrite(ctx, shared.AuditCreate, actor.ID, map[string]any{"name": actor.Name})
	return actor, nil
}

// Update applies the non-empty fields of req to the actor.
func (s *Service) Update(ctx context.Context, id int64, req UpdateActorRequest) (Actor, error) {
	actor, err := s.Get(ctx, id)
	if err != nil {
		return Actor{}, err
	}
	if err := s.validateUpdate(&req); err != nil {
		return Actor{}, err
	}

	changed := map[string]any{}
	if req.Name != "" && req.Name != actor.Name {
		actor.Name = req.Name
		changed["name"] = req.Name
	}
	if req.Age.Set && int(req.Age.Value) != actor.Age {
		actor.Age = int(req.Age.Value)
		changed["age"] = actor.Age
	}
	if req.Gender != "" && req.Gender != actor.Gender {
		actor.Gender = req.Gender
		changed["gender"] = req.Gender
	}
	if req.MovieID.Set && (actor.MovieID == nil || *actor.MovieID != req.MovieID.Value) {
		if err := s.ensureMovie(ctx, req.MovieID); err != nil {
			return Actor{}, err
		}
		actor.MovieID = req.MovieID.Ptr()
		changed["movie_id"] = req.MovieID.Value
	}
	if len(changed) == 0 {
		return actor, nil
	}

	if err := s.repo.Update(ctx, &actor); err != nil {
		return Actor{}, err
	}
	s.afterWrite(ctx, shared.AuditUpdate, actor.ID, changed)
	return actor, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("actor %d: %w", id, httpx.ErrNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.afterWrite(ctx, shared.AuditDelete, id, nil)
	return nil
}

func (s *Service) ensureMovie(ctx context.Context, movieID shared.OptionalInt) error {
	if !movieID.Set || s.movies == nil {
		return nil
	}
	ok, err := s.movies.Exists(ctx, movieID.Value)
	if err != nil {
		return err
	}
	if !ok {
		return shared.InvalidField("movie_id", "does not reference an existing movie")
	}
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
