package actors

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/casting-agency/casting-agency/internal/platform/db"
	"github.com/casting-agency/casting-agency/internal/platform/httpx"
	"github.com/casting-agency/casting-agency/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Actor, int64, error)
	Get(ctx context.Context, id int64) (Actor, error)
	Create(ctx context.Context, actor *Actor) error
	Update(ctx context.Context, actor *Actor) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) Repository {
	return &repository{db: gdb}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Actor, int64, error) {
	q := r.db.WithContext(ctx).Model(&Actor{})
	if filters.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filters.Search)+"%")
	}
	if filters.MovieID != nil {
		q = q.Where("movie_id = ?", *filters.MovieID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("actors: count: %w", err)
	}

	q = q.Order("id ASC")
	if filters.Limit > 0 {
		q = q.Limit(filters.Limit).Offset(filters.Offset())
	}
	actors := make([]Actor, 0)
	if err := q.Find(&actors).Error; err != nil {
		return nil, 0, fmt.Errorf("actors: list: %w", err)
	}
	return actors, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Actor, error) {
	var actor Actor
	err := r.db.WithContext(ctx).First(&actor, id).Error
	if db.IsNotFound(err) {
		return Actor{}, fmt.Errorf("actor %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return Actor{}, fmt.Errorf("actors: get: %w", err)
	}
	return actor, nil
}

func (r *repository) Create(ctx context.Context, actor *Actor) error {
	return translate("create", r.db.WithContext(ctx).Create(actor).Error)
}

func (r *repository) Update(ctx context.Context, actor *Actor) error {
	res := r.db.WithContext(ctx).Model(actor).
		Select("name", "age", "gender", "movie_id", "updated_at").
		Updates(actor)
	if err := translate("update", res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("actor %d: %w", actor.ID, httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Actor{}, id)
	if res.Error != nil {
		return fmt.Errorf("actors: delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("actor %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsForeignKeyViolation(err):
		return shared.InvalidField("movie_id", "does not reference an existing movie")
	default:
		return fmt.Errorf("actors: %s: %w", op, err)
	}
}
