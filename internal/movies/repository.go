package movies

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/casting-agency/casting-agency/internal/actors"
	"github.com/casting-agency/casting-agency/internal/platform/db"
	"github.com/casting-agency/casting-agency/internal/platform/httpx"
	"github.com/casting-agency/casting-agency/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Movie, int64, error)
	Get(ctx context.Context, id int64, withActors bool) (Movie, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, movie *Movie) error
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) Repository {
	return &repository{db: gdb}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Movie, int64, error) {
	q := r.db.WithContext(ctx).Model(&Movie{})
	if filters.Search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filters.Search)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("movies: count: %w", err)
	}

	q = q.Order("id ASC")
	if filters.Limit > 0 {
		q = q.Limit(filters.Limit).Offset(filters.Offset())
	}
	movies := make([]Movie, 0)
	if err := q.Find(&movies).Error; err != nil {
		return nil, 0, fmt.Errorf("movies: list: %w", err)
	}
	return movies, total, nil
}

func (r *repository) Get(ctx context.Context, id int64, withActors bool) (Movie, error) {
	q := r.db.WithContext(ctx)
	if withActors {
		q = q.Preload("Actors", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") })
	}
	var movie Movie
	err := q.First(&movie, id).Error
	if db.IsNotFound(err) {
		return Movie{}, fmt.Errorf("movie %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return Movie{}, fmt.Errorf("movies: get: %w", err)
	}
	return movie, nil
}

// Exists implements actors.MovieLookup.
func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Movie{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("movies: exists: %w", err)
	}
	return count > 0, nil
}

func (r *repository) Create(ctx context.Context, movie *Movie) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(movie).Error; err != nil {
		return fmt.Errorf("movies: create: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, movie *Movie) error {
	res := r.db.WithContext(ctx).Model(movie).
		Select("title", "release_date", "updated_at").
		Updates(movie)
	if res.Error != nil {
		return fmt.Errorf("movies: update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("movie %d: %w", movie.ID, httpx.ErrNotFound)
	}
	return nil
}

// Delete detaches the movie's actors and removes the movie in one transaction.
func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Model(&actors.Actor{}).Where("movie_id = ?", id).Update("movie_id", nil).Error; err != nil {
			return fmt.Errorf("movies: detach actors: %w", err)
		}
		res := tx.Delete(&Movie{}, id)
		if res.Error != nil {
			return fmt.Errorf("movies: delete: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("movie %d: %w", id, httpx.ErrNotFound)
		}
		return nil
	})
}
