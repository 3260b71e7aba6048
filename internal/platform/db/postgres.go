package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Logger          *slog.Logger
}

// New opens a PostgreSQL connection through GORM and verifies it with a ping.
func New(ctx context.Context, dsn string, opts Options) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         NewLogger(opts.Logger),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("platform/db: open: %w", err)
	}
	if err := configurePool(ctx, gdb, opts); err != nil {
		return nil, err
	}
	return gdb, nil
}

func configurePool(ctx context.Context, gdb *gorm.DB, opts Options) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("platform/db: sql handle: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("platform/db: ping: %w", err)
	}
	return nil
}

// Ping checks that the underlying connection is alive.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("platform/db: sql handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates the tables backing the given models.
func Migrate(ctx context.Context, gdb *gorm.DB, models ...any) error {
	if err := gdb.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("platform/db: migrate: %w", err)
	}
	return nil
}
