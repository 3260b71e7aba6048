package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTx executes fn within a transaction, rolling back when fn fails.
// Errors from fn are returned unwrapped.
func WithTx(ctx context.Context, gdb *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := gdb.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("platform/db: begin tx: %w", tx.Error)
	}

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", err)
	}
	committed = true
	return nil
}
