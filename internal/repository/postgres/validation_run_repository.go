package postgres

import (
	"context"
	"fmt"

	"brandreco/domain"

	"gorm.io/gorm"
)

type ValidationRunRepository struct {
	DB *gorm.DB
}

func NewValidationRunRepository(db *gorm.DB) *ValidationRunRepository {
	return &ValidationRunRepository{
		DB: db,
	}
}

func (r *ValidationRunRepository) Save(ctx context.Context, run *domain.ValidationRun) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to save validation run: %w", err)
	}

	return nil
}

// FindRecent returns the latest validation run ledger rows, newest first.
func (r *ValidationRunRepository) FindRecent(ctx context.Context, limit int) ([]domain.ValidationRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var runs []domain.ValidationRun
	err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch validation runs: %w", err)
	}

	return runs, nil
}
