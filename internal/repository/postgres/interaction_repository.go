package postgres

import (
	"context"
	"fmt"
	"time"

	"brandreco/domain"

	"gorm.io/gorm"
)

type InteractionRepository struct {
	DB *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{
		DB: db,
	}
}

// FetchInteractions pulls the last N weeks of raw interaction rows from the
// analytical store, oldest first.
func (r *InteractionRepository) FetchInteractions(ctx context.Context, lastNWeeks int) ([]domain.InteractionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	since := time.Now().AddDate(0, 0, -7*lastNWeeks)

	var events []domain.InteractionEvent
	err := r.DB.WithContext(ctx).
		Where("date >= ?", since).
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer interactions: %w", err)
	}

	return events, nil
}
