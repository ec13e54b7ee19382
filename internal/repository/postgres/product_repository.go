package postgres

import (
	"context"
	"fmt"

	"brandreco/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

// FindAll returns every product attribute row. The rows feed the
// content-based trainer; the core does not interpret them.
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.ProductInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.ProductInfo
	err := r.DB.WithContext(ctx).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product information: %w", err)
	}

	return products, nil
}
