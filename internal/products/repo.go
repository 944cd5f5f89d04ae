package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
)

// ProductRepository reads catalog products.
type ProductRepository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID loads a single product.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByMerchant returns the merchant's catalog, active rows first.
func (r *ProductRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]models.Product, error) {
	var items []models.Product
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("is_active DESC, name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
