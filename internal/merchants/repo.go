package merchants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
)

// Repository defines the merchant reads required by the geo service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	ListGeoCandidates(ctx context.Context, includeInactive bool) ([]models.Merchant, error)
}

// MerchantRepository reads merchants for discovery and cart integrity checks.
type MerchantRepository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

// GetByID loads a single merchant.
func (r *MerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	var merchant models.Merchant
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&merchant).Error
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

// ListGeoCandidates returns merchants eligible for geo filtering. Rows with
// missing coordinates never participate.
func (r *MerchantRepository) ListGeoCandidates(ctx context.Context, includeInactive bool) ([]models.Merchant, error) {
	query := r.db.WithContext(ctx).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var merchants []models.Merchant
	if err := query.Find(&merchants).Error; err != nil {
		return nil, err
	}
	return merchants, nil
}
