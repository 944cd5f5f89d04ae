package cartlines

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
)

// Repository defines the persistence surface required by the cart line service.
type Repository interface {
	FindByFingerprint(ctx context.Context, customerID, merchantID uuid.UUID, itemHash string) (*models.CartLine, error)
	FindByIDAndCustomer(ctx context.Context, id, customerID uuid.UUID) (*models.CartLine, error)
	Create(ctx context.Context, line *models.CartLine) error
	Update(ctx context.Context, line *models.CartLine) error
	Delete(ctx context.Context, id, customerID uuid.UUID) (int64, error)
	ListActiveByCustomer(ctx context.Context, customerID uuid.UUID, now time.Time) ([]models.CartLine, error)
}

// CartLineRepository manages persistent cart lines.
type CartLineRepository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *CartLineRepository {
	return &CartLineRepository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *CartLineRepository) WithTx(tx *gorm.DB) *CartLineRepository {
	if tx == nil {
		return r
	}
	return &CartLineRepository{db: tx}
}

// FindByFingerprint returns the line matching the dedup tuple, if any.
func (r *CartLineRepository) FindByFingerprint(ctx context.Context, customerID, merchantID uuid.UUID, itemHash string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND merchant_id = ? AND item_hash = ?", customerID, merchantID, itemHash).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// FindByIDAndCustomer returns the line belonging to the customer.
func (r *CartLineRepository) FindByIDAndCustomer(ctx context.Context, id, customerID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", id, customerID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// Create inserts the provided cart line.
func (r *CartLineRepository) Create(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// Update saves the provided cart line.
func (r *CartLineRepository) Update(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// Delete removes the customer's line and reports how many rows matched.
func (r *CartLineRepository) Delete(ctx context.Context, id, customerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", id, customerID).
		Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}

// ListActiveByCustomer returns the customer's non-expired lines, oldest first.
func (r *CartLineRepository) ListActiveByCustomer(ctx context.Context, customerID uuid.UUID, now time.Time) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND expires_at > ?", customerID, now).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
