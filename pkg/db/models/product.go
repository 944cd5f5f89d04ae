package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog listing created by a vendor. A cart line references
// both the product and the merchant-specific listing derived from it.
type Product struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID       uuid.UUID        `gorm:"column:vendor_id;type:uuid;not null"`
	MerchantID     uuid.UUID        `gorm:"column:merchant_id;type:uuid;not null"`
	Name           string           `gorm:"column:name;not null"`
	Description    *string          `gorm:"column:description"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"column:compare_at_price;type:numeric(12,2)"`
	IsActive       bool             `gorm:"column:is_active;not null;default:true"`
	InStock        bool             `gorm:"column:in_stock;not null;default:true"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
