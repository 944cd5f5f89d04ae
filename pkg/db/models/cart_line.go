package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

// CartLine is one distinct product+customization combination in a customer's
// in-progress order for one merchant. At most one row may exist per
// (customer_id, merchant_id, item_hash); the index backs the resolver's merge.
type CartLine struct {
	ID                  uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID          uuid.UUID                `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:idx_cart_lines_dedup"`
	MerchantID          uuid.UUID                `gorm:"column:merchant_id;type:uuid;not null;uniqueIndex:idx_cart_lines_dedup"`
	ProductID           uuid.UUID                `gorm:"column:product_id;type:uuid;not null"`
	MerchantProductID   uuid.UUID                `gorm:"column:merchant_product_id;type:uuid;not null"`
	Quantity            int                      `gorm:"column:quantity;not null"`
	PriceAtAdd          decimal.Decimal          `gorm:"column:price_at_add;type:numeric(12,2);not null"`
	CompareAtPrice      *decimal.Decimal         `gorm:"column:compare_at_price;type:numeric(12,2)"`
	ProductSize         *enums.ProductSize       `gorm:"column:product_size;type:product_size"`
	SelectedVariationID *uuid.UUID               `gorm:"column:selected_variation_id;type:uuid"`
	SelectedModifiers   types.SelectedModifiers  `gorm:"column:selected_modifiers;type:jsonb;serializer:json"`
	SelectedAddons      types.SelectedAddons     `gorm:"column:selected_addons;type:jsonb;serializer:json"`
	SpecialInstructions *string                  `gorm:"column:special_instructions"`
	NotesForRider       *string                  `gorm:"column:notes_for_rider"`
	ItemHash            string                   `gorm:"column:item_hash;not null;uniqueIndex:idx_cart_lines_dedup"`
	Subtotal            decimal.Decimal          `gorm:"column:subtotal;type:numeric(12,2);not null"`
	IsAvailable         bool                     `gorm:"column:is_available;not null;default:true"`
	UnavailableReason   *enums.UnavailableReason `gorm:"column:unavailable_reason;type:unavailable_reason"`
	ExpiresAt           time.Time                `gorm:"column:expires_at;not null"`
	SessionID           *string                  `gorm:"column:session_id"`
	CreatedAt           time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
