package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Merchant represents a restaurant or store customers order from.
type Merchant struct {
	ID                   uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID             uuid.UUID      `gorm:"column:vendor_id;type:uuid;not null"`
	Name                 string         `gorm:"column:name;not null"`
	Description          *string        `gorm:"column:description"`
	Phone                *string        `gorm:"column:phone"`
	Email                *string        `gorm:"column:email"`
	Categories           pq.StringArray `gorm:"column:categories;type:text[]"`
	Latitude             *float64       `gorm:"column:latitude;type:numeric(9,6)"`
	Longitude            *float64       `gorm:"column:longitude;type:numeric(9,6)"`
	DeliveryRadiusMeters float64        `gorm:"column:delivery_radius_meters;not null;default:0"`
	IsActive             bool           `gorm:"column:is_active;not null;default:true"`
	LogoURL              *string        `gorm:"column:logo_url"`
	BannerURL            *string        `gorm:"column:banner_url"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// HasCoordinates reports whether the merchant can participate in geo search.
func (m Merchant) HasCoordinates() bool {
	return m.Latitude != nil && m.Longitude != nil
}
