package merchants

import (
	"github.com/google/uuid"

	merchantsvc "github.com/feastly-app/feastly-backend/internal/merchants"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

// NearbyMerchant is the public shape of one discovery result.
type NearbyMerchant struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Description          *string   `json:"description,omitempty"`
	Categories           []string  `json:"categories,omitempty"`
	Latitude             float64   `json:"latitude"`
	Longitude            float64   `json:"longitude"`
	DeliveryRadiusMeters float64   `json:"delivery_radius_meters"`
	IsActive             bool      `json:"is_active"`
	LogoURL              *string   `json:"logo_url,omitempty"`
	DistanceMeters       float64   `json:"distance_meters"`
	ETAMinutes           int       `json:"eta_minutes"`
}

// NearbyPage is the paginated discovery payload.
type NearbyPage struct {
	Merchants  []NearbyMerchant `json:"merchants"`
	Pagination pagination.Meta  `json:"pagination"`
}

// DeliveryCheckResponse reports whether a merchant covers a location.
type DeliveryCheckResponse struct {
	MerchantID     uuid.UUID `json:"merchant_id"`
	Delivers       bool      `json:"delivers"`
	DistanceMeters float64   `json:"distance_meters"`
	ETAMinutes     int       `json:"eta_minutes"`
}

func newNearbyMerchant(result merchantsvc.NearbyResult) NearbyMerchant {
	m := result.Merchant
	out := NearbyMerchant{
		ID:                   m.ID,
		Name:                 m.Name,
		Description:          m.Description,
		Categories:           m.Categories,
		DeliveryRadiusMeters: m.DeliveryRadiusMeters,
		IsActive:             m.IsActive,
		LogoURL:              m.LogoURL,
		DistanceMeters:       result.DistanceMeters,
		ETAMinutes:           result.ETAMinutes,
	}
	if m.Latitude != nil {
		out.Latitude = *m.Latitude
	}
	if m.Longitude != nil {
		out.Longitude = *m.Longitude
	}
	return out
}

func newNearbyPage(results []merchantsvc.NearbyResult, meta pagination.Meta) NearbyPage {
	merchants := make([]NearbyMerchant, 0, len(results))
	for _, result := range results {
		merchants = append(merchants, newNearbyMerchant(result))
	}
	return NearbyPage{Merchants: merchants, Pagination: meta}
}

func newDeliveryCheck(check *merchantsvc.DeliveryCheck) DeliveryCheckResponse {
	return DeliveryCheckResponse{
		MerchantID:     check.MerchantID,
		Delivers:       check.Delivers,
		DistanceMeters: check.DistanceMeters,
		ETAMinutes:     check.ETAMinutes,
	}
}
