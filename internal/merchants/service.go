package merchants

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/metrics"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

// NearbyResult is a merchant annotated with its distance from the customer
// and a delivery time estimate.
type NearbyResult struct {
	Merchant       models.Merchant
	DistanceMeters float64
	ETAMinutes     int
}

// DeliveryCheck reports whether a single merchant covers a location.
type DeliveryCheck struct {
	MerchantID     uuid.UUID
	Delivers       bool
	DistanceMeters float64
	ETAMinutes     int
}

// NearbyQuery describes a radius search around the customer.
type NearbyQuery struct {
	Latitude        float64
	Longitude       float64
	RadiusMeters    float64
	IncludeInactive bool
	Page            pagination.Params
}

// DeliverableQuery describes a per-merchant-radius search around the customer.
type DeliverableQuery struct {
	Latitude  float64
	Longitude float64
	Page      pagination.Params
}

// Service answers merchant discovery questions.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	NearbyMerchants(ctx context.Context, query NearbyQuery) ([]NearbyResult, pagination.Meta, error)
	DeliverableMerchants(ctx context.Context, query DeliverableQuery) ([]NearbyResult, pagination.Meta, error)
	CanDeliver(ctx context.Context, merchantID uuid.UUID, lat, lng float64) (*DeliveryCheck, error)
}

type service struct {
	repo Repository
	cfg  config.GeoConfig
}

// NewService builds a merchant discovery service.
func NewService(repo Repository, cfg config.GeoConfig) (Service, error) {
	if repo == nil {
		return nil, errors.New("merchant repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

// GetByID loads a single merchant.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	merchant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}
	return merchant, nil
}

// NearbyMerchants returns merchants within a fixed radius of the customer,
// closest first. The boundary is inclusive: a merchant exactly on the radius
// is a match.
func (s *service) NearbyMerchants(ctx context.Context, query NearbyQuery) ([]NearbyResult, pagination.Meta, error) {
	if err := validateCoordinates(query.Latitude, query.Longitude); err != nil {
		return nil, pagination.Meta{}, err
	}
	radius, err := s.clampRadius(query.RadiusMeters)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	candidates, err := s.repo.ListGeoCandidates(ctx, query.IncludeInactive)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list merchants")
	}

	results := s.rank(candidates, query.Latitude, query.Longitude, func(distance float64, _ models.Merchant) bool {
		return distance <= radius
	})

	metrics.GeoQueries.WithLabelValues("nearby").Inc()
	page, meta := pagination.Page(results, query.Page)
	return page, meta, nil
}

// DeliverableMerchants returns merchants whose own delivery radius covers the
// customer's location, closest first.
func (s *service) DeliverableMerchants(ctx context.Context, query DeliverableQuery) ([]NearbyResult, pagination.Meta, error) {
	if err := validateCoordinates(query.Latitude, query.Longitude); err != nil {
		return nil, pagination.Meta{}, err
	}

	candidates, err := s.repo.ListGeoCandidates(ctx, false)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list merchants")
	}

	results := s.rank(candidates, query.Latitude, query.Longitude, func(distance float64, m models.Merchant) bool {
		return m.DeliveryRadiusMeters > 0 && distance <= m.DeliveryRadiusMeters
	})

	metrics.GeoQueries.WithLabelValues("deliverable").Inc()
	page, meta := pagination.Page(results, query.Page)
	return page, meta, nil
}

// CanDeliver checks whether one merchant's delivery radius covers a location.
func (s *service) CanDeliver(ctx context.Context, merchantID uuid.UUID, lat, lng float64) (*DeliveryCheck, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	merchant, err := s.GetByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if !merchant.HasCoordinates() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "merchant has no coordinates on file")
	}

	distance := haversineMeters(lat, lng, *merchant.Latitude, *merchant.Longitude, s.cfg.EarthRadiusMeters)
	check := &DeliveryCheck{
		MerchantID:     merchant.ID,
		Delivers:       merchant.IsActive && merchant.DeliveryRadiusMeters > 0 && distance <= merchant.DeliveryRadiusMeters,
		DistanceMeters: distance,
		ETAMinutes:     etaMinutes(distance, s.cfg.ETABaseMinutes, s.cfg.ETAMinutesPerKm),
	}

	metrics.GeoQueries.WithLabelValues("delivers").Inc()
	return check, nil
}

// rank computes distance and ETA for every candidate, keeps those the match
// function accepts and sorts ascending by distance.
func (s *service) rank(candidates []models.Merchant, lat, lng float64, match func(float64, models.Merchant) bool) []NearbyResult {
	results := make([]NearbyResult, 0, len(candidates))
	for _, merchant := range candidates {
		if !merchant.HasCoordinates() {
			continue
		}
		distance := haversineMeters(lat, lng, *merchant.Latitude, *merchant.Longitude, s.cfg.EarthRadiusMeters)
		if !match(distance, merchant) {
			continue
		}
		results = append(results, NearbyResult{
			Merchant:       merchant,
			DistanceMeters: distance,
			ETAMinutes:     etaMinutes(distance, s.cfg.ETABaseMinutes, s.cfg.ETAMinutesPerKm),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})
	return results
}

func (s *service) clampRadius(radius float64) (float64, error) {
	if radius < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "radius must be non-negative")
	}
	if radius == 0 {
		return s.defaultRadius(), nil
	}
	if max := s.maxRadius(); radius > max {
		return max, nil
	}
	return radius, nil
}

func (s *service) defaultRadius() float64 {
	if s.cfg.DefaultRadiusMeters > 0 {
		return s.cfg.DefaultRadiusMeters
	}
	return 5000
}

func (s *service) maxRadius() float64 {
	if s.cfg.MaxRadiusMeters > 0 {
		return s.cfg.MaxRadiusMeters
	}
	return 50000
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return pkgerrors.New(pkgerrors.CodeValidation, "latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return pkgerrors.New(pkgerrors.CodeValidation, "longitude must be between -180 and 180")
	}
	return nil
}
