package merchants

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

type stubRepo struct {
	merchants []models.Merchant
}

func (r *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	for i := range r.merchants {
		if r.merchants[i].ID == id {
			return &r.merchants[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRepo) ListGeoCandidates(ctx context.Context, includeInactive bool) ([]models.Merchant, error) {
	out := make([]models.Merchant, 0, len(r.merchants))
	for _, m := range r.merchants {
		if !m.HasCoordinates() {
			continue
		}
		if !includeInactive && !m.IsActive {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func ptr(f float64) *float64 { return &f }

func merchantAt(name string, lat, lng, deliveryRadius float64) models.Merchant {
	return models.Merchant{
		ID:                   uuid.New(),
		VendorID:             uuid.New(),
		Name:                 name,
		Latitude:             ptr(lat),
		Longitude:            ptr(lng),
		DeliveryRadiusMeters: deliveryRadius,
		IsActive:             true,
	}
}

func newGeoService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, config.GeoConfig{
		EarthRadiusMeters:   6371000,
		ETABaseMinutes:      10,
		ETAMinutesPerKm:     2,
		DefaultRadiusMeters: 5000,
		MaxRadiusMeters:     50000,
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func TestNearbyMerchantsFiltersAndSorts(t *testing.T) {
	t.Parallel()

	// Near the equator 0.01 degrees of latitude is roughly 1.1km.
	near := merchantAt("near", 0.01, 0, 1000)
	far := merchantAt("far", 0.03, 0, 1000)
	outOfRange := merchantAt("out", 1, 0, 1000)

	repo := &stubRepo{merchants: []models.Merchant{far, outOfRange, near}}
	svc := newGeoService(t, repo)

	results, meta, err := svc.NearbyMerchants(context.Background(), NearbyQuery{
		Latitude: 0, Longitude: 0, RadiusMeters: 5000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Total != 2 {
		t.Fatalf("expected 2 merchants in range, got %d", meta.Total)
	}
	if results[0].Merchant.Name != "near" || results[1].Merchant.Name != "far" {
		t.Fatalf("results should be sorted closest first: %s, %s", results[0].Merchant.Name, results[1].Merchant.Name)
	}
	if results[0].DistanceMeters >= results[1].DistanceMeters {
		t.Fatal("distances should ascend")
	}
	if results[0].ETAMinutes <= 0 {
		t.Fatal("ETA should be positive")
	}
}

func TestNearbyMerchantsInclusiveBoundary(t *testing.T) {
	t.Parallel()

	m := merchantAt("edge", 0, 0.01, 0)
	repo := &stubRepo{merchants: []models.Merchant{m}}
	svc := newGeoService(t, repo)

	exact, _, err := svc.NearbyMerchants(context.Background(), NearbyQuery{Latitude: 0, Longitude: 0, RadiusMeters: 5000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exact) != 1 {
		t.Fatal("merchant inside the radius should match")
	}

	distance := exact[0].DistanceMeters
	onBoundary, _, err := svc.NearbyMerchants(context.Background(), NearbyQuery{Latitude: 0, Longitude: 0, RadiusMeters: distance})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(onBoundary) != 1 {
		t.Fatal("merchant exactly on the radius boundary should match")
	}
}

func TestNearbyMerchantsExcludesInactiveByDefault(t *testing.T) {
	t.Parallel()

	inactive := merchantAt("closed", 0.01, 0, 1000)
	inactive.IsActive = false
	repo := &stubRepo{merchants: []models.Merchant{inactive}}
	svc := newGeoService(t, repo)

	results, _, err := svc.NearbyMerchants(context.Background(), NearbyQuery{Latitude: 0, Longitude: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatal("inactive merchants should be excluded by default")
	}

	results, _, err = svc.NearbyMerchants(context.Background(), NearbyQuery{Latitude: 0, Longitude: 0, IncludeInactive: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatal("include_inactive should surface inactive merchants")
	}
}

func TestNearbyMerchantsValidatesCoordinates(t *testing.T) {
	t.Parallel()

	svc := newGeoService(t, &stubRepo{})

	cases := []struct{ lat, lng float64 }{
		{91, 0},
		{-91, 0},
		{0, 181},
		{0, -181},
	}
	for _, tc := range cases {
		_, _, err := svc.NearbyMerchants(context.Background(), NearbyQuery{Latitude: tc.lat, Longitude: tc.lng})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("coordinates (%f, %f) should fail validation, got %v", tc.lat, tc.lng, err)
		}
	}
}

func TestNearbyMerchantsClampsRadius(t *testing.T) {
	t.Parallel()

	// ~111km from the origin, inside the 50km max only if the clamp fails.
	m := merchantAt("distant", 1, 0, 0)
	repo := &stubRepo{merchants: []models.Merchant{m}}
	svc := newGeoService(t, repo)

	results, _, err := svc.NearbyMerchants(context.Background(), NearbyQuery{
		Latitude: 0, Longitude: 0, RadiusMeters: 10_000_000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatal("oversized radius should be clamped to the configured maximum")
	}

	_, _, err = svc.NearbyMerchants(context.Background(), NearbyQuery{Latitude: 0, Longitude: 0, RadiusMeters: -1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("negative radius should fail validation, got %v", err)
	}
}

func TestNearbyMerchantsPaginatesFilteredSet(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{merchants: []models.Merchant{
		merchantAt("a", 0.001, 0, 0),
		merchantAt("b", 0.002, 0, 0),
		merchantAt("c", 0.003, 0, 0),
	}}
	svc := newGeoService(t, repo)

	results, meta, err := svc.NearbyMerchants(context.Background(), NearbyQuery{
		Latitude: 0, Longitude: 0,
		Page: pagination.Params{Limit: 2, Offset: 0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || meta.Total != 3 || !meta.HasMore {
		t.Fatalf("expected first page of 2 with more remaining, got len=%d total=%d hasMore=%v", len(results), meta.Total, meta.HasMore)
	}

	results, meta, err = svc.NearbyMerchants(context.Background(), NearbyQuery{
		Latitude: 0, Longitude: 0,
		Page: pagination.Params{Limit: 2, Offset: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || meta.HasMore {
		t.Fatalf("expected final page of 1, got len=%d hasMore=%v", len(results), meta.HasMore)
	}
}

func TestDeliverableMerchantsUsesPerMerchantRadius(t *testing.T) {
	t.Parallel()

	// ~1.1km away; covers the customer only when its own radius reaches.
	covers := merchantAt("covers", 0.01, 0, 2000)
	tooSmall := merchantAt("too-small", 0.01, 0, 500)
	noDelivery := merchantAt("no-delivery", 0.01, 0, 0)

	repo := &stubRepo{merchants: []models.Merchant{covers, tooSmall, noDelivery}}
	svc := newGeoService(t, repo)

	results, meta, err := svc.DeliverableMerchants(context.Background(), DeliverableQuery{Latitude: 0, Longitude: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Total != 1 || results[0].Merchant.Name != "covers" {
		t.Fatalf("only the covering merchant should match, got %d results", meta.Total)
	}
}

func TestCanDeliver(t *testing.T) {
	t.Parallel()

	m := merchantAt("pizza", 0.01, 0, 2000)
	repo := &stubRepo{merchants: []models.Merchant{m}}
	svc := newGeoService(t, repo)

	check, err := svc.CanDeliver(context.Background(), m.ID, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.Delivers {
		t.Fatal("merchant with a 2km radius should cover a ~1.1km customer")
	}
	if check.ETAMinutes <= 10 {
		t.Fatalf("ETA should exceed the base for a non-zero distance, got %d", check.ETAMinutes)
	}

	check, err = svc.CanDeliver(context.Background(), m.ID, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Delivers {
		t.Fatal("merchant should not cover a customer ~157km away")
	}
}

func TestCanDeliverUnknownMerchant(t *testing.T) {
	t.Parallel()

	svc := newGeoService(t, &stubRepo{})
	_, err := svc.CanDeliver(context.Background(), uuid.New(), 0, 0)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCanDeliverWithoutCoordinates(t *testing.T) {
	t.Parallel()

	m := models.Merchant{ID: uuid.New(), Name: "no-coords", IsActive: true, DeliveryRadiusMeters: 2000}
	svc := newGeoService(t, &stubRepo{merchants: []models.Merchant{m}})

	_, err := svc.CanDeliver(context.Background(), m.ID, 0, 0)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for a merchant without coordinates, got %v", err)
	}
}
