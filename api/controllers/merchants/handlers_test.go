package merchants

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	merchantsvc "github.com/feastly-app/feastly-backend/internal/merchants"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

type stubMerchantService struct {
	results   []merchantsvc.NearbyResult
	meta      pagination.Meta
	check     *merchantsvc.DeliveryCheck
	err       error
	lastQuery merchantsvc.NearbyQuery
}

func (s *stubMerchantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	return nil, s.err
}

func (s *stubMerchantService) NearbyMerchants(ctx context.Context, query merchantsvc.NearbyQuery) ([]merchantsvc.NearbyResult, pagination.Meta, error) {
	s.lastQuery = query
	return s.results, s.meta, s.err
}

func (s *stubMerchantService) DeliverableMerchants(ctx context.Context, query merchantsvc.DeliverableQuery) ([]merchantsvc.NearbyResult, pagination.Meta, error) {
	return s.results, s.meta, s.err
}

func (s *stubMerchantService) CanDeliver(ctx context.Context, merchantID uuid.UUID, lat, lng float64) (*merchantsvc.DeliveryCheck, error) {
	return s.check, s.err
}

func ptr(f float64) *float64 { return &f }

func TestNearbySuccess(t *testing.T) {
	lat, lng := 51.5, -0.12
	service := &stubMerchantService{
		results: []merchantsvc.NearbyResult{
			{
				Merchant: models.Merchant{
					ID:        uuid.New(),
					Name:      "Pasta Place",
					Latitude:  ptr(lat),
					Longitude: ptr(lng),
					IsActive:  true,
				},
				DistanceMeters: 420,
				ETAMinutes:     11,
			},
		},
		meta: pagination.Meta{Total: 1, Limit: 25},
	}
	handler := Nearby(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/merchants/nearby?lat=51.5&lng=-0.12&radius_m=2000", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data NearbyPage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Merchants) != 1 {
		t.Fatalf("expected 1 merchant, got %d", len(envelope.Data.Merchants))
	}
	if envelope.Data.Merchants[0].DistanceMeters != 420 {
		t.Fatalf("unexpected distance %f", envelope.Data.Merchants[0].DistanceMeters)
	}
	if service.lastQuery.RadiusMeters != 2000 {
		t.Fatalf("radius query should pass through, got %f", service.lastQuery.RadiusMeters)
	}
}

func TestNearbyRequiresCoordinates(t *testing.T) {
	handler := Nearby(&stubMerchantService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/merchants/nearby?lat=51.5", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing lng should be rejected, got %d", resp.Code)
	}
}

func TestNearbyRejectsNonNumericCoordinates(t *testing.T) {
	handler := Nearby(&stubMerchantService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/merchants/nearby?lat=abc&lng=0", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric lat should be rejected, got %d", resp.Code)
	}
}

func TestNearbyValidationErrorFromService(t *testing.T) {
	service := &stubMerchantService{err: pkgerrors.New(pkgerrors.CodeValidation, "latitude must be between -90 and 90")}
	handler := Nearby(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/merchants/nearby?lat=95&lng=0", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDeliverableSuccess(t *testing.T) {
	service := &stubMerchantService{meta: pagination.Meta{Total: 0, Limit: 25}}
	handler := Deliverable(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/merchants/deliverable?lat=0&lng=0", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data NearbyPage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Merchants == nil {
		t.Fatal("merchants should serialize as an empty array, not null")
	}
}

func TestDeliversSuccess(t *testing.T) {
	merchantID := uuid.New()
	service := &stubMerchantService{
		check: &merchantsvc.DeliveryCheck{
			MerchantID:     merchantID,
			Delivers:       true,
			DistanceMeters: 900,
			ETAMinutes:     12,
		},
	}
	handler := Delivers(service, nil)

	req := newDeliversRequest(merchantID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data DeliveryCheckResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Delivers {
		t.Fatal("expected delivers=true")
	}
	if envelope.Data.MerchantID != merchantID {
		t.Fatalf("unexpected merchant id %s", envelope.Data.MerchantID)
	}
}

func TestDeliversInvalidMerchantID(t *testing.T) {
	handler := Delivers(&stubMerchantService{}, nil)

	req := newDeliversRequest("not-a-uuid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDeliversUnknownMerchant(t *testing.T) {
	service := &stubMerchantService{err: pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")}
	handler := Delivers(service, nil)

	req := newDeliversRequest(uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func newDeliversRequest(merchantID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/merchants/"+merchantID+"/delivers?lat=0&lng=0", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("merchantId", merchantID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}
