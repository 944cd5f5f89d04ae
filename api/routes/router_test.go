package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/feastly-app/feastly-backend/internal/cartlines"
	"github.com/feastly-app/feastly-backend/internal/merchants"
	pkgauth "github.com/feastly-app/feastly-backend/pkg/auth"
	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/logger"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
	"github.com/feastly-app/feastly-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) AddLine(ctx context.Context, customerID uuid.UUID, input cartlines.AddLineInput) (*cartlines.Outcome, error) {
	return &cartlines.Outcome{Kind: cartlines.OutcomeCreated, Line: &models.CartLine{ID: uuid.New()}}, nil
}

func (stubCartService) UpdateLine(ctx context.Context, customerID, lineID uuid.UUID, input cartlines.UpdateLineInput) (*models.CartLine, error) {
	return &models.CartLine{ID: lineID}, nil
}

func (stubCartService) RemoveLine(ctx context.Context, customerID, lineID uuid.UUID) error {
	return nil
}

func (stubCartService) ListLines(ctx context.Context, customerID uuid.UUID) (*cartlines.CartSummary, error) {
	return &cartlines.CartSummary{}, nil
}

type stubMerchantService struct{}

func (stubMerchantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	return &models.Merchant{ID: id}, nil
}

func (stubMerchantService) NearbyMerchants(ctx context.Context, query merchants.NearbyQuery) ([]merchants.NearbyResult, pagination.Meta, error) {
	return []merchants.NearbyResult{}, pagination.Meta{}, nil
}

func (stubMerchantService) DeliverableMerchants(ctx context.Context, query merchants.DeliverableQuery) ([]merchants.NearbyResult, pagination.Meta, error) {
	return []merchants.NearbyResult{}, pagination.Meta{}, nil
}

func (stubMerchantService) CanDeliver(ctx context.Context, merchantID uuid.UUID, lat, lng float64) (*merchants.DeliveryCheck, error) {
	return &merchants.DeliveryCheck{MerchantID: merchantID}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{Secret: "router-test-secret", Issuer: "feastly-test", ExpirationMinutes: 60},
	}
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "router-test"})
	return NewRouter(testConfig(), logg, stubPinger{}, &redis.Client{}, stubCartService{}, stubMerchantService{})
}

func TestHealthLive(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["status"] != "live" {
		t.Fatalf("unexpected payload %v", envelope.Data)
	}
}

func TestPublicPing(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestMerchantRoutesArePublic(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/merchants/nearby?lat=0&lng=0", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("discovery should not require auth, got %d", resp.Code)
	}
}

func TestCartRequiresAuth(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("cart without a token should be 401, got %d", resp.Code)
	}
}

func TestCartWithValidToken(t *testing.T) {
	router := testRouter(t)
	cfg := testConfig()

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{CustomerID: uuid.New()})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	body := `{
		"merchant_id": "` + uuid.NewString() + `",
		"product_id": "` + uuid.NewString() + `",
		"merchant_product_id": "` + uuid.NewString() + `",
		"quantity": 1,
		"price_at_add": "5.00"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}
