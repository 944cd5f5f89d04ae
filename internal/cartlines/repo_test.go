package cartlines

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/db"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
)

func setupCartLinesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS cart_lines (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  merchant_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  merchant_product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price_at_add TEXT NOT NULL,
  compare_at_price TEXT,
  product_size TEXT,
  selected_variation_id TEXT,
  selected_modifiers TEXT,
  selected_addons TEXT,
  special_instructions TEXT,
  notes_for_rider TEXT,
  item_hash TEXT NOT NULL,
  subtotal TEXT NOT NULL,
  is_available INTEGER NOT NULL DEFAULT 1,
  unavailable_reason TEXT,
  expires_at DATETIME NOT NULL,
  session_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_lines_dedup
  ON cart_lines (customer_id, merchant_id, item_hash);`
	require.NoError(t, conn.Exec(schema).Error)

	return conn
}

func seedLine(customerID, merchantID uuid.UUID, itemHash string) *models.CartLine {
	return &models.CartLine{
		ID:                uuid.New(),
		CustomerID:        customerID,
		MerchantID:        merchantID,
		ProductID:         uuid.New(),
		MerchantProductID: uuid.New(),
		Quantity:          1,
		PriceAtAdd:        decimal.NewFromInt(10),
		ItemHash:          itemHash,
		Subtotal:          decimal.NewFromInt(10),
		IsAvailable:       true,
		ExpiresAt:         time.Now().Add(24 * time.Hour),
	}
}

func TestRepositoryFindByFingerprint(t *testing.T) {
	conn := setupCartLinesTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	customerID := uuid.New()
	merchantID := uuid.New()
	line := seedLine(customerID, merchantID, "hash-find")
	require.NoError(t, repo.Create(ctx, line))

	found, err := repo.FindByFingerprint(ctx, customerID, merchantID, "hash-find")
	require.NoError(t, err)
	assert.Equal(t, line.ID, found.ID)

	_, err = repo.FindByFingerprint(ctx, customerID, merchantID, "hash-missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreateDuplicateFingerprint(t *testing.T) {
	conn := setupCartLinesTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	customerID := uuid.New()
	merchantID := uuid.New()
	require.NoError(t, repo.Create(ctx, seedLine(customerID, merchantID, "hash-dup")))

	err := repo.Create(ctx, seedLine(customerID, merchantID, "hash-dup"))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, "idx_cart_lines_dedup"))
}

func TestRepositoryDeleteScopedToCustomer(t *testing.T) {
	conn := setupCartLinesTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	customerID := uuid.New()
	line := seedLine(customerID, uuid.New(), "hash-delete")
	require.NoError(t, repo.Create(ctx, line))

	affected, err := repo.Delete(ctx, line.ID, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, affected, "another customer must not delete the line")

	affected, err = repo.Delete(ctx, line.ID, customerID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
}

func TestRepositoryListActiveExcludesExpired(t *testing.T) {
	conn := setupCartLinesTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	customerID := uuid.New()
	active := seedLine(customerID, uuid.New(), "hash-active")
	require.NoError(t, repo.Create(ctx, active))

	expired := seedLine(customerID, uuid.New(), "hash-expired")
	expired.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, expired))

	lines, err := repo.ListActiveByCustomer(ctx, customerID, time.Now())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, active.ID, lines[0].ID)
}
