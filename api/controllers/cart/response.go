package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartsvc "github.com/feastly-app/feastly-backend/internal/cartlines"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

// Line is the public shape of one cart line.
type Line struct {
	ID                  uuid.UUID                `json:"id"`
	MerchantID          uuid.UUID                `json:"merchant_id"`
	ProductID           uuid.UUID                `json:"product_id"`
	MerchantProductID   uuid.UUID                `json:"merchant_product_id"`
	Quantity            int                      `json:"quantity"`
	PriceAtAdd          decimal.Decimal          `json:"price_at_add"`
	CompareAtPrice      *decimal.Decimal         `json:"compare_at_price,omitempty"`
	ProductSize         *enums.ProductSize       `json:"product_size,omitempty"`
	SelectedVariationID *uuid.UUID               `json:"selected_variation_id,omitempty"`
	SelectedModifiers   types.SelectedModifiers  `json:"selected_modifiers,omitempty"`
	SelectedAddons      types.SelectedAddons     `json:"selected_addons,omitempty"`
	SpecialInstructions *string                  `json:"special_instructions,omitempty"`
	NotesForRider       *string                  `json:"notes_for_rider,omitempty"`
	Subtotal            decimal.Decimal          `json:"subtotal"`
	IsAvailable         bool                     `json:"is_available"`
	UnavailableReason   *enums.UnavailableReason `json:"unavailable_reason,omitempty"`
	ExpiresAt           time.Time                `json:"expires_at"`
}

// LineResult is the add/update payload; Merged reports whether the request
// was folded into an existing line.
type LineResult struct {
	Line   Line `json:"line"`
	Merged bool `json:"merged"`
}

// CartView is the full cart payload.
type CartView struct {
	Lines    []Line          `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func newLine(line *models.CartLine) Line {
	return Line{
		ID:                  line.ID,
		MerchantID:          line.MerchantID,
		ProductID:           line.ProductID,
		MerchantProductID:   line.MerchantProductID,
		Quantity:            line.Quantity,
		PriceAtAdd:          line.PriceAtAdd,
		CompareAtPrice:      line.CompareAtPrice,
		ProductSize:         line.ProductSize,
		SelectedVariationID: line.SelectedVariationID,
		SelectedModifiers:   line.SelectedModifiers,
		SelectedAddons:      line.SelectedAddons,
		SpecialInstructions: line.SpecialInstructions,
		NotesForRider:       line.NotesForRider,
		Subtotal:            line.Subtotal,
		IsAvailable:         line.IsAvailable,
		UnavailableReason:   line.UnavailableReason,
		ExpiresAt:           line.ExpiresAt,
	}
}

func newLineResult(outcome *cartsvc.Outcome) LineResult {
	return LineResult{
		Line:   newLine(outcome.Line),
		Merged: outcome.Kind == cartsvc.OutcomeMerged,
	}
}

func newCartView(summary *cartsvc.CartSummary) CartView {
	lines := make([]Line, 0, len(summary.Lines))
	for i := range summary.Lines {
		lines = append(lines, newLine(&summary.Lines[i]))
	}
	return CartView{Lines: lines, Subtotal: summary.Subtotal}
}
