package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartsvc "github.com/feastly-app/feastly-backend/internal/cartlines"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

// AddLineRequest is the payload for adding a product to the cart.
type AddLineRequest struct {
	MerchantID          uuid.UUID                `json:"merchant_id" validate:"required"`
	ProductID           uuid.UUID                `json:"product_id" validate:"required"`
	MerchantProductID   uuid.UUID                `json:"merchant_product_id" validate:"required"`
	Quantity            int                      `json:"quantity" validate:"required,min=1"`
	PriceAtAdd          decimal.Decimal          `json:"price_at_add" validate:"required"`
	CompareAtPrice      *decimal.Decimal         `json:"compare_at_price,omitempty"`
	ProductSize         *enums.ProductSize       `json:"product_size,omitempty"`
	SelectedVariationID *uuid.UUID               `json:"selected_variation_id,omitempty"`
	SelectedModifiers   types.SelectedModifiers  `json:"selected_modifiers,omitempty"`
	SelectedAddons      types.SelectedAddons     `json:"selected_addons,omitempty"`
	SpecialInstructions *string                  `json:"special_instructions,omitempty"`
	NotesForRider       *string                  `json:"notes_for_rider,omitempty"`
}

// UpdateLineRequest carries the mutable fields of an existing line. Omitted
// fields stay unchanged.
type UpdateLineRequest struct {
	Quantity            *int                     `json:"quantity,omitempty" validate:"omitempty,min=1"`
	ProductSize         *enums.ProductSize       `json:"product_size,omitempty"`
	SelectedVariationID *uuid.UUID               `json:"selected_variation_id,omitempty"`
	SelectedModifiers   *types.SelectedModifiers `json:"selected_modifiers,omitempty"`
	SelectedAddons      *types.SelectedAddons    `json:"selected_addons,omitempty"`
	SpecialInstructions *string                  `json:"special_instructions,omitempty"`
	NotesForRider       *string                  `json:"notes_for_rider,omitempty"`
}

func toAddLineInput(payload AddLineRequest, sessionID string) cartsvc.AddLineInput {
	input := cartsvc.AddLineInput{
		MerchantID:          payload.MerchantID,
		ProductID:           payload.ProductID,
		MerchantProductID:   payload.MerchantProductID,
		Quantity:            payload.Quantity,
		PriceAtAdd:          payload.PriceAtAdd,
		CompareAtPrice:      payload.CompareAtPrice,
		ProductSize:         payload.ProductSize,
		SelectedVariationID: payload.SelectedVariationID,
		SelectedModifiers:   payload.SelectedModifiers,
		SelectedAddons:      payload.SelectedAddons,
		SpecialInstructions: payload.SpecialInstructions,
		NotesForRider:       payload.NotesForRider,
	}
	if sessionID != "" {
		input.SessionID = &sessionID
	}
	return input
}

func toUpdateLineInput(payload UpdateLineRequest) cartsvc.UpdateLineInput {
	return cartsvc.UpdateLineInput{
		Quantity:            payload.Quantity,
		ProductSize:         payload.ProductSize,
		SelectedVariationID: payload.SelectedVariationID,
		SelectedModifiers:   payload.SelectedModifiers,
		SelectedAddons:      payload.SelectedAddons,
		SpecialInstructions: payload.SpecialInstructions,
		NotesForRider:       payload.NotesForRider,
	}
}
