package types

import "github.com/shopspring/decimal"

// SelectedModifier is one option picked from a product's modifier group,
// snapshotted onto the cart line at add time.
type SelectedModifier struct {
	GroupID  string          `json:"group_id"`
	OptionID string          `json:"option_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
}

// SelectedModifiers is persisted as a JSONB column on cart lines.
type SelectedModifiers []SelectedModifier

// SelectedAddon is an extra item attached to a cart line with its own quantity.
type SelectedAddon struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// SelectedAddons is persisted as a JSONB column on cart lines.
type SelectedAddons []SelectedAddon
