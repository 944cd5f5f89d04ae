package cartlines

import (
	"github.com/shopspring/decimal"

	"github.com/feastly-app/feastly-backend/pkg/types"
)

// Subtotal computes (priceAtAdd + modifier total + addon total) x quantity.
// A missing addon quantity counts as 1. The zero value of decimal.Decimal
// already treats missing prices as 0.
func Subtotal(priceAtAdd decimal.Decimal, quantity int, modifiers types.SelectedModifiers, addons types.SelectedAddons) decimal.Decimal {
	perUnit := priceAtAdd.
		Add(ModifierTotal(modifiers)).
		Add(AddonTotal(addons))
	return perUnit.Mul(decimal.NewFromInt(int64(quantity)))
}

// ModifierTotal sums the selected modifier prices.
func ModifierTotal(modifiers types.SelectedModifiers) decimal.Decimal {
	total := decimal.Zero
	for _, m := range modifiers {
		total = total.Add(m.Price)
	}
	return total
}

// AddonTotal sums addon price x addon quantity.
func AddonTotal(addons types.SelectedAddons) decimal.Decimal {
	total := decimal.Zero
	for _, a := range addons {
		qty := a.Quantity
		if qty <= 0 {
			qty = 1
		}
		total = total.Add(a.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}
