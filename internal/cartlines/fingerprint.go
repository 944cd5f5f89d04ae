package cartlines

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

// Fingerprint derives the stable dedup key for a cart line's customization.
// The canonical form sorts modifier/addon lists and serializes through a map,
// so key order and list order never change the digest; any change to a
// customization value does.
func Fingerprint(line *models.CartLine) string {
	canonical := map[string]any{
		"product_id":           line.ProductID.String(),
		"merchant_product_id":  line.MerchantProductID.String(),
		"product_size":         nil,
		"selected_variation":   nil,
		"selected_modifiers":   canonicalModifiers(line.SelectedModifiers),
		"selected_addons":      canonicalAddons(line.SelectedAddons),
		"special_instructions": NormalizeInstructions(line.SpecialInstructions),
	}
	if line.ProductSize != nil {
		canonical["product_size"] = line.ProductSize.String()
	}
	if line.SelectedVariationID != nil {
		canonical["selected_variation"] = line.SelectedVariationID.String()
	}

	// encoding/json writes map keys in lexicographic order, which gives the
	// sorted-key serialization the digest depends on.
	payload, err := json.Marshal(canonical)
	if err != nil {
		// Only unsupported value types can fail here; the canonical form is
		// built exclusively from strings, numbers and nested maps.
		panic("cartlines: canonical form not serializable: " + err.Error())
	}

	return strconv.FormatUint(xxhash.Sum64(payload), 16)
}

// NormalizeInstructions folds free-text instructions to trimmed lowercase so
// cosmetic whitespace or casing differences do not split cart lines.
func NormalizeInstructions(instructions *string) string {
	if instructions == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*instructions))
}

func canonicalModifiers(modifiers types.SelectedModifiers) []map[string]any {
	out := make([]map[string]any, 0, len(modifiers))
	for _, m := range modifiers {
		out = append(out, map[string]any{
			"group_id":  m.GroupID,
			"option_id": m.OptionID,
			"name":      m.Name,
			"price":     m.Price.StringFixed(2),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i]["group_id"] != out[j]["group_id"] {
			return out[i]["group_id"].(string) < out[j]["group_id"].(string)
		}
		return out[i]["option_id"].(string) < out[j]["option_id"].(string)
	})
	return out
}

func canonicalAddons(addons types.SelectedAddons) []map[string]any {
	out := make([]map[string]any, 0, len(addons))
	for _, a := range addons {
		qty := a.Quantity
		if qty <= 0 {
			qty = 1
		}
		out = append(out, map[string]any{
			"id":       a.ID,
			"name":     a.Name,
			"price":    a.Price.StringFixed(2),
			"quantity": qty,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i]["id"].(string) < out[j]["id"].(string)
	})
	return out
}
