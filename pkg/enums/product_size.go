package enums

import "fmt"

// ProductSize is the portion size a customer selected for a cart line.
type ProductSize string

const (
	ProductSizeSmall      ProductSize = "small"
	ProductSizeMedium     ProductSize = "medium"
	ProductSizeLarge      ProductSize = "large"
	ProductSizeExtraLarge ProductSize = "extra_large"
)

var validProductSizes = []ProductSize{
	ProductSizeSmall,
	ProductSizeMedium,
	ProductSizeLarge,
	ProductSizeExtraLarge,
}

// String implements fmt.Stringer.
func (p ProductSize) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p ProductSize) IsValid() bool {
	for _, candidate := range validProductSizes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductSize converts raw input into a ProductSize.
func ParseProductSize(value string) (ProductSize, error) {
	for _, candidate := range validProductSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product size %q", value)
}
