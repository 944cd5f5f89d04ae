package enums

// UnavailableReason explains why a cart line's product cannot currently be ordered.
type UnavailableReason string

const (
	UnavailableReasonInactive   UnavailableReason = "product_inactive"
	UnavailableReasonOutOfStock UnavailableReason = "out_of_stock"
)

// String implements fmt.Stringer.
func (u UnavailableReason) String() string {
	return string(u)
}
