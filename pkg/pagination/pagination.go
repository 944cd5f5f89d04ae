package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Offset int
}

// Meta describes the page actually returned. Totals are recomputed from the
// filtered result set, not from the underlying store's counters.
type Meta struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizeOffset clamps negative offsets to zero.
func NormalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// Page slices the filtered set and builds the matching metadata.
func Page[T any](items []T, params Params) ([]T, Meta) {
	limit := NormalizeLimit(params.Limit)
	offset := NormalizeOffset(params.Offset)

	total := len(items)
	meta := Meta{Total: total, Limit: limit, Offset: offset}

	if offset >= total {
		return []T{}, meta
	}

	end := offset + limit
	if end > total {
		end = total
	}
	meta.HasMore = end < total

	return items[offset:end], meta
}
