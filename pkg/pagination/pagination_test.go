package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestPageSlicesFilteredSet(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5}

	page, meta := Page(items, Params{Limit: 2, Offset: 0})
	if len(page) != 2 || page[0] != 1 {
		t.Fatalf("unexpected first page %v", page)
	}
	if meta.Total != 5 || !meta.HasMore {
		t.Fatalf("unexpected meta %+v", meta)
	}

	page, meta = Page(items, Params{Limit: 2, Offset: 4})
	if len(page) != 1 || page[0] != 5 {
		t.Fatalf("unexpected last page %v", page)
	}
	if meta.HasMore {
		t.Fatal("last page should not report more")
	}

	page, meta = Page(items, Params{Limit: 2, Offset: 10})
	if len(page) != 0 {
		t.Fatalf("expected empty page past the end, got %v", page)
	}
	if meta.Total != 5 {
		t.Fatalf("total should still reflect the filtered set, got %d", meta.Total)
	}
}
