package catalog

import (
	"testing"

	"go.uber.org/zap"
)

func page(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = map[string]any{"i": i}
	}
	return out
}

func TestCollectPagesStopsAtTotal(t *testing.T) {
	calls := 0
	records := CollectPages(zap.NewNop().Sugar(), func(p int) ([]map[string]any, int, bool) {
		calls++
		if p < 3 {
			return page(PageSize), 250, true
		}
		return page(50), 250, true
	})
	if len(records) != 250 {
		t.Fatalf("records=%d", len(records))
	}
	if calls != 3 {
		t.Fatalf("calls=%d", calls)
	}
}

func TestCollectPagesEmptyPageEndsCleanly(t *testing.T) {
	// Declared total overshoots; the empty page is the real end.
	records := CollectPages(zap.NewNop().Sugar(), func(p int) ([]map[string]any, int, bool) {
		if p == 1 {
			return page(50), 5000, true
		}
		return nil, 5000, true
	})
	if len(records) != 50 {
		t.Fatalf("records=%d", len(records))
	}
}

func TestCollectPagesEmptyFirstPageStops(t *testing.T) {
	calls := 0
	// A positive declared total must not outweigh an empty page.
	records := CollectPages(zap.NewNop().Sugar(), func(p int) ([]map[string]any, int, bool) {
		calls++
		return nil, 50, true
	})
	if len(records) != 0 {
		t.Fatalf("records=%d", len(records))
	}
	if calls != 1 {
		t.Fatalf("calls=%d", calls)
	}
}

func TestCollectPagesKeepsPartialOnFailure(t *testing.T) {
	records := CollectPages(zap.NewNop().Sugar(), func(p int) ([]map[string]any, int, bool) {
		if p == 3 {
			return nil, 0, false
		}
		return page(PageSize), 1000, true
	})
	if len(records) != 2*PageSize {
		t.Fatalf("records=%d", len(records))
	}
}

func TestCollectPagesFirstPageFailure(t *testing.T) {
	records := CollectPages(zap.NewNop().Sugar(), func(p int) ([]map[string]any, int, bool) {
		return nil, 0, false
	})
	if records != nil {
		t.Fatalf("records=%v", records)
	}
}

func TestCollectPagesCeiling(t *testing.T) {
	calls := 0
	// Every page claims one record toward an absurd total; the ceiling
	// caps the walk at maxPages fetches.
	records := CollectPages(zap.NewNop().Sugar(), func(p int) ([]map[string]any, int, bool) {
		calls++
		return page(1), 100000, true
	})
	if calls != maxPages {
		t.Fatalf("calls=%d", calls)
	}
	if len(records) != maxPages {
		t.Fatalf("records=%d", len(records))
	}
}
