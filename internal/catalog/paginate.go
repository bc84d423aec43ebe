package catalog

import "go.uber.org/zap"

const (
	// PageSize is the upstream maximum and the only page size we request.
	PageSize = 100
	// maxPages bounds runaway pagination when the declared total is bogus.
	maxPages = 500
)

// PageFetchFunc fetches one page of a logical result set. It reports the
// records on that page, the declared total for the whole set, and whether
// the fetch itself succeeded. Failures never propagate as errors.
type PageFetchFunc func(page int) (records []map[string]any, total int, ok bool)

// CollectPages drives fetch across pages 1..N until the declared total is
// reached, a page comes back empty (complete result), a fetch fails
// (partial result, warned), or the page ceiling is hit. A failed page is
// never retried.
func CollectPages(log *zap.SugaredLogger, fetch PageFetchFunc) []map[string]any {
	records, total, ok := fetch(1)
	if !ok {
		log.Warnw("page fetch failed, keeping partial result", "page", 1, "collected", 0)
		return nil
	}

	all := records
	if len(all) == 0 {
		return all
	}
	for page := 2; len(all) < total && page <= maxPages; page++ {
		records, _, ok := fetch(page)
		if !ok {
			log.Warnw("page fetch failed, keeping partial result", "page", page, "collected", len(all))
			break
		}
		if len(records) == 0 {
			break
		}
		all = append(all, records...)
		if page%10 == 0 {
			log.Debugw("pagination progress", "page", page, "collected", len(all), "total", total)
		}
	}

	return all
}
