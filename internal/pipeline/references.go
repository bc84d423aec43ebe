package pipeline

import (
	"go.uber.org/zap"

	"tecex/internal"
	"tecex/internal/catalog"
)

// RefFilter restricts reference extraction to records belonging to the
// article currently being processed. searchType-10 responses mix in
// comparable articles from other manufacturers; skipping the filter would
// attach their numbers to the wrong parent.
type RefFilter struct {
	SupplierID    int
	ArticleNumber string
}

type refKey struct {
	parentID int
	refType  internal.RefType
	number   string
	source   string
}

// ReferenceAccumulator collects canonical cross-reference numbers per
// parent article. EAN is a singleton per parent (first accepted value
// wins); all other types accept every non-duplicate value. Dedup key is
// (type, number, source) scoped per parent, checked against prior output
// and the current batch alike.
type ReferenceAccumulator struct {
	log      *zap.SugaredLogger
	seen     map[refKey]struct{}
	eanDone  map[int]bool
	refs     []internal.Reference
	rejected int
}

func NewReferenceAccumulator(log *zap.SugaredLogger) *ReferenceAccumulator {
	return &ReferenceAccumulator{
		log:     log,
		seen:    map[refKey]struct{}{},
		eanDone: map[int]bool{},
	}
}

var (
	tradeAliases       = []string{"tradeNumbers"}
	oeAliases          = []string{"oemNumbers"}
	comparableAliases  = []string{"comparableNumbers"}
	replacesAliases    = []string{"replacesArticles"}
	replacedByAliases  = []string{"replacedByArticles"}
	supplierIDAliases  = []string{"dataSupplierId"}
	articleNumberAlias = []string{"articleNumber"}
)

// Accumulate extracts reference numbers for parentID from a batch of raw
// article records. Records failing the filter are discarded before any
// extraction happens and counted for diagnostics only.
func (a *ReferenceAccumulator) Accumulate(parentID int, records []map[string]any, filter RefFilter) {
	for _, rec := range records {
		if filter.SupplierID != 0 {
			supplier, _ := catalog.ResolveInt(rec, supplierIDAliases...)
			if supplier != filter.SupplierID {
				a.rejected++
				continue
			}
		}
		if filter.ArticleNumber != "" {
			if num := catalog.ResolveString(rec, articleNumberAlias...); num != filter.ArticleNumber {
				a.rejected++
				continue
			}
		}

		if !a.eanDone[parentID] {
			for _, gtin := range catalog.ResolveStrings(rec, catalog.GTINAliases, catalog.GTINNumberAliases) {
				if a.add(parentID, internal.RefEAN, gtin, "") {
					a.eanDone[parentID] = true
					break
				}
			}
		}

		for _, num := range catalog.ResolveStrings(rec, tradeAliases, catalog.RefNumberAliases) {
			a.add(parentID, internal.RefTrade, num, "")
		}
		a.addPairs(parentID, internal.RefOE, rec, oeAliases)
		a.addPairs(parentID, internal.RefComparable, rec, comparableAliases)
		a.addPairs(parentID, internal.RefReplacement, rec, replacesAliases)
		a.addPairs(parentID, internal.RefReplaced, rec, replacedByAliases)
	}
}

// addPairs handles list fields whose entries carry both a number and the
// issuing manufacturer name, but can also degrade to bare strings.
func (a *ReferenceAccumulator) addPairs(parentID int, refType internal.RefType, rec map[string]any, aliases []string) {
	v := catalog.ResolveField(rec, aliases...)
	if v == nil {
		return
	}
	if m, ok := v.(map[string]any); ok {
		v = m["array"]
	}
	items, ok := v.([]any)
	if !ok {
		return
	}
	for _, item := range items {
		switch t := item.(type) {
		case map[string]any:
			number := catalog.ResolveString(t, catalog.RefNumberAliases...)
			source := catalog.ResolveString(t, catalog.RefSourceAliases...)
			if number != "" {
				a.add(parentID, refType, number, source)
			}
		case string:
			a.add(parentID, refType, t, "")
		}
	}
}

func (a *ReferenceAccumulator) add(parentID int, refType internal.RefType, number, source string) bool {
	if number == "" {
		return false
	}
	key := refKey{parentID: parentID, refType: refType, number: number, source: source}
	if _, ok := a.seen[key]; ok {
		return false
	}
	a.seen[key] = struct{}{}
	a.refs = append(a.refs, internal.Reference{
		ParentID:   parentID,
		Type:       refType,
		Number:     number,
		SourceName: source,
	})
	return true
}

// References returns everything accumulated so far, in input order.
func (a *ReferenceAccumulator) References() []internal.Reference {
	return a.refs
}

// Rejected reports how many records the filter discarded.
func (a *ReferenceAccumulator) Rejected() int {
	return a.rejected
}
