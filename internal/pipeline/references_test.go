package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tecex/internal"
)

func articleRecord(extra map[string]any) map[string]any {
	rec := map[string]any{
		"dataSupplierId": 355.0,
		"articleNumber":  "1.31809",
	}
	for k, v := range extra {
		rec[k] = v
	}
	return rec
}

func TestAccumulateEANSingleton(t *testing.T) {
	acc := NewReferenceAccumulator(zap.NewNop().Sugar())
	filter := RefFilter{SupplierID: 355, ArticleNumber: "1.31809"}

	acc.Accumulate(117092, []map[string]any{
		articleRecord(map[string]any{"gtins": []any{"4006633127035", "4006633127042"}}),
	}, filter)
	// A later batch for the same parent carries another EAN.
	acc.Accumulate(117092, []map[string]any{
		articleRecord(map[string]any{"gtins": []any{"4006633999999"}}),
	}, filter)

	var eans []internal.Reference
	for _, ref := range acc.References() {
		if ref.Type == internal.RefEAN {
			eans = append(eans, ref)
		}
	}
	require.Len(t, eans, 1)
	assert.Equal(t, "4006633127035", eans[0].Number)
}

func TestAccumulateEANPerParent(t *testing.T) {
	acc := NewReferenceAccumulator(zap.NewNop().Sugar())
	filter := RefFilter{}

	acc.Accumulate(1, []map[string]any{{"gtins": []any{"111"}}}, filter)
	acc.Accumulate(2, []map[string]any{{"gtins": []any{"222"}}}, filter)

	refs := acc.References()
	require.Len(t, refs, 2)
	assert.Equal(t, 1, refs[0].ParentID)
	assert.Equal(t, 2, refs[1].ParentID)
}

func TestAccumulateFilterRejects(t *testing.T) {
	acc := NewReferenceAccumulator(zap.NewNop().Sugar())
	filter := RefFilter{SupplierID: 355, ArticleNumber: "1.31809"}

	acc.Accumulate(117092, []map[string]any{
		// Wrong supplier: a comparable article mixed into the response.
		{"dataSupplierId": 80.0, "articleNumber": "1.31809", "gtins": []any{"999"}},
		// Wrong article number.
		{"dataSupplierId": 355.0, "articleNumber": "4.61919", "gtins": []any{"888"}},
		articleRecord(map[string]any{"tradeNumbers": []any{"38953"}}),
	}, filter)

	assert.Equal(t, 2, acc.Rejected())
	require.Len(t, acc.References(), 1)
	assert.Equal(t, internal.RefTrade, acc.References()[0].Type)
	assert.Equal(t, "38953", acc.References()[0].Number)
}

func TestAccumulateDedupBySource(t *testing.T) {
	acc := NewReferenceAccumulator(zap.NewNop().Sugar())

	acc.Accumulate(117092, []map[string]any{
		{"oemNumbers": []any{
			map[string]any{"articleNumber": "06A115561B", "mfrName": "VW"},
			map[string]any{"articleNumber": "06A115561B", "mfrName": "VW"},
			map[string]any{"articleNumber": "06A115561B", "mfrName": "AUDI"},
		}},
	}, RefFilter{})

	refs := acc.References()
	require.Len(t, refs, 2)
	assert.Equal(t, "VW", refs[0].SourceName)
	assert.Equal(t, "AUDI", refs[1].SourceName)
}

func TestAccumulateAllTypes(t *testing.T) {
	acc := NewReferenceAccumulator(zap.NewNop().Sugar())

	acc.Accumulate(117092, []map[string]any{{
		"gtins":              []any{"4006633127035"},
		"tradeNumbers":       []any{"38953"},
		"oemNumbers":         []any{map[string]any{"articleNumber": "06A115561B", "mfrName": "VW"}},
		"comparableNumbers":  []any{map[string]any{"articleNumber": "OC90", "mfrName": "MAHLE"}},
		"replacesArticles":   []any{map[string]any{"articleNumber": "1.31808"}},
		"replacedByArticles": []any{"1.31810"},
	}}, RefFilter{})

	types := make([]internal.RefType, 0)
	for _, ref := range acc.References() {
		types = append(types, ref.Type)
	}
	assert.Equal(t, []internal.RefType{
		internal.RefEAN,
		internal.RefTrade,
		internal.RefOE,
		internal.RefComparable,
		internal.RefReplacement,
		internal.RefReplaced,
	}, types)
}
