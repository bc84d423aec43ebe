package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"tecex/internal"
	"tecex/internal/catalog"
	"tecex/internal/util"
)

// The linkage-target ids observed on vehicle links and the ids the detail
// catalog issues are different identifier spaces; a direct lookup succeeds
// rarely. Correlation therefore runs a ranked fallback chain per link:
//
//	tier 1: direct id lookup
//	tier 2: (mfrId, description) lookup, then a substring scan over
//	        same-manufacturer details guarded by power equality
//	tier 3: (mfrId, model series, power, displacement) composite lookup
//
// The substring and power guards are load-bearing: same-named trims differ
// only in power output, and short generic descriptions match everything.
// Do not tighten tier 2 into exact matching while the upstream id mismatch
// persists.

type descKey struct {
	mfrID int
	desc  string
}

type specKey struct {
	mfrID          int
	modelSeries    string
	powerHP        string
	displacementCC string
}

// DetailIndex holds the per-tier lookup structures over one batch of
// linkage details. The byMfr slices preserve input order so tier-2 scans
// stay deterministic.
type DetailIndex struct {
	byKey  map[int]*internal.LinkageDetail
	byDesc map[descKey][]*internal.LinkageDetail
	bySpec map[specKey][]*internal.LinkageDetail
	byMfr  map[int][]*internal.LinkageDetail
	mfrs   []int
}

func BuildDetailIndex(details []internal.LinkageDetail) *DetailIndex {
	idx := &DetailIndex{
		byKey:  map[int]*internal.LinkageDetail{},
		byDesc: map[descKey][]*internal.LinkageDetail{},
		bySpec: map[specKey][]*internal.LinkageDetail{},
		byMfr:  map[int][]*internal.LinkageDetail{},
	}

	for i := range details {
		d := &details[i]
		if d.DetailKey != 0 {
			if _, ok := idx.byKey[d.DetailKey]; !ok {
				idx.byKey[d.DetailKey] = d
			}
		}
		if d.MfrID == 0 {
			continue
		}
		if d.Description != "" {
			key := descKey{mfrID: d.MfrID, desc: d.Description}
			idx.byDesc[key] = append(idx.byDesc[key], d)
		}
		if d.ModelSeries != "" && d.PowerHP != "" && d.DisplacementCC != "" {
			key := specKey{mfrID: d.MfrID, modelSeries: d.ModelSeries, powerHP: d.PowerHP, displacementCC: d.DisplacementCC}
			idx.bySpec[key] = append(idx.bySpec[key], d)
		}
		if _, ok := idx.byMfr[d.MfrID]; !ok {
			idx.mfrs = append(idx.mfrs, d.MfrID)
		}
		idx.byMfr[d.MfrID] = append(idx.byMfr[d.MfrID], d)
	}

	return idx
}

// Match runs the fallback chain for one vehicle link. Nil means no tier
// succeeded, which is a valid terminal outcome, not an error.
func (idx *DetailIndex) Match(link internal.VehicleLink) *internal.LinkageDetail {
	if d, ok := idx.byKey[link.TargetKey]; ok {
		return d
	}

	typeName := link.Row.TypeName
	if link.MfrID != 0 && typeName != "" {
		if candidates := idx.byDesc[descKey{mfrID: link.MfrID, desc: typeName}]; len(candidates) > 0 {
			return candidates[0]
		}
		if len(typeName) > 5 {
			for _, d := range idx.byMfr[link.MfrID] {
				if d.Description == "" {
					continue
				}
				if !containsEither(typeName, d.Description) {
					continue
				}
				if d.PowerHP != "" && d.PowerHP != link.Row.PowerHP {
					continue
				}
				return d
			}
		}
	}

	if link.MfrID != 0 && link.Row.ModelSeries != "" && link.Row.PowerHP != "" && link.Row.DisplacementCC != "" {
		key := specKey{
			mfrID:          link.MfrID,
			modelSeries:    link.Row.ModelSeries,
			powerHP:        link.Row.PowerHP,
			displacementCC: link.Row.DisplacementCC,
		}
		if candidates := idx.bySpec[key]; len(candidates) > 0 {
			return candidates[0]
		}
	}

	return nil
}

// CorrelationStats is reported to the diagnostic sink only; nothing acts
// on the counts.
type CorrelationStats struct {
	Matched   int
	Unmatched int
}

// Correlate drains the provisional index against one batch of linkage
// details. Every link yields exactly one output row: enriched when a tier
// matched, otherwise the link's own values with enrichment fields empty.
func Correlate(log *zap.SugaredLogger, index *VehicleIndex, details []internal.LinkageDetail) ([]internal.VehicleRow, CorrelationStats) {
	idx := BuildDetailIndex(details)
	stats := CorrelationStats{}
	rows := make([]internal.VehicleRow, 0, index.Len())

	for _, key := range index.order {
		for _, link := range index.links[key] {
			row := link.Row
			if d := idx.Match(link); d != nil {
				mergeDetail(&row, d)
				stats.Matched++
			} else {
				stats.Unmatched++
			}
			rows = append(rows, row)
		}
	}

	index.Clear()
	log.Infow("correlation finished", "matched", stats.Matched, "unmatched", stats.Unmatched)
	return rows, stats
}

// mergeDetail applies the enrichment merge policy: a detail value wins
// only when non-empty, the link's own value is never overwritten by an
// empty one.
func mergeDetail(row *internal.VehicleRow, d *internal.LinkageDetail) {
	if d.FuelType != "" {
		row.FuelType = d.FuelType
	}
	if d.BodyStyle != "" {
		row.BodyStyle = d.BodyStyle
	}
	if d.DriveType != "" {
		row.DriveType = d.DriveType
	}
	if s := util.JoinPipe(d.KBANumbers); s != "" {
		row.KBANumbers = s
	}
	if s := util.JoinPipe(d.EngineCodes); s != "" {
		row.EngineCode = s
	}
	if s := util.JoinPipe(d.Restrictions); s != "" {
		row.OtherRestrictions = s
	}
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

var (
	kbaAliases         = []string{"kbaNumbers"}
	kbaNumberAliases   = []string{"kbaNumber", "number"}
	engineAliases      = []string{"engines"}
	engineCodeAliases  = []string{"code"}
	restrictionAliases = []string{"vehiclesInOperation"}
	restrictionSubA    = []string{"description", "text"}
)

// ParseLinkageDetail lifts one raw linkage-target record into the typed
// detail used for matching and enrichment.
func ParseLinkageDetail(rec map[string]any) internal.LinkageDetail {
	detailKey, _ := catalog.ResolveInt(rec, "linkageTargetId")
	mfrID, _ := catalog.ResolveInt(rec, "mfrId")
	return internal.LinkageDetail{
		DetailKey:      detailKey,
		MfrID:          mfrID,
		Description:    catalog.ResolveString(rec, catalog.DescriptionAliases...),
		ModelSeries:    catalog.ResolveString(rec, "vehicleModelSeriesName"),
		PowerHP:        catalog.ResolveString(rec, "horsePowerFrom"),
		DisplacementCC: catalog.ResolveString(rec, "capacityCC"),
		BeginYearMonth: util.FormatYearMonth(catalog.ResolveString(rec, "beginYearMonth")),
		FuelType:       catalog.ResolveString(rec, "fuelType"),
		DriveType:      catalog.ResolveString(rec, "driveType"),
		BodyStyle:      catalog.ResolveString(rec, "bodyStyle"),
		KBANumbers:     catalog.ResolveStrings(rec, kbaAliases, kbaNumberAliases),
		EngineCodes:    catalog.ResolveStrings(rec, engineAliases, engineCodeAliases),
		Restrictions:   catalog.ResolveStrings(rec, restrictionAliases, restrictionSubA),
	}
}
