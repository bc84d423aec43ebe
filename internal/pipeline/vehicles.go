package pipeline

import (
	"tecex/internal"
	"tecex/internal/catalog"
	"tecex/internal/util"
)

// VehicleIndex is the provisional index of vehicle applications keyed by
// their locally observed linkage-target id. It is filled during linkage
// extraction and drained exactly once by the correlator; the two phases
// never interleave for the same vehicle-type scope.
type VehicleIndex struct {
	order []int
	links map[int][]internal.VehicleLink
}

func NewVehicleIndex() *VehicleIndex {
	return &VehicleIndex{links: map[int][]internal.VehicleLink{}}
}

func (v *VehicleIndex) Add(link internal.VehicleLink) {
	if _, ok := v.links[link.TargetKey]; !ok {
		v.order = append(v.order, link.TargetKey)
	}
	v.links[link.TargetKey] = append(v.links[link.TargetKey], link)
}

func (v *VehicleIndex) Len() int {
	n := 0
	for _, links := range v.links {
		n += len(links)
	}
	return n
}

// MfrIDs returns the distinct vehicle manufacturer ids present, in first
// seen order.
func (v *VehicleIndex) MfrIDs() []int {
	seen := map[int]struct{}{}
	out := make([]int, 0)
	for _, key := range v.order {
		for _, link := range v.links[key] {
			if link.MfrID == 0 {
				continue
			}
			if _, ok := seen[link.MfrID]; !ok {
				seen[link.MfrID] = struct{}{}
				out = append(out, link.MfrID)
			}
		}
	}
	return out
}

func (v *VehicleIndex) Clear() {
	v.order = nil
	v.links = map[int][]internal.VehicleLink{}
}

var (
	linkIDAliases        = []string{"articleLinkId"}
	targetIDAliases      = []string{"linkingTargetId", "carId"}
	linkedVehicleAliases = []string{"linkedVehicles"}
	articleLinkAliases   = []string{"articleLinkages"}
)

// ExtractLinkPairs pulls (articleLinkId, linkingTargetId) pairs out of a
// linkage listing response body.
func ExtractLinkPairs(body map[string]any) []catalog.LinkPair {
	pairs := make([]catalog.LinkPair, 0)
	for _, item := range catalog.NormalizeEnvelope(body) {
		linkages := catalog.ResolveField(item, articleLinkAliases...)
		for _, link := range catalog.NormalizeEnvelope(linkages) {
			linkID, okLink := catalog.ResolveInt(link, linkIDAliases...)
			targetID, okTarget := catalog.ResolveInt(link, "linkingTargetId")
			if okLink && okTarget {
				pairs = append(pairs, catalog.LinkPair{ArticleLinkID: linkID, LinkingTargetID: targetID})
			}
		}
	}
	return pairs
}

// ExtractLinkedVehicles converts one detailed-linkage response into
// provisional vehicle links. Vehicles without any linkage-target id cannot
// be correlated later and are returned separately, final as-is.
func ExtractLinkedVehicles(articleID int, body map[string]any) ([]internal.VehicleLink, []internal.VehicleRow) {
	links := make([]internal.VehicleLink, 0)
	orphans := make([]internal.VehicleRow, 0)

	for _, item := range catalog.NormalizeEnvelope(body) {
		targetID, _ := catalog.ResolveInt(item, "linkingTargetId")
		vehicles := catalog.NormalizeEnvelope(catalog.ResolveField(item, linkedVehicleAliases...))

		for _, vehicle := range vehicles {
			construction := catalog.ResolveString(vehicle, "constructionType")
			row := internal.VehicleRow{
				ParentID:       articleID,
				MfrName:        catalog.ResolveString(vehicle, "manuDesc"),
				ModelSeries:    catalog.ResolveString(vehicle, "modelDesc"),
				TypeName:       catalog.ResolveString(vehicle, catalog.DescriptionAliases...),
				YearFrom:       util.FormatYearMonth(catalog.ResolveString(vehicle, "yearOfConstructionFrom")),
				YearTo:         util.FormatYearMonth(catalog.ResolveString(vehicle, "yearOfConstructionTo")),
				DisplacementCC: catalog.ResolveString(vehicle, "cylinderCapacity"),
				PowerHP:        powerRange(vehicle),
				// Construction type stands in for body style until (and
				// unless) enrichment provides the real value.
				BodyStyle: construction,
			}

			key := targetID
			if key == 0 {
				key, _ = catalog.ResolveInt(vehicle, targetIDAliases...)
			}
			if key == 0 {
				orphans = append(orphans, row)
				continue
			}

			mfrID, _ := catalog.ResolveInt(vehicle, "manuId")
			links = append(links, internal.VehicleLink{
				Row:       row,
				TargetKey: key,
				MfrID:     mfrID,
			})
		}
	}

	return links, orphans
}

// powerRange renders horsepower as "from" or "from-to" when the vehicle
// declares a range.
func powerRange(vehicle map[string]any) string {
	from := catalog.ResolveString(vehicle, "powerHpFrom")
	to := catalog.ResolveString(vehicle, "powerHpTo")
	if from != "" && to != "" && from != to {
		return from + "-" + to
	}
	return from
}
