package pipeline

import "tecex/internal"

// vehicleKey is the natural identity of a vehicle application. KBA numbers
// and restriction texts are purely additive enrichment and deliberately
// not part of the key; including them would fragment otherwise identical
// applications into duplicates.
type vehicleKey struct {
	parentID       int
	mfrName        string
	modelSeries    string
	typeName       string
	yearFrom       string
	yearTo         string
	displacementCC string
	powerHP        string
	fuelType       string
	bodyStyle      string
	driveType      string
	engineCode     string
}

// DedupeVehicles collapses the vehicle set by natural key, order-stable,
// first occurrence wins.
func DedupeVehicles(rows []internal.VehicleRow) []internal.VehicleRow {
	seen := map[vehicleKey]struct{}{}
	out := make([]internal.VehicleRow, 0, len(rows))

	for _, row := range rows {
		key := vehicleKey{
			parentID:       row.ParentID,
			mfrName:        row.MfrName,
			modelSeries:    row.ModelSeries,
			typeName:       row.TypeName,
			yearFrom:       row.YearFrom,
			yearTo:         row.YearTo,
			displacementCC: row.DisplacementCC,
			powerHP:        row.PowerHP,
			fuelType:       row.FuelType,
			bodyStyle:      row.BodyStyle,
			driveType:      row.DriveType,
			engineCode:     row.EngineCode,
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}

	return out
}
