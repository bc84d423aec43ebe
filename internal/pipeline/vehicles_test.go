package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tecex/internal"
	"tecex/internal/catalog"
)

func TestExtractLinkPairs(t *testing.T) {
	body := map[string]any{
		"data": map[string]any{
			"array": []any{
				map[string]any{
					"articleLinkages": map[string]any{
						"array": []any{
							map[string]any{"articleLinkId": 11.0, "linkingTargetId": 4541.0},
							map[string]any{"articleLinkId": 12.0, "linkingTargetId": 4542.0},
							map[string]any{"articleLinkId": 13.0}, // no target, dropped
						},
					},
				},
			},
		},
	}

	pairs := ExtractLinkPairs(body)
	assert.Equal(t, []catalog.LinkPair{
		{ArticleLinkID: 11, LinkingTargetID: 4541},
		{ArticleLinkID: 12, LinkingTargetID: 4542},
	}, pairs)
}

func TestExtractLinkedVehicles(t *testing.T) {
	body := map[string]any{
		"data": map[string]any{
			"array": []any{
				map[string]any{
					"linkingTargetId": 4541.0,
					"linkedVehicles": map[string]any{
						"array": []any{
							map[string]any{
								"manuId":                 7.0,
								"manuDesc":               "FIAT",
								"modelDesc":              "PANDA (169_)",
								"carDesc":                "Panda 1.2",
								"yearOfConstructionFrom": 200309.0,
								"yearOfConstructionTo":   "2012",
								"cylinderCapacity":       1242.0,
								"powerHpFrom":            60.0,
								"powerHpTo":              69.0,
								"constructionType":       "Hatchback",
							},
						},
					},
				},
				map[string]any{
					// No target id anywhere: the vehicle is final as-is.
					"linkedVehicles": []any{
						map[string]any{"manuDesc": "OBSCURE", "carDesc": "Unknown Trim"},
					},
				},
			},
		},
	}

	links, orphans := ExtractLinkedVehicles(117092, body)
	require.Len(t, links, 1)
	require.Len(t, orphans, 1)

	l := links[0]
	assert.Equal(t, 4541, l.TargetKey)
	assert.Equal(t, 7, l.MfrID)
	assert.Equal(t, internal.VehicleRow{
		ParentID:       117092,
		MfrName:        "FIAT",
		ModelSeries:    "PANDA (169_)",
		TypeName:       "Panda 1.2",
		YearFrom:       "2003-09",
		YearTo:         "2012-01",
		DisplacementCC: "1242",
		PowerHP:        "60-69",
		BodyStyle:      "Hatchback",
	}, l.Row)

	assert.Equal(t, "Unknown Trim", orphans[0].TypeName)
	assert.Equal(t, 117092, orphans[0].ParentID)
}

func TestExtractLinkedVehiclesVehicleLevelTargetID(t *testing.T) {
	body := []any{
		map[string]any{
			"linkedVehicles": []any{
				map[string]any{"carId": 7777.0, "carDesc": "Panda 1.1"},
			},
		},
	}

	links, orphans := ExtractLinkedVehicles(1, map[string]any{"data": body})
	require.Len(t, links, 1)
	assert.Empty(t, orphans)
	assert.Equal(t, 7777, links[0].TargetKey)
}

func TestVehicleIndexMfrIDs(t *testing.T) {
	index := NewVehicleIndex()
	index.Add(internal.VehicleLink{TargetKey: 1, MfrID: 7})
	index.Add(internal.VehicleLink{TargetKey: 2, MfrID: 55})
	index.Add(internal.VehicleLink{TargetKey: 3, MfrID: 7})
	index.Add(internal.VehicleLink{TargetKey: 4}) // no manufacturer

	assert.Equal(t, []int{7, 55}, index.MfrIDs())
	assert.Equal(t, 4, index.Len())
}
