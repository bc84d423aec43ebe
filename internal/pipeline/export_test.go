package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tecex/internal"
)

func sampleBundle() ExportBundle {
	return ExportBundle{
		Articles: []internal.ArticleRow{
			{ArticleID: 117092, SupplierID: 355, BrandName: "MEYLE", ArticleNumber: "1.31809", ArticleName: "Oil Filter"},
		},
		Attributes: []internal.AttributeRow{
			{ArticleID: 117092, CriteriaDescription: "Height", ValueFormatted: "142 mm"},
		},
		References: []internal.Reference{
			{ParentID: 117092, Type: internal.RefEAN, Number: "4006633127035"},
			{ParentID: 117092, Type: internal.RefOE, Number: "06A115561B", SourceName: "VW"},
		},
		Vehicles: []internal.VehicleRow{
			{ParentID: 117092, MfrName: "FIAT", TypeName: "Panda 1.2", YearFrom: "2003-09", PowerHP: "69"},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCSV(sampleBundle(), dir))

	refs := readCSV(t, filepath.Join(dir, "references.csv"))
	require.Len(t, refs, 3)
	assert.Equal(t, referenceColumns, refs[0])
	assert.Equal(t, []string{"117092", "EAN", "4006633127035", ""}, refs[1])
	assert.Equal(t, []string{"117092", "OE", "06A115561B", "VW"}, refs[2])

	vehicles := readCSV(t, filepath.Join(dir, "vehicles.csv"))
	require.Len(t, vehicles, 2)
	assert.Equal(t, vehicleColumns, vehicles[0])
	assert.Equal(t, "Panda 1.2", vehicles[1][3])
	assert.Equal(t, "2003-09", vehicles[1][4])

	articles := readCSV(t, filepath.Join(dir, "articles.csv"))
	require.Len(t, articles, 2)
	assert.Equal(t, "117092", articles[1][0])
	assert.Equal(t, "article_name", articles[0][5])
	assert.Equal(t, "Oil Filter", articles[1][5])

	attributes := readCSV(t, filepath.Join(dir, "attributes.csv"))
	require.Len(t, attributes, 2)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, WriteXLSX(sampleBundle(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"articles", "attributes", "references", "vehicles"}, f.GetSheetList())

	got, err := f.GetCellValue("references", "B2")
	require.NoError(t, err)
	assert.Equal(t, "EAN", got)

	header, err := f.GetCellValue("vehicles", "A1")
	require.NoError(t, err)
	assert.Equal(t, "parent_id", header)
}
