package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"tecex/internal"
)

// Column orders are versioned output schema; reorder only with a schema
// version bump.
var (
	articleColumns = []string{
		"article_id", "supplier_id", "mfr_id", "brand_name", "article_number",
		"article_name", "generic_article_id", "generic_article_description", "category_path",
		"category_node_ids", "image_urls", "pdf_urls", "is_accessory",
		"article_status_id", "article_status_description", "quantity_per_package",
	}
	attributeColumns = []string{
		"article_id", "criteria_id", "criteria_description", "criteria_abbr",
		"value_raw", "value_formatted", "unit", "immediate_display", "is_interval",
	}
	referenceColumns = []string{"parent_id", "ref_type", "number", "source_name"}
	vehicleColumns   = []string{
		"parent_id", "manufacturer_name", "model_series", "type_name",
		"year_from", "year_to", "displacement_cc", "power_hp", "fuel_type",
		"body_style", "drive_type", "kba_numbers", "engine_code", "other_restrictions",
	}
)

func articleCells(row internal.ArticleRow) []string {
	return []string{
		strconv.Itoa(row.ArticleID), strconv.Itoa(row.SupplierID), row.MfrID,
		row.BrandName, row.ArticleNumber, row.ArticleName, row.GenericArticleID,
		row.GenericArticleDescription, row.CategoryPath, row.CategoryNodeIDs,
		row.ImageURLs, row.PDFURLs, row.IsAccessory, row.ArticleStatusID,
		row.ArticleStatusDescription, row.QuantityPerPackage,
	}
}

func attributeCells(row internal.AttributeRow) []string {
	return []string{
		strconv.Itoa(row.ArticleID), row.CriteriaID, row.CriteriaDescription,
		row.CriteriaAbbr, row.ValueRaw, row.ValueFormatted, row.Unit,
		row.ImmediateDisplay, row.IsInterval,
	}
}

func referenceCells(ref internal.Reference) []string {
	return []string{strconv.Itoa(ref.ParentID), string(ref.Type), ref.Number, ref.SourceName}
}

func vehicleCells(row internal.VehicleRow) []string {
	return []string{
		strconv.Itoa(row.ParentID), row.MfrName, row.ModelSeries, row.TypeName,
		row.YearFrom, row.YearTo, row.DisplacementCC, row.PowerHP, row.FuelType,
		row.BodyStyle, row.DriveType, row.KBANumbers, row.EngineCode, row.OtherRestrictions,
	}
}

// ExportBundle is everything one run produces, ready for the writers.
type ExportBundle struct {
	Articles   []internal.ArticleRow
	Attributes []internal.AttributeRow
	References []internal.Reference
	Vehicles   []internal.VehicleRow
}

// WriteCSV writes the four semicolon-delimited UTF-8 report files into dir.
func WriteCSV(bundle ExportBundle, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeCSVFile(filepath.Join(dir, "articles.csv"), articleColumns, len(bundle.Articles), func(i int) []string {
		return articleCells(bundle.Articles[i])
	}); err != nil {
		return err
	}
	if err := writeCSVFile(filepath.Join(dir, "attributes.csv"), attributeColumns, len(bundle.Attributes), func(i int) []string {
		return attributeCells(bundle.Attributes[i])
	}); err != nil {
		return err
	}
	if err := writeCSVFile(filepath.Join(dir, "references.csv"), referenceColumns, len(bundle.References), func(i int) []string {
		return referenceCells(bundle.References[i])
	}); err != nil {
		return err
	}
	return writeCSVFile(filepath.Join(dir, "vehicles.csv"), vehicleColumns, len(bundle.Vehicles), func(i int) []string {
		return vehicleCells(bundle.Vehicles[i])
	})
}

func writeCSVFile(path string, columns []string, rows int, cells func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.Write(columns); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		if err := w.Write(cells(i)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// WriteXLSX writes one workbook with a sheet per report.
func WriteXLSX(bundle ExportBundle, outputPath string) error {
	f := excelize.NewFile()

	writeSheet := func(sheet string, columns []string, rows int, cells func(int) []string) error {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		for col, h := range columns {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
		for i := 0; i < rows; i++ {
			for col, value := range cells(i) {
				cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := writeSheet("articles", articleColumns, len(bundle.Articles), func(i int) []string {
		return articleCells(bundle.Articles[i])
	}); err != nil {
		return err
	}
	if err := writeSheet("attributes", attributeColumns, len(bundle.Attributes), func(i int) []string {
		return attributeCells(bundle.Attributes[i])
	}); err != nil {
		return err
	}
	if err := writeSheet("references", referenceColumns, len(bundle.References), func(i int) []string {
		return referenceCells(bundle.References[i])
	}); err != nil {
		return err
	}
	if err := writeSheet("vehicles", vehicleColumns, len(bundle.Vehicles), func(i int) []string {
		return vehicleCells(bundle.Vehicles[i])
	}); err != nil {
		return err
	}

	// Drop the default sheet excelize creates.
	_ = f.DeleteSheet("Sheet1")

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
