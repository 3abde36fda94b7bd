package services

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"mediscript_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Column layout of the Medications sheet in the import workbook.
var catalogColumns = []string{
	"Name", "Strength", "Default Frequency", "Default Duration", "Default Quantity", "Default Instructions",
}

const catalogSheetName = "Medications"

// CatalogImportResult contains the summary of the import process
type CatalogImportResult struct {
	TotalProcessed int
	SuccessCount   int
	FailedCount    int
	Errors         []string
}

// GenerateMedicationCatalogTemplate builds the Excel workbook clinics fill
// in to upload their medication catalog.
func GenerateMedicationCatalogTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetInstructions = "Instructions"
	f.SetSheetName("Sheet1", sheetInstructions)

	f.SetCellValue(sheetInstructions, "A1", "Medication catalog import")
	f.SetCellValue(sheetInstructions, "A3", "Considerations:")
	f.SetCellValue(sheetInstructions, "A4", "- Fill the Medications sheet, one medication per row.")
	f.SetCellValue(sheetInstructions, "A5", "- Name is required; every other column is optional.")
	f.SetCellValue(sheetInstructions, "A6", "- Defaults pre-fill a prescription line when the medication is picked in the editor.")
	f.SetCellValue(sheetInstructions, "A7", "- Do not rename or reorder the columns.")

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	f.SetCellStyle(sheetInstructions, "A1", "A1", titleStyle)

	if _, err := f.NewSheet(catalogSheetName); err != nil {
		return nil, fmt.Errorf("failed to create medications sheet: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, col := range catalogColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(catalogSheetName, cell, col)
		f.SetCellStyle(catalogSheetName, cell, cell, headerStyle)
		f.SetColWidth(catalogSheetName, string(rune('A'+i)), string(rune('A'+i)), 24)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write template workbook: %w", err)
	}
	return buf, nil
}

// ImportMedicationCatalog reads an uploaded workbook and loads its rows into
// the clinic's medication catalog. Rows without a name are reported and
// skipped; valid rows are inserted independently so one bad row does not
// abort the import.
func ImportMedicationCatalog(dbConn *gorm.DB, ownerKey string, reader io.Reader) (*CatalogImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(catalogSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", catalogSheetName, err)
	}

	result := &CatalogImportResult{}

	for i, row := range rows {
		if i == 0 {
			continue // header row
		}
		if isBlankRow(row) {
			continue
		}
		result.TotalProcessed++

		cell := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		name := cell(0)
		if name == "" {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: medication name is required", i+1))
			continue
		}

		entry := models.MedicationCatalogEntry{
			OwnerKey:            ownerKey,
			Name:                name,
			Strength:            cell(1),
			DefaultFrequency:    cell(2),
			DefaultDuration:     cell(3),
			DefaultQuantity:     cell(4),
			DefaultInstructions: cell(5),
		}

		if err := dbConn.Create(&entry).Error; err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.SuccessCount++
	}

	return result, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// SearchMedicationCatalog returns catalog entries matching a name prefix or
// substring, for the editor's autocomplete.
func SearchMedicationCatalog(dbConn *gorm.DB, ownerKey, query string, limit int) ([]models.MedicationCatalogEntry, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	var entries []models.MedicationCatalogEntry
	q := dbConn.Where("owner_key = ?", ownerKey)
	if strings.TrimSpace(query) != "" {
		q = q.Where("name LIKE ?", "%"+strings.TrimSpace(query)+"%")
	}
	if err := q.Order("name ASC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to search medication catalog: %w", err)
	}
	return entries, nil
}
