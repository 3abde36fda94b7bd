package services

import (
	"bytes"
	"testing"

	"mediscript_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildCatalogWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(catalogSheetName)
	require.NoError(t, err)

	for i, col := range catalogColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(catalogSheetName, cell, col))
	}
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(catalogSheetName, cell, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportMedicationCatalog(t *testing.T) {
	db := setupTestDB(t)

	buf := buildCatalogWorkbook(t, [][]string{
		{"Paracetamol", "500mg", "3x daily", "5 days", "15", "Take after meals"},
		{"Amoxicillin", "250mg", "2x daily", "7 days", "14", ""},
	})

	result, err := ImportMedicationCatalog(db, "clinic-1", buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 0, result.FailedCount)

	var entries []models.MedicationCatalogEntry
	require.NoError(t, db.Order("name ASC").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, "Amoxicillin", entries[0].Name)
	assert.Equal(t, "Paracetamol", entries[1].Name)
	assert.Equal(t, "Take after meals", entries[1].DefaultInstructions)
}

func TestImportMedicationCatalogRowErrors(t *testing.T) {
	db := setupTestDB(t)

	buf := buildCatalogWorkbook(t, [][]string{
		{"", "500mg"}, // missing name
		{"Ibuprofen", "400mg"},
	})

	result, err := ImportMedicationCatalog(db, "clinic-1", buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "name is required")
}

func TestImportMedicationCatalogNotAWorkbook(t *testing.T) {
	db := setupTestDB(t)

	_, err := ImportMedicationCatalog(db, "clinic-1", bytes.NewReader([]byte("not an xlsx")))
	assert.Error(t, err)
}

func TestGenerateMedicationCatalogTemplate(t *testing.T) {
	buf, err := GenerateMedicationCatalogTemplate()
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(catalogSheetName)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, catalogColumns, rows[0])
}

func TestSearchMedicationCatalog(t *testing.T) {
	db := setupTestDB(t)

	for _, name := range []string{"Paracetamol", "Amoxicillin", "Ampicillin"} {
		require.NoError(t, db.Create(&models.MedicationCatalogEntry{OwnerKey: "clinic-1", Name: name}).Error)
	}
	require.NoError(t, db.Create(&models.MedicationCatalogEntry{OwnerKey: "clinic-2", Name: "Paracetamol"}).Error)

	entries, err := SearchMedicationCatalog(db, "clinic-1", "cillin", 20)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Amoxicillin", entries[0].Name)
	assert.Equal(t, "Ampicillin", entries[1].Name)

	// Blank query lists everything for the owner, scoped
	entries, err = SearchMedicationCatalog(db, "clinic-1", "", 20)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
