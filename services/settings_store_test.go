package services

import (
	"testing"

	"mediscript_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB initializes an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.PrintSettingsRecord{},
		&models.PrescriptionHandoff{},
		&models.ExportedPrescription{},
		&models.MedicationCatalogEntry{},
	)
	require.NoError(t, err)
	return db
}

func TestLoadPrintSettingsDefaults(t *testing.T) {
	db := setupTestDB(t)

	settings := LoadPrintSettings(db, "clinic-1")
	assert.Equal(t, models.DefaultPrintSettings(), settings)
}

func TestPrintSettingsRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	settings := models.DefaultPrintSettings()
	settings.Header.DoctorName = "Dr. Sarah Malik"
	settings.Header.SecondaryName = "د. سارة مالك"
	settings.Footer.ClinicPhone = "+1 555 0100"
	settings.Footer.SignatoryName = "Dr. Sarah Malik"
	settings.PageSize = models.PaperA5
	settings.ShowHeader = false
	settings.HeaderHeightMM = 55

	require.NoError(t, SavePrintSettings(db, "clinic-1", settings))

	loaded := LoadPrintSettings(db, "clinic-1")
	assert.Equal(t, settings, loaded)
}

func TestSavePrintSettingsUpdatesExistingRow(t *testing.T) {
	db := setupTestDB(t)

	first := models.DefaultPrintSettings()
	first.Header.DoctorName = "Dr. A"
	require.NoError(t, SavePrintSettings(db, "clinic-1", first))

	second := first
	second.Header.DoctorName = "Dr. B"
	require.NoError(t, SavePrintSettings(db, "clinic-1", second))

	var count int64
	db.Model(&models.PrintSettingsRecord{}).Where("owner_key = ?", "clinic-1").Count(&count)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, "Dr. B", LoadPrintSettings(db, "clinic-1").Header.DoctorName)
}

func TestLoadPrintSettingsMalformedJSON(t *testing.T) {
	db := setupTestDB(t)

	record := models.PrintSettingsRecord{OwnerKey: "clinic-1", Payload: "{not json"}
	require.NoError(t, db.Create(&record).Error)

	// Malformed storage is silently ignored and defaults retained
	assert.Equal(t, models.DefaultPrintSettings(), LoadPrintSettings(db, "clinic-1"))
}

func TestLoadPrintSettingsToleratesPartialPayload(t *testing.T) {
	db := setupTestDB(t)

	// Only a subset of fields stored; the rest merge over defaults
	record := models.PrintSettingsRecord{
		OwnerKey: "clinic-1",
		Payload:  `{"page_size":"A5","unknown_field":true}`,
	}
	require.NoError(t, db.Create(&record).Error)

	loaded := LoadPrintSettings(db, "clinic-1")
	assert.Equal(t, models.PaperA5, loaded.PageSize)
	assert.True(t, loaded.ShowHeader)
	assert.Equal(t, 40.0, loaded.HeaderHeightMM)
}

func TestLoadPrintSettingsSanitizes(t *testing.T) {
	db := setupTestDB(t)

	record := models.PrintSettingsRecord{
		OwnerKey: "clinic-1",
		Payload:  `{"page_size":"letter","header_height_mm":500,"footer_height_mm":1}`,
	}
	require.NoError(t, db.Create(&record).Error)

	loaded := LoadPrintSettings(db, "clinic-1")
	assert.Equal(t, models.PaperA4, loaded.PageSize)
	assert.Equal(t, 100.0, loaded.HeaderHeightMM)
	assert.Equal(t, 10.0, loaded.FooterHeightMM)
}

func TestPrintSettingsScopedByOwner(t *testing.T) {
	db := setupTestDB(t)

	one := models.DefaultPrintSettings()
	one.Header.DoctorName = "Dr. One"
	require.NoError(t, SavePrintSettings(db, "clinic-1", one))

	assert.Equal(t, "Dr. One", LoadPrintSettings(db, "clinic-1").Header.DoctorName)
	assert.Equal(t, "", LoadPrintSettings(db, "clinic-2").Header.DoctorName)
}
