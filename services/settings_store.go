package services

import (
	"encoding/json"
	"fmt"

	"mediscript_app_go/models"

	"gorm.io/gorm"
)

// LoadPrintSettings returns the stored print settings for an owner key,
// merged over defaults. Load is best effort: a missing row, malformed JSON
// or unknown fields never fail, and the caller always gets usable settings.
func LoadPrintSettings(dbConn *gorm.DB, ownerKey string) models.PrintSettings {
	settings := models.DefaultPrintSettings()

	var record models.PrintSettingsRecord
	if err := dbConn.First(&record, "owner_key = ?", ownerKey).Error; err != nil {
		return settings
	}

	// Unmarshal over the defaults so missing fields keep their default
	// values; on malformed JSON discard whatever was partially applied.
	if err := json.Unmarshal([]byte(record.Payload), &settings); err != nil {
		return models.DefaultPrintSettings()
	}

	if !models.IsValidPaperSize(settings.PageSize) {
		settings.PageSize = models.PaperA4
	}
	settings.HeaderHeightMM = models.ClampSpacerHeight(settings.HeaderHeightMM)
	settings.FooterHeightMM = models.ClampSpacerHeight(settings.FooterHeightMM)

	return settings
}

// SavePrintSettings persists the settings blob for an owner key, creating or
// updating the single row.
func SavePrintSettings(dbConn *gorm.DB, ownerKey string, settings models.PrintSettings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to serialize print settings: %w", err)
	}

	var record models.PrintSettingsRecord
	err = dbConn.First(&record, "owner_key = ?", ownerKey).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		record = models.PrintSettingsRecord{
			OwnerKey: ownerKey,
			Payload:  string(payload),
		}
		if err := dbConn.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to save print settings: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to load print settings: %w", err)
	default:
		record.Payload = string(payload)
		if err := dbConn.Save(&record).Error; err != nil {
			return fmt.Errorf("failed to save print settings: %w", err)
		}
	}

	return nil
}
