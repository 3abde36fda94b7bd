package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicationCatalogEntry is one row of the clinic's medication catalog,
// imported from Excel and used by the editor's autocomplete. The defaults
// pre-fill a Medication when the entry is picked.
type MedicationCatalogEntry struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerKey string `gorm:"not null;index" json:"owner_key"`

	Name                string `gorm:"not null;index" json:"name"`
	Strength            string `json:"strength"`
	DefaultFrequency    string `json:"default_frequency"`
	DefaultDuration     string `json:"default_duration"`
	DefaultQuantity     string `json:"default_quantity"`
	DefaultInstructions string `gorm:"type:text" json:"default_instructions"`
}

// BeforeCreate hook to generate UUID
func (m *MedicationCatalogEntry) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for MedicationCatalogEntry model
func (MedicationCatalogEntry) TableName() string {
	return "medication_catalog_entries"
}
