package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient identifies who the prescription is for. Date is the prescription
// date as an ISO calendar date string (YYYY-MM-DD); all fields are free text
// collected by the editor and may be empty.
type Patient struct {
	Name    string `json:"name"`
	Number  string `json:"number"`
	Date    string `json:"date"`
	Age     string `json:"age"`
	Sex     string `json:"sex"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Medication is one prescribed item. ID is a caller-assigned small integer
// unique within the document, used only for render keying and edit
// correlation, never as storage identity. Slice order is display order.
type Medication struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Strength     string `json:"strength"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Quantity     string `json:"quantity"`
	Instructions string `json:"instructions"`
}

// Vitals holds the optional measurements block. The section is omitted from
// both render paths unless at least one field is non-empty.
type Vitals struct {
	BloodPressure string `json:"blood_pressure"`
	HeartRate     string `json:"heart_rate"`
	Temperature   string `json:"temperature"`
	SpO2          string `json:"spo2"`
}

// HasAny reports whether any vital was recorded.
func (v Vitals) HasAny() bool {
	return strings.TrimSpace(v.BloodPressure) != "" ||
		strings.TrimSpace(v.HeartRate) != "" ||
		strings.TrimSpace(v.Temperature) != "" ||
		strings.TrimSpace(v.SpO2) != ""
}

// Prescription is the immutable-per-render snapshot handed to the renderer
// and the PDF exporter. The engine never mutates it; all editing happens
// upstream. AccessCode is set only once the document has been finalized and
// is absent for a live-editing preview.
type Prescription struct {
	Patient         Patient      `json:"patient"`
	Medications     []Medication `json:"medications"`
	Diagnosis       string       `json:"diagnosis"`
	Vitals          Vitals       `json:"vitals"`
	Allergies       []string     `json:"allergies"`
	AdditionalNotes string       `json:"additional_notes"`
	AccessCode      string       `json:"access_code,omitempty"`
}

// Handoff scope constants
const (
	HandoffScopeSession = "session"
	HandoffScopeDurable = "durable"
)

// PrescriptionHandoff carries a finalized prescription from the editor to
// the dedicated print/export page. A session-scoped row is consumed first;
// the durable row backs opening the print page in a new window or tab.
type PrescriptionHandoff struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Key      string `gorm:"not null;index" json:"key"`
	Scope    string `gorm:"not null" json:"scope"`
	OwnerKey string `gorm:"not null;index" json:"owner_key"`

	// SessionID is set only for session-scoped rows
	SessionID string `gorm:"index" json:"session_id"`

	// Payload is the JSON-serialized Prescription
	Payload string `gorm:"type:text;not null" json:"payload"`
}

// BeforeCreate hook to generate UUID
func (h *PrescriptionHandoff) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for PrescriptionHandoff model
func (PrescriptionHandoff) TableName() string {
	return "prescription_handoffs"
}

// ExportedPrescription records one archived PDF export. Collision handling
// for access codes is a persistence concern and lives here, not in the
// generator.
type ExportedPrescription struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerKey    string `gorm:"not null;index" json:"owner_key"`
	PatientName string `json:"patient_name"`
	AccessCode  string `gorm:"index" json:"access_code"`
	FileName    string `gorm:"not null" json:"file_name"`
	StorageKey  string `json:"storage_key"`
	FileSize    int64  `json:"file_size"`
}

// BeforeCreate hook to generate UUID
func (e *ExportedPrescription) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ExportedPrescription model
func (ExportedPrescription) TableName() string {
	return "exported_prescriptions"
}
