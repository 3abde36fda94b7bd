package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Spacer height bounds in millimeters, applied when header/footer content is
// hidden for printing onto pre-printed letterhead stock.
const (
	MinSpacerHeightMM = 10
	MaxSpacerHeightMM = 100
)

// HeaderSettings holds the bilingual doctor identity printed at the top of
// the page. The secondary fields are rendered right-to-left in the second
// header column; they are optional and may be left empty.
type HeaderSettings struct {
	DoctorName  string `json:"doctor_name"`
	DoctorTitle string `json:"doctor_title"`
	DoctorBio   string `json:"doctor_bio"`

	SecondaryName  string `json:"secondary_name"`
	SecondaryTitle string `json:"secondary_title"`
	SecondaryBio   string `json:"secondary_bio"`

	LogoPath string `json:"logo_path"`
	ShowLogo bool   `json:"show_logo"`
}

// FooterSettings holds the clinic contact block and the signature block.
type FooterSettings struct {
	ClinicAddress string `json:"clinic_address"`
	ClinicPhone   string `json:"clinic_phone"`
	ClinicEmail   string `json:"clinic_email"`

	SignatoryName  string `json:"signatory_name"`
	SignatoryTitle string `json:"signatory_title"`
}

// PrintSettings is the configurable page state shared by the preview, the
// print surface and the PDF export. It is persisted as a single JSON blob
// and treated as an immutable input by every render call.
//
// Header/footer content and the corresponding spacer heights are mutually
// exclusive in effect: the height applies only while the show flag is false,
// and content is not rendered while it is.
type PrintSettings struct {
	Header HeaderSettings `json:"header"`
	Footer FooterSettings `json:"footer"`

	PageSize string `json:"page_size"`

	ShowHeader bool `json:"show_header"`
	ShowFooter bool `json:"show_footer"`

	HeaderHeightMM float64 `json:"header_height_mm"`
	FooterHeightMM float64 `json:"footer_height_mm"`
}

// DefaultPrintSettings returns the settings used before a clinic has
// configured anything.
func DefaultPrintSettings() PrintSettings {
	return PrintSettings{
		Header: HeaderSettings{
			ShowLogo: true,
		},
		Footer:         FooterSettings{},
		PageSize:       PaperA4,
		ShowHeader:     true,
		ShowFooter:     true,
		HeaderHeightMM: 40,
		FooterHeightMM: 30,
	}
}

// ClampSpacerHeight bounds a letterhead spacer height to the editable range.
func ClampSpacerHeight(mm float64) float64 {
	if mm < MinSpacerHeightMM {
		return MinSpacerHeightMM
	}
	if mm > MaxSpacerHeightMM {
		return MaxSpacerHeightMM
	}
	return mm
}

// PrintSettingsRecord stores one PrintSettings blob per owner key.
type PrintSettingsRecord struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerKey string `gorm:"uniqueIndex;not null" json:"owner_key"`

	// Payload is the opaque JSON-serialized PrintSettings value
	Payload string `gorm:"type:text;not null" json:"payload"`
}

// BeforeCreate hook to generate UUID
func (r *PrintSettingsRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for PrintSettingsRecord model
func (PrintSettingsRecord) TableName() string {
	return "print_settings_records"
}
