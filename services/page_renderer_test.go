package services

import (
	"strings"
	"testing"

	"mediscript_app_go/models"

	"github.com/stretchr/testify/assert"
)

func samplePrescription() models.Prescription {
	return models.Prescription{
		Patient: models.Patient{
			Name: "A. Noor",
			Date: "2026-08-29",
			Age:  "34",
			Sex:  "F",
		},
		Medications: []models.Medication{
			{ID: 1, Name: "Paracetamol", Strength: "500mg", Frequency: "3x daily", Duration: "5 days", Quantity: "15", Instructions: ""},
		},
	}
}

func TestRenderPageDimensions(t *testing.T) {
	settings := models.DefaultPrintSettings()
	page := RenderPrescriptionPage(samplePrescription(), settings, 1)

	// A4: 210mm and 297mm at 96 DPI
	assert.Contains(t, page, "width:793.70px")
	assert.Contains(t, page, "height:1122.52px")
	assert.Contains(t, page, `data-paper="A4"`)
	// Unscaled pages carry no transform
	assert.NotContains(t, page, "transform:scale")
}

func TestRenderPageScaled(t *testing.T) {
	settings := models.DefaultPrintSettings()
	page := RenderPrescriptionPage(samplePrescription(), settings, 0.5)

	assert.Contains(t, page, "transform:scale(0.5000)")
	assert.Contains(t, page, "transform-origin:top left")
	// Scaling never changes the layout dimensions
	assert.Contains(t, page, "width:793.70px")
}

func TestRenderIdempotent(t *testing.T) {
	doc := samplePrescription()
	settings := models.DefaultPrintSettings()

	first := RenderPrescriptionPage(doc, settings, 1)
	second := RenderPrescriptionPage(doc, settings, 1)
	assert.Equal(t, first, second)
}

func TestRenderEmptyMedications(t *testing.T) {
	doc := samplePrescription()
	doc.Medications = nil
	page := RenderPrescriptionPage(doc, models.DefaultPrintSettings(), 1)

	assert.Equal(t, 1, strings.Count(page, noMedicationsLine))
	assert.NotContains(t, page, "rx-med-table")
}

func TestRenderMedicationRowWithoutInstructions(t *testing.T) {
	page := RenderPrescriptionPage(samplePrescription(), models.DefaultPrintSettings(), 1)

	assert.Contains(t, page, "Paracetamol")
	assert.Contains(t, page, "500mg")
	assert.NotContains(t, page, "rx-med-instructions")
	assert.NotContains(t, page, noMedicationsLine)
}

func TestRenderMedicationInstructionsRow(t *testing.T) {
	doc := samplePrescription()
	doc.Medications[0].Instructions = "Take after meals"
	page := RenderPrescriptionPage(doc, models.DefaultPrintSettings(), 1)

	assert.Equal(t, 1, strings.Count(page, "rx-med-instructions"))
	assert.Contains(t, page, "Instructions: Take after meals")
}

func TestRenderMedicationEmptyFieldsGetDashes(t *testing.T) {
	doc := samplePrescription()
	doc.Medications = []models.Medication{{ID: 1, Name: "Ibuprofen"}}
	page := RenderPrescriptionPage(doc, models.DefaultPrintSettings(), 1)

	assert.Contains(t, page, "<td>Ibuprofen</td>")
	// strength/frequency/duration/qty all dash out
	assert.Contains(t, page, "<td>—</td><td>—</td><td>—</td><td>—</td>")
}

func TestRenderAllergiesBand(t *testing.T) {
	doc := samplePrescription()
	doc.Allergies = []string{"Penicillin", "Latex"}
	page := RenderPrescriptionPage(doc, models.DefaultPrintSettings(), 1)

	assert.Equal(t, 1, strings.Count(page, `data-section="allergies"`))
	assert.Contains(t, page, "Penicillin, Latex")
}

func TestRenderNoAllergiesNoBand(t *testing.T) {
	page := RenderPrescriptionPage(samplePrescription(), models.DefaultPrintSettings(), 1)
	assert.NotContains(t, page, `data-section="allergies"`)
}

func TestRenderAccessCodeVerbatim(t *testing.T) {
	doc := samplePrescription()
	doc.AccessCode = "RX-AB3D-9KPZ"
	page := RenderPrescriptionPage(doc, models.DefaultPrintSettings(), 1)

	assert.Contains(t, page, "Access Code: RX-AB3D-9KPZ")
	assert.Contains(t, page, accessCodeHint)
}

func TestRenderNoAccessCodeNoCodeLine(t *testing.T) {
	page := RenderPrescriptionPage(samplePrescription(), models.DefaultPrintSettings(), 1)
	assert.NotContains(t, page, "Access Code:")
	// Watermark caption renders regardless of finalization
	assert.Contains(t, page, brandCaption)
}

func TestRenderPatientEmDashFallback(t *testing.T) {
	doc := models.Prescription{}
	page := RenderPrescriptionPage(doc, models.DefaultPrintSettings(), 1)

	// Patient rows never collapse: all six cells dash out
	assert.Equal(t, 6, strings.Count(page, "<td>—</td>"))
	assert.Contains(t, page, "<th>Name</th>")
	assert.Contains(t, page, "<th>Patient No.</th>")
}

func TestRenderDiagnosisOmittedWhenEmpty(t *testing.T) {
	page := RenderPrescriptionPage(samplePrescription(), models.DefaultPrintSettings(), 1)
	assert.NotContains(t, page, `data-section="diagnosis"`)

	doc := samplePrescription()
	doc.Diagnosis = "Acute pharyngitis"
	page = RenderPrescriptionPage(doc, models.DefaultPrintSettings(), 1)
	assert.Contains(t, page, `data-section="diagnosis"`)
	assert.Contains(t, page, "Acute pharyngitis")
}

func TestRenderVitals(t *testing.T) {
	page := RenderPrescriptionPage(samplePrescription(), models.DefaultPrintSettings(), 1)
	assert.NotContains(t, page, `data-section="vitals"`)

	doc := samplePrescription()
	doc.Vitals = models.Vitals{BloodPressure: "120/80", HeartRate: "72"}
	page = RenderPrescriptionPage(doc, models.DefaultPrintSettings(), 1)

	// Present values appear as space-separated label:value pairs, no
	// placeholders for the omitted ones
	assert.Contains(t, page, "BP: 120/80 HR: 72")
	assert.NotContains(t, page, "Temp:")
	assert.NotContains(t, page, "SpO2:")
}

func TestRenderHeaderToggle(t *testing.T) {
	settings := models.DefaultPrintSettings()
	settings.Header.DoctorName = "Dr. Sarah Malik"
	settings.HeaderHeightMM = 45

	page := RenderPrescriptionPage(samplePrescription(), settings, 1)
	assert.Contains(t, page, "Dr. Sarah Malik")
	assert.NotContains(t, page, "rx-header-spacer")

	settings.ShowHeader = false
	page = RenderPrescriptionPage(samplePrescription(), settings, 1)
	assert.NotContains(t, page, "Dr. Sarah Malik")
	assert.Contains(t, page, `rx-header-spacer" style="height:45.0mm"`)
}

func TestRenderFooterToggle(t *testing.T) {
	settings := models.DefaultPrintSettings()
	settings.Footer.SignatoryName = "Dr. Sarah Malik"
	settings.FooterHeightMM = 25

	page := RenderPrescriptionPage(samplePrescription(), settings, 1)
	assert.Contains(t, page, `data-section="footer"`)
	assert.NotContains(t, page, "rx-footer-spacer")

	settings.ShowFooter = false
	page = RenderPrescriptionPage(samplePrescription(), settings, 1)
	assert.NotContains(t, page, `data-section="footer"`)
	assert.Contains(t, page, `rx-footer-spacer" style="height:25.0mm"`)
}

func TestRenderBilingualHeader(t *testing.T) {
	settings := models.DefaultPrintSettings()
	settings.Header.DoctorName = "Dr. Sarah Malik"
	settings.Header.SecondaryName = "د. سارة مالك"

	page := RenderPrescriptionPage(samplePrescription(), settings, 1)
	assert.Contains(t, page, `dir="rtl"`)
	assert.Contains(t, page, "د. سارة مالك")
}

func TestRenderSanitizesFreeText(t *testing.T) {
	doc := samplePrescription()
	doc.Diagnosis = `<script>alert("x")</script>Flu`
	page := RenderPrescriptionPage(doc, models.DefaultPrintSettings(), 1)

	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "Flu")
}

func TestRenderClipsOverflow(t *testing.T) {
	// The page clips instead of growing: the container always declares
	// overflow hidden and a fixed height, even with absurd content volume.
	doc := samplePrescription()
	for i := 0; i < 80; i++ {
		doc.Medications = append(doc.Medications, models.Medication{ID: i + 2, Name: "Filler"})
	}
	page := RenderPrescriptionPage(doc, models.DefaultPrintSettings(), 1)
	assert.Contains(t, page, "height:1122.52px")
	assert.Contains(t, PageStylesheet(), "overflow: hidden")
}

func TestWrapPageForPrint(t *testing.T) {
	settings := models.DefaultPrintSettings()
	page := RenderPrescriptionPage(samplePrescription(), settings, 1)
	docHTML := WrapPageForPrint(page, models.PaperOf(settings.PageSize))

	assert.Contains(t, docHTML, "<!DOCTYPE html>")
	assert.Contains(t, docHTML, "size: 210mm 297mm")
	assert.Contains(t, docHTML, "margin: 0")
	assert.Contains(t, docHTML, "print-color-adjust: exact")
	assert.Contains(t, docHTML, page)
	// Print surface carries only the page, none of the editor chrome
	assert.NotContains(t, docHTML, "<nav")
	assert.NotContains(t, docHTML, "<header")
}
