package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"mediscript_app_go/models"

	"github.com/jung-kurt/gofpdf"
)

// Export layout constants, in millimeters. The footer is anchored from the
// page bottom rather than the running cursor so it lands in the same place
// regardless of how much content precedes it.
const (
	exportMarginMM       = 20
	footerFromBottomMM   = 40
	signatureBoxWidthMM  = 55
	exportFileNameFallbk = "prescription"
)

// PrescriptionExporter paints a prescription onto a PDF page using direct
// text and shape placement. It is a sibling of RenderPrescriptionPage, not a
// consumer of it: there is no box-layout engine on this path, so an explicit
// vertical cursor is advanced manually after each emitted element, mirroring
// the renderer's section order and omission rules.
//
// The whole document is assembled in memory; the single Output call in Build
// is the only failure point, so no partial file is ever left behind.
type PrescriptionExporter struct {
	pdf      *gofpdf.Fpdf
	tr       func(string) string
	doc      models.Prescription
	settings models.PrintSettings
	paper    models.PaperSize

	y        float64
	sections []string
}

// NewPrescriptionExporter prepares an exporter for one document. Portrait
// orientation, page size taken from the same paper registry the renderer
// uses, auto page breaks disabled: overflow past the page bottom is clipped,
// matching the renderer's single-page contract.
func NewPrescriptionExporter(doc models.Prescription, settings models.PrintSettings) *PrescriptionExporter {
	paper := models.PaperOf(settings.PageSize)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: paper.WidthMM, Ht: paper.HeightMM},
	})
	pdf.SetAutoPageBreak(false, 0)

	return &PrescriptionExporter{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		doc:      doc,
		settings: settings,
		paper:    paper,
		y:        exportMarginMM,
	}
}

// ExportPrescriptionPDF assembles the export file and returns its bytes and
// download file name.
func ExportPrescriptionPDF(doc models.Prescription, settings models.PrintSettings) ([]byte, string, error) {
	e := NewPrescriptionExporter(doc, settings)
	data, err := e.Build()
	if err != nil {
		return nil, "", err
	}
	return data, e.FileName(), nil
}

// Build assembles the document and serializes it.
func (e *PrescriptionExporter) Build() ([]byte, error) {
	e.pdf.AddPage()

	e.emitHeader()
	e.emitTitleBand()
	e.emitPatient()
	e.emitDiagnosis()
	e.emitAllergies()
	e.emitMedications()
	e.emitVitals()
	e.emitNotes()
	e.emitFooter()

	var buf bytes.Buffer
	if err := e.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to assemble prescription PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName returns the download name: patient name with spaces replaced by
// underscores, then the prescription date, defaulting to "prescription" and
// today when absent.
func (e *PrescriptionExporter) FileName() string {
	name := strings.TrimSpace(e.doc.Patient.Name)
	if name == "" {
		name = exportFileNameFallbk
	}
	name = strings.ReplaceAll(name, " ", "_")

	date := strings.TrimSpace(e.doc.Patient.Date)
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	return name + "_" + date + ".pdf"
}

// Sections lists the logical sections emitted so far, in order. Used to
// check parity with the box-layout renderer.
func (e *PrescriptionExporter) Sections() []string {
	return e.sections
}

func (e *PrescriptionExporter) markSection(name string) {
	e.sections = append(e.sections, name)
}

func (e *PrescriptionExporter) contentWidth() float64 {
	return e.paper.WidthMM - 2*exportMarginMM
}

func (e *PrescriptionExporter) rightEdge() float64 {
	return e.paper.WidthMM - exportMarginMM
}

func (e *PrescriptionExporter) text(x, y float64, s string) {
	e.pdf.Text(x, y, e.tr(s))
}

func (e *PrescriptionExporter) textRight(xRight, y float64, s string) {
	t := e.tr(s)
	e.pdf.Text(xRight-e.pdf.GetStringWidth(t), y, t)
}

func (e *PrescriptionExporter) textCentered(y float64, s string) {
	t := e.tr(s)
	e.pdf.Text(e.paper.WidthMM/2-e.pdf.GetStringWidth(t)/2, y, t)
}

func (e *PrescriptionExporter) rule(y float64) {
	e.pdf.SetDrawColor(0, 0, 0)
	e.pdf.Line(exportMarginMM, y, e.rightEdge(), y)
}

func (e *PrescriptionExporter) heading(label string) {
	e.y += 5
	e.pdf.SetFont("Helvetica", "B", 11)
	e.pdf.SetTextColor(0, 0, 0)
	e.text(exportMarginMM, e.y, label)
	e.y += 1.5
	e.pdf.SetDrawColor(150, 150, 150)
	e.pdf.Line(exportMarginMM, e.y, e.rightEdge(), e.y)
	e.y += 5
}

func dashWhenEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func (e *PrescriptionExporter) emitHeader() {
	if !e.settings.ShowHeader {
		// Letterhead stock carries the identity; jump the reserved height.
		e.y += models.ClampSpacerHeight(e.settings.HeaderHeightMM)
		return
	}
	e.markSection("header")

	h := e.settings.Header
	yStart := e.y

	e.pdf.SetFont("Helvetica", "B", 14)
	e.pdf.SetTextColor(0, 0, 0)
	e.y += 6
	e.text(exportMarginMM, e.y, h.DoctorName)

	e.pdf.SetFont("Helvetica", "", 10)
	e.pdf.SetTextColor(100, 100, 100)
	e.y += 5
	e.text(exportMarginMM, e.y, h.DoctorTitle)

	if strings.TrimSpace(h.DoctorBio) != "" {
		e.pdf.SetFont("Helvetica", "", 9)
		e.y += 4.5
		e.text(exportMarginMM, e.y, h.DoctorBio)
	}

	// Secondary identity column, right-aligned at the same baselines. Core
	// PDF fonts carry no bidi shaping, so runs are placed right-aligned
	// without reshaping; full shaping would need an embedded font.
	if strings.TrimSpace(h.SecondaryName) != "" || strings.TrimSpace(h.SecondaryTitle) != "" {
		ySecondary := yStart + 6
		e.pdf.SetFont("Helvetica", "B", 14)
		e.pdf.SetTextColor(0, 0, 0)
		e.textRight(e.rightEdge(), ySecondary, h.SecondaryName)

		e.pdf.SetFont("Helvetica", "", 10)
		e.pdf.SetTextColor(100, 100, 100)
		ySecondary += 5
		e.textRight(e.rightEdge(), ySecondary, h.SecondaryTitle)

		if strings.TrimSpace(h.SecondaryBio) != "" {
			e.pdf.SetFont("Helvetica", "", 9)
			ySecondary += 4.5
			e.textRight(e.rightEdge(), ySecondary, h.SecondaryBio)
		}
		if ySecondary > e.y {
			e.y = ySecondary
		}
	}

	e.y += 3
	e.rule(e.y)
	e.y += 6
}

func (e *PrescriptionExporter) emitTitleBand() {
	e.markSection("title")

	bandHeight := 16.0
	if e.doc.AccessCode != "" {
		bandHeight = 25
	}

	e.pdf.SetFillColor(238, 242, 247)
	e.pdf.Rect(exportMarginMM, e.y, e.contentWidth(), bandHeight, "F")

	e.pdf.SetFont("Helvetica", "B", 14)
	e.pdf.SetTextColor(0, 0, 0)
	e.textCentered(e.y+7, "PRESCRIPTION")

	captionY := e.y + 12.5
	if e.doc.AccessCode != "" {
		e.pdf.SetFont("Helvetica", "B", 10)
		e.textCentered(e.y+13, "Access Code: "+e.doc.AccessCode)

		e.pdf.SetFont("Helvetica", "", 7.5)
		e.pdf.SetTextColor(100, 100, 100)
		e.textCentered(e.y+17, accessCodeHint)
		captionY = e.y + 21.5
	}

	e.pdf.SetFont("Helvetica", "", 7)
	e.pdf.SetTextColor(150, 150, 150)
	e.textCentered(captionY, brandCaption)

	e.y += bandHeight + 4
}

func (e *PrescriptionExporter) emitPatient() {
	e.markSection("patient")
	e.heading("Patient")

	p := e.doc.Patient
	e.patientPairLine("Name", p.Name, "Date", p.Date)
	e.patientPairLine("Age", p.Age, "Sex", p.Sex)
	e.patientPairLine("Patient No.", p.Number, "Phone", p.Phone)
}

// patientPairLine writes two label:value pairs on one line, one per column.
func (e *PrescriptionExporter) patientPairLine(label1, value1, label2, value2 string) {
	col2 := exportMarginMM + e.contentWidth()/2
	const valueIndent = 22

	e.pdf.SetFont("Helvetica", "B", 9)
	e.pdf.SetTextColor(85, 85, 85)
	e.text(exportMarginMM, e.y, label1+":")
	e.text(col2, e.y, label2+":")

	e.pdf.SetFont("Helvetica", "", 10)
	e.pdf.SetTextColor(0, 0, 0)
	e.text(exportMarginMM+valueIndent, e.y, dashWhenEmpty(value1))
	e.text(col2+valueIndent, e.y, dashWhenEmpty(value2))

	e.y += 6
}

func (e *PrescriptionExporter) emitDiagnosis() {
	if strings.TrimSpace(e.doc.Diagnosis) == "" {
		return
	}
	e.markSection("diagnosis")
	e.heading("Diagnosis")
	e.paragraph(e.doc.Diagnosis)
}

// paragraph flows wrapped body text from the cursor and re-syncs the cursor
// below it.
func (e *PrescriptionExporter) paragraph(text string) {
	e.pdf.SetFont("Helvetica", "", 10)
	e.pdf.SetTextColor(0, 0, 0)
	e.pdf.SetXY(exportMarginMM, e.y-4)
	e.pdf.MultiCell(e.contentWidth(), 4.5, e.tr(text), "", "L", false)
	e.y = e.pdf.GetY() + 5
}

func (e *PrescriptionExporter) emitAllergies() {
	if len(e.doc.Allergies) == 0 {
		return
	}
	e.markSection("allergies")

	e.y += 2
	e.pdf.SetFillColor(254, 226, 226)
	e.pdf.Rect(exportMarginMM, e.y, e.contentWidth(), 9, "F")

	e.pdf.SetTextColor(185, 28, 28)
	e.pdf.SetFont("Helvetica", "B", 10)
	label := "Allergies: "
	e.text(exportMarginMM+3, e.y+6, label)

	e.pdf.SetFont("Helvetica", "", 10)
	labelWidth := e.pdf.GetStringWidth(e.tr(label)) + 2
	e.text(exportMarginMM+3+labelWidth, e.y+6, strings.Join(e.doc.Allergies, ", "))

	e.y += 12
}

func (e *PrescriptionExporter) emitMedications() {
	e.markSection("medications")
	e.heading("Medications")

	if len(e.doc.Medications) == 0 {
		e.pdf.SetFont("Helvetica", "I", 10)
		e.pdf.SetTextColor(100, 100, 100)
		e.text(exportMarginMM, e.y, noMedicationsLine)
		e.y += 6
		return
	}

	for i, med := range e.doc.Medications {
		e.pdf.SetFont("Helvetica", "B", 10)
		e.pdf.SetTextColor(0, 0, 0)
		e.text(exportMarginMM, e.y, fmt.Sprintf("%d. %s", i+1, dashWhenEmpty(med.Name)))
		e.y += 5

		details := joinPresent([]string{med.Strength, med.Frequency, med.Duration, med.Quantity}, "  |  ")
		if details != "" {
			e.pdf.SetFont("Helvetica", "", 9)
			e.pdf.SetTextColor(100, 100, 100)
			e.text(exportMarginMM+5, e.y, details)
			e.y += 4.5
		}

		if strings.TrimSpace(med.Instructions) != "" {
			e.pdf.SetFont("Helvetica", "I", 9)
			e.pdf.SetTextColor(100, 100, 100)
			e.text(exportMarginMM+5, e.y, "Instructions: "+med.Instructions)
			e.y += 4.5
		}

		e.y += 3
	}
}

// joinPresent joins the non-empty values with the separator.
func joinPresent(values []string, sep string) string {
	present := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			present = append(present, v)
		}
	}
	return strings.Join(present, sep)
}

func (e *PrescriptionExporter) emitVitals() {
	if !e.doc.Vitals.HasAny() {
		return
	}
	e.markSection("vitals")
	e.heading("Vitals")

	v := e.doc.Vitals
	pairs := make([]string, 0, 4)
	appendVital := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			pairs = append(pairs, label+": "+value)
		}
	}
	appendVital("BP", v.BloodPressure)
	appendVital("HR", v.HeartRate)
	appendVital("Temp", v.Temperature)
	appendVital("SpO2", v.SpO2)

	e.pdf.SetFont("Helvetica", "", 10)
	e.pdf.SetTextColor(0, 0, 0)
	e.text(exportMarginMM, e.y, strings.Join(pairs, " "))
	e.y += 6
}

func (e *PrescriptionExporter) emitNotes() {
	if strings.TrimSpace(e.doc.AdditionalNotes) == "" {
		return
	}
	e.markSection("notes")
	e.heading("Additional Notes")
	e.paragraph(e.doc.AdditionalNotes)
}

func (e *PrescriptionExporter) emitFooter() {
	if !e.settings.ShowFooter {
		// Hidden footer leaves the reserved bottom band blank for letterhead.
		return
	}
	e.markSection("footer")

	f := e.settings.Footer
	footerY := e.paper.HeightMM - footerFromBottomMM

	e.pdf.SetFont("Helvetica", "", 9)
	e.pdf.SetTextColor(68, 68, 68)
	contactY := footerY + 6
	for _, line := range []string{f.ClinicAddress, f.ClinicPhone, f.ClinicEmail} {
		e.text(exportMarginMM, contactY, line)
		contactY += 4.5
	}

	sigX := e.rightEdge() - signatureBoxWidthMM
	e.pdf.SetDrawColor(0, 0, 0)
	e.pdf.Line(sigX, footerY+10, e.rightEdge(), footerY+10)

	sigCenter := sigX + signatureBoxWidthMM/2
	e.pdf.SetFont("Helvetica", "B", 10)
	e.pdf.SetTextColor(0, 0, 0)
	name := e.tr(f.SignatoryName)
	e.pdf.Text(sigCenter-e.pdf.GetStringWidth(name)/2, footerY+15, name)

	e.pdf.SetFont("Helvetica", "", 9)
	e.pdf.SetTextColor(100, 100, 100)
	title := e.tr(f.SignatoryTitle)
	e.pdf.Text(sigCenter-e.pdf.GetStringWidth(title)/2, footerY+19.5, title)
}
