package services

import (
	"fmt"
	"html"
	"strings"

	"mediscript_app_go/models"

	"github.com/microcosm-cc/bluemonday"
)

// emDash is the placeholder for empty patient/medication fields. The page
// template never collapses rows; missing values render as a dash.
const emDash = "—"

// brandCaption is the small watermark line under the title band.
const brandCaption = "Generated with MediScript Cloud"

// accessCodeHint explains what the verification code is for.
const accessCodeHint = "Present this code to verify the prescription."

// noMedicationsLine is the single italic line shown for an empty medication list.
const noMedicationsLine = "No medications prescribed."

// freeTextPolicy strips any markup from clinician-entered free text before it
// is embedded in the page. StrictPolicy output is already HTML-escaped.
var freeTextPolicy = bluemonday.StrictPolicy()

func sanitizeText(s string) string {
	return freeTextPolicy.Sanitize(s)
}

func esc(s string) string {
	return html.EscapeString(s)
}

// valueOrDash escapes a field value, substituting an em-dash when empty.
func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return emDash
	}
	return esc(s)
}

// RenderPrescriptionPage composes the prescription and print settings into a
// fixed-dimension page. The same markup serves the live preview (scaled) and
// the print surface (scale 1); only the hosting chrome differs. Rendering is
// a pure function of its inputs: the same document and settings always
// produce identical markup.
//
// The page is exactly the selected paper size converted to pixels and clips
// overflow instead of growing. Content past the page height is cropped; that
// keeps the preview honest about what the single printed page will show.
func RenderPrescriptionPage(doc models.Prescription, settings models.PrintSettings, scale float64) string {
	paper := models.PaperOf(settings.PageSize)
	widthPx := models.MmToPixels(paper.WidthMM)
	heightPx := models.MmToPixels(paper.HeightMM)

	style := fmt.Sprintf("width:%.2fpx;height:%.2fpx;", widthPx, heightPx)
	if scale != 1 {
		style += fmt.Sprintf("transform:scale(%.4f);transform-origin:top left;", scale)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="rx-page" data-paper="%s" style="%s">`, esc(settings.PageSize), style)

	renderHeader(&b, settings)
	renderTitleBand(&b, doc)
	renderPatient(&b, doc.Patient)
	renderDiagnosis(&b, doc)
	renderAllergies(&b, doc)
	renderMedications(&b, doc)
	renderVitals(&b, doc)
	renderNotes(&b, doc)
	renderFooter(&b, settings)

	b.WriteString(`</div>`)
	return b.String()
}

func renderHeader(b *strings.Builder, settings models.PrintSettings) {
	if !settings.ShowHeader {
		// Blank reservation for pre-printed letterhead stock.
		fmt.Fprintf(b, `<div class="rx-header-spacer" style="height:%.1fmm"></div>`,
			models.ClampSpacerHeight(settings.HeaderHeightMM))
		return
	}

	h := settings.Header
	b.WriteString(`<div class="rx-header" data-section="header">`)

	b.WriteString(`<div class="rx-doctor">`)
	fmt.Fprintf(b, `<div class="rx-doctor-name">%s</div>`, esc(h.DoctorName))
	fmt.Fprintf(b, `<div class="rx-doctor-title">%s</div>`, esc(h.DoctorTitle))
	if strings.TrimSpace(h.DoctorBio) != "" {
		fmt.Fprintf(b, `<div class="rx-doctor-bio">%s</div>`, sanitizeText(h.DoctorBio))
	}
	b.WriteString(`</div>`)

	if h.ShowLogo {
		if strings.TrimSpace(h.LogoPath) != "" {
			fmt.Fprintf(b, `<div class="rx-logo"><img src="%s" alt="logo"></div>`, esc(h.LogoPath))
		} else {
			b.WriteString(`<div class="rx-logo rx-logo-placeholder">+</div>`)
		}
	}

	// Second identity column, rendered right-to-left. The run is tagged with
	// dir so the bidi algorithm lays it out instead of hard-coded styling.
	b.WriteString(`<div class="rx-doctor-alt" dir="rtl">`)
	fmt.Fprintf(b, `<div class="rx-doctor-name">%s</div>`, esc(h.SecondaryName))
	fmt.Fprintf(b, `<div class="rx-doctor-title">%s</div>`, esc(h.SecondaryTitle))
	if strings.TrimSpace(h.SecondaryBio) != "" {
		fmt.Fprintf(b, `<div class="rx-doctor-bio">%s</div>`, sanitizeText(h.SecondaryBio))
	}
	b.WriteString(`</div>`)

	b.WriteString(`</div>`)
}

func renderTitleBand(b *strings.Builder, doc models.Prescription) {
	b.WriteString(`<div class="rx-title-band" data-section="title">`)
	b.WriteString(`<div class="rx-title">PRESCRIPTION</div>`)
	if doc.AccessCode != "" {
		fmt.Fprintf(b, `<div class="rx-access-code">Access Code: %s</div>`, esc(doc.AccessCode))
		fmt.Fprintf(b, `<div class="rx-access-hint">%s</div>`, accessCodeHint)
	}
	fmt.Fprintf(b, `<div class="rx-watermark">%s</div>`, brandCaption)
	b.WriteString(`</div>`)
}

func renderPatient(b *strings.Builder, p models.Patient) {
	b.WriteString(`<div class="rx-patient" data-section="patient"><table class="rx-patient-table">`)
	patientRow(b, "Name", p.Name, "Date", p.Date)
	patientRow(b, "Age", p.Age, "Sex", p.Sex)
	patientRow(b, "Patient No.", p.Number, "Phone", p.Phone)
	b.WriteString(`</table></div>`)
}

func patientRow(b *strings.Builder, label1, value1, label2, value2 string) {
	fmt.Fprintf(b, `<tr><th>%s</th><td>%s</td><th>%s</th><td>%s</td></tr>`,
		label1, valueOrDash(value1), label2, valueOrDash(value2))
}

func renderDiagnosis(b *strings.Builder, doc models.Prescription) {
	if strings.TrimSpace(doc.Diagnosis) == "" {
		return
	}
	b.WriteString(`<div class="rx-section" data-section="diagnosis">`)
	b.WriteString(`<div class="rx-section-heading">Diagnosis</div>`)
	fmt.Fprintf(b, `<p class="rx-text">%s</p>`, sanitizeText(doc.Diagnosis))
	b.WriteString(`</div>`)
}

func renderAllergies(b *strings.Builder, doc models.Prescription) {
	if len(doc.Allergies) == 0 {
		return
	}
	escaped := make([]string, 0, len(doc.Allergies))
	for _, a := range doc.Allergies {
		escaped = append(escaped, esc(a))
	}
	fmt.Fprintf(b,
		`<div class="rx-allergy-band" data-section="allergies"><span class="rx-allergy-label">Allergies:</span> %s</div>`,
		strings.Join(escaped, ", "))
}

func renderMedications(b *strings.Builder, doc models.Prescription) {
	b.WriteString(`<div class="rx-section" data-section="medications">`)
	b.WriteString(`<div class="rx-section-heading">Medications</div>`)

	if len(doc.Medications) == 0 {
		fmt.Fprintf(b, `<p class="rx-no-medications">%s</p>`, noMedicationsLine)
		b.WriteString(`</div>`)
		return
	}

	b.WriteString(`<table class="rx-med-table"><thead><tr>` +
		`<th>Medication</th><th>Strength</th><th>Frequency</th><th>Duration</th><th>Qty</th>` +
		`</tr></thead><tbody>`)
	for _, med := range doc.Medications {
		fmt.Fprintf(b, `<tr data-med="%d"><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			med.ID,
			valueOrDash(med.Name), valueOrDash(med.Strength), valueOrDash(med.Frequency),
			valueOrDash(med.Duration), valueOrDash(med.Quantity))
		if strings.TrimSpace(med.Instructions) != "" {
			fmt.Fprintf(b, `<tr class="rx-med-instructions"><td colspan="5">Instructions: %s</td></tr>`,
				sanitizeText(med.Instructions))
		}
	}
	b.WriteString(`</tbody></table></div>`)
}

func renderVitals(b *strings.Builder, doc models.Prescription) {
	if !doc.Vitals.HasAny() {
		return
	}
	pairs := make([]string, 0, 4)
	appendVital := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			pairs = append(pairs, fmt.Sprintf("%s: %s", label, esc(value)))
		}
	}
	appendVital("BP", doc.Vitals.BloodPressure)
	appendVital("HR", doc.Vitals.HeartRate)
	appendVital("Temp", doc.Vitals.Temperature)
	appendVital("SpO2", doc.Vitals.SpO2)

	b.WriteString(`<div class="rx-section" data-section="vitals">`)
	b.WriteString(`<div class="rx-section-heading">Vitals</div>`)
	fmt.Fprintf(b, `<p class="rx-vitals-line">%s</p>`, strings.Join(pairs, " "))
	b.WriteString(`</div>`)
}

func renderNotes(b *strings.Builder, doc models.Prescription) {
	if strings.TrimSpace(doc.AdditionalNotes) == "" {
		return
	}
	b.WriteString(`<div class="rx-section" data-section="notes">`)
	b.WriteString(`<div class="rx-section-heading">Additional Notes</div>`)
	fmt.Fprintf(b, `<p class="rx-text">%s</p>`, sanitizeText(doc.AdditionalNotes))
	b.WriteString(`</div>`)
}

func renderFooter(b *strings.Builder, settings models.PrintSettings) {
	if !settings.ShowFooter {
		fmt.Fprintf(b, `<div class="rx-footer-spacer" style="height:%.1fmm"></div>`,
			models.ClampSpacerHeight(settings.FooterHeightMM))
		return
	}

	f := settings.Footer
	b.WriteString(`<div class="rx-footer" data-section="footer">`)

	b.WriteString(`<div class="rx-contact">`)
	fmt.Fprintf(b, `<div>%s</div>`, esc(f.ClinicAddress))
	fmt.Fprintf(b, `<div>%s</div>`, esc(f.ClinicPhone))
	fmt.Fprintf(b, `<div>%s</div>`, esc(f.ClinicEmail))
	b.WriteString(`</div>`)

	b.WriteString(`<div class="rx-signature">`)
	fmt.Fprintf(b, `<div class="rx-signature-name">%s</div>`, esc(f.SignatoryName))
	fmt.Fprintf(b, `<div class="rx-signature-title">%s</div>`, esc(f.SignatoryTitle))
	b.WriteString(`</div>`)

	b.WriteString(`</div>`)
}

// PageStylesheet returns the CSS shared by the preview host and the print
// surface. Kept in one place so both surfaces stay visually identical.
func PageStylesheet() string {
	return `
        .rx-page {
            position: relative;
            display: flex;
            flex-direction: column;
            overflow: hidden;
            box-sizing: border-box;
            padding: 10mm 12mm;
            background: #fff;
            color: #111;
            font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
            font-size: 10pt;
            line-height: 1.4;
        }
        .rx-header {
            display: flex;
            justify-content: space-between;
            align-items: flex-start;
            border-bottom: 1px solid #111;
            padding-bottom: 3mm;
        }
        .rx-doctor { text-align: left; }
        .rx-doctor-alt {
            text-align: right;
            font-family: "Noto Naskh Arabic", "Amiri", "Scheherazade New", serif;
        }
        .rx-doctor-name { font-size: 13pt; font-weight: bold; }
        .rx-doctor-title { font-size: 9.5pt; color: #555; }
        .rx-doctor-bio { font-size: 8.5pt; color: #777; }
        .rx-logo { width: 20mm; text-align: center; }
        .rx-logo img { max-width: 20mm; max-height: 20mm; }
        .rx-logo-placeholder {
            height: 18mm;
            line-height: 18mm;
            border: 1px dashed #bbb;
            color: #bbb;
            font-size: 14pt;
        }
        .rx-title-band {
            margin-top: 4mm;
            padding: 2.5mm 0;
            text-align: center;
            background: #eef2f7;
        }
        .rx-title { font-size: 14pt; font-weight: bold; letter-spacing: 0.25em; }
        .rx-access-code { margin-top: 1mm; font-size: 10pt; font-weight: bold; }
        .rx-access-hint { font-size: 7.5pt; color: #666; }
        .rx-watermark { margin-top: 1mm; font-size: 7pt; color: #999; }
        .rx-patient { margin-top: 4mm; }
        .rx-patient-table { width: 100%; border-collapse: collapse; }
        .rx-patient-table th {
            width: 14%;
            padding: 1mm 2mm 1mm 0;
            text-align: left;
            font-size: 9pt;
            color: #555;
        }
        .rx-patient-table td { width: 36%; padding: 1mm 4mm 1mm 0; }
        .rx-section { margin-top: 4mm; }
        .rx-section-heading {
            font-size: 10.5pt;
            font-weight: bold;
            border-bottom: 1px solid #999;
            padding-bottom: 1mm;
            margin-bottom: 2mm;
        }
        .rx-text { margin: 0; white-space: pre-wrap; }
        .rx-allergy-band {
            margin-top: 4mm;
            padding: 2mm 3mm;
            background: #fee2e2;
            color: #b91c1c;
        }
        .rx-allergy-label { font-weight: bold; }
        .rx-no-medications { font-style: italic; color: #666; margin: 0; }
        .rx-med-table { width: 100%; border-collapse: collapse; }
        .rx-med-table th {
            text-align: left;
            font-size: 9pt;
            border-bottom: 1px solid #999;
            padding: 1mm 2mm 1mm 0;
        }
        .rx-med-table td { padding: 1.5mm 2mm 1.5mm 0; vertical-align: top; }
        .rx-med-instructions td {
            font-size: 9pt;
            font-style: italic;
            color: #555;
            padding-top: 0;
        }
        .rx-vitals-line { margin: 0; }
        .rx-footer {
            margin-top: auto;
            display: flex;
            justify-content: space-between;
            align-items: flex-end;
            border-top: 1px solid #111;
            padding-top: 3mm;
            font-size: 9pt;
        }
        .rx-contact { color: #444; }
        .rx-signature {
            width: 55mm;
            text-align: center;
            border-top: 1px solid #111;
            padding-top: 1.5mm;
        }
        .rx-signature-name { font-weight: bold; }
        .rx-signature-title { color: #555; font-size: 8.5pt; }
        .rx-footer-spacer { margin-top: auto; }
`
}

// WrapPageForPrint hosts the rendered page in a minimal document carrying
// only the page markup and a fixed-size print stylesheet. The @page rule
// matches the paper's millimeter dimensions exactly with zero margin, and
// color printing is forced so tinted bands survive the print path.
func WrapPageForPrint(pageHTML string, paper models.PaperSize) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        @page {
            size: %.0fmm %.0fmm;
            margin: 0;
        }
        html, body {
            margin: 0;
            padding: 0;
            -webkit-print-color-adjust: exact;
            print-color-adjust: exact;
        }
%s    </style>
</head>
<body>
%s
</body>
</html>`, paper.WidthMM, paper.HeightMM, PageStylesheet(), pageHTML)
}
