package models

// Paper size name constants
const (
	PaperA4 = "A4"
	PaperA5 = "A5"
)

// Conversion factors. Screen/print layout works at the CSS reference
// resolution of 96 pixels per inch; PDF text metrics work in points.
const (
	mmPerInch     = 25.4
	pixelsPerInch = 96.0
	pointsPerInch = 72.0
)

// PaperSize describes a supported paper format in millimeters.
// Dimensions are fixed per name and never mutated at runtime.
type PaperSize struct {
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
	Label    string  `json:"label"`
}

var paperSizes = map[string]PaperSize{
	PaperA4: {WidthMM: 210, HeightMM: 297, Label: "A4 (210 × 297 mm)"},
	PaperA5: {WidthMM: 148, HeightMM: 210, Label: "A5 (148 × 210 mm)"},
}

// MmToPixels converts millimeters to CSS pixels (96 DPI).
func MmToPixels(mm float64) float64 {
	return mm * pixelsPerInch / mmPerInch
}

// MmToPoints converts millimeters to PostScript points (72 per inch).
func MmToPoints(mm float64) float64 {
	return mm * pointsPerInch / mmPerInch
}

// PaperOf returns the dimensions for a supported paper name. Unknown names
// are a programming error upstream (the name set is closed and validated at
// the edges), so this falls back to A4 rather than returning an error.
func PaperOf(name string) PaperSize {
	if size, ok := paperSizes[name]; ok {
		return size
	}
	return paperSizes[PaperA4]
}

// IsValidPaperSize checks if the paper name is supported
func IsValidPaperSize(name string) bool {
	_, ok := paperSizes[name]
	return ok
}
