package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"mediscript_app_go/db"
	"mediscript_app_go/models"
	"mediscript_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// PreviewPrescriptionHandler renders the live preview page for the document
// being edited. The editor posts the current draft on every change; the
// response is the page markup at the requested scale.
func PreviewPrescriptionHandler(c echo.Context) error {
	var doc models.Prescription
	if err := c.Bind(&doc); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid prescription payload"})
	}

	scale := 1.0
	if raw := c.QueryParam("scale"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 && parsed <= 2 {
			scale = parsed
		}
	}

	settings := services.LoadPrintSettings(db.DB, ownerKey(c))
	return c.HTML(http.StatusOK, services.RenderPrescriptionPage(doc, settings, scale))
}

// FinalizePrescriptionHandler attaches a fresh access code to the document
// (unless the editor already finalized it) and stashes it for the print and
// export page. Preview, print and export all see the same code afterwards.
func FinalizePrescriptionHandler(c echo.Context) error {
	var doc models.Prescription
	if err := c.Bind(&doc); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid prescription payload"})
	}

	if doc.AccessCode == "" {
		doc.AccessCode = services.GenerateAccessCode()
	}

	if err := services.StashFinalizedPrescription(db.DB, sessionID(c), ownerKey(c), doc); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"access_code": doc.AccessCode})
}

// PrintPageHandler serves the minimal print surface: only the rendered page
// and its fixed-size print stylesheet, none of the editor chrome. If no
// finalized document is stashed the user is sent back to the editor.
func PrintPageHandler(c echo.Context) error {
	doc, err := services.TakeFinalizedPrescription(db.DB, sessionID(c), ownerKey(c))
	if err == services.ErrNoFinalizedPrescription {
		return c.Redirect(http.StatusFound, "/")
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	settings := services.LoadPrintSettings(db.DB, ownerKey(c))
	paper := models.PaperOf(settings.PageSize)
	pageHTML := services.RenderPrescriptionPage(*doc, settings, 1)
	return c.HTML(http.StatusOK, services.WrapPageForPrint(pageHTML, paper))
}

// PrintPDFHandler converts the stashed document to PDF through the print
// path (headless Chrome) and streams it inline.
func PrintPDFHandler(c echo.Context) error {
	doc, err := services.TakeFinalizedPrescription(db.DB, sessionID(c), ownerKey(c))
	if err == services.ErrNoFinalizedPrescription {
		return c.Redirect(http.StatusFound, "/")
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	settings := services.LoadPrintSettings(db.DB, ownerKey(c))
	pdf, err := services.PrintPrescription(*doc, settings)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="prescription.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// ExportPrescriptionHandler produces the standalone export file through the
// coordinate-placement emitter and returns it as a download. The PDF is also
// archived to storage and, when an email address is supplied, delivered to
// the patient; a failed archive is logged but does not block the download.
func ExportPrescriptionHandler(c echo.Context) error {
	var doc models.Prescription
	if err := c.Bind(&doc); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid prescription payload"})
	}

	settings := services.LoadPrintSettings(db.DB, ownerKey(c))
	pdf, fileName, err := services.ExportPrescriptionPDF(doc, settings)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if services.Storage != nil && services.Storage.IsConfigured() {
		key := services.GeneratePrescriptionPDFKey(ownerKey(c), fileName)
		result, err := services.Storage.UploadReader(c.Request().Context(),
			bytes.NewReader(pdf), key, "application/pdf", int64(len(pdf)))
		if err != nil {
			log.Printf("[WARNING] Failed to archive exported prescription: %v", err)
		} else {
			record := models.ExportedPrescription{
				OwnerKey:    ownerKey(c),
				PatientName: doc.Patient.Name,
				AccessCode:  doc.AccessCode,
				FileName:    fileName,
				StorageKey:  result.Key,
				FileSize:    result.FileSize,
			}
			if err := db.DB.Create(&record).Error; err != nil {
				log.Printf("[WARNING] Failed to record exported prescription: %v", err)
			}
		}
	}

	if toEmail := c.QueryParam("email"); toEmail != "" {
		if err := services.SendPrescriptionPDF(getConfig(c), toEmail, doc.Patient.Name, doc.AccessCode, fileName, pdf); err != nil {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// ListExportedPrescriptionsHandler returns the archive log for the clinic.
func ListExportedPrescriptionsHandler(c echo.Context) error {
	var records []models.ExportedPrescription
	if err := db.DB.Where("owner_key = ?", ownerKey(c)).
		Order("created_at DESC").
		Limit(100).
		Find(&records).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, records)
}

// findExportedPrescription looks up an archive record by id, scoped to the
// clinic.
func findExportedPrescription(c echo.Context) (*models.ExportedPrescription, error) {
	var record models.ExportedPrescription
	err := db.DB.First(&record, "id = ? AND owner_key = ?", c.Param("id"), ownerKey(c)).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DownloadExportedPrescriptionHandler streams an archived export back from
// storage. With ?url=true a short-lived signed URL is returned instead so the
// client can fetch straight from the bucket.
func DownloadExportedPrescriptionHandler(c echo.Context) error {
	record, err := findExportedPrescription(c)
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "export not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if services.Storage == nil || record.StorageKey == "" {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "export file not archived"})
	}

	if c.QueryParam("url") == "true" {
		signed, err := services.Storage.GetSignedURL(c.Request().Context(), record.StorageKey, 15*time.Minute)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"url": signed})
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), record.StorageKey)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "export file not available"})
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, record.FileName))
	return c.Stream(http.StatusOK, contentType, reader)
}

// DeleteExportedPrescriptionHandler removes an archived export file and its
// log record.
func DeleteExportedPrescriptionHandler(c echo.Context) error {
	record, err := findExportedPrescription(c)
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "export not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if services.Storage != nil && record.StorageKey != "" {
		if err := services.Storage.Delete(c.Request().Context(), record.StorageKey); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}
	if err := db.DB.Delete(record).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
