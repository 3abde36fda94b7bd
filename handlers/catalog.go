package handlers

import (
	"net/http"

	"mediscript_app_go/db"
	"mediscript_app_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DownloadCatalogTemplateHandler returns the Excel template clinics fill in
// to upload their medication catalog.
func DownloadCatalogTemplateHandler(c echo.Context) error {
	buf, err := services.GenerateMedicationCatalogTemplate()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="medication_catalog_template.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ImportCatalogHandler ingests an uploaded catalog workbook.
func ImportCatalogHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "workbook file is required"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to open uploaded file"})
	}
	defer src.Close()

	result, err := services.ImportMedicationCatalog(db.DB, ownerKey(c), src)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}

// SearchCatalogHandler backs the editor's medication autocomplete.
func SearchCatalogHandler(c echo.Context) error {
	entries, err := services.SearchMedicationCatalog(db.DB, ownerKey(c), c.QueryParam("q"), 20)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, entries)
}
