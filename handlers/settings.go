package handlers

import (
	"net/http"

	"mediscript_app_go/db"
	"mediscript_app_go/models"
	"mediscript_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetPrintSettingsHandler returns the clinic's print settings, defaults
// included for anything not yet configured.
func GetPrintSettingsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, services.LoadPrintSettings(db.DB, ownerKey(c)))
}

// UpdatePrintSettingsHandler replaces the stored settings blob. Spacer
// heights are clamped to the editable range; unknown paper names fall back
// to A4. Free-text fields are stored as-is.
func UpdatePrintSettingsHandler(c echo.Context) error {
	var settings models.PrintSettings
	if err := c.Bind(&settings); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid settings payload"})
	}

	if !models.IsValidPaperSize(settings.PageSize) {
		settings.PageSize = models.PaperA4
	}
	settings.HeaderHeightMM = models.ClampSpacerHeight(settings.HeaderHeightMM)
	settings.FooterHeightMM = models.ClampSpacerHeight(settings.FooterHeightMM)

	if err := services.SavePrintSettings(db.DB, ownerKey(c), settings); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, settings)
}

// UploadLogoHandler stores a letterhead logo and points the header settings
// at it.
func UploadLogoHandler(c echo.Context) error {
	file, err := c.FormFile("logo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "logo file is required"})
	}

	key := services.GenerateLogoKey(ownerKey(c), file.Filename)
	result, err := services.Storage.Upload(c.Request().Context(), file, key)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	settings := services.LoadPrintSettings(db.DB, ownerKey(c))
	settings.Header.LogoPath = result.URL
	if err := services.SavePrintSettings(db.DB, ownerKey(c), settings); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"logo_path": result.URL})
}
