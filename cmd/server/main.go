package main

import (
	"log"

	"mediscript_app_go/config"
	"mediscript_app_go/db"
	"mediscript_app_go/handlers"
	"mediscript_app_go/models"
	"mediscript_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.PrintSettingsRecord{},
		&models.PrescriptionHandoff{},
		&models.ExportedPrescription{},
		&models.MedicationCatalogEntry{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize exported-file storage (R2 or local fallback)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Static files (uploaded logos, locally archived exports)
	e.Static("/static", "static")

	// Prescription rendering and export
	e.POST("/api/prescriptions/preview", handlers.PreviewPrescriptionHandler)
	e.POST("/api/prescriptions/finalize", handlers.FinalizePrescriptionHandler)
	e.POST("/api/prescriptions/export", handlers.ExportPrescriptionHandler)
	e.GET("/api/prescriptions/exports", handlers.ListExportedPrescriptionsHandler)
	e.GET("/api/prescriptions/exports/:id", handlers.DownloadExportedPrescriptionHandler)
	e.DELETE("/api/prescriptions/exports/:id", handlers.DeleteExportedPrescriptionHandler)

	// Dedicated print surface
	e.GET("/print", handlers.PrintPageHandler)
	e.GET("/print/pdf", handlers.PrintPDFHandler)

	// Print settings
	e.GET("/api/settings/print", handlers.GetPrintSettingsHandler)
	e.PUT("/api/settings/print", handlers.UpdatePrintSettingsHandler)
	e.POST("/api/settings/logo", handlers.UploadLogoHandler)

	// Medication catalog
	e.GET("/api/catalog", handlers.SearchCatalogHandler)
	e.GET("/api/catalog/template", handlers.DownloadCatalogTemplateHandler)
	e.POST("/api/catalog/import", handlers.ImportCatalogHandler)

	// Start server
	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
