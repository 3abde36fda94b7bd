package handlers

import (
	"net/http"

	"mediscript_app_go/config"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DefaultOwnerKey scopes settings and catalog data when the hosting
// deployment runs a single clinic. Multi-clinic hosts send X-Clinic-Key.
const DefaultOwnerKey = "default"

const printSessionCookie = "print_session"

// getConfig retrieves the app config injected by the server middleware
func getConfig(c echo.Context) *config.Config {
	if cfg, ok := c.Get("config").(*config.Config); ok {
		return cfg
	}
	return config.Load()
}

// ownerKey resolves the clinic scope for the request. Authentication is an
// external collaborator; this only carries its result.
func ownerKey(c echo.Context) string {
	if key := c.Request().Header.Get("X-Clinic-Key"); key != "" {
		return key
	}
	return DefaultOwnerKey
}

// sessionID returns the print-session cookie, minting one when absent so the
// editor and the print page share a handoff scope.
func sessionID(c echo.Context) string {
	if cookie, err := c.Cookie(printSessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.New().String()
	c.SetCookie(&http.Cookie{
		Name:     printSessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
