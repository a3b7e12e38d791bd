package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/pinory/backend/internal/models"
)

// getUserIDFromContext returns the authenticated user's ID, or 0 when the
// request carries no valid claims
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// getOptionalUserID returns the viewer's ID as a pointer, nil for
// anonymous requests. Used by endpoints behind optional auth.
func getOptionalUserID(c echo.Context) *uint {
	id := getUserIDFromContext(c)
	if id == 0 {
		return nil
	}
	return &id
}
