package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinory/backend/internal/repositories"
)

// SavedPlaceHandler handles bookmark-related HTTP requests
type SavedPlaceHandler struct {
	savedPlaceRepository repositories.SavedPlaceRepository
	placeRepository      repositories.PlaceRepository
}

// NewSavedPlaceHandler creates a new SavedPlaceHandler
func NewSavedPlaceHandler(savedPlaceRepo repositories.SavedPlaceRepository, placeRepo repositories.PlaceRepository) *SavedPlaceHandler {
	return &SavedPlaceHandler{
		savedPlaceRepository: savedPlaceRepo,
		placeRepository:      placeRepo,
	}
}

// RegisterSavedPlaceRoutes registers bookmark routes
func (h *SavedPlaceHandler) RegisterSavedPlaceRoutes(g *echo.Group) {
	g.POST("/places/:id/save", h.SavePlace)
	g.DELETE("/places/:id/save", h.UnsavePlace)
	g.GET("/places/saved", h.GetSavedPlaces)
}

// SavePlace bookmarks a place for the caller
func (h *SavedPlaceHandler) SavePlace(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	placeID := c.Param("id")

	if _, err := h.placeRepository.GetPlaceByID(c.Request().Context(), placeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Place not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid place ID")
	}

	if err := h.savedPlaceRepository.SavePlace(currentUserID, placeID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save place")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

// UnsavePlace removes a bookmark
func (h *SavedPlaceHandler) UnsavePlace(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	if err := h.savedPlaceRepository.UnsavePlace(currentUserID, c.Param("id")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Saved place not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to unsave place")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSavedPlaces lists the caller's bookmarks
func (h *SavedPlaceHandler) GetSavedPlaces(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	saved, err := h.savedPlaceRepository.GetSavedPlaces(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch saved places")
	}
	return c.JSON(http.StatusOK, echo.Map{"saved_places": saved})
}
