package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pinory/backend/internal/models"
	"github.com/pinory/backend/internal/repositories"
	"github.com/pinory/backend/internal/share"
)

// JourneyHandler handles journey-related HTTP requests
type JourneyHandler struct {
	journeyRepository    repositories.JourneyRepository
	placeRepository      repositories.PlaceRepository
	friendshipRepository repositories.FriendshipRepository
}

// NewJourneyHandler creates a new JourneyHandler
func NewJourneyHandler(journeyRepo repositories.JourneyRepository, placeRepo repositories.PlaceRepository, friendshipRepo repositories.FriendshipRepository) *JourneyHandler {
	return &JourneyHandler{
		journeyRepository:    journeyRepo,
		placeRepository:      placeRepo,
		friendshipRepository: friendshipRepo,
	}
}

// RegisterJourneyRoutes registers journey-related routes
func (h *JourneyHandler) RegisterJourneyRoutes(g *echo.Group) {
	g.POST("/journeys", h.CreateJourney)
	g.GET("/journeys", h.GetOwnJourneys)
	g.GET("/journeys/:id", h.GetJourney)
	g.PUT("/journeys/:id", h.UpdateJourney)
	g.DELETE("/journeys/:id", h.DeleteJourney)
}

// CreateJourney creates a journey from an ordered list of stops. Every
// stop must reference a place owned by the caller.
func (h *JourneyHandler) CreateJourney(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreateJourneyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.checkStops(c, currentUserID, req.Stops); err != nil {
		return err
	}

	journey := &models.Journey{
		CreatedBy:   currentUserID,
		Title:       req.Title,
		Description: req.Description,
		Visibility:  req.Visibility,
		Stops:       req.Stops,
	}

	if err := h.journeyRepository.CreateJourney(c.Request().Context(), journey); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create journey")
	}
	return c.JSON(http.StatusCreated, journey)
}

// GetOwnJourneys lists the caller's journeys, newest first
func (h *JourneyHandler) GetOwnJourneys(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	skip, limit := paginationParams(c)
	journeys, err := h.journeyRepository.GetJourneysByCreator(c.Request().Context(), currentUserID, skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch journeys")
	}
	return c.JSON(http.StatusOK, echo.Map{"journeys": journeys})
}

// GetJourney retrieves a single journey, enforcing visibility
func (h *JourneyHandler) GetJourney(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	journey, err := h.journeyRepository.GetJourneyByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Journey not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid journey ID")
	}

	var status *string
	if currentUserID != 0 && currentUserID != journey.CreatedBy {
		friendship, err := h.friendshipRepository.GetFriendshipBetween(currentUserID, journey.CreatedBy)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve access")
		}
		if friendship != nil {
			status = &friendship.Status
		}
	}

	access := share.DetermineShareAccess(journey.Visibility, getOptionalUserID(c), journey.CreatedBy, status, false)
	if !access.CanView {
		return echo.NewHTTPError(http.StatusForbidden, access.Reason)
	}
	return c.JSON(http.StatusOK, journey)
}

// UpdateJourney updates a journey owned by the caller
func (h *JourneyHandler) UpdateJourney(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.UpdateJourneyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	journey, err := h.loadOwnJourney(c, currentUserID)
	if err != nil {
		return err
	}

	if req.Stops != nil {
		if err := h.checkStops(c, currentUserID, req.Stops); err != nil {
			return err
		}
		journey.Stops = req.Stops
	}
	if req.Title != "" {
		journey.Title = req.Title
	}
	if req.Description != "" {
		journey.Description = req.Description
	}
	if req.Visibility != "" {
		journey.Visibility = req.Visibility
	}

	if err := h.journeyRepository.UpdateJourney(c.Request().Context(), journey.ID.Hex(), journey); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update journey")
	}
	return c.JSON(http.StatusOK, journey)
}

// DeleteJourney deletes a journey owned by the caller
func (h *JourneyHandler) DeleteJourney(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	journey, err := h.loadOwnJourney(c, currentUserID)
	if err != nil {
		return err
	}

	if err := h.journeyRepository.DeleteJourney(c.Request().Context(), journey.ID.Hex()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete journey")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *JourneyHandler) loadOwnJourney(c echo.Context, currentUserID uint) (*models.Journey, error) {
	journey, err := h.journeyRepository.GetJourneyByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Journey not found")
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid journey ID")
	}
	if journey.CreatedBy != currentUserID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You do not own this journey")
	}
	return journey, nil
}

// checkStops verifies that every stop references an existing place owned
// by the caller
func (h *JourneyHandler) checkStops(c echo.Context, currentUserID uint, stops []models.JourneyStop) error {
	for _, stop := range stops {
		place, err := h.placeRepository.GetPlaceByID(c.Request().Context(), stop.PlaceID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return echo.NewHTTPError(http.StatusBadRequest, "Stop references a missing place")
			}
			return echo.NewHTTPError(http.StatusBadRequest, "Stop references an invalid place ID")
		}
		if place.CreatedBy != currentUserID {
			return echo.NewHTTPError(http.StatusForbidden, "Stop references a place you do not own")
		}
	}
	return nil
}
