package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pinory/backend/internal/models"
	"github.com/pinory/backend/internal/repositories"
	"github.com/pinory/backend/internal/share"
)

// Known moods accepted in note payloads
var knownMoods = map[string]bool{
	"happy": true, "excited": true, "relaxed": true, "nostalgic": true,
	"adventurous": true, "tired": true, "hungry": true, "amazed": true,
}

// PlaceHandler handles pin-related HTTP requests
type PlaceHandler struct {
	placeRepository      repositories.PlaceRepository
	friendshipRepository repositories.FriendshipRepository
}

// NewPlaceHandler creates a new PlaceHandler
func NewPlaceHandler(placeRepo repositories.PlaceRepository, friendshipRepo repositories.FriendshipRepository) *PlaceHandler {
	return &PlaceHandler{
		placeRepository:      placeRepo,
		friendshipRepository: friendshipRepo,
	}
}

// RegisterPlaceRoutes registers place-related routes
func (h *PlaceHandler) RegisterPlaceRoutes(g *echo.Group) {
	g.POST("/places", h.CreatePlace)
	g.GET("/places", h.GetOwnPlaces)
	g.GET("/places/:id", h.GetPlace)
	g.PUT("/places/:id", h.UpdatePlace)
	g.DELETE("/places/:id", h.DeletePlace)
	g.GET("/users/:id/places", h.GetUserPlaces)
}

// CreatePlace drops a new pin
func (h *PlaceHandler) CreatePlace(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreatePlaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := validateNote(req.Note); err != nil {
		return err
	}

	place := &models.Place{
		CreatedBy:  currentUserID,
		Name:       req.Name,
		Lat:        req.Lat,
		Lng:        req.Lng,
		Address:    req.Address,
		Category:   req.Category,
		Visibility: req.Visibility,
		Media:      req.Media,
		Note:       req.Note,
	}

	if err := h.placeRepository.CreatePlace(c.Request().Context(), place); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create place")
	}
	return c.JSON(http.StatusCreated, place)
}

// GetOwnPlaces lists the caller's pins, newest first
func (h *PlaceHandler) GetOwnPlaces(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	skip, limit := paginationParams(c)
	places, err := h.placeRepository.GetPlacesByCreator(c.Request().Context(), currentUserID, skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch places")
	}
	return c.JSON(http.StatusOK, echo.Map{"places": places})
}

// GetUserPlaces lists another user's pins the caller is allowed to see
func (h *PlaceHandler) GetUserPlaces(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	skip, limit := paginationParams(c)
	places, err := h.placeRepository.GetPlacesByCreator(c.Request().Context(), uint(targetID), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch places")
	}

	visible := make([]models.Place, 0, len(places))
	for _, place := range places {
		access, err := h.resolveAccess(c, currentUserID, place.CreatedBy, place.Visibility)
		if err != nil {
			return err
		}
		if access.CanView {
			visible = append(visible, place)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"places": visible})
}

// GetPlace retrieves a single pin, enforcing visibility
func (h *PlaceHandler) GetPlace(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	place, err := h.placeRepository.GetPlaceByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Place not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid place ID")
	}

	access, err := h.resolveAccess(c, currentUserID, place.CreatedBy, place.Visibility)
	if err != nil {
		return err
	}
	if !access.CanView {
		return echo.NewHTTPError(http.StatusForbidden, access.Reason)
	}
	return c.JSON(http.StatusOK, place)
}

// UpdatePlace updates a pin owned by the caller
func (h *PlaceHandler) UpdatePlace(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.UpdatePlaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := validateNote(req.Note); err != nil {
		return err
	}

	place, err := h.loadOwnPlace(c, currentUserID)
	if err != nil {
		return err
	}

	if req.Name != "" {
		place.Name = req.Name
	}
	if req.Address != "" {
		place.Address = req.Address
	}
	if req.Category != "" {
		place.Category = req.Category
	}
	if req.Visibility != "" {
		place.Visibility = req.Visibility
	}
	if req.Media != nil {
		place.Media = req.Media
	}
	if req.Note != nil {
		place.Note = req.Note
	}

	if err := h.placeRepository.UpdatePlace(c.Request().Context(), place.ID.Hex(), place); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update place")
	}
	return c.JSON(http.StatusOK, place)
}

// DeletePlace deletes a pin owned by the caller
func (h *PlaceHandler) DeletePlace(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	place, err := h.loadOwnPlace(c, currentUserID)
	if err != nil {
		return err
	}

	if err := h.placeRepository.DeletePlace(c.Request().Context(), place.ID.Hex()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete place")
	}
	return c.NoContent(http.StatusNoContent)
}

// loadOwnPlace fetches a place and enforces ownership
func (h *PlaceHandler) loadOwnPlace(c echo.Context, currentUserID uint) (*models.Place, error) {
	place, err := h.placeRepository.GetPlaceByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Place not found")
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid place ID")
	}
	if place.CreatedBy != currentUserID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You do not own this place")
	}
	return place, nil
}

// resolveAccess runs the share access resolver against the viewer's
// friendship with the owner
func (h *PlaceHandler) resolveAccess(c echo.Context, viewerID, ownerID uint, visibility string) (share.AccessResult, error) {
	var status *string
	if viewerID != 0 && viewerID != ownerID {
		friendship, err := h.friendshipRepository.GetFriendshipBetween(viewerID, ownerID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return share.AccessResult{}, echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve access")
		}
		if friendship != nil {
			status = &friendship.Status
		}
	}
	return share.DetermineShareAccess(visibility, getOptionalUserID(c), ownerID, status, false), nil
}

func validateNote(note *models.NoteAttributes) error {
	if note == nil {
		return nil
	}
	if len(note.Content) > 2000 {
		return echo.NewHTTPError(http.StatusBadRequest, "Note content too long")
	}
	if note.Mood != "" && !knownMoods[note.Mood] {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown mood")
	}
	return nil
}

func paginationParams(c echo.Context) (skip, limit int64) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 50
	}
	return int64((page - 1) * size), int64(size)
}
