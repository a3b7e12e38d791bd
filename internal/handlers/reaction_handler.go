package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pinory/backend/internal/models"
	"github.com/pinory/backend/internal/repositories"
)

// ReactionHandler handles reaction-related HTTP requests
type ReactionHandler struct {
	reactionRepository     repositories.ReactionRepository
	placeRepository        repositories.PlaceRepository
	journeyRepository      repositories.JourneyRepository
	notificationRepository repositories.NotificationRepository
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(reactionRepo repositories.ReactionRepository, placeRepo repositories.PlaceRepository, journeyRepo repositories.JourneyRepository, notificationRepo repositories.NotificationRepository) *ReactionHandler {
	return &ReactionHandler{
		reactionRepository:     reactionRepo,
		placeRepository:        placeRepo,
		journeyRepository:      journeyRepo,
		notificationRepository: notificationRepo,
	}
}

// RegisterReactionRoutes registers reaction-related routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.PUT("/reactions", h.UpsertReaction)
	g.DELETE("/reactions", h.DeleteReaction)
	g.GET("/reactions", h.GetReactions)
}

// UpsertReaction reacts to a content item. One reaction per user per item;
// re-reacting overwrites the type.
func (h *ReactionHandler) UpsertReaction(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.UpsertReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ownerID, err := h.contentOwner(c, req.ContentID, req.ContentType)
	if err != nil {
		return err
	}

	reaction := &models.Reaction{
		UserID:      currentUserID,
		ContentID:   req.ContentID,
		ContentType: req.ContentType,
		Type:        req.Type,
	}
	if err := h.reactionRepository.UpsertReaction(reaction); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save reaction")
	}

	if ownerID != currentUserID && h.notificationRepository != nil {
		_ = h.notificationRepository.CreateNotification(&models.Notification{
			Type:        models.NotificationReaction,
			ActorID:     currentUserID,
			RecipientID: ownerID,
			TargetID:    req.ContentID,
			TargetType:  req.ContentType,
			Message:     "reacted to your " + req.ContentType,
		})
	}

	return c.JSON(http.StatusOK, reaction)
}

// DeleteReaction removes the caller's reaction from a content item
func (h *ReactionHandler) DeleteReaction(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.DeleteReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.reactionRepository.DeleteReaction(currentUserID, req.ContentID, req.ContentType); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Reaction not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete reaction")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetReactions lists reactions on a content item
func (h *ReactionHandler) GetReactions(c echo.Context) error {
	contentID := c.QueryParam("content_id")
	contentType := c.QueryParam("content_type")
	if contentID == "" || (contentType != models.ContentTypeLocationNote && contentType != models.ContentTypeJourney) {
		return echo.NewHTTPError(http.StatusBadRequest, "content_id and a valid content_type are required")
	}

	reactions, err := h.reactionRepository.GetReactionsForContent(contentID, contentType)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch reactions")
	}
	return c.JSON(http.StatusOK, echo.Map{"reactions": reactions})
}

// contentOwner resolves the owner of the referenced content, verifying it
// exists
func (h *ReactionHandler) contentOwner(c echo.Context, contentID, contentType string) (uint, error) {
	switch contentType {
	case models.ContentTypeLocationNote:
		place, err := h.placeRepository.GetPlaceByID(c.Request().Context(), contentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return 0, echo.NewHTTPError(http.StatusNotFound, "Place not found")
			}
			return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid content ID")
		}
		return place.CreatedBy, nil
	case models.ContentTypeJourney:
		journey, err := h.journeyRepository.GetJourneyByID(c.Request().Context(), contentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return 0, echo.NewHTTPError(http.StatusNotFound, "Journey not found")
			}
			return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid content ID")
		}
		return journey.CreatedBy, nil
	}
	return 0, echo.NewHTTPError(http.StatusBadRequest, "Unknown content type")
}
