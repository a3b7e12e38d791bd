package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pinory/backend/internal/models"
	"github.com/pinory/backend/internal/repositories"
	"github.com/pinory/backend/internal/share"
)

// ShareHandler handles share link HTTP requests
type ShareHandler struct {
	shareRepository      repositories.ShareRepository
	placeRepository      repositories.PlaceRepository
	journeyRepository    repositories.JourneyRepository
	friendshipRepository repositories.FriendshipRepository
	now                  func() time.Time
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(shareRepo repositories.ShareRepository, placeRepo repositories.PlaceRepository, journeyRepo repositories.JourneyRepository, friendshipRepo repositories.FriendshipRepository) *ShareHandler {
	return &ShareHandler{
		shareRepository:      shareRepo,
		placeRepository:      placeRepo,
		journeyRepository:    journeyRepo,
		friendshipRepository: friendshipRepo,
		now:                  time.Now,
	}
}

// RegisterShareRoutes registers authenticated share routes
func (h *ShareHandler) RegisterShareRoutes(g *echo.Group) {
	g.POST("/shares", h.CreateShareLink)
	g.GET("/shares", h.GetOwnShareLinks)
	g.DELETE("/shares/:id", h.RevokeShareLink)
}

// RegisterPublicShareRoutes registers the share resolution route, which
// works with or without a session
func (h *ShareHandler) RegisterPublicShareRoutes(g *echo.Group) {
	g.GET("/share/:token", h.ResolveShareLink)
}

// CreateShareLink creates a tokenized link to content owned by the caller.
// The content's current visibility is snapshotted onto the link.
func (h *ShareHandler) CreateShareLink(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreateShareLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ownerID, visibility, err := h.lookupContent(c, req.ContentID, req.ContentType)
	if err != nil {
		return err
	}
	if ownerID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You do not own this content")
	}

	link := &models.ShareLink{
		Token:       uuid.NewString(),
		OwnerID:     currentUserID,
		ContentID:   req.ContentID,
		ContentType: req.ContentType,
		Visibility:  visibility,
		ExpiresAt:   req.ExpiresAt,
	}
	if err := h.shareRepository.CreateShareLink(link); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create share link")
	}
	return c.JSON(http.StatusCreated, link)
}

// GetOwnShareLinks lists the caller's share links
func (h *ShareHandler) GetOwnShareLinks(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	links, err := h.shareRepository.GetShareLinksByOwner(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch share links")
	}
	return c.JSON(http.StatusOK, echo.Map{"shares": links})
}

// RevokeShareLink deletes a share link owned by the caller, invalidating
// its token immediately
func (h *ShareHandler) RevokeShareLink(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	linkID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid share link ID")
	}

	links, err := h.shareRepository.GetShareLinksByOwner(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch share links")
	}
	for _, link := range links {
		if link.ID == uint(linkID) {
			if err := h.shareRepository.DeleteShareLink(link.ID); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to revoke share link")
			}
			return c.NoContent(http.StatusNoContent)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Share link not found")
}

// ResolveShareLink resolves a token to its content, running the share
// access resolver against the viewer's identity and friendship state
func (h *ShareHandler) ResolveShareLink(c echo.Context) error {
	link, err := h.shareRepository.GetShareLinkByToken(c.Param("token"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Share link not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch share link")
	}

	viewerID := getOptionalUserID(c)

	var friendshipStatus *string
	if viewerID != nil && *viewerID != link.OwnerID {
		friendship, err := h.friendshipRepository.GetFriendshipBetween(*viewerID, link.OwnerID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve access")
		}
		if friendship != nil {
			friendshipStatus = &friendship.Status
		}
	}

	access := share.DetermineShareAccess(link.Visibility, viewerID, link.OwnerID, friendshipStatus, link.IsExpired(h.now()))
	if !access.CanView {
		status := http.StatusForbidden
		if access.Reason == share.ReasonExpired {
			status = http.StatusGone
		} else if access.Reason == share.ReasonSignInRequired {
			status = http.StatusUnauthorized
		}
		return echo.NewHTTPError(status, access.Reason)
	}

	content, err := h.loadContent(c, link)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access":  access,
		"type":    link.ContentType,
		"content": content,
	})
}

func (h *ShareHandler) lookupContent(c echo.Context, contentID, contentType string) (ownerID uint, visibility string, err error) {
	switch contentType {
	case models.ContentTypeLocationNote:
		place, err := h.placeRepository.GetPlaceByID(c.Request().Context(), contentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return 0, "", echo.NewHTTPError(http.StatusNotFound, "Place not found")
			}
			return 0, "", echo.NewHTTPError(http.StatusBadRequest, "Invalid content ID")
		}
		return place.CreatedBy, place.Visibility, nil
	case models.ContentTypeJourney:
		journey, err := h.journeyRepository.GetJourneyByID(c.Request().Context(), contentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return 0, "", echo.NewHTTPError(http.StatusNotFound, "Journey not found")
			}
			return 0, "", echo.NewHTTPError(http.StatusBadRequest, "Invalid content ID")
		}
		return journey.CreatedBy, journey.Visibility, nil
	}
	return 0, "", echo.NewHTTPError(http.StatusBadRequest, "Unknown content type")
}

func (h *ShareHandler) loadContent(c echo.Context, link *models.ShareLink) (interface{}, error) {
	switch link.ContentType {
	case models.ContentTypeLocationNote:
		place, err := h.placeRepository.GetPlaceByID(c.Request().Context(), link.ContentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, echo.NewHTTPError(http.StatusNotFound, "Shared content no longer exists")
			}
			return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch content")
		}
		return place, nil
	default:
		journey, err := h.journeyRepository.GetJourneyByID(c.Request().Context(), link.ContentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, echo.NewHTTPError(http.StatusNotFound, "Shared content no longer exists")
			}
			return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch content")
		}
		return journey, nil
	}
}
