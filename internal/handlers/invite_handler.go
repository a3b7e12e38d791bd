package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pinory/backend/internal/cache"
	"github.com/pinory/backend/internal/invite"
	"github.com/pinory/backend/internal/models"
	"github.com/pinory/backend/internal/repositories"
)

// Invitation defaults
const (
	inviteDefaultTTL      = 30 * 24 * time.Hour
	inviteDefaultMaxUsage = 10
	invitePreviewCacheTTL = time.Minute
)

// InviteHandler handles friend invitation HTTP requests
type InviteHandler struct {
	invitationRepository   repositories.InvitationRepository
	friendshipRepository   repositories.FriendshipRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
	cache                  *cache.Cache
	now                    func() time.Time
}

// NewInviteHandler creates a new InviteHandler
func NewInviteHandler(invitationRepo repositories.InvitationRepository, friendshipRepo repositories.FriendshipRepository, userRepo repositories.UserRepository, notificationRepo repositories.NotificationRepository, c *cache.Cache) *InviteHandler {
	return &InviteHandler{
		invitationRepository:   invitationRepo,
		friendshipRepository:   friendshipRepo,
		userRepository:         userRepo,
		notificationRepository: notificationRepo,
		cache:                  c,
		now:                    time.Now,
	}
}

// RegisterInviteRoutes registers authenticated invitation routes
func (h *InviteHandler) RegisterInviteRoutes(g *echo.Group) {
	g.GET("/friends/invite", h.GetOrCreateInvitation)
	g.DELETE("/friends/invite", h.DeactivateInvitation)
	g.POST("/friends/invite/accept", h.AcceptInvitation)
}

// RegisterPublicInviteRoutes registers invitation routes that work without
// a session
func (h *InviteHandler) RegisterPublicInviteRoutes(g *echo.Group) {
	g.GET("/friends/invite/info", h.GetInvitationInfo)
}

// GetOrCreateInvitation returns the caller's active invitation, creating
// one when none exists
func (h *InviteHandler) GetOrCreateInvitation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	existing, err := h.invitationRepository.GetActiveInvitationByUser(currentUserID)
	if err == nil {
		return c.JSON(http.StatusOK, existing)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch invitation")
	}

	invitation, err := h.createInvitation(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create invitation")
	}
	return c.JSON(http.StatusCreated, invitation)
}

// createInvitation generates a fresh code and persists the invitation.
// The unique index on invite_code backstops the generate-check-insert
// race: a conflict triggers one more generation round.
func (h *InviteHandler) createInvitation(userID uint) (*models.FriendInvitation, error) {
	gen := invite.NewGenerator(h.invitationRepository.CodeExists)

	for attempt := 0; attempt < 2; attempt++ {
		code, err := gen.Generate()
		if err != nil {
			return nil, err
		}

		invitation := &models.FriendInvitation{
			UserID:     userID,
			InviteCode: code,
			IsActive:   true,
			ExpiresAt:  h.now().Add(inviteDefaultTTL),
			MaxUsage:   inviteDefaultMaxUsage,
		}
		err = h.invitationRepository.CreateInvitation(invitation)
		if err == nil {
			return invitation, nil
		}
		if !errors.Is(err, repositories.ErrConflict) {
			return nil, err
		}
	}
	return nil, repositories.ErrGenerationExhausted
}

// DeactivateInvitation deactivates the caller's active invitation
func (h *InviteHandler) DeactivateInvitation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	invitation, err := h.invitationRepository.GetActiveInvitationByUser(currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "No active invitation")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch invitation")
	}

	if err := h.invitationRepository.DeactivateInvitation(invitation.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to deactivate invitation")
	}

	_ = h.cache.Delete(c.Request().Context(), inviteInfoCacheKey(invitation.InviteCode))

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetInvitationInfo returns a public preview of the inviter for a code.
// No session required; previews are cached briefly.
func (h *InviteHandler) GetInvitationInfo(c echo.Context) error {
	code := strings.TrimSpace(c.QueryParam("code"))
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing invite code")
	}

	cacheKey := inviteInfoCacheKey(code)
	var preview models.InviterPreview
	if err := h.cache.GetJSON(c.Request().Context(), cacheKey, &preview); err == nil {
		return c.JSON(http.StatusOK, preview)
	}

	invitation, err := h.invitationRepository.GetInvitationByCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Invitation not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch invitation")
	}

	inviter, err := h.userRepository.GetUserByID(invitation.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch inviter")
	}

	preview = models.InviterPreview{
		Inviter:   inviter.ToCompact(),
		ExpiresAt: invitation.ExpiresAt,
		IsActive:  invitation.IsActive,
	}
	_ = h.cache.SetJSON(c.Request().Context(), cacheKey, preview, invitePreviewCacheTTL)

	return c.JSON(http.StatusOK, preview)
}

// AcceptInvitation redeems an invite code. A pending friendship between
// the pair is promoted to accepted; otherwise an accepted friendship is
// created directly, bypassing the pending state.
func (h *InviteHandler) AcceptInvitation(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.AcceptInvitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	invitation, err := h.invitationRepository.GetInvitationByCode(strings.TrimSpace(req.InviteCode))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Invitation not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch invitation")
	}

	if !invitation.IsActive {
		return echo.NewHTTPError(http.StatusNotFound, "Invitation not found")
	}
	if h.now().After(invitation.ExpiresAt) {
		return echo.NewHTTPError(http.StatusGone, "Invitation has expired")
	}
	if invitation.MaxUsage > 0 && invitation.UsageCount >= invitation.MaxUsage {
		return echo.NewHTTPError(http.StatusBadRequest, "Invitation usage limit reached")
	}
	if invitation.UserID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot accept your own invitation")
	}

	friendship, err := h.resolveFriendship(currentUserID, invitation.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyFriends) {
			return echo.NewHTTPError(http.StatusConflict, "Users are already friends")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to accept invitation")
	}

	if err := h.invitationRepository.RecordAcceptance(&models.FriendInvitationAcceptance{
		InvitationID: invitation.ID,
		AcceptedBy:   currentUserID,
		FriendshipID: friendship.ID,
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to record acceptance")
	}
	if err := h.invitationRepository.IncrementUsage(invitation.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update invitation usage")
	}

	if h.notificationRepository != nil {
		_ = h.notificationRepository.CreateNotification(&models.Notification{
			Type:        models.NotificationFriendAccept,
			ActorID:     currentUserID,
			RecipientID: invitation.UserID,
			TargetID:    fmt.Sprintf("%d", friendship.ID),
			TargetType:  "friendship",
			Message:     "accepted your invitation",
		})
	}

	friend, err := h.userRepository.GetUserByID(invitation.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch inviter")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"friendship": friendship,
		"friend":     friend.ToCompact(),
	})
}

// resolveFriendship promotes an existing pending edge or creates a new
// accepted one between the accepting user and the inviter
func (h *InviteHandler) resolveFriendship(accepterID, inviterID uint) (*models.Friendship, error) {
	existing, err := h.friendshipRepository.GetFriendshipBetween(accepterID, inviterID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.Status == models.FriendshipStatusAccepted {
			return nil, repositories.ErrAlreadyFriends
		}
		if err := h.friendshipRepository.UpdateFriendshipStatus(existing.ID, models.FriendshipStatusAccepted); err != nil {
			return nil, err
		}
		existing.Status = models.FriendshipStatusAccepted
		return existing, nil
	}

	friendship := &models.Friendship{
		RequesterID: inviterID,
		AddresseeID: accepterID,
		Status:      models.FriendshipStatusAccepted,
	}
	if err := h.friendshipRepository.CreateAcceptedFriendship(friendship); err != nil {
		return nil, err
	}
	return friendship, nil
}

func inviteInfoCacheKey(code string) string {
	return "invite:info:" + code
}
