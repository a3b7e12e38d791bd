package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pinory/backend/internal/models"
	"github.com/pinory/backend/internal/repositories"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendshipRepository   repositories.FriendshipRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, userRepo repositories.UserRepository, notificationRepo repositories.NotificationRepository) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository:   friendshipRepo,
		userRepository:         userRepo,
		notificationRepository: notificationRepo,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/request", h.SendFriendRequest)
	g.GET("/friends/requests/pending", h.GetPendingRequests)
	g.POST("/friends/request/:id/accept", h.AcceptFriendRequest)
	g.POST("/friends/request/:id/reject", h.RejectFriendRequest)
	g.GET("/friends", h.GetFriends)
	g.DELETE("/friends/:id", h.DeleteFriend) // Unfriend
}

// SendFriendRequest handles sending a friend request
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if currentUserID == req.AddresseeID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a friend request to yourself")
	}

	// Check if addressee exists
	addressee, err := h.userRepository.GetUserByID(req.AddresseeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Addressee user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to look up addressee")
	}

	friendship := &models.Friendship{
		RequesterID: currentUserID,
		AddresseeID: req.AddresseeID,
		Status:      models.FriendshipStatusPending,
	}

	if err := h.friendshipRepository.SendFriendRequest(friendship); err != nil {
		if errors.Is(err, repositories.ErrAlreadyFriends) || errors.Is(err, repositories.ErrRequestExists) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send friend request")
	}

	h.notify(models.NotificationFriendRequest, currentUserID, addressee.ID, friendship.ID,
		"sent you a friend request")

	return c.JSON(http.StatusCreated, friendship)
}

// GetPendingRequests retrieves incoming pending friend requests for the
// authenticated user
func (h *FriendshipHandler) GetPendingRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	requests, err := h.friendshipRepository.GetUserPendingRequests(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch pending requests")
	}

	return c.JSON(http.StatusOK, echo.Map{"requests": requests})
}

// AcceptFriendRequest accepts a pending friend request. Only the addressee
// may accept, and only while the request is pending.
func (h *FriendshipHandler) AcceptFriendRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	friendship, err := h.loadOwnPendingRequest(c, currentUserID)
	if err != nil {
		return err
	}

	if err := h.friendshipRepository.UpdateFriendshipStatus(friendship.ID, models.FriendshipStatusAccepted); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to accept friend request")
	}

	h.notify(models.NotificationFriendAccept, currentUserID, friendship.RequesterID, friendship.ID,
		"accepted your friend request")

	friendship.Status = models.FriendshipStatusAccepted
	return c.JSON(http.StatusOK, friendship)
}

// RejectFriendRequest rejects a pending friend request by deleting it, so
// the pair can exchange a new request later
func (h *FriendshipHandler) RejectFriendRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	friendship, err := h.loadOwnPendingRequest(c, currentUserID)
	if err != nil {
		return err
	}

	if err := h.friendshipRepository.DeleteFriendship(friendship.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reject friend request")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// loadOwnPendingRequest fetches the friendship, enforcing that the caller
// is the addressee and the request is still pending
func (h *FriendshipHandler) loadOwnPendingRequest(c echo.Context, currentUserID uint) (*models.Friendship, error) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	friendship, err := h.friendshipRepository.GetFriendshipByID(uint(requestID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Friend request not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch friend request")
	}

	if friendship.AddresseeID != currentUserID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You are not authorized to modify this friend request")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Friend request is not pending")
	}
	return friendship, nil
}

// GetFriends retrieves the list of friends for the authenticated user
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	friends, err := h.friendshipRepository.GetUserFriends(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch friends")
	}

	compact := make([]models.UserCompact, len(friends))
	for i, friend := range friends {
		compact[i] = friend.ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"friends": compact})
}

// DeleteFriend handles unfriending (deleting the accepted friendship edge)
func (h *FriendshipHandler) DeleteFriend(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	friendUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid friend user ID")
	}

	friendship, err := h.friendshipRepository.GetFriendshipBetween(currentUserID, uint(friendUserID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Friendship not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch friendship")
	}

	if friendship.Status != models.FriendshipStatusAccepted {
		return echo.NewHTTPError(http.StatusBadRequest, "Users are not friends")
	}

	if err := h.friendshipRepository.DeleteFriendship(friendship.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete friendship")
	}

	return c.NoContent(http.StatusNoContent)
}

// notify records a notification best-effort; a failed notification never
// fails the main request
func (h *FriendshipHandler) notify(notifType string, actorID, recipientID, friendshipID uint, message string) {
	if h.notificationRepository == nil {
		return
	}
	_ = h.notificationRepository.CreateNotification(&models.Notification{
		Type:        notifType,
		ActorID:     actorID,
		RecipientID: recipientID,
		TargetID:    fmt.Sprintf("%d", friendshipID),
		TargetType:  "friendship",
		Message:     message,
	})
}
