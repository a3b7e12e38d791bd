package models

import "gorm.io/gorm"

// Friendship statuses. Reject deletes the row instead of using a terminal
// status, so a pair can exchange a new request later.
const (
	FriendshipStatusPending  = "pending"
	FriendshipStatusAccepted = "accepted"
)

// Friendship represents a directed friendship edge between two users.
// At most one row exists per unordered pair regardless of direction.
type Friendship struct {
	gorm.Model
	RequesterID uint   `json:"requester_id" gorm:"index"` // User ID of the requester
	AddresseeID uint   `json:"addressee_id" gorm:"index"` // User ID of the addressee
	Status      string `json:"status" gorm:"type:varchar(20);default:'pending'"` // "pending" or "accepted"
}

// CreateFriendRequest defines the request body for sending a friend request
type CreateFriendRequest struct {
	AddresseeID uint `json:"addressee_id" validate:"required"`
}
