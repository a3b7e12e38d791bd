package models

import (
	"time"

	"gorm.io/gorm"
)

// FriendInvitation is a reusable, shareable invite code owned by a user.
// One active invitation per user at a time by convention.
type FriendInvitation struct {
	gorm.Model
	UserID     uint      `json:"user_id" gorm:"index"`
	InviteCode string    `json:"invite_code" gorm:"uniqueIndex;size:16"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	ExpiresAt  time.Time `json:"expires_at"`
	MaxUsage   int       `json:"max_usage"`
	UsageCount int       `json:"usage_count" gorm:"default:0"`
}

// FriendInvitationAcceptance links an invitation to the user who accepted
// it and the friendship that resulted.
type FriendInvitationAcceptance struct {
	gorm.Model
	InvitationID uint `json:"invitation_id" gorm:"index"`
	AcceptedBy   uint `json:"accepted_by" gorm:"index"`
	FriendshipID uint `json:"friendship_id"`
}

// AcceptInvitationRequest defines the request body for redeeming an invite code
type AcceptInvitationRequest struct {
	InviteCode string `json:"inviteCode" validate:"required,min=4,max=16"`
}

// InviterPreview is the public preview shown before accepting an invitation
type InviterPreview struct {
	Inviter   UserCompact `json:"inviter"`
	ExpiresAt time.Time   `json:"expires_at"`
	IsActive  bool        `json:"is_active"`
}
