package models

import (
	"time"

	"gorm.io/gorm"
)

// ShareLink is a tokenized link to a place or journey. The visibility
// snapshot and optional expiry drive the share access resolver.
type ShareLink struct {
	gorm.Model
	Token       string     `json:"token" gorm:"uniqueIndex;size:36"`
	OwnerID     uint       `json:"owner_id" gorm:"index"`
	ContentID   string     `json:"content_id" gorm:"index"` // MongoDB ObjectID as string
	ContentType string     `json:"content_type" gorm:"size:20"`
	Visibility  string     `json:"visibility" gorm:"size:20"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// IsExpired reports whether the link has passed its expiry, if any
func (s *ShareLink) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// CreateShareLinkRequest defines the request body for creating a share link
type CreateShareLinkRequest struct {
	ContentID   string     `json:"content_id" validate:"required"`
	ContentType string     `json:"content_type" validate:"required,oneof=location_note journey"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
