package models

import "gorm.io/gorm"

// Reaction types available on feed content
const (
	ReactionLove  = "love"
	ReactionLike  = "like"
	ReactionWow   = "wow"
	ReactionSmile = "smile"
	ReactionFire  = "fire"
)

// Reaction represents a user's reaction to a piece of content. One reaction
// per user per content item; re-reacting overwrites the type.
type Reaction struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"index;uniqueIndex:idx_user_content_reaction"`
	ContentID   string `json:"content_id" gorm:"index;uniqueIndex:idx_user_content_reaction"`     // MongoDB ObjectID as string
	ContentType string `json:"content_type" gorm:"size:20;uniqueIndex:idx_user_content_reaction"` // "location_note" or "journey"
	Type        string `json:"type" gorm:"size:10"`
}

// UpsertReactionRequest defines the request body for reacting to content
type UpsertReactionRequest struct {
	ContentID   string `json:"content_id" validate:"required"`
	ContentType string `json:"content_type" validate:"required,oneof=location_note journey"`
	Type        string `json:"type" validate:"required,oneof=love like wow smile fire"`
}

// DeleteReactionRequest defines the request body for removing a reaction
type DeleteReactionRequest struct {
	ContentID   string `json:"content_id" validate:"required"`
	ContentType string `json:"content_type" validate:"required,oneof=location_note journey"`
}
