package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visibility levels for places, journeys and share links
const (
	VisibilityPrivate         = "private"
	VisibilityFriends         = "friends"
	VisibilitySelectedFriends = "selected_friends"
	VisibilityPublic          = "public"
)

// Content type discriminants used by reactions, share links and the feed
const (
	ContentTypeLocationNote = "location_note"
	ContentTypeJourney      = "journey"
)

// MediaItem is an image or video attached to a place. Uploads happen
// against an external asset service; only URLs are stored here.
type MediaItem struct {
	URL  string `json:"url" bson:"url"`
	Type string `json:"type,omitempty" bson:"type,omitempty"` // "image" or "video"
}

// NoteAttributes is the optional structured note payload attached to a pin.
// Validated at the boundary rather than stored as an untyped blob.
type NoteAttributes struct {
	Content   string     `json:"content,omitempty" bson:"content,omitempty"`
	Mood      string     `json:"mood,omitempty" bson:"mood,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// Place represents a map pin stored in MongoDB
type Place struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CreatedBy  uint               `json:"created_by" bson:"created_by"` // Owning user's ID
	Name       string             `json:"name" bson:"name"`
	Lat        float64            `json:"lat" bson:"lat"`
	Lng        float64            `json:"lng" bson:"lng"`
	Address    string             `json:"address,omitempty" bson:"address,omitempty"`
	Category   string             `json:"category,omitempty" bson:"category,omitempty"`
	Visibility string             `json:"visibility" bson:"visibility"`
	Media      []MediaItem        `json:"media,omitempty" bson:"media,omitempty"`
	Note       *NoteAttributes    `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePlaceRequest defines the request body for dropping a new pin
type CreatePlaceRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=120"`
	Lat        float64         `json:"lat" validate:"required,min=-90,max=90"`
	Lng        float64         `json:"lng" validate:"required,min=-180,max=180"`
	Address    string          `json:"address,omitempty" validate:"omitempty,max=300"`
	Category   string          `json:"category,omitempty" validate:"omitempty,max=50"`
	Visibility string          `json:"visibility" validate:"required,oneof=private friends selected_friends public"`
	Media      []MediaItem     `json:"media,omitempty" validate:"omitempty,dive"`
	Note       *NoteAttributes `json:"note,omitempty"`
}

// UpdatePlaceRequest defines the request body for updating an existing pin
type UpdatePlaceRequest struct {
	Name       string          `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Address    string          `json:"address,omitempty" validate:"omitempty,max=300"`
	Category   string          `json:"category,omitempty" validate:"omitempty,max=50"`
	Visibility string          `json:"visibility,omitempty" validate:"omitempty,oneof=private friends selected_friends public"`
	Media      []MediaItem     `json:"media,omitempty" validate:"omitempty,dive"`
	Note       *NoteAttributes `json:"note,omitempty"`
}
