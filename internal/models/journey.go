package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JourneyStop references a place at a position within a journey
type JourneyStop struct {
	PlaceID  string `json:"place_id" bson:"place_id"`
	Sequence int    `json:"sequence" bson:"sequence"`
}

// Journey represents an ordered sequence of pins stored in MongoDB
type Journey struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CreatedBy   uint               `json:"created_by" bson:"created_by"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Visibility  string             `json:"visibility" bson:"visibility"`
	Stops       []JourneyStop      `json:"stops" bson:"stops"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateJourneyRequest defines the request body for creating a journey
type CreateJourneyRequest struct {
	Title       string        `json:"title" validate:"required,min=1,max=120"`
	Description string        `json:"description,omitempty" validate:"omitempty,max=2000"`
	Visibility  string        `json:"visibility" validate:"required,oneof=private friends selected_friends public"`
	Stops       []JourneyStop `json:"stops" validate:"required,min=1,dive"`
}

// UpdateJourneyRequest defines the request body for updating a journey
type UpdateJourneyRequest struct {
	Title       string        `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Description string        `json:"description,omitempty" validate:"omitempty,max=2000"`
	Visibility  string        `json:"visibility,omitempty" validate:"omitempty,oneof=private friends selected_friends public"`
	Stops       []JourneyStop `json:"stops,omitempty" validate:"omitempty,min=1,dive"`
}
