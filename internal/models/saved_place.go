package models

import "time"

// SavedPlace represents a bookmarked pin
type SavedPlace struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_place_save"`
	PlaceID   string    `json:"place_id" gorm:"index;uniqueIndex:idx_user_place_save"` // MongoDB ObjectID as string
	CreatedAt time.Time `json:"created_at"`
}
