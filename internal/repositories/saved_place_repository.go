package repositories

import (
	"github.com/pinory/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavedPlaceRepository defines the interface for saved place data operations
type SavedPlaceRepository interface {
	SavePlace(userID uint, placeID string) error
	UnsavePlace(userID uint, placeID string) error
	GetSavedPlaces(userID uint) ([]models.SavedPlace, error)
}

// PostgresSavedPlaceRepository implements SavedPlaceRepository for PostgreSQL
type PostgresSavedPlaceRepository struct {
	db *gorm.DB
}

// NewPostgresSavedPlaceRepository creates a new PostgresSavedPlaceRepository
func NewPostgresSavedPlaceRepository(db *gorm.DB) *PostgresSavedPlaceRepository {
	return &PostgresSavedPlaceRepository{db: db}
}

// SavePlace bookmarks a place for a user; saving twice is a no-op
func (r *PostgresSavedPlaceRepository) SavePlace(userID uint, placeID string) error {
	saved := models.SavedPlace{UserID: userID, PlaceID: placeID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&saved).Error
}

// UnsavePlace removes a bookmark
func (r *PostgresSavedPlaceRepository) UnsavePlace(userID uint, placeID string) error {
	res := r.db.Where("user_id = ? AND place_id = ?", userID, placeID).Delete(&models.SavedPlace{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSavedPlaces retrieves all of a user's bookmarks, newest first
func (r *PostgresSavedPlaceRepository) GetSavedPlaces(userID uint) ([]models.SavedPlace, error) {
	var saved []models.SavedPlace
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&saved).Error; err != nil {
		return nil, err
	}
	return saved, nil
}
