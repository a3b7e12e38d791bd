package repositories

import (
	"errors"

	"github.com/pinory/backend/internal/models"
	"gorm.io/gorm"
)

// ShareRepository defines the interface for share link data operations
type ShareRepository interface {
	CreateShareLink(link *models.ShareLink) error
	GetShareLinkByToken(token string) (*models.ShareLink, error)
	GetShareLinksByOwner(ownerID uint) ([]models.ShareLink, error)
	DeleteShareLink(id uint) error
}

// PostgresShareRepository implements ShareRepository for PostgreSQL
type PostgresShareRepository struct {
	db *gorm.DB
}

// NewPostgresShareRepository creates a new PostgresShareRepository
func NewPostgresShareRepository(db *gorm.DB) *PostgresShareRepository {
	return &PostgresShareRepository{db: db}
}

// CreateShareLink creates a new share link
func (r *PostgresShareRepository) CreateShareLink(link *models.ShareLink) error {
	return r.db.Create(link).Error
}

// GetShareLinkByToken retrieves a share link by its token
func (r *PostgresShareRepository) GetShareLinkByToken(token string) (*models.ShareLink, error) {
	var link models.ShareLink
	if err := r.db.Where("token = ?", token).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// GetShareLinksByOwner retrieves all share links created by a user
func (r *PostgresShareRepository) GetShareLinksByOwner(ownerID uint) ([]models.ShareLink, error) {
	var links []models.ShareLink
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// DeleteShareLink deletes a share link
func (r *PostgresShareRepository) DeleteShareLink(id uint) error {
	return r.db.Delete(&models.ShareLink{}, id).Error
}
