package repositories

import (
	"errors"

	"github.com/pinory/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friendship data operations
type FriendshipRepository interface {
	SendFriendRequest(req *models.Friendship) error
	CreateAcceptedFriendship(friendship *models.Friendship) error
	GetFriendshipByID(id uint) (*models.Friendship, error)
	GetFriendshipBetween(userA, userB uint) (*models.Friendship, error)
	GetUserPendingRequests(userID uint) ([]models.Friendship, error)
	GetFriendIDs(userID uint) ([]uint, error)
	GetUserFriends(userID uint) ([]models.User, error)
	UpdateFriendshipStatus(id uint, status string) error
	DeleteFriendship(id uint) error
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// SendFriendRequest creates a new pending friendship edge. Fails if any
// edge already exists between the pair, in either direction.
func (r *PostgresFriendshipRepository) SendFriendRequest(req *models.Friendship) error {
	existing, err := r.GetFriendshipBetween(req.RequesterID, req.AddresseeID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil {
		if existing.Status == models.FriendshipStatusAccepted {
			return ErrAlreadyFriends
		}
		return ErrRequestExists
	}

	req.Status = models.FriendshipStatusPending
	return r.db.Create(req).Error
}

// CreateAcceptedFriendship creates an already-accepted edge, bypassing the
// pending state. Used when an invitation is redeemed.
func (r *PostgresFriendshipRepository) CreateAcceptedFriendship(friendship *models.Friendship) error {
	existing, err := r.GetFriendshipBetween(friendship.RequesterID, friendship.AddresseeID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil {
		return ErrRequestExists
	}

	friendship.Status = models.FriendshipStatusAccepted
	return r.db.Create(friendship).Error
}

// GetFriendshipByID retrieves a friendship by ID
func (r *PostgresFriendshipRepository) GetFriendshipByID(id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.First(&friendship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

// GetFriendshipBetween retrieves the friendship between two users
// regardless of request direction
func (r *PostgresFriendshipRepository) GetFriendshipBetween(userA, userB uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		userA, userB, userB, userA).First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

// GetUserPendingRequests retrieves all incoming pending requests for a user
func (r *PostgresFriendshipRepository) GetUserPendingRequests(userID uint) ([]models.Friendship, error) {
	var requests []models.Friendship
	if err := r.db.Where("addressee_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// GetFriendIDs returns the IDs of all accepted friends of a user, joined
// across both edge directions
func (r *PostgresFriendshipRepository) GetFriendIDs(userID uint) ([]uint, error) {
	var friendships []models.Friendship
	if err := r.db.Where("(requester_id = ? OR addressee_id = ?) AND status = ?",
		userID, userID, models.FriendshipStatusAccepted).Find(&friendships).Error; err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		if f.RequesterID == userID {
			ids = append(ids, f.AddresseeID)
		} else {
			ids = append(ids, f.RequesterID)
		}
	}
	return ids, nil
}

// GetUserFriends retrieves all accepted friends for a user
func (r *PostgresFriendshipRepository) GetUserFriends(userID uint) ([]models.User, error) {
	var friends []models.User
	subQuery1 := r.db.Table("friendships").Select("addressee_id").
		Where("requester_id = ? AND status = ? AND deleted_at IS NULL", userID, models.FriendshipStatusAccepted)
	subQuery2 := r.db.Table("friendships").Select("requester_id").
		Where("addressee_id = ? AND status = ? AND deleted_at IS NULL", userID, models.FriendshipStatusAccepted)

	if err := r.db.Where("id IN (?) OR id IN (?)", subQuery1, subQuery2).Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// UpdateFriendshipStatus updates the status of a friendship
func (r *PostgresFriendshipRepository) UpdateFriendshipStatus(id uint, status string) error {
	return r.db.Model(&models.Friendship{}).Where("id = ?", id).Update("status", status).Error
}

// DeleteFriendship deletes a friendship edge
func (r *PostgresFriendshipRepository) DeleteFriendship(id uint) error {
	return r.db.Delete(&models.Friendship{}, id).Error
}
