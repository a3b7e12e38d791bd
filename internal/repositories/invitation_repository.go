package repositories

import (
	"errors"
	"strings"

	"github.com/pinory/backend/internal/models"
	"gorm.io/gorm"
)

// InvitationRepository defines the interface for friend invitation data operations
type InvitationRepository interface {
	CreateInvitation(inv *models.FriendInvitation) error
	GetActiveInvitationByUser(userID uint) (*models.FriendInvitation, error)
	GetInvitationByCode(code string) (*models.FriendInvitation, error)
	CodeExists(code string) (bool, error)
	DeactivateInvitation(id uint) error
	IncrementUsage(id uint) error
	RecordAcceptance(acc *models.FriendInvitationAcceptance) error
}

// PostgresInvitationRepository implements InvitationRepository for PostgreSQL
type PostgresInvitationRepository struct {
	db *gorm.DB
}

// NewPostgresInvitationRepository creates a new PostgresInvitationRepository
func NewPostgresInvitationRepository(db *gorm.DB) *PostgresInvitationRepository {
	return &PostgresInvitationRepository{db: db}
}

// CreateInvitation creates a new invitation. The unique index on
// invite_code is the backstop for concurrent creations landing on the same
// code; callers treat ErrConflict as a signal to regenerate.
func (r *PostgresInvitationRepository) CreateInvitation(inv *models.FriendInvitation) error {
	if err := r.db.Create(inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return ErrConflict
		}
		return err
	}
	return nil
}

// GetActiveInvitationByUser retrieves the user's active invitation, if any
func (r *PostgresInvitationRepository) GetActiveInvitationByUser(userID uint) (*models.FriendInvitation, error) {
	var inv models.FriendInvitation
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// GetInvitationByCode retrieves an invitation by its code
func (r *PostgresInvitationRepository) GetInvitationByCode(code string) (*models.FriendInvitation, error) {
	var inv models.FriendInvitation
	if err := r.db.Where("invite_code = ?", code).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// CodeExists reports whether any invitation already uses the given code
func (r *PostgresInvitationRepository) CodeExists(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.FriendInvitation{}).
		Where("invite_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeactivateInvitation marks an invitation inactive
func (r *PostgresInvitationRepository) DeactivateInvitation(id uint) error {
	return r.db.Model(&models.FriendInvitation{}).Where("id = ?", id).
		Update("is_active", false).Error
}

// IncrementUsage increments the usage count of an invitation
func (r *PostgresInvitationRepository) IncrementUsage(id uint) error {
	return r.db.Model(&models.FriendInvitation{}).Where("id = ?", id).
		Update("usage_count", gorm.Expr("usage_count + 1")).Error
}

// RecordAcceptance stores an acceptance receipt linking the invitation to
// the accepting user and the resulting friendship
func (r *PostgresInvitationRepository) RecordAcceptance(acc *models.FriendInvitationAcceptance) error {
	return r.db.Create(acc).Error
}
