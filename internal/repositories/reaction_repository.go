package repositories

import (
	"github.com/pinory/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentRef identifies a piece of content across stores
type ContentRef struct {
	ContentID   string
	ContentType string
}

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	UpsertReaction(reaction *models.Reaction) error
	DeleteReaction(userID uint, contentID, contentType string) error
	GetReactionsForContent(contentID, contentType string) ([]models.Reaction, error)
	GetReactionsForContents(refs []ContentRef) (map[ContentRef][]models.Reaction, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// UpsertReaction creates a reaction or overwrites the type of an existing
// one, keyed by (user, content, content type)
func (r *PostgresReactionRepository) UpsertReaction(reaction *models.Reaction) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}, {Name: "content_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"type", "updated_at"}),
	}).Create(reaction).Error
}

// DeleteReaction removes a user's reaction from a content item
func (r *PostgresReactionRepository) DeleteReaction(userID uint, contentID, contentType string) error {
	res := r.db.Where("user_id = ? AND content_id = ? AND content_type = ?",
		userID, contentID, contentType).Delete(&models.Reaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetReactionsForContent retrieves all reactions on a single content item
func (r *PostgresReactionRepository) GetReactionsForContent(contentID, contentType string) ([]models.Reaction, error) {
	var reactions []models.Reaction
	if err := r.db.Where("content_id = ? AND content_type = ?", contentID, contentType).
		Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}

// GetReactionsForContents retrieves reactions for many content items in a
// single query and groups them by content reference. This is the batched
// lookup the feed uses instead of one query per entry.
func (r *PostgresReactionRepository) GetReactionsForContents(refs []ContentRef) (map[ContentRef][]models.Reaction, error) {
	grouped := make(map[ContentRef][]models.Reaction, len(refs))
	if len(refs) == 0 {
		return grouped, nil
	}

	ids := make([]string, 0, len(refs))
	wanted := make(map[ContentRef]bool, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ContentID)
		wanted[ref] = true
	}

	var reactions []models.Reaction
	if err := r.db.Where("content_id IN ?", ids).Find(&reactions).Error; err != nil {
		return nil, err
	}

	// content_id collisions across types are filtered here rather than in SQL
	for _, reaction := range reactions {
		ref := ContentRef{ContentID: reaction.ContentID, ContentType: reaction.ContentType}
		if wanted[ref] {
			grouped[ref] = append(grouped[ref], reaction)
		}
	}
	return grouped, nil
}
