package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/pinory/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlaceRepository defines the interface for place (pin) data operations
type PlaceRepository interface {
	CreatePlace(ctx context.Context, place *models.Place) error
	GetPlaceByID(ctx context.Context, id string) (*models.Place, error)
	GetPlacesByCreator(ctx context.Context, userID uint, skip, limit int64) ([]models.Place, error)
	GetPlacesByCreators(ctx context.Context, userIDs []uint, visibilities []string, limit int64) ([]models.Place, error)
	CountPublicPlacesByCreator(ctx context.Context, userID uint) (int64, error)
	UpdatePlace(ctx context.Context, id string, place *models.Place) error
	DeletePlace(ctx context.Context, id string) error
}

// MongoPlaceRepository implements PlaceRepository for MongoDB
type MongoPlaceRepository struct {
	collection *mongo.Collection
}

// NewMongoPlaceRepository creates a new MongoPlaceRepository
func NewMongoPlaceRepository(db *mongo.Database) *MongoPlaceRepository {
	return &MongoPlaceRepository{collection: db.Collection("places")}
}

// CreatePlace creates a new place in MongoDB
func (r *MongoPlaceRepository) CreatePlace(ctx context.Context, place *models.Place) error {
	place.ID = primitive.NewObjectID()
	place.CreatedAt = time.Now()
	place.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, place)
	return err
}

// GetPlaceByID retrieves a place by ID from MongoDB
func (r *MongoPlaceRepository) GetPlaceByID(ctx context.Context, id string) (*models.Place, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid place ID format: %w", err)
	}

	var place models.Place
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&place)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &place, nil
}

// GetPlacesByCreator retrieves places dropped by a specific user
func (r *MongoPlaceRepository) GetPlacesByCreator(ctx context.Context, userID uint, skip, limit int64) ([]models.Place, error) {
	var places []models.Place
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"created_by": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// GetPlacesByCreators retrieves places created by any of the given users,
// restricted to the given visibility levels, newest first. This is the feed
// candidate query.
func (r *MongoPlaceRepository) GetPlacesByCreators(ctx context.Context, userIDs []uint, visibilities []string, limit int64) ([]models.Place, error) {
	var places []models.Place
	if len(userIDs) == 0 {
		return places, nil
	}

	filter := bson.M{
		"created_by": bson.M{"$in": userIDs},
		"visibility": bson.M{"$in": visibilities},
	}
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// CountPublicPlacesByCreator counts a user's publicly visible pins
func (r *MongoPlaceRepository) CountPublicPlacesByCreator(ctx context.Context, userID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"created_by": userID,
		"visibility": models.VisibilityPublic,
	})
}

// UpdatePlace updates an existing place in MongoDB
func (r *MongoPlaceRepository) UpdatePlace(ctx context.Context, id string, place *models.Place) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid place ID format: %w", err)
	}

	place.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":       place.Name,
			"address":    place.Address,
			"category":   place.Category,
			"visibility": place.Visibility,
			"media":      place.Media,
			"note":       place.Note,
			"updated_at": place.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePlace deletes a place by ID from MongoDB
func (r *MongoPlaceRepository) DeletePlace(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid place ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
