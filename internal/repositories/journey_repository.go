package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pinory/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// JourneyRepository defines the interface for journey data operations
type JourneyRepository interface {
	CreateJourney(ctx context.Context, journey *models.Journey) error
	GetJourneyByID(ctx context.Context, id string) (*models.Journey, error)
	GetJourneysByCreator(ctx context.Context, userID uint, skip, limit int64) ([]models.Journey, error)
	GetJourneysByCreators(ctx context.Context, userIDs []uint, visibilities []string, limit int64) ([]models.Journey, error)
	UpdateJourney(ctx context.Context, id string, journey *models.Journey) error
	DeleteJourney(ctx context.Context, id string) error
}

// MongoJourneyRepository implements JourneyRepository for MongoDB
type MongoJourneyRepository struct {
	collection *mongo.Collection
}

// NewMongoJourneyRepository creates a new MongoJourneyRepository
func NewMongoJourneyRepository(db *mongo.Database) *MongoJourneyRepository {
	return &MongoJourneyRepository{collection: db.Collection("journeys")}
}

// CreateJourney creates a new journey in MongoDB. Stops are stored in
// sequence order.
func (r *MongoJourneyRepository) CreateJourney(ctx context.Context, journey *models.Journey) error {
	journey.ID = primitive.NewObjectID()
	journey.CreatedAt = time.Now()
	journey.UpdatedAt = time.Now()
	sortStops(journey.Stops)
	_, err := r.collection.InsertOne(ctx, journey)
	return err
}

// GetJourneyByID retrieves a journey by ID from MongoDB
func (r *MongoJourneyRepository) GetJourneyByID(ctx context.Context, id string) (*models.Journey, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid journey ID format: %w", err)
	}

	var journey models.Journey
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&journey)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &journey, nil
}

// GetJourneysByCreator retrieves journeys created by a specific user
func (r *MongoJourneyRepository) GetJourneysByCreator(ctx context.Context, userID uint, skip, limit int64) ([]models.Journey, error) {
	var journeys []models.Journey
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"created_by": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &journeys); err != nil {
		return nil, err
	}
	return journeys, nil
}

// GetJourneysByCreators retrieves journeys created by any of the given
// users, restricted to the given visibility levels, newest first
func (r *MongoJourneyRepository) GetJourneysByCreators(ctx context.Context, userIDs []uint, visibilities []string, limit int64) ([]models.Journey, error) {
	var journeys []models.Journey
	if len(userIDs) == 0 {
		return journeys, nil
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

	if err = cursor.All(ctx, &journeys); err != nil {
		return nil, err
	}
	return journeys, nil
}

// UpdateJourney updates an existing journey in MongoDB
func (r *MongoJourneyRepository) UpdateJourney(ctx context.Context, id string, journey *models.Journey) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid journey ID format: %w", err)
	}

	journey.UpdatedAt = time.Now()
	sortStops(journey.Stops)
	update := bson.M{
		"$set": bson.M{
			"title":       journey.Title,
			"description": journey.Description,
			"visibility":  journey.Visibility,
			"stops":       journey.Stops,
			"updated_at":  journey.UpdatedAt,
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

// DeleteJourney deletes a journey by ID from MongoDB
func (r *MongoJourneyRepository) DeleteJourney(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid journey ID format: %w", err)
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

func sortStops(stops []models.JourneyStop) {
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Sequence < stops[j].Sequence
	})
}
