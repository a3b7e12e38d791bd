package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pinory/backend/internal/models"
	"github.com/pinory/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeFriendSource struct {
	friendIDs []uint
	err       error
}

func (f *fakeFriendSource) GetFriendIDs(uint) ([]uint, error) {
	return f.friendIDs, f.err
}

type fakePlaceSource struct {
	places []models.Place
	err    error
	called bool
}

func (f *fakePlaceSource) GetPlacesByCreators(_ context.Context, _ []uint, _ []string, limit int64) ([]models.Place, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	if int64(len(f.places)) > limit {
		return f.places[:limit], nil
	}
	return f.places, nil
}

type fakeJourneySource struct {
	journeys []models.Journey
	err      error
	called   bool
}

func (f *fakeJourneySource) GetJourneysByCreators(_ context.Context, _ []uint, _ []string, limit int64) ([]models.Journey, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	if int64(len(f.journeys)) > limit {
		return f.journeys[:limit], nil
	}
	return f.journeys, nil
}

type fakeReactionSource struct {
	reactions map[repositories.ContentRef][]models.Reaction
}

func (f *fakeReactionSource) GetReactionsForContents(refs []repositories.ContentRef) (map[repositories.ContentRef][]models.Reaction, error) {
	out := make(map[repositories.ContentRef][]models.Reaction)
	for _, ref := range refs {
		if reactions, ok := f.reactions[ref]; ok {
			out[ref] = reactions
		}
	}
	return out, nil
}

type fakeUserSource struct {
	users []models.User
}

func (f *fakeUserSource) GetUsersByIDs([]uint) ([]models.User, error) {
	return f.users, nil
}

func newTestAggregator(friends *fakeFriendSource, places *fakePlaceSource, journeys *fakeJourneySource, reactions *fakeReactionSource) *Aggregator {
	if reactions == nil {
		reactions = &fakeReactionSource{}
	}
	users := &fakeUserSource{users: []models.User{
		{ID: 2, Name: "Ana"},
		{ID: 3, Name: "Ben"},
	}}
	return NewAggregator(friends, places, journeys, reactions, users)
}

func placeAt(creator uint, createdAt time.Time) models.Place {
	return models.Place{
		ID:         primitive.NewObjectID(),
		CreatedBy:  creator,
		Name:       "somewhere",
		Visibility: models.VisibilityFriends,
		CreatedAt:  createdAt,
	}
}

func journeyAt(creator uint, createdAt time.Time) models.Journey {
	return models.Journey{
		ID:         primitive.NewObjectID(),
		CreatedBy:  creator,
		Title:      "a trip",
		Visibility: models.VisibilityPublic,
		CreatedAt:  createdAt,
	}
}

func TestGetFeedEmptyWithoutFriends(t *testing.T) {
	places := &fakePlaceSource{}
	journeys := &fakeJourneySource{}
	agg := newTestAggregator(&fakeFriendSource{}, places, journeys, nil)

	entries, err := agg.GetFeed(context.Background(), 1, TypeAll, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// No friends means the content stores are never queried
	assert.False(t, places.called)
	assert.False(t, journeys.called)
}

func TestGetFeedMergesSortedDescending(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	friends := &fakeFriendSource{friendIDs: []uint{2, 3}}
	places := &fakePlaceSource{places: []models.Place{
		placeAt(2, base.Add(3*time.Minute)),
		placeAt(2, base.Add(1*time.Minute)),
	}}
	journeys := &fakeJourneySource{journeys: []models.Journey{
		journeyAt(3, base.Add(2*time.Minute)),
	}}
	agg := newTestAggregator(friends, places, journeys, nil)

	entries, err := agg.GetFeed(context.Background(), 1, TypeAll, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, TypeLocationNote, entries[0].Type)
	assert.Equal(t, TypeJourney, entries[1].Type)
	assert.Equal(t, TypeLocationNote, entries[2].Type)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].CreatedAt.After(entries[i-1].CreatedAt),
			"feed must be sorted by created_at descending")
	}

	// Authors resolved via a single batched user lookup
	assert.Equal(t, "Ana", entries[0].User.Name)
	assert.Equal(t, "Ben", entries[1].User.Name)
}

func TestGetFeedTruncatesToLimit(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	friends := &fakeFriendSource{friendIDs: []uint{2}}

	var manyPlaces []models.Place
	for i := 0; i < 8; i++ {
		manyPlaces = append(manyPlaces, placeAt(2, base.Add(time.Duration(i)*time.Minute)))
	}
	var manyJourneys []models.Journey
	for i := 0; i < 8; i++ {
		manyJourneys = append(manyJourneys, journeyAt(2, base.Add(time.Duration(i)*time.Second)))
	}
	agg := newTestAggregator(friends, &fakePlaceSource{places: manyPlaces}, &fakeJourneySource{journeys: manyJourneys}, nil)

	entries, err := agg.GetFeed(context.Background(), 1, TypeAll, 5)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestGetFeedTypeFilter(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	friends := &fakeFriendSource{friendIDs: []uint{2}}
	places := &fakePlaceSource{places: []models.Place{placeAt(2, base)}}
	journeys := &fakeJourneySource{journeys: []models.Journey{journeyAt(2, base)}}
	agg := newTestAggregator(friends, places, journeys, nil)

	entries, err := agg.GetFeed(context.Background(), 1, TypeJourney, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, TypeJourney, entries[0].Type)
	assert.False(t, places.called)
}

func TestGetFeedRejectsUnknownType(t *testing.T) {
	agg := newTestAggregator(&fakeFriendSource{friendIDs: []uint{2}}, &fakePlaceSource{}, &fakeJourneySource{}, nil)

	_, err := agg.GetFeed(context.Background(), 1, "stories", 10)
	assert.Error(t, err)
}

func TestGetFeedAttachesReactions(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	place := placeAt(2, base)
	friends := &fakeFriendSource{friendIDs: []uint{2}}
	places := &fakePlaceSource{places: []models.Place{place}}
	reactions := &fakeReactionSource{reactions: map[repositories.ContentRef][]models.Reaction{
		{ContentID: place.ID.Hex(), ContentType: TypeLocationNote}: {
			{UserID: 3, ContentID: place.ID.Hex(), ContentType: TypeLocationNote, Type: models.ReactionFire},
		},
	}}
	agg := newTestAggregator(friends, places, &fakeJourneySource{}, reactions)

	entries, err := agg.GetFeed(context.Background(), 1, TypeAll, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Reactions, 1)
	assert.Equal(t, models.ReactionFire, entries[0].Reactions[0].Type)
}

func TestGetFeedNoPartialResultOnStoreError(t *testing.T) {
	friends := &fakeFriendSource{friendIDs: []uint{2}}
	places := &fakePlaceSource{places: []models.Place{placeAt(2, time.Now())}}
	journeys := &fakeJourneySource{err: errors.New("mongo down")}
	agg := newTestAggregator(friends, places, journeys, nil)

	entries, err := agg.GetFeed(context.Background(), 1, TypeAll, 10)
	assert.Error(t, err)
	assert.Nil(t, entries)
}
