// Package feed merges friends' places and journeys into one
// reverse-chronological activity stream.
package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pinory/backend/internal/models"
	"github.com/pinory/backend/internal/repositories"
)

// Feed type filters
const (
	TypeAll          = "all"
	TypeLocationNote = models.ContentTypeLocationNote
	TypeJourney      = models.ContentTypeJourney
)

// DefaultLimit and MaxLimit bound feed page sizes
const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// Entry is a single item in the aggregated feed
type Entry struct {
	ID        string             `json:"id"`
	Type      string             `json:"type"` // "location_note" or "journey"
	User      models.UserCompact `json:"user"`
	Content   interface{}        `json:"content"`
	CreatedAt time.Time          `json:"created_at"`
	Reactions []models.Reaction  `json:"reactions"`
}

// FriendSource resolves a user's accepted friend IDs
type FriendSource interface {
	GetFriendIDs(userID uint) ([]uint, error)
}

// PlaceSource fetches feed candidate places
type PlaceSource interface {
	GetPlacesByCreators(ctx context.Context, userIDs []uint, visibilities []string, limit int64) ([]models.Place, error)
}

// JourneySource fetches feed candidate journeys
type JourneySource interface {
	GetJourneysByCreators(ctx context.Context, userIDs []uint, visibilities []string, limit int64) ([]models.Journey, error)
}

// ReactionSource fetches reactions for a batch of content items
type ReactionSource interface {
	GetReactionsForContents(refs []repositories.ContentRef) (map[repositories.ContentRef][]models.Reaction, error)
}

// UserSource fetches authors for feed entries
type UserSource interface {
	GetUsersByIDs(ids []uint) ([]models.User, error)
}

// Aggregator builds the social activity feed
type Aggregator struct {
	friends   FriendSource
	places    PlaceSource
	journeys  JourneySource
	reactions ReactionSource
	users     UserSource
}

// NewAggregator creates a new Aggregator
func NewAggregator(friends FriendSource, places PlaceSource, journeys JourneySource, reactions ReactionSource, users UserSource) *Aggregator {
	return &Aggregator{
		friends:   friends,
		places:    places,
		journeys:  journeys,
		reactions: reactions,
		users:     users,
	}
}

// feedVisibilities are the visibility levels surfaced in the feed
var feedVisibilities = []string{models.VisibilityFriends, models.VisibilityPublic}

// GetFeed returns the caller's merged feed, newest first, truncated to
// limit. A user with no accepted friends gets an empty feed without any
// content-store query. Any store error aborts the whole feed; no partial
// result is returned.
func (a *Aggregator) GetFeed(ctx context.Context, userID uint, feedType string, limit int) ([]Entry, error) {
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	if feedType == "" {
		feedType = TypeAll
	}
	if feedType != TypeAll && feedType != TypeLocationNote && feedType != TypeJourney {
		return nil, fmt.Errorf("unknown feed type %q", feedType)
	}

	friendIDs, err := a.friends.GetFriendIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("resolving friends: %w", err)
	}
	if len(friendIDs) == 0 {
		return []Entry{}, nil
	}

	entries := make([]Entry, 0, limit)

	if feedType == TypeAll || feedType == TypeLocationNote {
		places, err := a.places.GetPlacesByCreators(ctx, friendIDs, feedVisibilities, int64(limit))
		if err != nil {
			return nil, fmt.Errorf("fetching places: %w", err)
		}
		for _, p := range places {
			entries = append(entries, Entry{
				ID:        p.ID.Hex(),
				Type:      TypeLocationNote,
				Content:   p,
				CreatedAt: p.CreatedAt,
			})
		}
	}

	if feedType == TypeAll || feedType == TypeJourney {
		journeys, err := a.journeys.GetJourneysByCreators(ctx, friendIDs, feedVisibilities, int64(limit))
		if err != nil {
			return nil, fmt.Errorf("fetching journeys: %w", err)
		}
		for _, j := range journeys {
			entries = append(entries, Entry{
				ID:        j.ID.Hex(),
				Type:      TypeJourney,
				Content:   j,
				CreatedAt: j.CreatedAt,
			})
		}
	}

	// Stable keeps insertion order (places before journeys) on timestamp ties
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	if err := a.attachReactions(entries); err != nil {
		return nil, fmt.Errorf("fetching reactions: %w", err)
	}
	if err := a.attachAuthors(entries); err != nil {
		return nil, fmt.Errorf("fetching authors: %w", err)
	}
	return entries, nil
}

// attachReactions fetches reactions for all surviving entries in a single
// batched query instead of one lookup per entry
func (a *Aggregator) attachReactions(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	refs := make([]repositories.ContentRef, len(entries))
	for i, e := range entries {
		refs[i] = repositories.ContentRef{ContentID: e.ID, ContentType: e.Type}
	}

	grouped, err := a.reactions.GetReactionsForContents(refs)
	if err != nil {
		return err
	}
	for i := range entries {
		ref := repositories.ContentRef{ContentID: entries[i].ID, ContentType: entries[i].Type}
		reactions := grouped[ref]
		if reactions == nil {
			reactions = []models.Reaction{}
		}
		entries[i].Reactions = reactions
	}
	return nil
}

func (a *Aggregator) attachAuthors(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	idSet := make(map[uint]bool)
	for _, e := range entries {
		idSet[creatorOf(e)] = true
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := a.users.GetUsersByIDs(ids)
	if err != nil {
		return err
	}
	byID := make(map[uint]models.UserCompact, len(users))
	for _, u := range users {
		byID[u.ID] = u.ToCompact()
	}
	for i := range entries {
		entries[i].User = byID[creatorOf(entries[i])]
	}
	return nil
}

func creatorOf(e Entry) uint {
	switch content := e.Content.(type) {
	case models.Place:
		return content.CreatedBy
	case models.Journey:
		return content.CreatedBy
	}
	return 0
}
