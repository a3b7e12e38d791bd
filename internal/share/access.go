// Package share decides whether a viewer may see a piece of shared content.
package share

import "github.com/pinory/backend/internal/models"

// View types returned by DetermineShareAccess
const (
	ViewTypeOwner      = "owner"
	ViewTypePublic     = "public"
	ViewTypeFriend     = "friend"
	ViewTypeRestricted = "restricted"
)

// Denial reasons
const (
	ReasonExpired        = "expired"
	ReasonSignInRequired = "sign-in required"
	ReasonFriendsOnly    = "friends only"
	ReasonPrivate        = "private"
)

// AccessResult is the outcome of a share access decision
type AccessResult struct {
	CanView  bool   `json:"can_view"`
	ViewType string `json:"view_type"`
	Reason   string `json:"reason,omitempty"`
}

// DetermineShareAccess computes whether a viewer may see shared content.
// It is a pure function; every input combination yields a defined result.
//
// viewerID is nil for anonymous viewers. friendshipStatus is nil when no
// friendship row exists between viewer and owner. First match wins:
// expiry, then anonymous handling, then owner, then visibility rules.
func DetermineShareAccess(visibility string, viewerID *uint, ownerID uint, friendshipStatus *string, isExpired bool) AccessResult {
	if isExpired {
		return AccessResult{CanView: false, ViewType: ViewTypeRestricted, Reason: ReasonExpired}
	}

	if viewerID == nil {
		if visibility == models.VisibilityPublic {
			return AccessResult{CanView: true, ViewType: ViewTypePublic}
		}
		return AccessResult{CanView: false, ViewType: ViewTypeRestricted, Reason: ReasonSignInRequired}
	}

	if *viewerID == ownerID {
		return AccessResult{CanView: true, ViewType: ViewTypeOwner}
	}

	switch visibility {
	case models.VisibilityPublic:
		return AccessResult{CanView: true, ViewType: ViewTypePublic}
	case models.VisibilityFriends, models.VisibilitySelectedFriends:
		if friendshipStatus != nil && *friendshipStatus == models.FriendshipStatusAccepted {
			return AccessResult{CanView: true, ViewType: ViewTypeFriend}
		}
		return AccessResult{CanView: false, ViewType: ViewTypeRestricted, Reason: ReasonFriendsOnly}
	default:
		// private or unrecognized visibility
		return AccessResult{CanView: false, ViewType: ViewTypeRestricted, Reason: ReasonPrivate}
	}
}
