package share

import (
	"testing"

	"github.com/pinory/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint    { return &v }
func strPtr(v string) *string { return &v }

func TestDetermineShareAccess(t *testing.T) {
	owner := uint(1)
	friend := uintPtr(2)
	stranger := uintPtr(3)
	accepted := strPtr(models.FriendshipStatusAccepted)
	pending := strPtr(models.FriendshipStatusPending)

	cases := []struct {
		name             string
		visibility       string
		viewerID         *uint
		friendshipStatus *string
		isExpired        bool
		want             AccessResult
	}{
		{
			name:       "expired denies everyone",
			visibility: models.VisibilityPublic,
			viewerID:   friend,
			isExpired:  true,
			want:       AccessResult{CanView: false, ViewType: ViewTypeRestricted, Reason: ReasonExpired},
		},
		{
			name:       "expired denies even the owner",
			visibility: models.VisibilityPublic,
			viewerID:   uintPtr(owner),
			isExpired:  true,
			want:       AccessResult{CanView: false, ViewType: ViewTypeRestricted, Reason: ReasonExpired},
		},
		{
			name:       "anonymous viewer sees public content",
			visibility: models.VisibilityPublic,
			want:       AccessResult{CanView: true, ViewType: ViewTypePublic},
		},
		{
			name:       "anonymous viewer needs sign-in for friends content",
			visibility: models.VisibilityFriends,
			want:       AccessResult{CanView: false, ViewType: ViewTypeRestricted, Reason: ReasonSignInRequired},
		},
		{
			name:       "anonymous viewer needs sign-in for private content",
			visibility: models.VisibilityPrivate,
			want:       AccessResult{CanView: false, ViewType: ViewTypeRestricted, Reason: ReasonSignInRequired},
		},
		{
			name:       "owner sees own private content",
			visibility: models.VisibilityPrivate,
			viewerID:   uintPtr(owner),
			want:       AccessResult{CanView: true, ViewType: ViewTypeOwner},
		},
		{
			name:       "signed-in stranger sees public content",
			visibility: models.VisibilityPublic,
			viewerID:   stranger,
			want:       AccessResult{CanView: true, ViewType: ViewTypePublic},
		},
		{
			name:             "accepted friend sees friends content",
			visibility:       models.VisibilityFriends,
			viewerID:         friend,
			friendshipStatus: accepted,
			want:             AccessResult{CanView: true, ViewType: ViewTypeFriend},
		},
		{
			name:             "pending friendship does not grant access",
			visibility:       models.VisibilityFriends,
			viewerID:         friend,
			friendshipStatus: pending,
			want:             AccessResult{CanView: false, ViewType: ViewTypeRestricted, Reason: ReasonFriendsOnly},
		},
		{
			name:       "stranger denied on friends content",
			visibility: models.VisibilityFriends,
			viewerID:   stranger,
			want:       AccessResult{CanView: false, ViewType: ViewTypeRestricted, Reason: ReasonFriendsOnly},
		},
		{
			name:             "selected friends behaves like friends",
			visibility:       models.VisibilitySelectedFriends,
			viewerID:         friend,
			friendshipStatus: accepted,
			want:             AccessResult{CanView: true, ViewType: ViewTypeFriend},
		},
		{
			name:             "private denies even accepted friends",
			visibility:       models.VisibilityPrivate,
			viewerID:         friend,
			friendshipStatus: accepted,
			want:             AccessResult{CanView: false, ViewType: ViewTypeRestricted, Reason: ReasonPrivate},
		},
		{
			name:       "unrecognized visibility is treated as private",
			visibility: "something_else",
			viewerID:   stranger,
			want:       AccessResult{CanView: false, ViewType: ViewTypeRestricted, Reason: ReasonPrivate},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetermineShareAccess(tc.visibility, tc.viewerID, owner, tc.friendshipStatus, tc.isExpired)
			assert.Equal(t, tc.want, got)
		})
	}
}

// The resolver is total: every combination of the input space produces a
// defined result, and denials always carry a non-empty reason.
func TestDetermineShareAccessIsTotal(t *testing.T) {
	visibilities := []string{
		models.VisibilityPrivate,
		models.VisibilityFriends,
		models.VisibilitySelectedFriends,
		models.VisibilityPublic,
		"bogus",
	}
	viewers := []*uint{nil, uintPtr(1), uintPtr(2)}
	statuses := []*string{nil, strPtr(models.FriendshipStatusPending), strPtr(models.FriendshipStatusAccepted)}
	expired := []bool{false, true}

	for _, vis := range visibilities {
		for _, viewer := range viewers {
			for _, status := range statuses {
				for _, exp := range expired {
					result := DetermineShareAccess(vis, viewer, 1, status, exp)
					assert.NotEmpty(t, result.ViewType)
					if !result.CanView {
						assert.NotEmpty(t, result.Reason)
					} else {
						assert.Empty(t, result.Reason)
					}
				}
			}
		}
	}
}
