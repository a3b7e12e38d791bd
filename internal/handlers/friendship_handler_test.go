package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pinory/backend/internal/models"
	"github.com/pinory/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- In-memory fakes shared by the handler tests ---

type memUserRepo struct {
	users map[uint]models.User
}

func newMemUserRepo(users ...models.User) *memUserRepo {
	r := &memUserRepo{users: make(map[uint]models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) CreateUser(user *models.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetUserByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, u := range r.users {
		if u.FirebaseUID == firebaseUID {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) UpdateUser(user *models.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) DeleteUser(id uint) error {
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) SearchUsers(query string) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(query)) {
			out = append(out, u)
		}
	}
	return out, nil
}

type memFriendshipRepo struct {
	nextID      uint
	friendships map[uint]models.Friendship
	users       *memUserRepo
}

func newMemFriendshipRepo(users *memUserRepo) *memFriendshipRepo {
	return &memFriendshipRepo{nextID: 1, friendships: make(map[uint]models.Friendship), users: users}
}

func (r *memFriendshipRepo) SendFriendRequest(req *models.Friendship) error {
	existing, err := r.GetFriendshipBetween(req.RequesterID, req.AddresseeID)
	if err != nil && err != repositories.ErrNotFound {
		return err
	}
	if existing != nil {
		if existing.Status == models.FriendshipStatusAccepted {
			return repositories.ErrAlreadyFriends
		}
		return repositories.ErrRequestExists
	}
	req.ID = r.nextID
	r.nextID++
	req.Status = models.FriendshipStatusPending
	r.friendships[req.ID] = *req
	return nil
}

func (r *memFriendshipRepo) CreateAcceptedFriendship(friendship *models.Friendship) error {
	existing, err := r.GetFriendshipBetween(friendship.RequesterID, friendship.AddresseeID)
	if err != nil && err != repositories.ErrNotFound {
		return err
	}
	if existing != nil {
		return repositories.ErrRequestExists
	}
	friendship.ID = r.nextID
	r.nextID++
	friendship.Status = models.FriendshipStatusAccepted
	r.friendships[friendship.ID] = *friendship
	return nil
}

func (r *memFriendshipRepo) GetFriendshipByID(id uint) (*models.Friendship, error) {
	f, ok := r.friendships[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &f, nil
}

func (r *memFriendshipRepo) GetFriendshipBetween(userA, userB uint) (*models.Friendship, error) {
	for _, f := range r.friendships {
		if (f.RequesterID == userA && f.AddresseeID == userB) ||
			(f.RequesterID == userB && f.AddresseeID == userA) {
			f := f
			return &f, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memFriendshipRepo) GetUserPendingRequests(userID uint) ([]models.Friendship, error) {
	var out []models.Friendship
	for _, f := range r.friendships {
		if f.AddresseeID == userID && f.Status == models.FriendshipStatusPending {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memFriendshipRepo) GetFriendIDs(userID uint) ([]uint, error) {
	var ids []uint
	for _, f := range r.friendships {
		if f.Status != models.FriendshipStatusAccepted {
			continue
		}
		if f.RequesterID == userID {
			ids = append(ids, f.AddresseeID)
		} else if f.AddresseeID == userID {
			ids = append(ids, f.RequesterID)
		}
	}
	return ids, nil
}

func (r *memFriendshipRepo) GetUserFriends(userID uint) ([]models.User, error) {
	ids, err := r.GetFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	return r.users.GetUsersByIDs(ids)
}

func (r *memFriendshipRepo) UpdateFriendshipStatus(id uint, status string) error {
	f, ok := r.friendships[id]
	if !ok {
		return repositories.ErrNotFound
	}
	f.Status = status
	r.friendships[id] = f
	return nil
}

func (r *memFriendshipRepo) DeleteFriendship(id uint) error {
	if _, ok := r.friendships[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.friendships, id)
	return nil
}

type memNotificationRepo struct {
	created []models.Notification
}

func (r *memNotificationRepo) CreateNotification(n *models.Notification) error {
	r.created = append(r.created, *n)
	return nil
}

func (r *memNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range r.created {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range r.created {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkAsRead(id, recipientID uint) error { return nil }
func (r *memNotificationRepo) MarkAllAsRead(recipientID uint) error  { return nil }

// --- Test helpers ---

func newAuthedJSONContext(e *echo.Echo, method, path string, body interface{}, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return httpErr.Code
}

func testUser(id uint, name string) models.User {
	return models.User{ID: id, Name: name, Email: fmt.Sprintf("%s@example.com", strings.ToLower(name))}
}

// --- Tests ---

func TestSendAndAcceptFriendRequestMakesBothUsersFriends(t *testing.T) {
	e := echo.New()
	users := newMemUserRepo(testUser(1, "Alice"), testUser(2, "Bob"))
	friendships := newMemFriendshipRepo(users)
	notifications := &memNotificationRepo{}
	h := NewFriendshipHandler(friendships, users, notifications)

	// Alice sends a request to Bob
	c, rec := newAuthedJSONContext(e, http.MethodPost, "/friends/request", models.CreateFriendRequest{AddresseeID: 2}, 1)
	require.NoError(t, h.SendFriendRequest(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.Friendship
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.FriendshipStatusPending, created.Status)
	assert.Equal(t, uint(1), created.RequesterID)
	assert.Equal(t, uint(2), created.AddresseeID)

	// Bob sees the pending request
	pending, err := friendships.GetUserPendingRequests(2)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// Bob accepts it
	c, rec = newAuthedJSONContext(e, http.MethodPost, "/friends/request/1/accept", nil, 2)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", created.ID))
	require.NoError(t, h.AcceptFriendRequest(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Both users now list each other as friends, from a single edge
	aliceFriends, err := friendships.GetUserFriends(1)
	require.NoError(t, err)
	bobFriends, err := friendships.GetUserFriends(2)
	require.NoError(t, err)
	require.Len(t, aliceFriends, 1)
	require.Len(t, bobFriends, 1)
	assert.Equal(t, uint(2), aliceFriends[0].ID)
	assert.Equal(t, uint(1), bobFriends[0].ID)
	assert.Len(t, friendships.friendships, 1, "one row per friend pair")

	// Both the request and the acceptance produced a notification
	require.Len(t, notifications.created, 2)
	assert.Equal(t, models.NotificationFriendRequest, notifications.created[0].Type)
	assert.Equal(t, uint(2), notifications.created[0].RecipientID)
	assert.Equal(t, models.NotificationFriendAccept, notifications.created[1].Type)
	assert.Equal(t, uint(1), notifications.created[1].RecipientID)
}

func TestSendFriendRequestToSelfRejected(t *testing.T) {
	e := echo.New()
	users := newMemUserRepo(testUser(1, "Alice"))
	h := NewFriendshipHandler(newMemFriendshipRepo(users), users, &memNotificationRepo{})

	c, _ := newAuthedJSONContext(e, http.MethodPost, "/friends/request", models.CreateFriendRequest{AddresseeID: 1}, 1)
	err := h.SendFriendRequest(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestSendFriendRequestUnknownAddressee(t *testing.T) {
	e := echo.New()
	users := newMemUserRepo(testUser(1, "Alice"))
	h := NewFriendshipHandler(newMemFriendshipRepo(users), users, &memNotificationRepo{})

	c, _ := newAuthedJSONContext(e, http.MethodPost, "/friends/request", models.CreateFriendRequest{AddresseeID: 99}, 1)
	err := h.SendFriendRequest(c)
	assert.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestSendFriendRequestDuplicateEitherDirectionConflicts(t *testing.T) {
	e := echo.New()
	users := newMemUserRepo(testUser(1, "Alice"), testUser(2, "Bob"))
	friendships := newMemFriendshipRepo(users)
	h := NewFriendshipHandler(friendships, users, &memNotificationRepo{})

	c, _ := newAuthedJSONContext(e, http.MethodPost, "/friends/request", models.CreateFriendRequest{AddresseeID: 2}, 1)
	require.NoError(t, h.SendFriendRequest(c))

	// Same direction
	c, _ = newAuthedJSONContext(e, http.MethodPost, "/friends/request", models.CreateFriendRequest{AddresseeID: 2}, 1)
	err := h.SendFriendRequest(c)
	assert.Equal(t, http.StatusConflict, httpErrorCode(t, err))

	// Reverse direction
	c, _ = newAuthedJSONContext(e, http.MethodPost, "/friends/request", models.CreateFriendRequest{AddresseeID: 1}, 2)
	err = h.SendFriendRequest(c)
	assert.Equal(t, http.StatusConflict, httpErrorCode(t, err))

	assert.Len(t, friendships.friendships, 1)
}

func TestAcceptFriendRequestOnlyAddresseeMayAccept(t *testing.T) {
	e := echo.New()
	users := newMemUserRepo(testUser(1, "Alice"), testUser(2, "Bob"), testUser(3, "Carol"))
	friendships := newMemFriendshipRepo(users)
	h := NewFriendshipHandler(friendships, users, &memNotificationRepo{})

	pending := &models.Friendship{RequesterID: 1, AddresseeID: 2}
	require.NoError(t, friendships.SendFriendRequest(pending))

	// The requester cannot accept their own outgoing request
	c, _ := newAuthedJSONContext(e, http.MethodPost, "/friends/request/1/accept", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", pending.ID))
	err := h.AcceptFriendRequest(c)
	assert.Equal(t, http.StatusForbidden, httpErrorCode(t, err))

	// Neither can a third party
	c, _ = newAuthedJSONContext(e, http.MethodPost, "/friends/request/1/accept", nil, 3)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", pending.ID))
	err = h.AcceptFriendRequest(c)
	assert.Equal(t, http.StatusForbidden, httpErrorCode(t, err))
}

func TestAcceptFriendRequestNotPending(t *testing.T) {
	e := echo.New()
	users := newMemUserRepo(testUser(1, "Alice"), testUser(2, "Bob"))
	friendships := newMemFriendshipRepo(users)
	h := NewFriendshipHandler(friendships, users, &memNotificationRepo{})

	accepted := &models.Friendship{RequesterID: 1, AddresseeID: 2}
	require.NoError(t, friendships.CreateAcceptedFriendship(accepted))

	c, _ := newAuthedJSONContext(e, http.MethodPost, "/friends/request/1/accept", nil, 2)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", accepted.ID))
	err := h.AcceptFriendRequest(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestRejectFriendRequestDeletesRowSoPairCanRetry(t *testing.T) {
	e := echo.New()
	users := newMemUserRepo(testUser(1, "Alice"), testUser(2, "Bob"))
	friendships := newMemFriendshipRepo(users)
	h := NewFriendshipHandler(friendships, users, &memNotificationRepo{})

	pending := &models.Friendship{RequesterID: 1, AddresseeID: 2}
	require.NoError(t, friendships.SendFriendRequest(pending))

	c, rec := newAuthedJSONContext(e, http.MethodPost, "/friends/request/1/reject", nil, 2)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", pending.ID))
	require.NoError(t, h.RejectFriendRequest(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, friendships.friendships, "reject removes the edge entirely")

	// A fresh request between the same pair succeeds
	c, rec = newAuthedJSONContext(e, http.MethodPost, "/friends/request", models.CreateFriendRequest{AddresseeID: 1}, 2)
	require.NoError(t, h.SendFriendRequest(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDeleteFriendRequiresAcceptedFriendship(t *testing.T) {
	e := echo.New()
	users := newMemUserRepo(testUser(1, "Alice"), testUser(2, "Bob"))
	friendships := newMemFriendshipRepo(users)
	h := NewFriendshipHandler(friendships, users, &memNotificationRepo{})

	pending := &models.Friendship{RequesterID: 1, AddresseeID: 2}
	require.NoError(t, friendships.SendFriendRequest(pending))

	// Unfriending a merely-pending pair is rejected
	c, _ := newAuthedJSONContext(e, http.MethodDelete, "/friends/2", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues("2")
	err := h.DeleteFriend(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))

	require.NoError(t, friendships.UpdateFriendshipStatus(pending.ID, models.FriendshipStatusAccepted))

	c, rec := newAuthedJSONContext(e, http.MethodDelete, "/friends/2", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues("2")
	require.NoError(t, h.DeleteFriend(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, friendships.friendships)

	// Both sides lost the friendship
	aliceFriends, err2 := friendships.GetUserFriends(1)
	require.NoError(t, err2)
	assert.Empty(t, aliceFriends)
}

func TestGetFriendsReturnsCompactUsers(t *testing.T) {
	e := echo.New()
	users := newMemUserRepo(testUser(1, "Alice"), testUser(2, "Bob"))
	friendships := newMemFriendshipRepo(users)
	h := NewFriendshipHandler(friendships, users, &memNotificationRepo{})

	require.NoError(t, friendships.CreateAcceptedFriendship(&models.Friendship{RequesterID: 1, AddresseeID: 2}))

	c, rec := newAuthedJSONContext(e, http.MethodGet, "/friends", nil, 1)
	require.NoError(t, h.GetFriends(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Friends []models.UserCompact `json:"friends"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Friends, 1)
	assert.Equal(t, "Bob", resp.Friends[0].Name)
}
