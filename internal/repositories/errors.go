package repositories

import "errors"

// Sentinel errors shared across repositories so handlers can map them to
// HTTP statuses without inspecting store-specific error types.
var (
	ErrNotFound            = errors.New("record not found")
	ErrConflict            = errors.New("record already exists")
	ErrAlreadyFriends      = errors.New("users are already friends")
	ErrRequestExists       = errors.New("a friend request already exists between these users")
	ErrGenerationExhausted = errors.New("could not generate a unique invite code")
)
