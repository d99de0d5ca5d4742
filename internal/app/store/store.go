/*
Package store implements the directory store: durable lookup of users, connection
tokens, rooms, help requests, messages, and push device registrations.

The chat core only depends on the Directory interface defined here; the PostgreSQL
implementation lives in postgres.go and is never visible to callers.
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("store: not found")

	// ErrValidation is returned when the store rejects a write
	// (constraint violation or malformed data).
	ErrValidation = errors.New("store: validation failed")
)

// User is the identity of a platform participant. Immutable for this core.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Room is a persistent two-party conversation channel. The participant pair is
// unordered: at most one room exists per pair, regardless of which side is stored first.
type Room struct {
	ID              uuid.UUID `json:"id"`
	Participant1ID  uuid.UUID `json:"participant1_id"`
	Participant2ID  uuid.UUID `json:"participant2_id"`
	LastMessageTime time.Time `json:"last_message_time"`
}

// Message is an immutable, append-only chat message record.
type Message struct {
	ID         uuid.UUID `json:"id"`
	RoomID     uuid.UUID `json:"room_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// Directory is the narrow contract the messaging core consumes.
// Lookups that match nothing return ErrNotFound; rejected writes return ErrValidation.
type Directory interface {
	// Authenticate resolves an opaque connection token to its user.
	Authenticate(ctx context.Context, token string) (User, error)

	// GetUser fetches a user by id.
	GetUser(ctx context.Context, id uuid.UUID) (User, error)

	// FindRoom returns the room for the unordered pair {a, b}, if one exists.
	FindRoom(ctx context.Context, a, b uuid.UUID) (Room, error)

	// CreateRoom creates the room for the pair {a, b} with the given timestamp.
	CreateRoom(ctx context.Context, a, b uuid.UUID, ts time.Time) (Room, error)

	// RoomByID fetches a single room.
	RoomByID(ctx context.Context, id uuid.UUID) (Room, error)

	// RoomsForUser lists the rooms the user participates in, most recent first.
	RoomsForUser(ctx context.Context, userID uuid.UUID) ([]Room, error)

	// HasRequest reports whether the user has at least one standing help request.
	HasRequest(ctx context.Context, userID uuid.UUID) (bool, error)

	// CreateMessage appends a message to a room.
	CreateMessage(ctx context.Context, body string, senderID, receiverID, roomID uuid.UUID) (Message, error)

	// MessagesForRoom lists up to limit messages of a room, oldest first.
	MessagesForRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]Message, error)

	// TouchRoom bumps the room's last_message_time.
	TouchRoom(ctx context.Context, roomID uuid.UUID, ts time.Time) error

	// DeviceToken returns the push registration token for the user's device.
	DeviceToken(ctx context.Context, userID uuid.UUID) (string, error)
}
