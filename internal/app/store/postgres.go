package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Directory on top of a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Authenticate resolves an opaque connection token to its user.
func (p *Postgres) Authenticate(ctx context.Context, token string) (User, error) {
	const q = `
		SELECT u.id, u.username
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.key = $1`

	var u User
	err := p.pool.QueryRow(ctx, q, token).Scan(&u.ID, &u.Username)
	if err != nil {
		return User{}, mapError(err)
	}

	return u, nil
}

// GetUser fetches a user by id.
func (p *Postgres) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	const q = `SELECT id, username FROM users WHERE id = $1`

	var u User
	err := p.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Username)
	if err != nil {
		return User{}, mapError(err)
	}

	return u, nil
}

// FindRoom returns the room for the unordered pair {a, b}, if one exists.
func (p *Postgres) FindRoom(ctx context.Context, a, b uuid.UUID) (Room, error) {
	const q = `
		SELECT id, participant1_id, participant2_id, last_message_time
		FROM rooms
		WHERE (participant1_id = $1 AND participant2_id = $2)
		   OR (participant1_id = $2 AND participant2_id = $1)
		LIMIT 1`

	var r Room
	err := p.pool.QueryRow(ctx, q, a, b).Scan(&r.ID, &r.Participant1ID, &r.Participant2ID, &r.LastMessageTime)
	if err != nil {
		return Room{}, mapError(err)
	}

	return r, nil
}

// CreateRoom creates the room for the pair {a, b}. The unique index on the
// unordered pair turns a concurrent duplicate creation into ErrValidation.
func (p *Postgres) CreateRoom(ctx context.Context, a, b uuid.UUID, ts time.Time) (Room, error) {
	const q = `
		INSERT INTO rooms (participant1_id, participant2_id, last_message_time)
		VALUES ($1, $2, $3)
		RETURNING id, participant1_id, participant2_id, last_message_time`

	var r Room
	err := p.pool.QueryRow(ctx, q, a, b, ts).Scan(&r.ID, &r.Participant1ID, &r.Participant2ID, &r.LastMessageTime)
	if err != nil {
		return Room{}, mapError(err)
	}

	return r, nil
}

// RoomByID fetches a single room.
func (p *Postgres) RoomByID(ctx context.Context, id uuid.UUID) (Room, error) {
	const q = `
		SELECT id, participant1_id, participant2_id, last_message_time
		FROM rooms
		WHERE id = $1`

	var r Room
	err := p.pool.QueryRow(ctx, q, id).Scan(&r.ID, &r.Participant1ID, &r.Participant2ID, &r.LastMessageTime)
	if err != nil {
		return Room{}, mapError(err)
	}

	return r, nil
}

// RoomsForUser lists the rooms the user participates in, most recent first.
func (p *Postgres) RoomsForUser(ctx context.Context, userID uuid.UUID) ([]Room, error) {
	const q = `
		SELECT id, participant1_id, participant2_id, last_message_time
		FROM rooms
		WHERE participant1_id = $1 OR participant2_id = $1
		ORDER BY last_message_time DESC`

	rows, err := p.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []Room
	for rows.Next() {
		var r Room
		if err := rows.Scan(&r.ID, &r.Participant1ID, &r.Participant2ID, &r.LastMessageTime); err != nil {
			return nil, mapError(err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return result, nil
}

// HasRequest reports whether the user has at least one standing help request.
func (p *Postgres) HasRequest(ctx context.Context, userID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM help_requests WHERE user_id = $1)`

	var exists bool
	if err := p.pool.QueryRow(ctx, q, userID).Scan(&exists); err != nil {
		return false, mapError(err)
	}

	return exists, nil
}

// CreateMessage appends a message to a room.
func (p *Postgres) CreateMessage(ctx context.Context, body string, senderID, receiverID, roomID uuid.UUID) (Message, error) {
	const q = `
		INSERT INTO messages (room_id, sender_id, receiver_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, room_id, sender_id, receiver_id, body, created_at`

	var m Message
	err := p.pool.QueryRow(ctx, q, roomID, senderID, receiverID, body).
		Scan(&m.ID, &m.RoomID, &m.SenderID, &m.ReceiverID, &m.Body, &m.CreatedAt)
	if err != nil {
		return Message{}, mapError(err)
	}

	return m, nil
}

// MessagesForRoom lists up to limit messages of a room, oldest first.
func (p *Postgres) MessagesForRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]Message, error) {
	const q = `
		SELECT id, room_id, sender_id, receiver_id, body, created_at
		FROM messages
		WHERE room_id = $1
		ORDER BY created_at ASC
		LIMIT $2`

	rows, err := p.pool.Query(ctx, q, roomID, limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.ReceiverID, &m.Body, &m.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return result, nil
}

// TouchRoom bumps the room's last_message_time.
func (p *Postgres) TouchRoom(ctx context.Context, roomID uuid.UUID, ts time.Time) error {
	const q = `UPDATE rooms SET last_message_time = $2 WHERE id = $1`

	tag, err := p.pool.Exec(ctx, q, roomID, ts)
	if err != nil {
		return mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeviceToken returns the push registration token for the user's device.
func (p *Postgres) DeviceToken(ctx context.Context, userID uuid.UUID) (string, error) {
	const q = `SELECT registration_token FROM devices WHERE user_id = $1`

	var token string
	if err := p.pool.QueryRow(ctx, q, userID).Scan(&token); err != nil {
		return "", mapError(err)
	}

	return token, nil
}

// mapError translates driver errors into the store's sentinel errors,
// keeping the engine invisible to callers.
func mapError(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case isIntegrityViolation(err):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	default:
		return err
	}
}
