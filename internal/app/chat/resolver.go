/*
Package chat contains the core logic of the messaging system.

This file defines the Resolver, which decides which room a new connection
belongs to. It enforces the platform's matching rule: rooms exist only as the
product of a genuine help offer meeting a genuine help request, and an
established conversation is always resumable by either side.
*/
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"peerchat/internal/app/store"
	"peerchat/internal/pkg/logx"
)

// ErrNoRoom means admission is rejected: no room exists for the pair and the
// matching rule was not satisfied, or the connection targets the user themself.
var ErrNoRoom = errors.New("chat: no eligible room")

// Resolver decides which room id a connecting (user, counterpart, role) triple joins.
type Resolver struct {
	store  store.Directory
	logger zerolog.Logger
}

// NewResolver constructs a Resolver backed by the given directory store.
func NewResolver(st store.Directory) *Resolver {
	return &Resolver{
		store:  st,
		logger: logx.Logger().With().Str("component", "Resolver").Logger(),
	}
}

// Resolve returns the room id the connection should join, creating the room
// when a helper meets a standing request. It returns ErrNoRoom when admission
// must be rejected, and passes through store failures unrelated to the rule.
//
// A connection targeting the user themself is always rejected.
func (r *Resolver) Resolve(ctx context.Context, connecting, counterpart store.User, role Role) (uuid.UUID, error) {
	if connecting.ID == counterpart.ID {
		r.logger.Warn().
			Str("user_id", connecting.ID.String()).
			Msg("Self-conversation attempt rejected.")
		return uuid.Nil, ErrNoRoom
	}

	// An existing room wins regardless of role: either side may resume.
	room, err := r.store.FindRoom(ctx, connecting.ID, counterpart.ID)
	if err == nil {
		return room.ID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return uuid.Nil, err
	}

	// Seekers may only join rooms a helper already created.
	if role == RoleSeeker {
		return uuid.Nil, ErrNoRoom
	}

	// A helper may open a room only toward someone with a standing request.
	hasRequest, err := r.store.HasRequest(ctx, counterpart.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if !hasRequest {
		r.logger.Info().
			Str("helper_id", connecting.ID.String()).
			Str("counterpart_id", counterpart.ID.String()).
			Msg("Helper rejected: counterpart has no standing request.")
		return uuid.Nil, ErrNoRoom
	}

	room, err = r.store.CreateRoom(ctx, connecting.ID, counterpart.ID, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			// Rejected write degrades to a refused admission, not a crash.
			r.logger.Warn().
				Err(err).
				Str("helper_id", connecting.ID.String()).
				Str("counterpart_id", counterpart.ID.String()).
				Msg("Room creation rejected by store.")
			return uuid.Nil, ErrNoRoom
		}
		return uuid.Nil, err
	}

	r.logger.Info().
		Str("room_id", room.ID.String()).
		Str("helper_id", connecting.ID.String()).
		Str("seeker_id", counterpart.ID.String()).
		Msg("New room created for helper meeting a standing request.")

	return room.ID, nil
}
