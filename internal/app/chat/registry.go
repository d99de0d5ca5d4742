/*
Package chat contains the core logic of the messaging system: room resolution,
group membership, and message relay between the two participants of a room.

This file defines the Registry, which maps a room id to the set of currently
open sessions subscribed to it. It is shared mutable state touched by every
connection's goroutines and serializes membership changes internally.
*/
package chat

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"peerchat/internal/pkg/logx"
)

// Outbox is the delivery side of a room member. Deliver must not block;
// the session implementation queues on a buffered channel and drops on overflow.
type Outbox interface {
	Deliver(ev Event)
}

// Registry tracks which sessions are subscribed to which room.
type Registry struct {
	// mu protects concurrent access to the groups map and its member sets.
	mu sync.Mutex

	// groups maps a room id to its current member set. A set exists only
	// while at least one member is joined.
	groups map[uuid.UUID]map[Outbox]struct{}

	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		groups: make(map[uuid.UUID]map[Outbox]struct{}),
		logger: logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Join adds the member to the room's group, creating the group if absent.
func (g *Registry) Join(roomID uuid.UUID, m Outbox) {
	g.mu.Lock()
	defer g.mu.Unlock()

	members, ok := g.groups[roomID]
	if !ok {
		members = make(map[Outbox]struct{})
		g.groups[roomID] = members
	}

	members[m] = struct{}{}

	g.logger.Debug().
		Str("room_id", roomID.String()).
		Int("members", len(members)).
		Msg("Member joined group.")
}

// Leave removes the member from the room's group. The group is discarded once
// empty. Leaving a group the member never joined is a no-op.
func (g *Registry) Leave(roomID uuid.UUID, m Outbox) {
	g.mu.Lock()
	defer g.mu.Unlock()

	members, ok := g.groups[roomID]
	if !ok {
		return
	}

	delete(members, m)

	if len(members) == 0 {
		delete(g.groups, roomID)
		g.logger.Debug().Str("room_id", roomID.String()).Msg("Empty group discarded.")
		return
	}

	g.logger.Debug().
		Str("room_id", roomID.String()).
		Int("members", len(members)).
		Msg("Member left group.")
}

// Broadcast delivers the event to every member currently in the room's group.
// The member list is copied under the lock and delivery happens outside it,
// so one slow member cannot stall membership changes or fanout to others.
func (g *Registry) Broadcast(roomID uuid.UUID, ev Event) {
	g.mu.Lock()
	members := make([]Outbox, 0, len(g.groups[roomID]))
	for m := range g.groups[roomID] {
		members = append(members, m)
	}
	g.mu.Unlock()

	for _, m := range members {
		m.Deliver(ev)
	}
}

// MemberCount returns the current size of a room's group.
func (g *Registry) MemberCount(roomID uuid.UUID) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.groups[roomID])
}
