/*
Package chat contains the core logic of the messaging system.

This file defines the Session struct, representing one admitted WebSocket
connection. It manages the connection lifecycle, the message pumps
(ReadPump and WritePump), message persistence, push notification, and
relay through the Registry.
*/
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"peerchat/internal/app/push"
	"peerchat/internal/app/store"
	"peerchat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// MaxBodyBytes is the maximum allowed size (in bytes) for a message body.
	MaxBodyBytes = 5000

	// size of the buffered outbound queue per session.
	sendQueueSize = 256

	// storeTimeout bounds each external store or push call made from the read loop.
	storeTimeout = 5 * time.Second
)

// Session represents an admitted connection: the authenticated user, the
// counterpart it is talking to, and the resolved room it has joined.
type Session struct {
	conn *websocket.Conn

	registry   *Registry
	store      store.Directory
	dispatcher push.Dispatcher

	user        store.User
	counterpart store.User
	roomID      uuid.UUID

	// send queues serialized events waiting to be written to the socket.
	send chan []byte

	// mu guards closed; Deliver must never race a close of the send channel.
	mu     sync.Mutex
	closed bool

	logger zerolog.Logger
}

// NewSession constructs a Session for an already-resolved connection.
// Admission (authentication and room resolution) happens before this point;
// a Session only ever exists in the joined state.
func NewSession(conn *websocket.Conn, registry *Registry, st store.Directory, dispatcher push.Dispatcher, user, counterpart store.User, roomID uuid.UUID) *Session {
	sessionLogger := logx.Logger().With().
		Str("user_id", user.ID.String()).
		Str("room_id", roomID.String()).
		Logger()

	return &Session{
		conn:        conn,
		registry:    registry,
		store:       st,
		dispatcher:  dispatcher,
		user:        user,
		counterpart: counterpart,
		roomID:      roomID,
		send:        make(chan []byte, sendQueueSize),
		logger:      sessionLogger,
	}
}

// Run joins the room's group, starts the write pump, and blocks on the read
// pump until the connection closes. The caller owns the connection's lifetime
// through this call.
func (s *Session) Run() {
	s.registry.Join(s.roomID, s)

	go s.writePump()
	s.readPump()
}

// readPump reads inbound frames from the WebSocket connection, handling
// heartbeats (Pong) and message ingestion. It performs cleanup on exit.
func (s *Session) readPump() {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)

	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		s.handleInbound(messageBytes)
	}
}

// handleInbound processes one inbound chat message: persist, bump the room,
// notify the receiver, then relay. Persistence and notification failures are
// logged and swallowed; the relay runs unconditionally so a degraded store
// costs durability, never liveness.
func (s *Session) handleInbound(messageBytes []byte) {
	var ev Event
	if err := json.Unmarshal(messageBytes, &ev); err != nil {
		s.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	if ev.Body == "" || len(ev.Body) > MaxBodyBytes {
		s.logger.Warn().Int("body_bytes", len(ev.Body)).Msg("Message body empty or too long, dropped")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if _, err := s.store.CreateMessage(ctx, ev.Body, ev.SenderID, ev.ReceiverID, s.roomID); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist message")
	} else {
		if err := s.store.TouchRoom(ctx, s.roomID, time.Now()); err != nil {
			s.logger.Error().Err(err).Msg("Failed to bump room last_message_time")
		}

		if err := s.dispatcher.Notify(ctx, ev.ReceiverID, "New Message from "+s.user.Username, ev.Body); err != nil {
			s.logger.Warn().Err(err).
				Str("receiver_id", ev.ReceiverID.String()).
				Msg("Push notification failed")
		}
	}

	s.registry.Broadcast(s.roomID, ev)
}

// Deliver queues a relayed event for this session's socket. Each recipient
// serializes the event itself before writing. Deliver never blocks: if the
// outbound queue is full the event is dropped with a warning.
func (s *Session) Deliver(ev Event) {
	messageBytes, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error marshaling event for delivery")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	select {
	case s.send <- messageBytes:
	default:
		s.logger.Warn().Int("queue_len", len(s.send)).Msg("Session send queue full, dropping event")
	}
}

// writePump writes queued events to the WebSocket connection and maintains
// the heartbeat. It exits when the send channel is closed or a write fails.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := s.conn.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("Connection close in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				if err := s.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					s.logger.Debug().Err(err).Msg("Error writing close message")
				}
				return
			}

			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Error().Err(err).Msg("Error writing message")
				return
			}

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Info().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}

// close tears the session down exactly once: the group membership is removed
// before the send channel closes, so no later broadcast can reach this session.
func (s *Session) close() {
	s.registry.Leave(s.roomID, s)

	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
	s.mu.Unlock()

	if err := s.conn.Close(); err != nil {
		s.logger.Debug().Err(err).Msg("Connection close error")
	}

	s.logger.Info().Msg("Session closed.")
}
