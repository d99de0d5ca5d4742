/*
Package handler provides the HTTP handler for WebSocket connection admission.

This file contains HandleWebSocket, which authenticates the connecting user,
resolves the counterpart and the room the connection belongs to, and only then
upgrades the HTTP connection and starts the session pumps. A connection that
fails admission is refused before the upgrade and never joins a group.
*/
package handler

import (
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"peerchat/internal/app/chat"
	"peerchat/internal/app/store"
	"peerchat/internal/pkg/errs"
	"peerchat/internal/pkg/limiter"
	"peerchat/internal/pkg/logx"
	"peerchat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc that admits real-time chat connections.
//
// Admission parameters come from the connection's addressing metadata:
// the counterpart user id in the path, and `token` plus the role flag
// `is_request_acceptor` ("1" helper, "0" seeker) in the query string.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		receiverID, err := uuid.Parse(chi.URLParam(r, "receiverID"))
		if err != nil {
			logx.Warn("WebSocket request rejected: Malformed receiver id")
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		query := r.URL.Query()

		token := query.Get("token")
		if token == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
			return
		}

		role, err := chat.ParseRole(query.Get("is_request_acceptor"))
		if err != nil {
			logx.Warn("WebSocket request rejected: Invalid role flag", "flag", query.Get("is_request_acceptor"))
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidRole))
			return
		}

		user, err := deps.Store.Authenticate(r.Context(), token)
		if err != nil {
			logx.Warn("WebSocket connection rejected: Invalid token", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
			return
		}

		if user.ID == receiverID {
			logx.Warn("WebSocket connection rejected: Self-conversation attempt", "user_id", user.ID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrSelfConversation))
			return
		}

		counterpart, err := deps.Store.GetUser(r.Context(), receiverID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrCounterpartUnknown))
				return
			}

			logx.Error(err, "Failed to fetch counterpart user", "receiver_id", receiverID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		roomID, err := deps.Resolver.Resolve(r.Context(), user, counterpart, role)
		if err != nil {
			if errors.Is(err, chat.ErrNoRoom) {
				logx.Info("WebSocket connection rejected: No eligible room.",
					"user_id", user.ID.String(),
					"receiver_id", receiverID.String(),
					"role", role.String(),
				)
				resp.RespondError(w, r, errs.NewError(errs.ErrNoEligibleRoom))
				return
			}

			logx.Error(err, "Room resolution failed", "user_id", user.ID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		logx.Info("WebSocket connection established",
			"user_id", user.ID.String(),
			"room_id", roomID.String(),
			"role", role.String(),
		)

		session := chat.NewSession(conn, deps.Registry, deps.Store, deps.Dispatcher, user, counterpart, roomID)
		session.Run()
	}
}
