/*
Package handler provides HTTP handler functions for conversation listing and history reads.
*/
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"peerchat/internal/app/store"
	"peerchat/internal/pkg/auth/jwt"
	"peerchat/internal/pkg/errs"
	"peerchat/internal/pkg/logx"
	"peerchat/internal/pkg/resp"
)

const (
	defaultMessagePageSize = 50
	maxMessagePageSize     = 200
)

// requireIdentity extracts the authenticated platform user id from the request,
// or returns the error the handler should respond with.
func requireIdentity(r *http.Request) (uuid.UUID, *errs.CustomError) {
	payload := jwt.GetPayloadFromContext(r)
	if payload == nil {
		return uuid.Nil, errs.NewError(errs.ErrUnauthorized)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		logx.Warn("Malformed user id in identity token", "user_id", payload.UserID)
		return uuid.Nil, errs.NewError(errs.ErrUnauthorized)
	}

	return userID, nil
}

// roomForParticipant loads the room and verifies the caller is one of its two participants.
func roomForParticipant(r *http.Request, deps *AppDeps, roomID, userID uuid.UUID) (store.Room, *errs.CustomError) {
	room, err := deps.Store.RoomByID(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Room{}, errs.NewError(errs.ErrRoomNotFound)
		}

		logx.Error(err, "Failed to fetch room", "room_id", roomID.String())
		return store.Room{}, errs.NewError(errs.ErrUnknown)
	}

	if room.Participant1ID != userID && room.Participant2ID != userID {
		return store.Room{}, errs.NewError(errs.ErrNotRoomParticipant)
	}

	return room, nil
}

// HandleListRooms returns the caller's conversations, most recently active first.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, customErr := requireIdentity(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		rooms, err := deps.Store.RoomsForUser(r.Context(), userID)
		if err != nil {
			logx.Error(err, "Failed to list rooms", "user_id", userID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if rooms == nil {
			rooms = []store.Room{}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"rooms": rooms,
		})
	}
}

// HandleRoomMessages returns a room's message history, oldest first,
// restricted to the room's participants.
func HandleRoomMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, customErr := requireIdentity(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if _, customErr := roomForParticipant(r, deps, roomID, userID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		limit := defaultMessagePageSize
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed < 1 {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
			limit = min(parsed, maxMessagePageSize)
		}

		messages, err := deps.Store.MessagesForRoom(r.Context(), roomID, limit)
		if err != nil {
			logx.Error(err, "Failed to fetch messages", "room_id", roomID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if messages == nil {
			messages = []store.Message{}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"messages": messages,
		})
	}
}
