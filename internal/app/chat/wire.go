package chat

import "github.com/google/uuid"

// Event is the wire shape of a chat message, identical inbound and outbound:
// {"message": ..., "sender_id": ..., "receiver_id": ...}.
type Event struct {
	Body       string    `json:"message"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
}
