package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"peerchat/internal/app/store"
)

// fakeDirectory is an in-memory store.Directory for exercising the resolver
// without a database. Write failures are injectable per operation.
type fakeDirectory struct {
	mu sync.Mutex

	usersByToken map[string]store.User
	users        map[uuid.UUID]store.User
	rooms        map[uuid.UUID]store.Room
	requests     map[uuid.UUID]bool
	messages     []store.Message
	deviceTokens map[uuid.UUID]string

	createRoomErr    error
	createMessageErr error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		usersByToken: make(map[string]store.User),
		users:        make(map[uuid.UUID]store.User),
		rooms:        make(map[uuid.UUID]store.Room),
		requests:     make(map[uuid.UUID]bool),
		deviceTokens: make(map[uuid.UUID]string),
	}
}

func (f *fakeDirectory) addUser(username, token string) store.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := store.User{ID: uuid.New(), Username: username}
	f.users[u.ID] = u
	if token != "" {
		f.usersByToken[token] = u
	}
	return u
}

func (f *fakeDirectory) roomCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rooms)
}

func (f *fakeDirectory) Authenticate(ctx context.Context, token string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.usersByToken[token]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeDirectory) GetUser(ctx context.Context, id uuid.UUID) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeDirectory) FindRoom(ctx context.Context, a, b uuid.UUID) (store.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.rooms {
		if (r.Participant1ID == a && r.Participant2ID == b) ||
			(r.Participant1ID == b && r.Participant2ID == a) {
			return r, nil
		}
	}
	return store.Room{}, store.ErrNotFound
}

func (f *fakeDirectory) CreateRoom(ctx context.Context, a, b uuid.UUID, ts time.Time) (store.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createRoomErr != nil {
		return store.Room{}, f.createRoomErr
	}

	r := store.Room{ID: uuid.New(), Participant1ID: a, Participant2ID: b, LastMessageTime: ts}
	f.rooms[r.ID] = r
	return r, nil
}

func (f *fakeDirectory) RoomByID(ctx context.Context, id uuid.UUID) (store.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.rooms[id]
	if !ok {
		return store.Room{}, store.ErrNotFound
	}
	return r, nil
}

func (f *fakeDirectory) RoomsForUser(ctx context.Context, userID uuid.UUID) ([]store.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []store.Room
	for _, r := range f.rooms {
		if r.Participant1ID == userID || r.Participant2ID == userID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeDirectory) HasRequest(ctx context.Context, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.requests[userID], nil
}

func (f *fakeDirectory) CreateMessage(ctx context.Context, body string, senderID, receiverID, roomID uuid.UUID) (store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createMessageErr != nil {
		return store.Message{}, f.createMessageErr
	}

	m := store.Message{
		ID:         uuid.New(),
		RoomID:     roomID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		CreatedAt:  time.Now(),
	}
	f.messages = append(f.messages, m)
	return m, nil
}

func (f *fakeDirectory) MessagesForRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []store.Message
	for _, m := range f.messages {
		if m.RoomID == roomID && len(result) < limit {
			result = append(result, m)
		}
	}
	return result, nil
}

func (f *fakeDirectory) TouchRoom(ctx context.Context, roomID uuid.UUID, ts time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.rooms[roomID]
	if !ok {
		return store.ErrNotFound
	}
	r.LastMessageTime = ts
	f.rooms[roomID] = r
	return nil
}

func (f *fakeDirectory) DeviceToken(ctx context.Context, userID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	token, ok := f.deviceTokens[userID]
	if !ok {
		return "", store.ErrNotFound
	}
	return token, nil
}
