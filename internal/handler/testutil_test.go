package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"peerchat/internal/app/chat"
	"peerchat/internal/app/store"
	"peerchat/internal/configs"
)

const testJWTSecret = "handler-test-secret"

// fakeDirectory is an in-memory store.Directory for handler tests.
type fakeDirectory struct {
	mu sync.Mutex

	usersByToken map[string]store.User
	users        map[uuid.UUID]store.User
	rooms        map[uuid.UUID]store.Room
	requests     map[uuid.UUID]bool
	messages     []store.Message
	deviceTokens map[uuid.UUID]string

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

func (f *fakeDirectory) addRoom(a, b uuid.UUID) store.Room {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := store.Room{ID: uuid.New(), Participant1ID: a, Participant2ID: b, LastMessageTime: time.Now()}
	f.rooms[r.ID] = r
	return r
}

func (f *fakeDirectory) roomsSnapshot() []store.Room {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]store.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		result = append(result, r)
	}
	return result
}

func (f *fakeDirectory) messagesSnapshot() []store.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.Message(nil), f.messages...)
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

// fakeDispatcher records every notification handed to it.
type fakeDispatcher struct {
	mu    sync.Mutex
	notes []fakeNote
}

type fakeNote struct {
	UserID uuid.UUID
	Title  string
	Body   string
}

func (d *fakeDispatcher) Notify(ctx context.Context, userID uuid.UUID, title, body string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notes = append(d.notes, fakeNote{UserID: userID, Title: title, Body: body})
	return nil
}

func (d *fakeDispatcher) notified() []fakeNote {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]fakeNote(nil), d.notes...)
}

// fakeStorage returns deterministic URLs and records uploads.
type fakeStorage struct {
	mu       sync.Mutex
	uploaded []string
}

func (s *fakeStorage) PresignUpload(ctx context.Context, key, mimeType string, fileSize int64, duration time.Duration) (string, error) {
	return "https://storage.test/upload/" + key, nil
}

func (s *fakeStorage) PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error) {
	return "https://storage.test/download/" + key, nil
}

func (s *fakeStorage) Upload(ctx context.Context, key, mimeType string, body io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded = append(s.uploaded, key)
	return nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	return nil
}

// testEnv bundles a running server with the fakes backing it.
type testEnv struct {
	server     *httptest.Server
	dir        *fakeDirectory
	dispatcher *fakeDispatcher
	storage    *fakeStorage
	registry   *chat.Registry
}

func newTestEnv(dir *fakeDirectory) *testEnv {
	dispatcher := &fakeDispatcher{}
	st := &fakeStorage{}
	registry := chat.NewRegistry()

	deps := &AppDeps{
		Config: &configs.AppConfig{
			Environment:    "development",
			AllowedOrigins: []string{},
			JWTSecret:      testJWTSecret,
		},
		Store:      dir,
		Registry:   registry,
		Resolver:   chat.NewResolver(dir),
		Dispatcher: dispatcher,
		Storage:    st,
	}

	return &testEnv{
		server:     httptest.NewServer(Router(deps)),
		dir:        dir,
		dispatcher: dispatcher,
		storage:    st,
		registry:   registry,
	}
}

func (e *testEnv) close() {
	e.server.Close()
}

// wsURL builds the admission URL for the given counterpart, token, and role flag.
func (e *testEnv) wsURL(receiverID uuid.UUID, token, roleFlag string) string {
	base := "ws" + strings.TrimPrefix(e.server.URL, "http")
	return base + "/ws/" + receiverID.String() + "?token=" + token + "&is_request_acceptor=" + roleFlag
}
