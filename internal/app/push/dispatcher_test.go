package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"peerchat/internal/app/store"
)

type fakeTokens struct {
	tokens map[uuid.UUID]string
}

func (f *fakeTokens) DeviceToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, ok := f.tokens[userID]
	if !ok {
		return "", store.ErrNotFound
	}
	return token, nil
}

func TestFCMDispatcherSendsNotification(t *testing.T) {
	req := require.New(t)

	userID := uuid.New()

	var got sendRequest
	var gotAuth, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tokens := &fakeTokens{tokens: map[uuid.UUID]string{userID: "device-abc"}}
	dispatcher := NewFCMDispatcher(server.URL, "secret-key", tokens)

	err := dispatcher.Notify(context.Background(), userID, "New Message from alice", "hello there")
	req.NoError(err)

	req.Equal("key=secret-key", gotAuth)
	req.Equal("application/json", gotContentType)
	req.Equal("device-abc", got.To)
	req.Equal("New Message from alice", got.Notification.Title)
	req.Equal("hello there", got.Notification.Body)
}

func TestFCMDispatcherReportsMissingDevice(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider should not be called without a device token")
	}))
	defer server.Close()

	dispatcher := NewFCMDispatcher(server.URL, "secret-key", &fakeTokens{tokens: map[uuid.UUID]string{}})

	err := dispatcher.Notify(context.Background(), uuid.New(), "title", "body")
	req.ErrorIs(err, store.ErrNotFound)
}

func TestFCMDispatcherReportsProviderFailure(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	dispatcher := NewFCMDispatcher(server.URL, "wrong-key", &fakeTokens{tokens: map[uuid.UUID]string{uuid.Nil: "device"}})

	err := dispatcher.Notify(context.Background(), uuid.Nil, "title", "body")
	req.ErrorContains(err, "status 401")
}

func TestDisabledDispatcherDropsNotifications(t *testing.T) {
	require.NoError(t, NewDisabled().Notify(context.Background(), uuid.New(), "title", "body"))
}
