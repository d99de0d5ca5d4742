/*
Package push delivers best-effort push notifications to a user's registered device.

Delivery is fire-and-forget from the caller's point of view: errors are returned
for logging but the messaging core never lets them interrupt the relay path.
*/
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"peerchat/internal/pkg/logx"
)

const sendTimeout = 5 * time.Second

// Dispatcher sends a push notification to the user's registered device.
type Dispatcher interface {
	Notify(ctx context.Context, userID uuid.UUID, title, body string) error
}

// TokenSource resolves a user id to the device registration token push delivery targets.
// The directory store satisfies this interface.
type TokenSource interface {
	DeviceToken(ctx context.Context, userID uuid.UUID) (string, error)
}

// FCMDispatcher implements Dispatcher against the FCM legacy HTTP send endpoint.
type FCMDispatcher struct {
	endpoint  string
	serverKey string
	tokens    TokenSource
	client    *http.Client
	logger    zerolog.Logger
}

// NewFCMDispatcher constructs a dispatcher posting to the given endpoint with the given server key.
func NewFCMDispatcher(endpoint, serverKey string, tokens TokenSource) *FCMDispatcher {
	return &FCMDispatcher{
		endpoint:  endpoint,
		serverKey: serverKey,
		tokens:    tokens,
		client:    &http.Client{Timeout: sendTimeout},
		logger:    logx.Logger().With().Str("component", "push").Logger(),
	}
}

type notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type sendRequest struct {
	To           string       `json:"to"`
	Notification notification `json:"notification"`
}

// Notify looks up the user's device token and posts the notification payload.
// A user without a registered device is not an error worth retrying; the miss
// is reported so the caller can log and move on.
func (d *FCMDispatcher) Notify(ctx context.Context, userID uuid.UUID, title, body string) error {
	token, err := d.tokens.DeviceToken(ctx, userID)
	if err != nil {
		return fmt.Errorf("push: no device for user %s: %w", userID, err)
	}

	payload, err := json.Marshal(sendRequest{
		To: token,
		Notification: notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		return fmt.Errorf("push: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("push: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+d.serverKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("push: send: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push: provider returned status %d", resp.StatusCode)
	}

	d.logger.Debug().
		Str("user_id", userID.String()).
		Str("title", title).
		Msg("Notification delivered to provider.")

	return nil
}

// Disabled is a Dispatcher that silently drops notifications.
// Used when no push server key is configured.
type Disabled struct{}

// NewDisabled returns the no-op dispatcher.
func NewDisabled() Disabled {
	return Disabled{}
}

// Notify drops the notification.
func (Disabled) Notify(ctx context.Context, userID uuid.UUID, title, body string) error {
	return nil
}
