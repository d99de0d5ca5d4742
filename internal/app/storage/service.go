/*
Package storage provides S3-compatible object storage for chat attachments.

Attachments never travel over the WebSocket: clients upload and download
through short-lived presigned URLs, with object keys scoped to the room.
*/
package storage

import (
	"context"
	"io"
	"time"
)

// Config holds the settings required to connect to the storage backend.
type Config struct {
	BucketName      string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Service is the attachment storage contract consumed by the HTTP handlers.
type Service interface {
	// PresignUpload generates a time-limited URL for uploading an object.
	PresignUpload(ctx context.Context, key, mimeType string, fileSize int64, duration time.Duration) (string, error)

	// PresignDownload generates a time-limited URL for downloading an object.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Upload stores an object server-side, for clients that cannot perform presigned PUTs.
	Upload(ctx context.Context, key, mimeType string, body io.Reader) error

	// Delete removes the object with the given key.
	Delete(ctx context.Context, key string) error
}

// NewService initializes the S3-backed Service implementation.
func NewService(cfg Config) (Service, error) {
	return newS3Store(cfg)
}
