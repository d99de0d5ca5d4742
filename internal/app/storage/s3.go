package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"peerchat/internal/pkg/logx"
)

// s3Store implements Service against any S3-compatible endpoint.
type s3Store struct {
	cfg      Config
	client   *s3.Client
	presign  *s3.PresignClient
	uploader *manager.Uploader
	logger   zerolog.Logger
}

// newS3Store builds the S3 client with static credentials and a custom endpoint,
// which keeps MinIO-style deployments working alongside AWS itself.
func newS3Store(cfg Config) (*s3Store, error) {
	sdkCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, errors.New("failed to initialize S3 client configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &s3Store{
		cfg:      cfg,
		client:   client,
		presign:  s3.NewPresignClient(client),
		uploader: manager.NewUploader(client),
		logger:   logx.Logger().With().Str("component", "storage").Logger(),
	}, nil
}

// PresignUpload generates a time-limited URL for uploading an object with the
// given key, MIME type, and declared size.
func (s *s3Store) PresignUpload(ctx context.Context, key, mimeType string, fileSize int64, duration time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        &s.cfg.BucketName,
		Key:           &key,
		ContentType:   &mimeType,
		ContentLength: &fileSize,
	}

	resp, err := s.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(duration))
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to presign upload URL")
		return "", errors.New("failed to generate presigned upload URL")
	}

	return resp.URL, nil
}

// PresignDownload generates a time-limited URL for downloading the given key.
func (s *s3Store) PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: &s.cfg.BucketName,
		Key:    &key,
	}

	resp, err := s.presign.PresignGetObject(ctx, input, s3.WithPresignExpires(duration))
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to presign download URL")
		return "", errors.New("failed to generate presigned download URL")
	}

	return resp.URL, nil
}

// Upload stores an object server-side through the SDK upload manager.
func (s *s3Store) Upload(ctx context.Context, key, mimeType string, body io.Reader) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &s.cfg.BucketName,
		Key:         &key,
		ContentType: &mimeType,
		Body:        body,
	})

	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Server-side upload failed")
		return errors.New("failed to upload file")
	}

	return nil
}

// Delete removes the object with the given key from the bucket.
func (s *s3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.cfg.BucketName,
		Key:    &key,
	})

	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Delete failed")
		return errors.New("failed to delete file")
	}

	return nil
}
