package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/config"
)

// ArtifactStore persists run artifacts, primarily the confirmation
// screenshots taken after each submitted application.
type ArtifactStore interface {
	SaveScreenshot(ctx context.Context, runID, name string, data []byte) (string, error)
}

// NewArtifactStore builds the configured store. Artifact upload is
// optional; without S3 enabled every save is a no-op.
func NewArtifactStore(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (ArtifactStore, error) {
	if !cfg.Enabled {
		return Disabled{}, nil
	}

	client, err := NewMinIOClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := client.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// Disabled drops every artifact.
type Disabled struct{}

// SaveScreenshot discards the data.
func (Disabled) SaveScreenshot(ctx context.Context, runID, name string, data []byte) (string, error) {
	return "", nil
}

// MinIOClient wraps the MinIO client
type MinIOClient struct {
	client *minio.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewMinIOClient creates a new MinIO client
func NewMinIOClient(cfg config.S3Config, logger *zap.Logger) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	return &MinIOClient{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.ScreenshotPrefix, "/"),
		logger: logger,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket existence: %w", err)
	}

	if !exists {
		err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
	}

	return nil
}

// SaveScreenshot uploads a confirmation screenshot and returns its S3 URI
func (m *MinIOClient) SaveScreenshot(ctx context.Context, runID, name string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%s/%s", m.prefix, runID, name)

	contentType := "image/jpeg"
	if strings.HasSuffix(key, ".png") {
		contentType = "image/png"
	}

	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading screenshot: %w", err)
	}

	m.logger.Debug("screenshot uploaded",
		zap.String("bucket", m.bucket),
		zap.String("key", key))

	// S3-style URI
	return fmt.Sprintf("s3://%s/%s", m.bucket, key), nil
}
