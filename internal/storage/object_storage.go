// internal/storage/object_storage.go
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dineiq/dineiq/internal/config"
)

// ObjectStorage archives rendered report files to an S3-compatible bucket.
type ObjectStorage interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewObjectStorage connects to the configured S3-compatible endpoint and
// ensures the reports bucket exists. Returns a no-op store when no
// endpoint is configured.
func NewObjectStorage(ctx context.Context, cfg config.ExportConfig) (ObjectStorage, error) {
	if cfg.Endpoint == "" {
		return &noopStorage{}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to object storage: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &minioStorage{client: client, bucket: cfg.Bucket}, nil
}

func (s *minioStorage) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return fmt.Sprintf("%s/%s", s.bucket, objectName), nil
}

// noopStorage keeps export flows working when no bucket is configured.
type noopStorage struct{}

func (noopStorage) Upload(_ context.Context, objectName string, _ []byte, _ string) (string, error) {
	return objectName, nil
}
