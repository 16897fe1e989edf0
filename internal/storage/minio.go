package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/colposcopia/colpo-api/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore pushes uploads to an object storage bucket and hands back the
// object's public URL.
type MinioStore struct {
	client *minio.Client
	bucket string
	useSSL bool
}

func NewMinioStore(cfg config.UploadConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing object storage client: %w", err)
	}

	return &MinioStore{
		client: client,
		bucket: cfg.MinioBucket,
		useSSL: cfg.MinioUseSSL,
	}, nil
}

// EnsureBucket creates the bucket on first boot if it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket: %w", err)
	}
	return nil
}

func (s *MinioStore) Save(ctx context.Context, name string, contentType string, size int64, r io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storing object: %w", err)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, name), nil
}
