package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// MinioStore implements ObjectStore using a MinIO (or any S3-compatible)
// backend.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore creates a MinIO client, ensures the bucket exists, and
// returns a ready-to-use MinioStore.
func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Info().Str("bucket", bucket).Msg("storage: created bucket")
	}

	return &MinioStore{client: client, bucket: bucket}, nil
}

// Put streams reader to MinIO under the namespace key.
func (s *MinioStore) Put(ctx context.Context, ns Namespace, id uuid.UUID, reader io.Reader, size int64, contentType string) error {
	key := ns.Key(id)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// Get opens the object under the namespace key. A missing key maps to
// ErrNotFound; any other backend failure is returned as-is so the caller can
// distinguish an unreachable store from an absent object.
func (s *MinioStore) Get(ctx context.Context, ns Namespace, id uuid.UUID) (*Object, error) {
	key := ns.Key(id)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}

	// GetObject is lazy: existence is only known after the first stat/read.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat object %q: %w", key, err)
	}

	return &Object{
		Content:     obj,
		ContentType: info.ContentType,
		Size:        info.Size,
	}, nil
}

// Delete removes the object under the namespace key. MinIO's RemoveObject is
// already idempotent: removing a nonexistent key succeeds.
func (s *MinioStore) Delete(ctx context.Context, ns Namespace, id uuid.UUID) error {
	key := ns.Key(id)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

var _ ObjectStore = (*MinioStore)(nil)
