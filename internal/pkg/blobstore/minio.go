package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
)

// MinioConfig holds the connection settings of an S3-compatible bucket
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore keeps blobs as objects in a single bucket; the relative path is the object key.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger zerolog.Logger
}

var _ BlobStore = (*MinioStore)(nil)

// NewMinioStore connects to the endpoint and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg MinioConfig, logger zerolog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info().Str("bucket", cfg.Bucket).Msg("MinIO bucket created")
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// Store uploads content with its known size; PutObject sends objects under
// 16MiB as a single PUT and sizes multipart buffers from it.
func (ms *MinioStore) Store(ctx context.Context, content io.Reader, size int64, dir, name string) (string, error) {
	key, err := joinRelative(dir, name)
	if err != nil {
		return "", err
	}

	if size < 0 {
		return "", apperrors.NewStorageError("store", key, errors.New("unknown object size"))
	}

	info, err := ms.client.PutObject(ctx, ms.bucket, key, content, size, minio.PutObjectOptions{})
	if err != nil {
		ms.logger.Error().Err(err).Str("key", key).Msg("Failed to upload object")
		return "", apperrors.NewStorageError("store", key, err)
	}

	ms.logger.Debug().Str("key", key).Int64("bytes", info.Size).Msg("Object stored")
	return key, nil
}

func (ms *MinioStore) Exists(ctx context.Context, p string) (bool, error) {
	_, err := ms.Size(ctx, p)
	if err == nil {
		return true, nil
	}
	if apperrors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (ms *MinioStore) Size(ctx context.Context, p string) (int64, error) {
	key, err := cleanRelative(p)
	if err != nil {
		return 0, err
	}
	info, err := ms.client.StatObject(ctx, ms.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isMissingObject(err) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return 0, apperrors.NewStorageError("stat", key, err)
	}
	return info.Size, nil
}

// Delete removes the object; S3 semantics already treat a missing key as success.
func (ms *MinioStore) Delete(ctx context.Context, p string) error {
	key, err := cleanRelative(p)
	if err != nil {
		return err
	}
	if err := ms.client.RemoveObject(ctx, ms.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if isMissingObject(err) {
			return nil
		}
		ms.logger.Error().Err(err).Str("key", key).Msg("Failed to delete object")
		return apperrors.NewStorageError("delete", key, err)
	}
	return nil
}

// ResolveAbsolutePath is not available for object storage; callers use Open.
func (ms *MinioStore) ResolveAbsolutePath(p string) (string, error) {
	return "", ErrNotSupported
}

func (ms *MinioStore) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	key, err := cleanRelative(p)
	if err != nil {
		return nil, err
	}
	obj, err := ms.client.GetObject(ctx, ms.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, apperrors.NewStorageError("open", key, err)
	}
	// GetObject is lazy; Stat surfaces a missing key before streaming starts.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if isMissingObject(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, apperrors.NewStorageError("open", key, err)
	}
	return obj, nil
}

func isMissingObject(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
