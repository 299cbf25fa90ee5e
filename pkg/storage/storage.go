// Package storage keeps job-card photos in an S3-compatible bucket. The rest
// of the system only ever sees the object key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/config"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore stores job-card images and hands back an opaque reference.
type ImageStore interface {
	PutImage(ctx context.Context, jobCardID string, r io.Reader, size int64, contentType string) (string, error)
	ImageURL(ctx context.Context, ref string, expiry time.Duration) (string, error)
}

// MinioStore is an ImageStore on minio-go.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	maxSize int64
	logger  *zap.Logger
}

// NewMinioStore connects to the endpoint and creates the bucket if needed.
func NewMinioStore(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
		logger.Info("storage bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, maxSize: cfg.MaxImageSize, logger: logger}, nil
}

// ObjectKey is where an image for a job card is written.
func ObjectKey(jobCardID, contentType string) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return fmt.Sprintf("job-cards/%s/%s%s", jobCardID, uuid.New().String(), ext), nil
}

// PutImage uploads the image and returns its object key.
func (s *MinioStore) PutImage(ctx context.Context, jobCardID string, r io.Reader, size int64, contentType string) (string, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, size, s.maxSize)
	}
	key, err := ObjectKey(jobCardID, contentType)
	if err != nil {
		return "", err
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	s.logger.Debug("image stored", zap.String("key", key), zap.Int64("size", info.Size))
	return key, nil
}

// ImageURL returns a time-limited download link.
func (s *MinioStore) ImageURL(ctx context.Context, ref string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, ref, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", ref, err)
	}
	return u.String(), nil
}
