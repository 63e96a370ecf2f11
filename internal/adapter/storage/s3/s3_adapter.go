package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Storage is the MinIO-backed file-storage collaborator. Objects are keyed
// {ownerID}/{timestamp}.{ext} inside per-purpose buckets.
type Storage struct {
	client *minio.Client
	logger *zap.Logger
}

// NewStorage creates the client and ensures every bucket exists.
func NewStorage(endpoint, accessKey, secretKey string, useSSL bool, buckets []string, logger *zap.Logger) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	for _, bucket := range buckets {
		err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{})
		if err != nil {
			exists, errBucketExists := client.BucketExists(context.Background(), bucket)
			if errBucketExists != nil || !exists {
				return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucket, err, errBucketExists)
			}
		}
	}

	return &Storage{client: client, logger: logger.Named("Storage")}, nil
}

// Upload stores data and returns its public URL.
func (s *Storage) Upload(ctx context.Context, bucket, ownerID, filename string, data []byte) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	objectKey := fmt.Sprintf("%s/%d%s", ownerID, time.Now().UnixNano(), ext)

	_, err := s.client.PutObject(ctx, bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: http.DetectContentType(data),
	})
	if err != nil {
		s.logger.Error("upload failed",
			zap.String("bucket", bucket), zap.String("key", objectKey), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, bucket, err)
	}

	fileURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), bucket, objectKey)
	s.logger.Info("file uploaded",
		zap.String("bucket", bucket), zap.String("key", objectKey), zap.Int("size_bytes", len(data)))
	return fileURL, nil
}
