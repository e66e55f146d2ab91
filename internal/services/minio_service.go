package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"closetrent/internal/metrics"
	"closetrent/internal/models"
	"closetrent/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// MinioService is the thin object storage client used by the MinIO media store.
type MinioService interface {
	UploadObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error
	GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error)
	DeleteObject(ctx context.Context, bucketName, objectName string) error
	EnsureBucketExists(ctx context.Context, bucketName string) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

type minioClient struct {
	client *minio.Client
}

func NewMinioService(endpoint, accessKey, secretKey string, useSSL bool) (MinioService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioClient{client: client}, nil
}

func (m *minioClient) UploadObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	_, err := m.client.PutObject(ctx, bucketName, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioClient) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, bucketName, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

// DeleteObject removes an object. MinIO reports success for absent keys.
func (m *minioClient) DeleteObject(ctx context.Context, bucketName, objectName string) error {
	return m.client.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{})
}

func (m *minioClient) EnsureBucketExists(ctx context.Context, bucketName string) error {
	found, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *minioClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return m.client.BucketExists(ctx, bucketName)
}

// MediaURLResolver turns a stored media path into a URL clients can fetch.
type MediaURLResolver interface {
	ResolveURL(ctx context.Context, mediaPath string) (string, error)
}

// MinioMediaStore keeps uploads in a MinIO bucket
type MinioMediaStore struct {
	client  MinioService
	bucket  string
	expiry  time.Duration
	breaker *gobreaker.CircuitBreaker
}

// NewMinioMediaStore stores uploads as objects keyed by their path below
// /uploads/. Every call goes through a circuit breaker.
func NewMinioMediaStore(client MinioService, bucket string, presignExpiry time.Duration) *MinioMediaStore {
	if presignExpiry <= 0 {
		presignExpiry = 15 * time.Minute
	}
	return &MinioMediaStore{
		client:  client,
		bucket:  bucket,
		expiry:  presignExpiry,
		breaker: newCircuitBreaker("minio-" + bucket),
	}
}

func (s *MinioMediaStore) Backend() string {
	return "minio"
}

func (s *MinioMediaStore) Save(ctx context.Context, namespace string, upload *models.FileUpload) (string, error) {
	if !validNamespace(namespace) {
		return "", fmt.Errorf("unknown media namespace %q", namespace)
	}
	if upload == nil || upload.Content == nil {
		return "", errors.New("no file content")
	}

	p := mediaPath(namespace, GenerateFilename(upload.Filename))
	key, err := objectKey(p)
	if err != nil {
		return "", err
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		return nil, s.client.UploadObject(ctx, s.bucket, key, upload.Content, upload.Size, contentType)
	})
	metrics.MediaOperations.WithLabelValues(s.Backend(), "save", metrics.Result(err)).Inc()
	if err != nil {
		return "", fmt.Errorf("upload object: %w", breakerError(s.breaker.Name(), err))
	}
	return p, nil
}

// Delete removes an object. Deletes only ever clean up files that are no
// longer referenced, so a call rejected by an open breaker is still sent to
// the client once instead of leaving the object orphaned.
func (s *MinioMediaStore) Delete(ctx context.Context, mediaPath string) error {
	key, err := objectKey(mediaPath)
	if err != nil {
		return err
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		return nil, s.client.DeleteObject(ctx, s.bucket, key)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = s.client.DeleteObject(ctx, s.bucket, key)
	}
	metrics.MediaOperations.WithLabelValues(s.Backend(), "delete", metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("delete object: %w", breakerError(s.breaker.Name(), err))
	}
	return nil
}

func (s *MinioMediaStore) ResolveURL(ctx context.Context, mediaPath string) (string, error) {
	key, err := objectKey(mediaPath)
	if err != nil {
		return "", err
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.GetPresignedURL(ctx, s.bucket, key, s.expiry)
	})
	if err != nil {
		return "", fmt.Errorf("presign object: %w", breakerError(s.breaker.Name(), err))
	}
	return result.(string), nil
}

func (s *MinioMediaStore) Ping(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}

// Init makes sure the bucket exists.
func (s *MinioMediaStore) Init(ctx context.Context) error {
	if err := s.client.EnsureBucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("ensure bucket %s: %w", s.bucket, err)
	}
	logger.WithComponent("media").WithFields(logrus.Fields{
		"bucket":  s.bucket,
		"backend": s.Backend(),
	}).Info("Media bucket ready")
	return nil
}
