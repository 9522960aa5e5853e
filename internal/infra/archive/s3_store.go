package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config addresses an S3-compatible bucket (R2, MinIO, AWS).
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

// S3Store writes objects through the minio client.
type S3Store struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewS3Store constructs the storage adapter.
func NewS3Store(cfg Config, logger *slog.Logger) (*S3Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       useSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, logger: logger.With("component", "archive.s3")}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	s.logger.Info("archive bucket created", "bucket", s.bucket)
	return nil
}

// Put uploads data under key, replacing any existing object.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      contentType,
		DisableMultipart: true,
	})
	return err
}

// sanitizeEndpoint strips the scheme and any path, as minio.New expects host[:port].
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

var _ ObjectStore = (*S3Store)(nil)
