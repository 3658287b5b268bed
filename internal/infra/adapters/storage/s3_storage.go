// File: internal/infra/adapters/storage/s3_storage.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"activation-admin/internal/config"
	"activation-admin/internal/domain"
	"activation-admin/internal/domain/ports/adapter"
)

var _ adapter.ObjectStorage = (*S3Storage)(nil)

// S3Storage stores library files in one bucket of an S3-compatible service.
type S3Storage struct {
	client     *s3.Client
	uploader   *manager.Uploader
	bucket     string
	endpoint   string
	publicBase string
}

// NewS3Storage builds a client with static credentials. Endpoint is optional and
// points the client at a non-AWS service such as Supabase Storage or MinIO.
func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("storage credentials are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &S3Storage{
		client:     client,
		uploader:   manager.NewUploader(client, func(u *manager.Uploader) { u.PartSize = 10 * 1024 * 1024 }),
		bucket:     cfg.Bucket,
		endpoint:   endpoint,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *S3Storage) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if key == "" {
		return "", domain.Invalid("object key is required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: s3 upload %s: %v", domain.ErrProvider, key, err)
	}
	return s.PublicURL(key), nil
}

// PublicURL prefers the configured public base and otherwise falls back to
// path-style addressing on the endpoint.
func (s *S3Storage) PublicURL(key string) string {
	escaped := escapeKey(key)
	switch {
	case s.publicBase != "":
		return s.publicBase + "/" + escaped
	case s.endpoint != "":
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, escaped)
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, escaped)
	}
}

// escapeKey escapes each path segment and keeps the separators.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
