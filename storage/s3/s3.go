// Package s3 implements storage.ObjectStore on Amazon S3 and S3-compatible
// services. Importing it registers the "s3" provider.
package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/zillusion/capsule/logger"
	"github.com/zillusion/capsule/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderS3, func(ctx context.Context, cfg storage.Config, _ *logger.Logger) (storage.ObjectStore, error) {
		return NewStore(ctx, cfg)
	})
}

var _ storage.ObjectStore = (*Store)(nil)

// Store is an S3-backed ObjectStore.
type Store struct {
	client  *awss3.Client
	presign *awss3.PresignClient
	bucket  string
	now     func() time.Time
}

// NewStore loads AWS configuration and creates a Store for cfg.Bucket.
// Static keys take precedence over the default credential chain.
func NewStore(ctx context.Context, cfg storage.Config) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	return NewFromConfig(awsCfg, cfg), nil
}

// NewFromConfig creates a Store from an already loaded aws.Config.
func NewFromConfig(awsCfg aws.Config, cfg storage.Config) *Store {
	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	})
	return &Store{
		client:  client,
		presign: awss3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		now:     time.Now,
	}
}

// Put uploads body. Bodies that are not io.Seeker are streamed with an
// unsigned payload, which S3 only accepts over TLS.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	in := &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("storage: s3 put %s: %w", key, err)
	}
	return nil
}

func (s *Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("storage: presign get %s: %w", key, err)
	}
	return req.URL, nil
}

func (s *Store) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (storage.Presigned, error) {
	issued := s.now()
	req, err := s.presign.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, awss3.WithPresignExpires(ttl))
	if err != nil {
		return storage.Presigned{}, fmt.Errorf("storage: presign put %s: %w", key, err)
	}
	method := req.Method
	if method == "" {
		method = http.MethodPut
	}
	return storage.Presigned{Key: key, URL: req.URL, Method: method, ExpiresAt: issued.Add(ttl)}, nil
}
