package snapdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Storage keeps the snapshot as a single S3 object.
type S3Storage struct {
	client *s3.Client
	bucket string
	key    string
}

// OpenS3Storage builds a client from the default AWS config chain
// (environment, shared config, instance role).
func OpenS3Storage(ctx context.Context, bucket, key string) (*S3Storage, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapdb: loading AWS config: %w", err)
	}
	return NewS3Storage(s3.NewFromConfig(cfg), bucket, key), nil
}

func NewS3Storage(client *s3.Client, bucket, key string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, key: key}
}

func (s *S3Storage) Load(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("loading snapshot from s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot from s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return data, nil
}

func (s *S3Storage) Save(ctx context.Context, data []byte) error {
	uploader := manager.NewUploader(s.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("saving snapshot to s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

func (s *S3Storage) Close() error {
	return nil
}

// Exists reports whether a snapshot object is present without fetching it.
func (s *S3Storage) Exists(ctx context.Context) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking snapshot at s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return true, nil
}
