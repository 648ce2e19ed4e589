package snapdb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage keeps the snapshot as a single object on a MinIO (or any
// S3-compatible) server, using the native MinIO client.
type MinioStorage struct {
	client *minio.Client
	bucket string
	key    string
}

func OpenMinioStorage(endpoint, accessKey, secretKey string, secure bool, bucket, key string) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("snapdb: connecting to MinIO at %s: %w", endpoint, err)
	}
	return NewMinioStorage(client, bucket, key), nil
}

// OpenMinioStorageEnv reads credentials from MINIO_ACCESS_KEY,
// MINIO_SECRET_KEY and MINIO_SECURE.
func OpenMinioStorageEnv(endpoint, bucket, key string) (*MinioStorage, error) {
	return OpenMinioStorage(
		endpoint,
		os.Getenv("MINIO_ACCESS_KEY"),
		os.Getenv("MINIO_SECRET_KEY"),
		os.Getenv("MINIO_SECURE") == "true",
		bucket, key)
}

func NewMinioStorage(client *minio.Client, bucket, key string) *MinioStorage {
	return &MinioStorage{client: client, bucket: bucket, key: key}
}

func (s *MinioStorage) Load(ctx context.Context) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("loading snapshot from minio %s/%s: %w", s.bucket, s.key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("loading snapshot from minio %s/%s: %w", s.bucket, s.key, err)
	}
	return data, nil
}

func (s *MinioStorage) Save(ctx context.Context, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("saving snapshot to minio %s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

func (s *MinioStorage) Close() error {
	return nil
}

// Exists reports whether a snapshot object is present without fetching it.
func (s *MinioStorage) Exists(ctx context.Context) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, s.key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" || errResp.Code == "NoSuchBucket" {
			return false, nil
		}
		return false, fmt.Errorf("checking snapshot at minio %s/%s: %w", s.bucket, s.key, err)
	}
	return true, nil
}
