package snapdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotExist is returned by Storage.Load when no snapshot has been saved
// to the backing resource yet.
var ErrNotExist = errors.New("snapshot does not exist")

// Storage reads and writes the snapshot blob of a database. A Storage holds
// exactly one blob; Save replaces it in full.
type Storage interface {
	// Load returns the entire snapshot, or ErrNotExist if none has been saved.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the entire snapshot.
	Save(ctx context.Context, data []byte) error

	// Close releases the backing resource.
	Close() error
}

// openStorage picks a backend from the path:
//
//	:memory:                         ephemeral in-process storage
//	bolt:dir/file.db                 single key inside a Bolt database
//	s3://bucket/key                  S3 object (AWS config from the environment)
//	minio://endpoint/bucket/key      MinIO object (MINIO_* env credentials)
//	anything else                    plain file
func openStorage(ctx context.Context, path string, opt Options) (Storage, error) {
	switch {
	case path == InMemory:
		return NewMemoryStorage(), nil
	case strings.HasPrefix(path, "bolt:"):
		return OpenBoltStorage(strings.TrimPrefix(path, "bolt:"), opt)
	case strings.HasPrefix(path, "s3://"):
		bucket, key, ok := splitByte(strings.TrimPrefix(path, "s3://"), '/')
		if !ok || bucket == "" || key == "" {
			return nil, fmt.Errorf("snapdb: invalid S3 path %q, use s3://bucket/key", path)
		}
		return OpenS3Storage(ctx, bucket, key)
	case strings.HasPrefix(path, "minio://"):
		endpoint, rest, ok := splitByte(strings.TrimPrefix(path, "minio://"), '/')
		if !ok {
			return nil, fmt.Errorf("snapdb: invalid MinIO path %q, use minio://endpoint/bucket/key", path)
		}
		bucket, key, ok := splitByte(rest, '/')
		if !ok || endpoint == "" || bucket == "" || key == "" {
			return nil, fmt.Errorf("snapdb: invalid MinIO path %q, use minio://endpoint/bucket/key", path)
		}
		return OpenMinioStorageEnv(endpoint, bucket, key)
	default:
		return NewFileStorage(path), nil
	}
}
