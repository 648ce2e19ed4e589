package snapdb

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.etcd.io/bbolt"
)

var (
	snapshotBucket = []byte("snapshot")
	snapshotKey    = []byte("root")
)

// BoltStorage keeps the snapshot as a single value inside a Bolt database.
// Bolt gives the save path transactional replace semantics for free, which
// is useful when the snapshot shares a file with other application data.
type BoltStorage struct {
	bdb *bbolt.DB
}

func OpenBoltStorage(path string, opt Options) (*BoltStorage, error) {
	bopt := &bbolt.Options{
		Timeout: 10 * time.Second,
	}
	*bopt = *bbolt.DefaultOptions
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.InitialMmapSize = 1024 * 1024 * 64
		bopt.FreelistType = bbolt.FreelistMapType
	}

	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("snapdb: %w", err)
	}
	return NewBoltStorage(bdb), nil
}

func NewBoltStorage(bdb *bbolt.DB) *BoltStorage {
	return &BoltStorage{bdb: bdb}
}

func (s *BoltStorage) Bolt() *bbolt.DB {
	return s.bdb
}

func (s *BoltStorage) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		b := btx.Bucket(snapshotBucket)
		if b == nil {
			return ErrNotExist
		}
		v := b.Get(snapshotKey)
		if v == nil {
			return ErrNotExist
		}
		data = slices.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *BoltStorage) Save(ctx context.Context, data []byte) error {
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		b, err := btx.CreateBucketIfNotExists(snapshotBucket)
		if err != nil {
			return err
		}
		return b.Put(snapshotKey, data)
	})
}

func (s *BoltStorage) Close() error {
	return s.bdb.Close()
}
