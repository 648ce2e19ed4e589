package snapdb

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
)

// InMemory can be passed to Open as the path to get a database backed by
// transient in-process storage.
const InMemory = ":memory:"

// DB owns one value tree, loaded from a snapshot at Open and persisted as
// a whole by Commit. All access is expected to happen from a single
// goroutine; nothing here locks.
type DB struct {
	root     Value
	storage  Storage
	path     string
	logf     func(format string, args ...any)
	verbose  bool
	compress bool

	lastSize    atomic.Int64
	ReadCount   atomic.Uint64
	WriteCount  atomic.Uint64
	CommitCount atomic.Uint64
}

type Options struct {
	Logf      func(format string, args ...any)
	Verbose   bool
	IsTesting bool
	Compress  bool

	// Storage overrides the backend picked from the path.
	Storage Storage
}

// Open loads the full snapshot at path into memory, or starts with an
// empty tree when no snapshot exists yet. A snapshot that exists but fails
// to decode is fatal. See openStorage for the recognized path forms.
func Open(path string, opt Options) (*DB, error) {
	ctx := context.Background()

	stor := opt.Storage
	ownedStorage := stor == nil
	if stor == nil {
		var err error
		stor, err = openStorage(ctx, path, opt)
		if err != nil {
			return nil, err
		}
	}

	db := &DB{
		root:     NewObject(),
		storage:  stor,
		path:     path,
		logf:     opt.Logf,
		verbose:  opt.Verbose,
		compress: opt.Compress,
	}
	if db.logf == nil {
		db.logf = log.Printf
	}

	data, err := stor.Load(ctx)
	switch {
	case err == nil:
		root, err := decodeSnapshot(data)
		if err != nil {
			if ownedStorage {
				stor.Close()
			}
			return nil, fmt.Errorf("snapdb: opening %s: %w", path, err)
		}
		db.root = root
		db.lastSize.Store(int64(len(data)))
		if db.verbose {
			db.logf("db: OPEN %s (%d bytes)", path, len(data))
		}
	case errors.Is(err, ErrNotExist):
		if db.verbose {
			db.logf("db: OPEN.EMPTY %s", path)
		}
	default:
		if ownedStorage {
			stor.Close()
		}
		return nil, fmt.Errorf("snapdb: opening %s: %w", path, err)
	}
	return db, nil
}

// Root returns the in-memory tree. The tree is held by reference; mutating
// it bypasses the Set tracing but is otherwise equivalent.
func (db *DB) Root() Value {
	return db.root
}

func (db *DB) Storage() Storage {
	return db.storage
}

// Size returns the byte size of the most recently loaded or committed
// snapshot.
func (db *DB) Size() int64 {
	return db.lastSize.Load()
}

// Get resolves a dot-path against the tree. Missing paths and paths
// crossing scalars yield the absent marker, as does a path resolving to an
// object with no keys.
func (db *DB) Get(path string) Value {
	v := treeGet(db.root, path)
	db.ReadCount.Add(1)
	if db.verbose {
		if v.IsAbsent() {
			db.logf("db: GET.NOTFOUND %s", path)
		} else {
			db.logf("db: GET %s => %s", path, loggableValue(v))
		}
	}
	return v
}

// GetOr is Get with a fallback for the absent result.
func (db *DB) GetOr(path string, def Value) Value {
	v := db.Get(path)
	if v.IsAbsent() {
		return def
	}
	return v
}

// Set assigns v at path. When the parent of the final segment is not an
// existing object, Set silently does nothing; missing intermediates are
// never created. Assigning the absent marker makes the path unreadable
// without structurally removing the key.
func (db *DB) Set(path string, v Value) {
	ok := treeSet(db.root, path, v)
	db.WriteCount.Add(1)
	if db.verbose {
		if ok {
			db.logf("db: SET %s => %s", path, loggableValue(v))
		} else {
			db.logf("db: SET.NOOP %s", path)
		}
	}
}

// Commit encodes the entire tree and replaces the stored snapshot.
// Mutations made since the previous Commit are lost if the process dies
// before the next one.
func (db *DB) Commit() error {
	return db.CommitContext(context.Background())
}

func (db *DB) CommitContext(ctx context.Context) error {
	data := encodeSnapshot(db.root, db.compress)
	if err := db.storage.Save(ctx, data); err != nil {
		return fmt.Errorf("snapdb: committing %s: %w", db.path, err)
	}
	db.lastSize.Store(int64(len(data)))
	db.CommitCount.Add(1)
	if db.verbose {
		db.logf("db: COMMIT %s (%d bytes)", db.path, len(data))
	}
	return nil
}

func (db *DB) Close() {
	err := db.storage.Close()
	if err != nil {
		panic(fmt.Errorf("snapdb: closing: %w", err))
	}
}
