package snapdb

import (
	"context"
	"fmt"
	"os"
)

// FileStorage keeps the snapshot in a single file, replaced atomically on
// every save via a temp file and rename.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path}
}

func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return data, nil
}

func (s *FileStorage) Save(ctx context.Context, data []byte) error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0666); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func (s *FileStorage) Close() error {
	return nil
}
