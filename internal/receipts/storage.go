package receipts

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage persists uploaded receipt images.
type Storage interface {
	Save(name string, data []byte) (string, error)
	Delete(path string) error
}

type diskStorage struct {
	dir string
}

// NewDiskStorage stores uploads under dir, creating it if needed.
func NewDiskStorage(dir string) (Storage, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &diskStorage{dir: dir}, nil
}

func (s *diskStorage) Save(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return path, nil
}

func (s *diskStorage) Delete(path string) error {
	return os.Remove(path)
}
