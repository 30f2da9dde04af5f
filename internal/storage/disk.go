package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DiskStore keeps images as files in a single directory.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(ctx context.Context, upload *Upload) (string, error) {
	key := NewKey(upload.ContentType)
	if err := os.WriteFile(filepath.Join(s.dir, key), upload.Data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return key, nil
}

func (s *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if rc, ok := openPlaceholder(key); ok {
		return rc, ContentTypeOf(key), nil
	}
	if !validKey(key) {
		return nil, "", ErrInvalidKey
	}
	f, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	return f, ContentTypeOf(key), nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	if IsDefault(key) {
		return nil
	}
	if !validKey(key) {
		return ErrInvalidKey
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
