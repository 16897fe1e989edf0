package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore writes uploads to a directory served by the router under
// /static.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(ctx context.Context, name string, contentType string, size int64, r io.Reader) (string, error) {
	dst := filepath.Join(s.dir, filepath.Base(name))
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("writing upload file: %w", err)
	}

	return "/static/" + filepath.Base(name), nil
}
