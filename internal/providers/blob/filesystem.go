package blob

import (
	"context"
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type FilesystemStore struct {
	root string
}

func NewFilesystem(root string) (*FilesystemStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FilesystemStore{root: root}, nil
}

func (s *FilesystemStore) Put(ctx context.Context, content io.Reader) (string, int64, error) {
	key := ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String()

	// Two-level fanout keeps directories small.
	dir := filepath.Join(s.root, key[:2])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, err
	}

	path := filepath.Join(dir, key)
	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	written, err := io.Copy(f, content)
	if err != nil {
		_ = os.Remove(path)
		return "", 0, err
	}
	return key, written, nil
}

func (s *FilesystemStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *FilesystemStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FilesystemStore) path(key string) (string, error) {
	key = strings.TrimSpace(key)
	if len(key) < 2 || strings.ContainsAny(key, "/\\.") {
		return "", ErrNotFound
	}
	return filepath.Join(s.root, key[:2], key), nil
}
