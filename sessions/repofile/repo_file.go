package repofile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/jrsteele09/squadhub/sessions"
)

var _ sessions.Repo = (*FileRepo)(nil)

// FileRepo keeps one JSON file per key inside dir.
type FileRepo struct {
	dir  string
	lock sync.RWMutex
}

func New(dir string) (*FileRepo, error) {
	if dir == "" {
		return nil, fmt.Errorf("[repofile New] dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("[repofile New] %w", err)
	}
	return &FileRepo{dir: dir}, nil
}

func (r *FileRepo) Get(_ context.Context, key string) ([]byte, error) {
	path, err := r.path(key)
	if err != nil {
		return nil, err
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[repofile Get] %w", err)
	}
	return data, nil
}

// Set replaces the file atomically via a temp file and rename.
func (r *FileRepo) Set(_ context.Context, key string, value []byte) error {
	path, err := r.path(key)
	if err != nil {
		return err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	tmp, err := os.CreateTemp(r.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("[repofile Set] %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("[repofile Set] %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("[repofile Set] %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[repofile Set] %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("[repofile Set] %w", err)
	}
	return nil
}

func (r *FileRepo) Delete(_ context.Context, key string) error {
	path, err := r.path(key)
	if err != nil {
		return err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("[repofile Delete] %w", err)
	}
	return nil
}

func (r *FileRepo) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("[repofile] invalid key %q", key)
	}
	return filepath.Join(r.dir, key+".json"), nil
}
