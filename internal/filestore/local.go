package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore implements FileStore on the local filesystem: one directory per
// company under a configurable root, payloads named by their storage keys.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload root %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

func (l *LocalStore) Write(ctx context.Context, companyID, key string, content []byte, contentType string) (WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return WriteResult{}, err
	}

	// MkdirAll succeeds when the directory already exists, so two first-time
	// uploads for the same company can race here safely.
	dir := filepath.Join(l.root, companyID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return WriteResult{}, fmt.Errorf("failed to provision directory for company %s: %w", companyID, err)
	}

	path := filepath.Join(dir, key)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return WriteResult{}, fmt.Errorf("failed to write %s: %w", key, err)
	}

	// Confirm the on-disk size instead of trusting the input length.
	info, err := os.Stat(path)
	if err != nil {
		return WriteResult{}, fmt.Errorf("failed to stat %s after write: %w", key, err)
	}

	return WriteResult{Path: path, Size: info.Size()}, nil
}

func (l *LocalStore) OpenStream(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, path)
	}
	return f, nil
}

func (l *LocalStore) Remove(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return true, nil
}
