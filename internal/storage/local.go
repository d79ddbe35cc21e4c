package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
)

// PublicPrefix is the stable URL prefix local files are served from.
const PublicPrefix = "/uploads"

// Local stores artifacts on the filesystem under one subdirectory per
// category. URLs are stable paths under PublicPrefix.
type Local struct {
	root   string
	logger *slog.Logger
}

// NewLocal constructs a Local backend rooted at dir, creating it if needed.
func NewLocal(dir string, logger *slog.Logger) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create upload root: %v", ErrBackendUnavailable, err)
	}
	return &Local{root: dir, logger: logger}, nil
}

// Put persists the content under a fresh storage key.
func (l *Local) Put(ctx context.Context, category Category, originalFilename string, r io.Reader) (string, error) {
	key, err := NewKey(category, originalFilename)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(l.root, string(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create category dir: %v", ErrBackendUnavailable, err)
	}

	// O_EXCL: a key is written exactly once; concurrent uploads each hold
	// their own key so this never races in practice.
	f, err := os.OpenFile(filepath.Join(dir, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: create file: %v", ErrBackendUnavailable, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%w: write file: %v", ErrBackendUnavailable, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%w: close file: %v", ErrBackendUnavailable, err)
	}
	return key, nil
}

// ResolveURL returns the stable public path for a key. The path does not
// expire and needs no re-resolution.
func (l *Local) ResolveURL(_ context.Context, category Category, key string) (string, error) {
	if !category.Valid() {
		return "", ErrCategoryRejected
	}
	return path.Join(PublicPrefix, string(category), key), nil
}

// Delete removes a stored file. Deleting an absent key reports (false, nil);
// under a concurrent delete of the same key at most one caller sees true.
func (l *Local) Delete(_ context.Context, category Category, key string) (bool, error) {
	if !category.Valid() {
		return false, ErrCategoryRejected
	}
	err := os.Remove(filepath.Join(l.root, string(category), SanitizeFilename(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: remove file: %v", ErrBackendUnavailable, err)
	}
	return true, nil
}

var _ Backend = (*Local)(nil)
