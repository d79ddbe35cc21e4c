// Package storage persists clinical file attachments behind a backend
// abstraction. The backend is chosen once at process start from
// configuration; stored references carry no backend flag of their own.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrCategoryRejected indicates an upload under an unknown category.
	ErrCategoryRejected = errors.New("category not allowed")
	// ErrExtensionRejected indicates an extension outside the category's allow-list.
	ErrExtensionRejected = errors.New("file extension not allowed")
	// ErrPayloadTooLarge indicates an upload over the configured size cap.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrBackendUnavailable indicates a transient storage failure; callers may retry.
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)

// Category is a named class of uploaded artifact with its own extension
// allow-list.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryDocument Category = "document"
	CategoryVideo    Category = "video"
)

var allowedExtensions = map[Category]map[string]struct{}{
	CategoryImage:    {"png": {}, "jpg": {}, "jpeg": {}, "gif": {}},
	CategoryDocument: {"pdf": {}, "doc": {}, "docx": {}},
	CategoryVideo:    {"mp4": {}, "avi": {}, "mov": {}},
}

// Valid reports whether the category is configured.
func (c Category) Valid() bool {
	_, ok := allowedExtensions[c]
	return ok
}

// AllowsExtension checks the filename's extension against the category's
// allow-list, case-insensitively.
func (c Category) AllowsExtension(filename string) bool {
	exts, ok := allowedExtensions[c]
	if !ok {
		return false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok = exts[ext]
	return ok
}

// Backend persists raw bytes under a category and returns an opaque, stable
// storage key. Implementations must be safe for concurrent use; two
// simultaneous puts never share a key because every key embeds a fresh
// random identifier.
type Backend interface {
	// Put validates category and extension, persists the content and
	// returns the storage key.
	Put(ctx context.Context, category Category, originalFilename string, r io.Reader) (string, error)
	// ResolveURL returns a retrievable URL for a stored key. Object-store
	// URLs are time limited and must be re-resolved after expiry.
	ResolveURL(ctx context.Context, category Category, key string) (string, error)
	// Delete removes a stored file. Removing an absent key is not an
	// error: it returns (false, nil).
	Delete(ctx context.Context, category Category, key string) (bool, error)
}
