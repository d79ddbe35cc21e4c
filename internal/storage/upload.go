package storage

import (
	"bytes"
	"context"
	"io"
)

// Pipeline validates uploads before any bytes reach the storage backend:
// category, extension and payload size are all checked up front.
type Pipeline struct {
	backend  Backend
	maxBytes int64
}

// NewPipeline constructs a Pipeline with the configured payload cap.
func NewPipeline(backend Backend, maxBytes int64) *Pipeline {
	return &Pipeline{backend: backend, maxBytes: maxBytes}
}

// MaxBytes reports the configured payload cap.
func (p *Pipeline) MaxBytes() int64 { return p.maxBytes }

// Accept validates the declared category and the file's extension, enforces
// the payload cap, and delegates to the backend. Oversized payloads are
// rejected without a backend call.
func (p *Pipeline) Accept(ctx context.Context, category Category, filename string, r io.Reader) (string, error) {
	if !category.Valid() {
		return "", ErrCategoryRejected
	}
	if !category.AllowsExtension(filename) {
		return "", ErrExtensionRejected
	}

	// Buffer through a limited reader so a lying Content-Length cannot
	// sneak extra bytes past the cap.
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, p.maxBytes+1))
	if err != nil {
		return "", err
	}
	if n > p.maxBytes {
		return "", ErrPayloadTooLarge
	}

	return p.backend.Put(ctx, category, filename, &buf)
}

// Resolve delegates URL resolution to the backend.
func (p *Pipeline) Resolve(ctx context.Context, category Category, key string) (string, error) {
	return p.backend.ResolveURL(ctx, category, key)
}

// Remove delegates deletion to the backend; absence is not an error.
func (p *Pipeline) Remove(ctx context.Context, category Category, key string) (bool, error) {
	return p.backend.Delete(ctx, category, key)
}
