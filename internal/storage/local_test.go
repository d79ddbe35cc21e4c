package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalBackend(t *testing.T) *Local {
	t.Helper()
	backend, err := NewLocal(t.TempDir(), nil)
	require.NoError(t, err)
	return backend
}

func TestLocalPutResolveDelete(t *testing.T) {
	backend := newLocalBackend(t)
	ctx := context.Background()

	key, err := backend.Put(ctx, CategoryDocument, "scan.pdf", strings.NewReader("%PDF-1.4 test"))
	require.NoError(t, err)
	require.NotEmpty(t, key)

	data, err := os.ReadFile(filepath.Join(backend.root, "document", key))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))

	url, err := backend.ResolveURL(ctx, CategoryDocument, key)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/document/"+key, url)

	removed, err := backend.Delete(ctx, CategoryDocument, key)
	require.NoError(t, err)
	assert.True(t, removed)

	// Second delete of the same key is an idempotent no-op.
	removed, err = backend.Delete(ctx, CategoryDocument, key)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestLocalPutRejectsBadUploads(t *testing.T) {
	backend := newLocalBackend(t)
	ctx := context.Background()

	_, err := backend.Put(ctx, Category("archive"), "scan.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrCategoryRejected)

	_, err = backend.Put(ctx, CategoryDocument, "tool.exe", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrExtensionRejected)
}

func TestLocalPutTraversalSafe(t *testing.T) {
	backend := newLocalBackend(t)
	ctx := context.Background()

	key, err := backend.Put(ctx, CategoryDocument, "../../outside.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotContains(t, key, "/")
	assert.NotContains(t, key, "..")

	// The file landed inside the category directory, nowhere else.
	_, err = os.Stat(filepath.Join(backend.root, "document", key))
	require.NoError(t, err)
}

func TestLocalConcurrentPutsNeverCollide(t *testing.T) {
	backend := newLocalBackend(t)
	ctx := context.Background()

	const n = 32
	keys := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key, err := backend.Put(ctx, CategoryImage, "same-name.png", strings.NewReader("pixels"))
			require.NoError(t, err)
			keys[i] = key
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, key := range keys {
		_, dup := seen[key]
		require.False(t, dup, "duplicate storage key %s", key)
		seen[key] = struct{}{}
	}
}

func TestLocalConcurrentDeleteAtMostOneTrue(t *testing.T) {
	backend := newLocalBackend(t)
	ctx := context.Background()

	key, err := backend.Put(ctx, CategoryDocument, "scan.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	const n = 8
	results := make([]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			removed, err := backend.Delete(ctx, CategoryDocument, key)
			require.NoError(t, err)
			results[i] = removed
		}(i)
	}
	wg.Wait()

	trues := 0
	for _, removed := range results {
		if removed {
			trues++
		}
	}
	assert.Equal(t, 1, trues, "exactly one concurrent delete should report removal")
}
