package feedback_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medicore/medicore/internal/feedback"
	"github.com/medicore/medicore/internal/shared"
	"github.com/medicore/medicore/internal/storage"
	_ "github.com/medicore/medicore/testing"
)

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	items  []*feedback.Entry
}

func (m *memoryRepo) Create(_ context.Context, draft feedback.Draft) (*feedback.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	entry := &feedback.Entry{
		ID:        m.nextID,
		PatientID: draft.PatientID,
		Rating:    draft.Rating,
		Comments:  draft.Comments,
		VideoKey:  draft.VideoKey,
	}
	m.items = append(m.items, entry)
	return entry, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*feedback.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.items {
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryRepo) List(_ context.Context, page shared.Pagination) ([]feedback.Entry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]feedback.Entry, 0, len(m.items))
	for _, entry := range m.items {
		result = append(result, *entry)
	}
	return result, len(result), nil
}

func newService(t *testing.T) (*feedback.Service, *memoryRepo, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend, err := storage.NewLocal(dir, logger)
	require.NoError(t, err)
	repo := &memoryRepo{}
	return feedback.NewService(repo, storage.NewPipeline(backend, 1<<20), logger), repo, dir
}

func TestSubmitWithVideo(t *testing.T) {
	service, _, dir := newService(t)

	entry, err := service.Submit(context.Background(), feedback.Draft{
		PatientID: 7,
		Rating:    5,
		Comments:  "great visit",
	}, "review.mp4", strings.NewReader("fake mp4 bytes"))
	require.NoError(t, err)
	require.NotEmpty(t, entry.VideoKey)

	_, err = os.Stat(filepath.Join(dir, "video", entry.VideoKey))
	require.NoError(t, err)

	url, err := service.VideoURL(context.Background(), *entry)
	require.NoError(t, err)
	require.Equal(t, "/uploads/video/"+entry.VideoKey, url)
}

func TestSubmitRejectsNonVideoUpload(t *testing.T) {
	service, repo, _ := newService(t)

	_, err := service.Submit(context.Background(), feedback.Draft{
		PatientID: 7,
		Rating:    3,
	}, "review.pdf", strings.NewReader("%PDF"))
	require.ErrorIs(t, err, storage.ErrExtensionRejected)
	require.Empty(t, repo.items)
}

func TestSubmitWithoutVideo(t *testing.T) {
	service, _, _ := newService(t)

	entry, err := service.Submit(context.Background(), feedback.Draft{
		PatientID: 7,
		Rating:    4,
		Comments:  "fine",
	}, "", nil)
	require.NoError(t, err)
	require.Empty(t, entry.VideoKey)

	url, err := service.VideoURL(context.Background(), *entry)
	require.NoError(t, err)
	require.Empty(t, url)
}
