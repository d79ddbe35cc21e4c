package reports_test

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

	"github.com/medicore/medicore/internal/reports"
	"github.com/medicore/medicore/internal/shared"
	"github.com/medicore/medicore/internal/storage"
	_ "github.com/medicore/medicore/testing"
)

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*reports.Report
	failOn string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[int64]*reports.Report{}}
}

func (m *memoryRepo) Create(_ context.Context, draft reports.Draft) (*reports.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "create" {
		return nil, context.DeadlineExceeded
	}
	m.nextID++
	rep := &reports.Report{
		ID:          m.nextID,
		PatientID:   draft.PatientID,
		DoctorID:    draft.DoctorID,
		Title:       draft.Title,
		ReportType:  draft.ReportType,
		Description: draft.Description,
		FileKey:     draft.FileKey,
	}
	m.items[rep.ID] = rep
	return rep, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*reports.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return rep, nil
}

func (m *memoryRepo) ListByPatient(_ context.Context, patientID int64) ([]reports.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []reports.Report
	for _, rep := range m.items {
		if rep.PatientID == patientID {
			result = append(result, *rep)
		}
	}
	return result, nil
}

func (m *memoryRepo) ListByDoctor(_ context.Context, doctorID int64) ([]reports.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []reports.Report
	for _, rep := range m.items {
		if rep.DoctorID == doctorID {
			result = append(result, *rep)
		}
	}
	return result, nil
}

func (m *memoryRepo) Delete(_ context.Context, id, doctorID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, ok := m.items[id]
	if !ok || rep.DoctorID != doctorID {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func newService(t *testing.T, repo reports.Repository) (*reports.Service, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend, err := storage.NewLocal(dir, logger)
	require.NoError(t, err)
	return reports.NewService(repo, storage.NewPipeline(backend, 1<<20), logger), dir
}

func TestFileReportWithAttachment(t *testing.T) {
	repo := newMemoryRepo()
	service, dir := newService(t, repo)

	rep, err := service.File(context.Background(), reports.Draft{
		PatientID:  1,
		DoctorID:   2,
		Title:      "Blood Panel",
		ReportType: "lab",
	}, "panel.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NotEmpty(t, rep.FileKey)

	// The attachment landed under the document category on disk.
	_, err = os.Stat(filepath.Join(dir, "document", rep.FileKey))
	require.NoError(t, err)

	url, err := service.AttachmentURL(context.Background(), *rep)
	require.NoError(t, err)
	require.Equal(t, "/uploads/document/"+rep.FileKey, url)
}

func TestFileReportRejectsWrongExtension(t *testing.T) {
	repo := newMemoryRepo()
	service, _ := newService(t, repo)

	_, err := service.File(context.Background(), reports.Draft{
		PatientID:  1,
		DoctorID:   2,
		Title:      "Screenshot",
		ReportType: "lab",
	}, "scan.exe", strings.NewReader("MZ"))
	require.ErrorIs(t, err, storage.ErrExtensionRejected)
	require.Empty(t, repo.items)
}

func TestFileReportCleansUpWhenRowFails(t *testing.T) {
	repo := newMemoryRepo()
	repo.failOn = "create"
	service, dir := newService(t, repo)

	_, err := service.File(context.Background(), reports.Draft{
		PatientID:  1,
		DoctorID:   2,
		Title:      "Blood Panel",
		ReportType: "lab",
	}, "panel.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.Error(t, err)

	// No stored file should survive the failed insert.
	entries, err := os.ReadDir(filepath.Join(dir, "document"))
	if err == nil {
		require.Empty(t, entries)
	}
}

func TestDeleteRemovesAttachmentIdempotently(t *testing.T) {
	repo := newMemoryRepo()
	service, dir := newService(t, repo)

	rep, err := service.File(context.Background(), reports.Draft{
		PatientID:  1,
		DoctorID:   2,
		Title:      "Blood Panel",
		ReportType: "lab",
	}, "panel.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), rep.ID, 2))
	_, err = os.Stat(filepath.Join(dir, "document", rep.FileKey))
	require.True(t, os.IsNotExist(err))

	// Deleting again reports not found for the row, not a storage error.
	err = service.Delete(context.Background(), rep.ID, 2)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteScopedToOwningDoctor(t *testing.T) {
	repo := newMemoryRepo()
	service, _ := newService(t, repo)

	rep, err := service.File(context.Background(), reports.Draft{
		PatientID:  1,
		DoctorID:   2,
		Title:      "Blood Panel",
		ReportType: "lab",
	}, "", nil)
	require.NoError(t, err)

	err = service.Delete(context.Background(), rep.ID, 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
