package reports

import (
	"context"
	"io"
	"log/slog"

	"github.com/medicore/medicore/internal/storage"
)

// Service exposes report filing, lookup and deletion, delegating attachment
// handling to the storage pipeline.
type Service struct {
	repo    Repository
	uploads *storage.Pipeline
	logger  *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, uploads *storage.Pipeline, logger *slog.Logger) *Service {
	return &Service{repo: repo, uploads: uploads, logger: logger}
}

// File records a new report. When attachment is non-nil its bytes pass
// through the upload pipeline first; a rejected attachment fails the whole
// operation so no orphan rows are written.
func (s *Service) File(ctx context.Context, draft Draft, attachmentName string, attachment io.Reader) (*Report, error) {
	if attachment != nil {
		key, err := s.uploads.Accept(ctx, storage.CategoryDocument, attachmentName, attachment)
		if err != nil {
			return nil, err
		}
		draft.FileKey = key
	}

	rep, err := s.repo.Create(ctx, draft)
	if err != nil {
		if draft.FileKey != "" {
			// Row never landed, drop the stored object again.
			if _, rmErr := s.uploads.Remove(ctx, storage.CategoryDocument, draft.FileKey); rmErr != nil {
				s.logger.Warn("orphaned report attachment", slog.Any("error", rmErr), slog.String("key", draft.FileKey))
			}
		}
		return nil, err
	}
	return rep, nil
}

// MineForPatient lists the patient's reports.
func (s *Service) MineForPatient(ctx context.Context, patientID int64) ([]Report, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// FiledByDoctor lists reports the doctor has filed.
func (s *Service) FiledByDoctor(ctx context.Context, doctorID int64) ([]Report, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

// AttachmentURL resolves a short-lived or static URL for a report's
// attachment. Reports without attachments resolve to the empty string.
func (s *Service) AttachmentURL(ctx context.Context, rep Report) (string, error) {
	if rep.FileKey == "" {
		return "", nil
	}
	return s.uploads.Resolve(ctx, storage.CategoryDocument, rep.FileKey)
}

// Delete removes a report owned by the doctor and its stored attachment.
// Attachment deletion is idempotent; a file already gone is not an error.
func (s *Service) Delete(ctx context.Context, id, doctorID int64) error {
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, doctorID); err != nil {
		return err
	}
	if rep.FileKey != "" {
		if _, err := s.uploads.Remove(ctx, storage.CategoryDocument, rep.FileKey); err != nil {
			s.logger.Warn("delete report attachment", slog.Any("error", err), slog.String("key", rep.FileKey))
		}
	}
	return nil
}
