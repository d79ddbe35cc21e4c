package feedback

import (
	"context"
	"io"
	"log/slog"

	"github.com/medicore/medicore/internal/shared"
	"github.com/medicore/medicore/internal/storage"
)

// Service exposes feedback submission and administrative listing.
type Service struct {
	repo    Repository
	uploads *storage.Pipeline
	logger  *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, uploads *storage.Pipeline, logger *slog.Logger) *Service {
	return &Service{repo: repo, uploads: uploads, logger: logger}
}

// Submit records patient feedback. When video is non-nil its bytes pass
// through the upload pipeline under the video category first.
func (s *Service) Submit(ctx context.Context, draft Draft, videoName string, video io.Reader) (*Entry, error) {
	if video != nil {
		key, err := s.uploads.Accept(ctx, storage.CategoryVideo, videoName, video)
		if err != nil {
			return nil, err
		}
		draft.VideoKey = key
	}

	entry, err := s.repo.Create(ctx, draft)
	if err != nil {
		if draft.VideoKey != "" {
			if _, rmErr := s.uploads.Remove(ctx, storage.CategoryVideo, draft.VideoKey); rmErr != nil {
				s.logger.Warn("orphaned feedback video", slog.Any("error", rmErr), slog.String("key", draft.VideoKey))
			}
		}
		return nil, err
	}
	return entry, nil
}

// List returns feedback entries for administrative review.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Entry, shared.Pagination, error) {
	pagination := shared.NewPagination(page, perPage, 0)
	list, total, err := s.repo.List(ctx, pagination)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, perPage, total), nil
}

// VideoURL resolves a URL for an entry's video. Entries without videos
// resolve to the empty string.
func (s *Service) VideoURL(ctx context.Context, entry Entry) (string, error) {
	if entry.VideoKey == "" {
		return "", nil
	}
	return s.uploads.Resolve(ctx, storage.CategoryVideo, entry.VideoKey)
}
