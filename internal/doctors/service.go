package doctors

import (
	"context"

	"github.com/medicore/medicore/internal/shared"
)

// Service exposes doctor directory and profile operations.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Profile returns the doctor record for the given id.
func (s *Service) Profile(ctx context.Context, id int64) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

// Directory lists doctors for patient browsing.
func (s *Service) Directory(ctx context.Context, filter DirectoryFilter) ([]Doctor, shared.Pagination, error) {
	list, total, err := s.repo.ListDirectory(ctx, filter)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(filter.Page, filter.PerPage, total), nil
}

// SetAvailability updates the doctor's advertised availability. Callers
// validate the status value before reaching this point.
func (s *Service) SetAvailability(ctx context.Context, id int64, status string) error {
	return s.repo.UpdateAvailability(ctx, id, status)
}
