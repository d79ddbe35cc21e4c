package admin

import (
	"context"
	"log/slog"

	"github.com/medicore/medicore/internal/shared"
)

// Service exposes the administrative dashboard operations.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
}

// NewService constructs a Service. cache may be nil.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Statistics returns platform counts, served from cache when fresh.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	var stats Statistics
	err := s.cache.FetchJSON(ctx, statisticsCacheKey, &stats, func(ctx context.Context) (interface{}, error) {
		return s.repo.CollectStatistics(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Patients pages through patient accounts, optionally filtered by a name or
// email fragment.
func (s *Service) Patients(ctx context.Context, query string, page, perPage int) ([]PatientSummary, shared.Pagination, error) {
	list, total, err := s.repo.ListPatients(ctx, query, shared.NewPagination(page, perPage, 0))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, perPage, total), nil
}

// Doctors pages through doctor accounts.
func (s *Service) Doctors(ctx context.Context, page, perPage int) ([]DoctorSummary, shared.Pagination, error) {
	list, total, err := s.repo.ListDoctors(ctx, shared.NewPagination(page, perPage, 0))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, perPage, total), nil
}

// Appointments pages through appointments platform-wide.
func (s *Service) Appointments(ctx context.Context, page, perPage int) ([]AppointmentSummary, shared.Pagination, error) {
	list, total, err := s.repo.ListAppointments(ctx, shared.NewPagination(page, perPage, 0))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, perPage, total), nil
}

// SetDoctorStatus overrides a doctor's availability and drops the cached
// dashboard so the change is visible immediately.
func (s *Service) SetDoctorStatus(ctx context.Context, doctorID int64, status string) error {
	if err := s.repo.UpdateDoctorStatus(ctx, doctorID, status); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, statisticsCacheKey); err != nil {
		s.logger.Warn("invalidate statistics cache", slog.Any("error", err))
	}
	return nil
}
