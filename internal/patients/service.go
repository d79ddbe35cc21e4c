package patients

import "context"

// Service handles patient profile business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Profile returns the patient's own record.
func (s *Service) Profile(ctx context.Context, patientID int64) (*Patient, error) {
	return s.repo.GetByID(ctx, patientID)
}

// UpdateProfile applies the patient's own changes.
func (s *Service) UpdateProfile(ctx context.Context, patientID int64, update ProfileUpdate) error {
	return s.repo.UpdateProfile(ctx, patientID, update)
}
