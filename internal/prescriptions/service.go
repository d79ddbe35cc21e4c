package prescriptions

import "context"

// Service exposes prescribing and lookup operations.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Prescribe records a new prescription issued by a doctor.
func (s *Service) Prescribe(ctx context.Context, draft Draft) (*Prescription, error) {
	return s.repo.Create(ctx, draft)
}

// MineForPatient lists the patient's own prescriptions.
func (s *Service) MineForPatient(ctx context.Context, patientID int64) ([]Prescription, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// IssuedByDoctor lists prescriptions the doctor has written.
func (s *Service) IssuedByDoctor(ctx context.Context, doctorID int64) ([]Prescription, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}
