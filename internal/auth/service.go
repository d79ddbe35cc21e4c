package auth

import (
	"context"

	"github.com/medicore/medicore/internal/shared"
)

// Service wraps authentication business rules: credential verification and
// role-scoped token issuance.
type Service struct {
	repo   Repository
	tokens *TokenService
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenService) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login validates email/password credentials for the requested role and
// issues a token pair. Unknown email and wrong password are deliberately
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, role shared.Role, email, password string) (TokenPair, error) {
	account, err := s.repo.FindByEmail(ctx, role, email)
	if err != nil {
		return TokenPair{}, shared.ErrInvalidCredentials
	}
	if !VerifyPassword(account.PasswordHash, password) {
		return TokenPair{}, shared.ErrInvalidCredentials
	}
	return s.tokens.Issue(account.ID, role)
}

// RegisterPatient creates a patient account and issues its first token pair.
func (s *Service) RegisterPatient(ctx context.Context, reg PatientRegistration) (TokenPair, int64, error) {
	hash, err := HashPassword(reg.Password)
	if err != nil {
		return TokenPair{}, 0, err
	}
	id, err := s.repo.CreatePatient(ctx, reg, hash)
	if err != nil {
		return TokenPair{}, 0, err
	}
	pair, err := s.tokens.Issue(id, shared.RolePatient)
	return pair, id, err
}

// RegisterDoctor creates a doctor account and issues its first token pair.
func (s *Service) RegisterDoctor(ctx context.Context, reg DoctorRegistration) (TokenPair, int64, error) {
	hash, err := HashPassword(reg.Password)
	if err != nil {
		return TokenPair{}, 0, err
	}
	id, err := s.repo.CreateDoctor(ctx, reg, hash)
	if err != nil {
		return TokenPair{}, 0, err
	}
	pair, err := s.tokens.Issue(id, shared.RoleDoctor)
	return pair, id, err
}

// Refresh exchanges a refresh token for a new access token.
func (s *Service) Refresh(refreshToken string) (string, error) {
	return s.tokens.Refresh(refreshToken)
}
