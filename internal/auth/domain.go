package auth

import (
	"time"

	"github.com/medicore/medicore/internal/shared"
)

// TokenKind distinguishes access tokens from refresh tokens. Presenting one
// kind where the other is required is a verification failure.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Account is the credential-bearing record for one principal. The ID is
// unique only within the account's role namespace.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         shared.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenPair is the access/refresh pair issued together at login and
// registration.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// PatientRegistration carries the fields required to create a patient account.
type PatientRegistration struct {
	FirstName     string
	LastName      string
	Email         string
	Password      string
	DateOfBirth   time.Time
	ContactNumber string
}

// DoctorRegistration carries the fields required to create a doctor account.
type DoctorRegistration struct {
	FirstName        string
	LastName         string
	Email            string
	Password         string
	Specialization   string
	ContactNumber    string
	ConsultationFees float64
}
