package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/medicore/internal/shared"
)

// Repository defines principal lookup and creation for the auth module.
// Lookups are scoped by role: each role has its own table and id namespace.
type Repository interface {
	FindByEmail(ctx context.Context, role shared.Role, email string) (*Account, error)
	CreatePatient(ctx context.Context, reg PatientRegistration, passwordHash string) (int64, error)
	CreateDoctor(ctx context.Context, reg DoctorRegistration, passwordHash string) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches the credential record for a role/email pair.
func (r *PGRepository) FindByEmail(ctx context.Context, role shared.Role, email string) (*Account, error) {
	var table string
	switch role {
	case shared.RolePatient:
		table = "patients"
	case shared.RoleDoctor:
		table = "doctors"
	case shared.RoleAdmin:
		table = "admins"
	default:
		return nil, shared.ErrNotFound
	}

	account := Account{Role: role}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM `+table+` WHERE email = $1`,
		email,
	).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// CreatePatient inserts a new patient record with the prepared digest.
func (r *PGRepository) CreatePatient(ctx context.Context, reg PatientRegistration, passwordHash string) (int64, error) {
	now := time.Now().UTC()
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO patients (first_name, last_name, email, password_hash, date_of_birth, contact_number, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$7) RETURNING id`,
		reg.FirstName, reg.LastName, reg.Email, passwordHash, reg.DateOfBirth, reg.ContactNumber, now,
	).Scan(&id)
	if err != nil {
		return 0, mapUniqueViolation(err)
	}
	return id, nil
}

// CreateDoctor inserts a new doctor record with the prepared digest.
func (r *PGRepository) CreateDoctor(ctx context.Context, reg DoctorRegistration, passwordHash string) (int64, error) {
	now := time.Now().UTC()
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO doctors (first_name, last_name, email, password_hash, specialization, contact_number, consultation_fees, availability_status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,'Available',$8,$8) RETURNING id`,
		reg.FirstName, reg.LastName, reg.Email, passwordHash, reg.Specialization, reg.ContactNumber, reg.ConsultationFees, now,
	).Scan(&id)
	if err != nil {
		return 0, mapUniqueViolation(err)
	}
	return id, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicateEmail
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
