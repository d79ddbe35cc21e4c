package patients

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/medicore/internal/shared"
)

// Repository defines persistence operations for patient records.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Patient, error)
	UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GetByID fetches a patient record.
func (r *PGRepository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	var p Patient
	err := r.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, date_of_birth, COALESCE(gender,''), COALESCE(blood_type,''),
		        contact_number, email, COALESCE(address,''), COALESCE(emergency_contact,''),
		        COALESCE(insurance_details,''), created_at, updated_at
		 FROM patients WHERE id = $1`, id,
	).Scan(&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender, &p.BloodType,
		&p.ContactNumber, &p.Email, &p.Address, &p.EmergencyContact,
		&p.InsuranceDetails, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdateProfile applies a patient's own profile changes.
func (r *PGRepository) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE patients
		 SET first_name = $2, last_name = $3, contact_number = $4,
		     address = $5, emergency_contact = $6, insurance_details = $7, updated_at = $8
		 WHERE id = $1`,
		id, update.FirstName, update.LastName, update.ContactNumber,
		update.Address, update.EmergencyContact, update.InsuranceDetails, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
