package doctors

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/medicore/internal/shared"
)

// Repository defines persistence operations for doctor records.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	ListDirectory(ctx context.Context, filter DirectoryFilter) ([]Doctor, int, error)
	UpdateAvailability(ctx context.Context, id int64, status string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const doctorColumns = `id, first_name, last_name, specialization, COALESCE(experience_years,0),
	contact_number, email, consultation_fees, availability_status,
	COALESCE(clinic_hospital_name,''), created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Specialization, &d.ExperienceYears,
		&d.ContactNumber, &d.Email, &d.ConsultationFees, &d.AvailabilityStatus,
		&d.ClinicHospitalName, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// GetByID fetches a doctor record.
func (r *PGRepository) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	return scanDoctor(r.pool.QueryRow(ctx,
		`SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id))
}

// ListDirectory returns doctors for the patient-facing directory, optionally
// filtered by specialization.
func (r *PGRepository) ListDirectory(ctx context.Context, filter DirectoryFilter) ([]Doctor, int, error) {
	page := shared.NewPagination(filter.Page, filter.PerPage, 0)

	where := ``
	args := []any{}
	if filter.Specialization != "" {
		where = ` WHERE specialization ILIKE $1`
		args = append(args, "%"+filter.Specialization+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + doctorColumns + ` FROM doctors` + where + ` ORDER BY last_name, first_name`
	if filter.Specialization != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, page.PerPage, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *d)
	}
	return result, total, rows.Err()
}

// UpdateAvailability changes a doctor's advertised availability status.
func (r *PGRepository) UpdateAvailability(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE doctors SET availability_status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
