package admin

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/medicore/internal/shared"
)

// Repository defines the read-mostly queries behind the admin dashboard.
type Repository interface {
	CollectStatistics(ctx context.Context) (*Statistics, error)
	ListPatients(ctx context.Context, query string, page shared.Pagination) ([]PatientSummary, int, error)
	ListDoctors(ctx context.Context, page shared.Pagination) ([]DoctorSummary, int, error)
	ListAppointments(ctx context.Context, page shared.Pagination) ([]AppointmentSummary, int, error)
	UpdateDoctorStatus(ctx context.Context, doctorID int64, status string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// CollectStatistics gathers platform-wide counts in one round trip per
// entity plus a grouped scan over appointment statuses.
func (r *PGRepository) CollectStatistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{ByStatus: map[string]int{}, GeneratedAt: time.Now().UTC()}

	err := r.pool.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM patients),
		(SELECT COUNT(*) FROM doctors),
		(SELECT COUNT(*) FROM appointments),
		(SELECT COUNT(*) FROM feedback)`).
		Scan(&stats.Patients, &stats.Doctors, &stats.Appointments, &stats.Feedback)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM appointments GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	return stats, rows.Err()
}

// ListPatients pages through patient accounts, newest first, optionally
// filtered by a name or email fragment.
func (r *PGRepository) ListPatients(ctx context.Context, query string, page shared.Pagination) ([]PatientSummary, int, error) {
	where := ``
	countArgs := []any{}
	if query != "" {
		where = ` WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1`
		countArgs = append(countArgs, "%"+query+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql := `SELECT id, first_name, last_name, email, contact_number, created_at
		 FROM patients` + where + ` ORDER BY created_at DESC`
	if query != "" {
		sql += ` LIMIT $2 OFFSET $3`
	} else {
		sql += ` LIMIT $1 OFFSET $2`
	}
	args := append(countArgs, page.PerPage, page.Offset())

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []PatientSummary
	for rows.Next() {
		var p PatientSummary
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.ContactNumber, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	return result, total, rows.Err()
}

// ListDoctors pages through doctor accounts, newest first.
func (r *PGRepository) ListDoctors(ctx context.Context, page shared.Pagination) ([]DoctorSummary, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, first_name, last_name, email, specialization, availability_status, created_at
		 FROM doctors ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []DoctorSummary
	for rows.Next() {
		var d DoctorSummary
		if err := rows.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Email, &d.Specialization, &d.AvailabilityStatus, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, d)
	}
	return result, total, rows.Err()
}

// ListAppointments pages through appointments platform-wide, newest first.
func (r *PGRepository) ListAppointments(ctx context.Context, page shared.Pagination) ([]AppointmentSummary, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT a.id, p.first_name || ' ' || p.last_name, d.first_name || ' ' || d.last_name,
			a.scheduled_at, a.mode, a.status
		 FROM appointments a
		 JOIN patients p ON p.id = a.patient_id
		 JOIN doctors d ON d.id = a.doctor_id
		 ORDER BY a.scheduled_at DESC LIMIT $1 OFFSET $2`,
		page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []AppointmentSummary
	for rows.Next() {
		var a AppointmentSummary
		if err := rows.Scan(&a.ID, &a.PatientName, &a.DoctorName, &a.ScheduledAt, &a.Mode, &a.Status); err != nil {
			return nil, 0, err
		}
		result = append(result, a)
	}
	return result, total, rows.Err()
}

// UpdateDoctorStatus overrides a doctor's availability from the admin side.
func (r *PGRepository) UpdateDoctorStatus(ctx context.Context, doctorID int64, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE doctors SET availability_status = $2, updated_at = $3 WHERE id = $1`,
		doctorID, status, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
