package appointments

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/medicore/internal/platform/db"
	"github.com/medicore/medicore/internal/shared"
)

// Repository defines persistence operations for appointments.
type Repository interface {
	Create(ctx context.Context, booking BookingRequest) (*Appointment, error)
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id, doctorID int64, update StatusUpdate) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const appointmentColumns = `a.id, a.patient_id, a.doctor_id, a.scheduled_at, a.mode,
	a.status, a.payment_status, COALESCE(a.reason,''), COALESCE(a.notes,''),
	a.created_at, a.updated_at,
	p.first_name || ' ' || p.last_name, p.email,
	d.first_name || ' ' || d.last_name`

const appointmentJoins = ` FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.ScheduledAt, &a.Mode,
		&a.Status, &a.PaymentStatus, &a.Reason, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt, &a.PatientName, &a.PatientEmail, &a.DoctorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts a new appointment in the Scheduled state. The insert and
// the joined read-back run in one transaction so the returned record always
// reflects the row just written.
func (r *PGRepository) Create(ctx context.Context, booking BookingRequest) (*Appointment, error) {
	now := time.Now().UTC()
	var appt *Appointment
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx,
			`INSERT INTO appointments
				(patient_id, doctor_id, scheduled_at, mode, status, payment_status, reason, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			 RETURNING id`,
			booking.PatientID, booking.DoctorID, booking.ScheduledAt, booking.Mode,
			StatusScheduled, PaymentPending, booking.Reason, now).Scan(&id)
		if err != nil {
			return err
		}
		appt, err = scanAppointment(tx.QueryRow(ctx,
			`SELECT `+appointmentColumns+appointmentJoins+` WHERE a.id = $1`, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// GetByID fetches a single appointment with joined display names.
func (r *PGRepository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+appointmentJoins+` WHERE a.id = $1`, id))
}

// ListByPatient returns a patient's appointments, newest first.
func (r *PGRepository) ListByPatient(ctx context.Context, patientID int64) ([]Appointment, error) {
	return r.list(ctx, `a.patient_id`, patientID)
}

// ListByDoctor returns a doctor's schedule, newest first.
func (r *PGRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]Appointment, error) {
	return r.list(ctx, `a.doctor_id`, doctorID)
}

func (r *PGRepository) list(ctx context.Context, column string, id int64) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+appointmentColumns+appointmentJoins+` WHERE `+column+` = $1 ORDER BY a.scheduled_at DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

// UpdateStatus transitions an appointment owned by doctorID. A missing row or
// an appointment belonging to another doctor both surface as ErrNotFound.
func (r *PGRepository) UpdateStatus(ctx context.Context, id, doctorID int64, update StatusUpdate) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE appointments SET status = $3, notes = COALESCE(NULLIF($4,''), notes), updated_at = $5
		 WHERE id = $1 AND doctor_id = $2`,
		id, doctorID, update.Status, update.Notes, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
