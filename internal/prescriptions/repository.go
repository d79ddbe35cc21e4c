package prescriptions

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/medicore/internal/shared"
)

// Repository defines persistence operations for prescriptions.
type Repository interface {
	Create(ctx context.Context, draft Draft) (*Prescription, error)
	GetByID(ctx context.Context, id int64) (*Prescription, error)
	ListByPatient(ctx context.Context, patientID int64) ([]Prescription, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]Prescription, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const prescriptionColumns = `pr.id, pr.patient_id, pr.doctor_id, COALESCE(pr.appointment_id,0),
	pr.medication_name, pr.dosage, COALESCE(pr.frequency,''), COALESCE(pr.duration,''),
	COALESCE(pr.instructions,''), pr.created_at,
	p.first_name || ' ' || p.last_name,
	d.first_name || ' ' || d.last_name`

const prescriptionJoins = ` FROM prescriptions pr
	JOIN patients p ON p.id = pr.patient_id
	JOIN doctors d ON d.id = pr.doctor_id`

func scanPrescription(row pgx.Row) (*Prescription, error) {
	var pr Prescription
	err := row.Scan(&pr.ID, &pr.PatientID, &pr.DoctorID, &pr.AppointmentID,
		&pr.MedicationName, &pr.Dosage, &pr.Frequency, &pr.Duration,
		&pr.Instructions, &pr.CreatedAt, &pr.PatientName, &pr.DoctorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// Create inserts a new prescription.
func (r *PGRepository) Create(ctx context.Context, draft Draft) (*Prescription, error) {
	var appointmentID any
	if draft.AppointmentID > 0 {
		appointmentID = draft.AppointmentID
	}
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO prescriptions
			(patient_id, doctor_id, appointment_id, medication_name, dosage, frequency, duration, instructions, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		draft.PatientID, draft.DoctorID, appointmentID, draft.MedicationName,
		draft.Dosage, draft.Frequency, draft.Duration, draft.Instructions,
		time.Now().UTC()).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a single prescription with joined display names.
func (r *PGRepository) GetByID(ctx context.Context, id int64) (*Prescription, error) {
	return scanPrescription(r.pool.QueryRow(ctx,
		`SELECT `+prescriptionColumns+prescriptionJoins+` WHERE pr.id = $1`, id))
}

// ListByPatient returns a patient's prescriptions, newest first.
func (r *PGRepository) ListByPatient(ctx context.Context, patientID int64) ([]Prescription, error) {
	return r.list(ctx, `pr.patient_id`, patientID)
}

// ListByDoctor returns prescriptions issued by a doctor, newest first.
func (r *PGRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]Prescription, error) {
	return r.list(ctx, `pr.doctor_id`, doctorID)
}

func (r *PGRepository) list(ctx context.Context, column string, id int64) ([]Prescription, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+prescriptionColumns+prescriptionJoins+` WHERE `+column+` = $1 ORDER BY pr.created_at DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Prescription
	for rows.Next() {
		pr, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *pr)
	}
	return result, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
