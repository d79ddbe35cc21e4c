package reports

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/medicore/internal/shared"
)

// Repository defines persistence operations for reports.
type Repository interface {
	Create(ctx context.Context, draft Draft) (*Report, error)
	GetByID(ctx context.Context, id int64) (*Report, error)
	ListByPatient(ctx context.Context, patientID int64) ([]Report, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]Report, error)
	Delete(ctx context.Context, id, doctorID int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const reportColumns = `r.id, r.patient_id, r.doctor_id, r.title, r.report_type,
	COALESCE(r.description,''), COALESCE(r.file_key,''), r.created_at,
	p.first_name || ' ' || p.last_name,
	d.first_name || ' ' || d.last_name`

const reportJoins = ` FROM reports r
	JOIN patients p ON p.id = r.patient_id
	JOIN doctors d ON d.id = r.doctor_id`

func scanReport(row pgx.Row) (*Report, error) {
	var rep Report
	err := row.Scan(&rep.ID, &rep.PatientID, &rep.DoctorID, &rep.Title, &rep.ReportType,
		&rep.Description, &rep.FileKey, &rep.CreatedAt, &rep.PatientName, &rep.DoctorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// Create inserts a new report.
func (r *PGRepository) Create(ctx context.Context, draft Draft) (*Report, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reports
			(patient_id, doctor_id, title, report_type, description, file_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6,''), $7)
		 RETURNING id`,
		draft.PatientID, draft.DoctorID, draft.Title, draft.ReportType,
		draft.Description, draft.FileKey, time.Now().UTC()).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a single report with joined display names.
func (r *PGRepository) GetByID(ctx context.Context, id int64) (*Report, error) {
	return scanReport(r.pool.QueryRow(ctx,
		`SELECT `+reportColumns+reportJoins+` WHERE r.id = $1`, id))
}

// ListByPatient returns a patient's reports, newest first.
func (r *PGRepository) ListByPatient(ctx context.Context, patientID int64) ([]Report, error) {
	return r.list(ctx, `r.patient_id`, patientID)
}

// ListByDoctor returns reports filed by a doctor, newest first.
func (r *PGRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]Report, error) {
	return r.list(ctx, `r.doctor_id`, doctorID)
}

func (r *PGRepository) list(ctx context.Context, column string, id int64) ([]Report, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reportColumns+reportJoins+` WHERE `+column+` = $1 ORDER BY r.created_at DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rep)
	}
	return result, rows.Err()
}

// Delete removes a report owned by doctorID. A missing row or a report filed
// by another doctor both surface as ErrNotFound.
func (r *PGRepository) Delete(ctx context.Context, id, doctorID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM reports WHERE id = $1 AND doctor_id = $2`, id, doctorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
