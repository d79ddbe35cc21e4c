package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/medicore/internal/shared"
)

// Repository defines persistence operations for feedback entries.
type Repository interface {
	Create(ctx context.Context, draft Draft) (*Entry, error)
	GetByID(ctx context.Context, id int64) (*Entry, error)
	List(ctx context.Context, page shared.Pagination) ([]Entry, int, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const entryColumns = `f.id, f.patient_id, f.rating, COALESCE(f.comments,''),
	COALESCE(f.video_key,''), f.created_at,
	p.first_name || ' ' || p.last_name`

const entryJoins = ` FROM feedback f JOIN patients p ON p.id = f.patient_id`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.PatientID, &e.Rating, &e.Comments,
		&e.VideoKey, &e.CreatedAt, &e.PatientName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create inserts a new feedback entry.
func (r *PGRepository) Create(ctx context.Context, draft Draft) (*Entry, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO feedback (patient_id, rating, comments, video_key, created_at)
		 VALUES ($1, $2, $3, NULLIF($4,''), $5)
		 RETURNING id`,
		draft.PatientID, draft.Rating, draft.Comments, draft.VideoKey,
		time.Now().UTC()).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a single feedback entry.
func (r *PGRepository) GetByID(ctx context.Context, id int64) (*Entry, error) {
	return scanEntry(r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+entryJoins+` WHERE f.id = $1`, id))
}

// List returns feedback entries for administrative review, newest first.
func (r *PGRepository) List(ctx context.Context, page shared.Pagination) ([]Entry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+entryJoins+` ORDER BY f.created_at DESC LIMIT $1 OFFSET $2`,
		page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *e)
	}
	return result, total, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
