package repository

import (
	"context"
	"errors"

	"github.com/codeteak/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgSubmissionRepository is the PostgreSQL implementation of SubmissionRepository.
type PgSubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubmissionRepository creates a PgSubmissionRepository backed by the given pool.
func NewPgSubmissionRepository(pool *pgxpool.Pool) *PgSubmissionRepository {
	return &PgSubmissionRepository{pool: pool}
}

// Ensure PgSubmissionRepository implements SubmissionRepository at compile time.
var _ SubmissionRepository = (*PgSubmissionRepository)(nil)

// Create inserts a new contact_submissions row and populates sub.ID from the
// database RETURNING clause.
func (r *PgSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO contact_submissions (first_name, last_name, email, message, submitted_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		sub.FirstName, sub.LastName, sub.Email, sub.Message, sub.Timestamp, sub.Status,
	).Scan(&sub.ID)
}

// List returns one page ordered by submitted_at descending (created_at breaks
// ties) together with the total row count.
func (r *PgSubmissionRepository) List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.Submission, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_submissions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, first_name, COALESCE(last_name, ''), email, message, submitted_at, status
		 FROM contact_submissions
		 ORDER BY submitted_at DESC, created_at DESC
		 LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var subs []*model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.Message, &s.Timestamp, &s.Status); err != nil {
			return nil, 0, err
		}
		s.Status = model.NormalizeStatus(s.Status)
		subs = append(subs, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// UpdateStatus sets the status of one submission and returns the updated row.
// Updating to the current status succeeds and returns the unchanged record.
func (r *PgSubmissionRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Submission, error) {
	var s model.Submission
	err := r.pool.QueryRow(ctx,
		`UPDATE contact_submissions SET status = $2
		 WHERE id = $1
		 RETURNING id, first_name, COALESCE(last_name, ''), email, message, submitted_at, status`,
		id, status,
	).Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.Message, &s.Timestamp, &s.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes one submission. Unknown ids report (false, nil).
func (r *PgSubmissionRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_submissions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
