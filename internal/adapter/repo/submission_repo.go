package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobboard/internal/domain"
)

// SubmissionRepositoryPG implements domain.SubmissionRepository.
type SubmissionRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new submission repository backed by PostgreSQL.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepositoryPG {
	return &SubmissionRepositoryPG{pool: pool}
}

const submissionColumns = `
id, job_id, tenant_id, worker_user_id, proof_url, note, status, created_at
`

// Create inserts a new pending submission.
func (r *SubmissionRepositoryPG) Create(ctx context.Context, sub *domain.Submission) error {
	query := `
INSERT INTO submissions (id, job_id, tenant_id, worker_user_id, proof_url, note, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	_, err := r.pool.Exec(ctx, query,
		sub.ID,
		sub.JobID,
		sub.TenantID,
		sub.WorkerUserID,
		sub.ProofURL,
		sub.Note,
		sub.Status,
		sub.CreatedAt,
	)
	return err
}

// GetByID fetches a submission that belongs to the given job and tenant.
func (r *SubmissionRepositoryPG) GetByID(ctx context.Context, tenantID, jobID, submissionID string) (*domain.Submission, error) {
	query := `
SELECT ` + submissionColumns + `
FROM submissions
WHERE id = $1 AND job_id = $2 AND tenant_id = $3;
`
	row := r.pool.QueryRow(ctx, query, submissionID, jobID, tenantID)
	sub, err := scanSubmissionFrom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

// ListByJob returns all submissions for a job, oldest first.
func (r *SubmissionRepositoryPG) ListByJob(ctx context.Context, tenantID, jobID string) ([]domain.Submission, error) {
	query := `
SELECT ` + submissionColumns + `
FROM submissions
WHERE job_id = $1 AND tenant_id = $2
ORDER BY created_at ASC;
`
	return r.listSubmissions(ctx, query, jobID, tenantID)
}

// ListByWorker returns the worker's submissions inside the tenant, newest first.
func (r *SubmissionRepositoryPG) ListByWorker(ctx context.Context, tenantID, workerUserID string) ([]domain.Submission, error) {
	query := `
SELECT ` + submissionColumns + `
FROM submissions
WHERE tenant_id = $1 AND worker_user_id = $2
ORDER BY created_at DESC;
`
	return r.listSubmissions(ctx, query, tenantID, workerUserID)
}

// UpdateStatus sets a submission's status. Repeating an update is a no-op.
func (r *SubmissionRepositoryPG) UpdateStatus(ctx context.Context, tenantID, jobID, submissionID string, status domain.SubmissionStatus) error {
	query := `
UPDATE submissions
SET status = $4
WHERE id = $1 AND job_id = $2 AND tenant_id = $3;
`
	_, err := r.pool.Exec(ctx, query, submissionID, jobID, tenantID, status)
	return err
}

// SettleApproval approves the winner and rejects every sibling still pending,
// in one transaction so a crash cannot leave the winner unapproved while
// siblings are already rejected.
func (r *SubmissionRepositoryPG) SettleApproval(ctx context.Context, jobID, approvedSubmissionID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
UPDATE submissions SET status = 'approved'
WHERE id = $1 AND job_id = $2;
`, approvedSubmissionID, jobID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
UPDATE submissions SET status = 'rejected'
WHERE job_id = $1 AND id <> $2 AND status = 'pending';
`, jobID, approvedSubmissionID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *SubmissionRepositoryPG) listSubmissions(ctx context.Context, query string, args ...any) ([]domain.Submission, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Submission
	for rows.Next() {
		sub, err := scanSubmissionFrom(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanSubmissionFrom(row pgx.Row) (*domain.Submission, error) {
	var sub domain.Submission
	if err := row.Scan(
		&sub.ID,
		&sub.JobID,
		&sub.TenantID,
		&sub.WorkerUserID,
		&sub.ProofURL,
		&sub.Note,
		&sub.Status,
		&sub.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}
