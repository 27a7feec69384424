package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobboard/internal/domain"
)

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

const jobColumns = `
id, tenant_id, creator_user_id, title, description, category,
payout_cents, fee_bps, fee_cents, total_cents,
status, payment_status, approved_submission_id, checkout_id, payment_id,
created_at, approved_at, closed_at, paid_at
`

// Create inserts a new open job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.Job) error {
	query := `
INSERT INTO jobs (id, tenant_id, creator_user_id, title, description, category, payout_cents, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.TenantID,
		job.CreatorUserID,
		job.Title,
		job.Description,
		job.Category,
		job.PayoutCents,
		job.Status,
		job.CreatedAt,
	)
	return err
}

// GetByID fetches a job scoped to its tenant. A job in another tenant is
// reported as absent.
func (r *JobRepositoryPG) GetByID(ctx context.Context, tenantID, jobID string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 AND tenant_id = $2;`
	return r.scanJob(r.pool.QueryRow(ctx, query, jobID, tenantID))
}

// GetByCheckoutID resolves the job linked to a checkout session. This is the
// authoritative lookup used by the payment webhook.
func (r *JobRepositoryPG) GetByCheckoutID(ctx context.Context, checkoutID string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE checkout_id = $1;`
	return r.scanJob(r.pool.QueryRow(ctx, query, checkoutID))
}

// ListOpen returns the tenant's open jobs, newest first.
func (r *JobRepositoryPG) ListOpen(ctx context.Context, tenantID string) ([]domain.Job, error) {
	query := `
SELECT ` + jobColumns + `
FROM jobs
WHERE tenant_id = $1 AND status = 'open'
ORDER BY created_at DESC;
`
	return r.listJobs(ctx, query, tenantID)
}

// ListByCreator returns all jobs posted by one creator inside the tenant.
func (r *JobRepositoryPG) ListByCreator(ctx context.Context, tenantID, creatorUserID string) ([]domain.Job, error) {
	query := `
SELECT ` + jobColumns + `
FROM jobs
WHERE tenant_id = $1 AND creator_user_id = $2
ORDER BY created_at DESC;
`
	return r.listJobs(ctx, query, tenantID, creatorUserID)
}

// MarkApproved persists the approval snapshot. The WHERE clause is the
// serialization point against concurrent approvals: only one update can see
// the job open with no approved submission.
func (r *JobRepositoryPG) MarkApproved(ctx context.Context, p domain.ApproveJobParams) (bool, error) {
	query := `
UPDATE jobs
SET approved_submission_id = $3,
    fee_bps = $4,
    fee_cents = $5,
    total_cents = $6,
    payment_status = 'requires_payment',
    checkout_id = $7,
    approved_at = $8
WHERE id = $1
  AND tenant_id = $2
  AND status = 'open'
  AND approved_submission_id IS NULL;
`
	tag, err := r.pool.Exec(ctx, query,
		p.JobID,
		p.TenantID,
		p.SubmissionID,
		p.FeeBps,
		p.FeeCents,
		p.TotalCents,
		p.CheckoutID,
		p.ApprovedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkPaid closes the job and records the payment. The payment_status guard
// makes a duplicate webhook delivery a no-op at the database level.
func (r *JobRepositoryPG) MarkPaid(ctx context.Context, jobID, paymentID string, paidAt time.Time) (bool, error) {
	query := `
UPDATE jobs
SET payment_status = 'paid',
    status = 'closed',
    payment_id = $2,
    paid_at = $3,
    closed_at = $3
WHERE id = $1
  AND payment_status = 'requires_payment';
`
	tag, err := r.pool.Exec(ctx, query, jobID, paymentID, paidAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *JobRepositoryPG) listJobs(ctx context.Context, query string, args ...any) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Job
	for rows.Next() {
		job, err := scanJobFrom(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *JobRepositoryPG) scanJob(row pgx.Row) (*domain.Job, error) {
	job, err := scanJobFrom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

func scanJobFrom(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	var paymentStatus *string
	if err := row.Scan(
		&job.ID,
		&job.TenantID,
		&job.CreatorUserID,
		&job.Title,
		&job.Description,
		&job.Category,
		&job.PayoutCents,
		&job.FeeBps,
		&job.FeeCents,
		&job.TotalCents,
		&job.Status,
		&paymentStatus,
		&job.ApprovedSubmissionID,
		&job.CheckoutID,
		&job.PaymentID,
		&job.CreatedAt,
		&job.ApprovedAt,
		&job.ClosedAt,
		&job.PaidAt,
	); err != nil {
		return nil, err
	}
	if paymentStatus != nil {
		job.PaymentStatus = domain.PaymentStatus(*paymentStatus)
	}
	return &job, nil
}
