package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobboard/internal/domain"
)

// PayoutTaskRepositoryPG implements domain.PayoutTaskRepository on top of a
// payout_tasks table. The table is the transfer queue: the webhook side
// enqueues, the worker binary claims and executes.
type PayoutTaskRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewPayoutTaskRepository creates a new payout task repository.
func NewPayoutTaskRepository(pool *pgxpool.Pool) *PayoutTaskRepositoryPG {
	return &PayoutTaskRepositoryPG{pool: pool}
}

// Enqueue inserts a queued payout task. The unique index on payment_id turns
// a duplicate enqueue into a no-op.
func (r *PayoutTaskRepositoryPG) Enqueue(ctx context.Context, task *domain.PayoutTask) error {
	query := `
INSERT INTO payout_tasks (id, job_id, payment_id, worker_user_id, amount_cents, status, attempts, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, 'queued', 0, $6, $6)
ON CONFLICT (payment_id) DO NOTHING;
`
	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.JobID,
		task.PaymentID,
		task.WorkerUserID,
		task.AmountCents,
		task.CreatedAt,
	)
	return err
}

// ClaimNext atomically claims one queued task, marking it running. It returns
// domain.ErrNotFound when the queue is empty. SKIP LOCKED lets concurrent
// workers claim disjoint tasks.
func (r *PayoutTaskRepositoryPG) ClaimNext(ctx context.Context) (*domain.PayoutTask, error) {
	query := `
WITH next_task AS (
    SELECT id
    FROM payout_tasks
    WHERE status = 'queued'
    ORDER BY created_at ASC
    FOR UPDATE SKIP LOCKED
    LIMIT 1
),
claimed AS (
    UPDATE payout_tasks
    SET status = 'running', attempts = attempts + 1, updated_at = now()
    WHERE id IN (SELECT id FROM next_task)
    RETURNING id, job_id, payment_id, worker_user_id, amount_cents, status, attempts, last_error, created_at, updated_at
)
SELECT * FROM claimed;
`
	row := r.pool.QueryRow(ctx, query)
	var task domain.PayoutTask
	var lastError *string
	if err := row.Scan(
		&task.ID,
		&task.JobID,
		&task.PaymentID,
		&task.WorkerUserID,
		&task.AmountCents,
		&task.Status,
		&task.Attempts,
		&lastError,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if lastError != nil {
		task.LastError = *lastError
	}
	return &task, nil
}

// MarkSucceeded finalizes a delivered payout.
func (r *PayoutTaskRepositoryPG) MarkSucceeded(ctx context.Context, taskID string) error {
	_, err := r.pool.Exec(ctx, `
UPDATE payout_tasks SET status = 'succeeded', last_error = NULL, updated_at = now()
WHERE id = $1;
`, taskID)
	return err
}

// MarkFailed records a transfer failure. Non-final failures requeue the task
// for another attempt; final ones park it for operator reconciliation.
func (r *PayoutTaskRepositoryPG) MarkFailed(ctx context.Context, taskID, lastError string, final bool) error {
	status := domain.PayoutTaskQueued
	if final {
		status = domain.PayoutTaskFailed
	}
	_, err := r.pool.Exec(ctx, `
UPDATE payout_tasks SET status = $2, last_error = $3, updated_at = now()
WHERE id = $1;
`, taskID, status, lastError)
	return err
}
