package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// statements are applied in order on startup. Every statement is written to
// be re-runnable so a restart against an already-migrated database is a no-op.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id                     text PRIMARY KEY,
		tenant_id              text NOT NULL,
		creator_user_id        text NOT NULL,
		title                  text NOT NULL,
		description            text NOT NULL,
		category               text NOT NULL,
		payout_cents           bigint NOT NULL CHECK (payout_cents > 0),
		fee_bps                int NOT NULL DEFAULT 0,
		fee_cents              bigint NOT NULL DEFAULT 0,
		total_cents            bigint NOT NULL DEFAULT 0,
		status                 text NOT NULL DEFAULT 'open',
		payment_status         text,
		approved_submission_id text,
		checkout_id            text,
		payment_id             text,
		created_at             timestamptz NOT NULL DEFAULT now(),
		approved_at            timestamptz,
		closed_at              timestamptz,
		paid_at                timestamptz
	)`,
	`CREATE INDEX IF NOT EXISTS jobs_tenant_status_idx ON jobs (tenant_id, status, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS jobs_tenant_creator_idx ON jobs (tenant_id, creator_user_id, created_at DESC)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS jobs_checkout_id_idx ON jobs (checkout_id) WHERE checkout_id IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS submissions (
		id             text PRIMARY KEY,
		job_id         text NOT NULL REFERENCES jobs (id),
		tenant_id      text NOT NULL,
		worker_user_id text NOT NULL,
		proof_url      text NOT NULL,
		note           text NOT NULL DEFAULT '',
		status         text NOT NULL DEFAULT 'pending',
		created_at     timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS submissions_job_idx ON submissions (job_id, tenant_id, created_at ASC)`,
	`CREATE INDEX IF NOT EXISTS submissions_worker_idx ON submissions (tenant_id, worker_user_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS payout_tasks (
		id             text PRIMARY KEY,
		job_id         text NOT NULL REFERENCES jobs (id),
		payment_id     text NOT NULL UNIQUE,
		worker_user_id text NOT NULL,
		amount_cents   bigint NOT NULL CHECK (amount_cents > 0),
		status         text NOT NULL DEFAULT 'queued',
		attempts       int NOT NULL DEFAULT 0,
		last_error     text,
		created_at     timestamptz NOT NULL DEFAULT now(),
		updated_at     timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS payout_tasks_claim_idx ON payout_tasks (status, created_at ASC)`,
}

// Migrate brings the schema up to date.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("db: migrate statement %d: %w", i, err)
		}
	}
	return nil
}
