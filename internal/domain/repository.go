package domain

import (
	"context"
	"time"
)

// ApproveJobParams carries the fee snapshot and checkout linkage persisted
// when a creator approves a submission.
type ApproveJobParams struct {
	JobID        string
	TenantID     string
	SubmissionID string
	FeeBps       int
	FeeCents     int64
	TotalCents   int64
	CheckoutID   string
	ApprovedAt   time.Time
}

// JobRepository defines persistence for jobs. All reads that take a tenant id
// are tenant-scoped: a job outside the tenant behaves as absent.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, tenantID, jobID string) (*Job, error)
	GetByCheckoutID(ctx context.Context, checkoutID string) (*Job, error)
	ListOpen(ctx context.Context, tenantID string) ([]Job, error)
	ListByCreator(ctx context.Context, tenantID, creatorUserID string) ([]Job, error)

	// MarkApproved records the approval atomically, guarded by
	// status = open and approved_submission_id IS NULL. It returns false
	// when the guard did not hold, which is how a lost race surfaces.
	MarkApproved(ctx context.Context, p ApproveJobParams) (bool, error)

	// MarkPaid closes the job and records the payment, guarded by
	// payment_status = requires_payment. A false return means the payment
	// was already applied (duplicate webhook delivery).
	MarkPaid(ctx context.Context, jobID, paymentID string, paidAt time.Time) (bool, error)
}

// SubmissionRepository defines persistence for submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *Submission) error
	GetByID(ctx context.Context, tenantID, jobID, submissionID string) (*Submission, error)
	ListByJob(ctx context.Context, tenantID, jobID string) ([]Submission, error)
	ListByWorker(ctx context.Context, tenantID, workerUserID string) ([]Submission, error)
	UpdateStatus(ctx context.Context, tenantID, jobID, submissionID string, status SubmissionStatus) error

	// SettleApproval marks the winning submission approved and every still
	// pending sibling on the same job rejected.
	SettleApproval(ctx context.Context, jobID, approvedSubmissionID string) error
}

// PayoutTaskRepository is the DB-backed payout queue. Enqueue is idempotent
// on payment id; ClaimNext hands out at most one queued task per call.
type PayoutTaskRepository interface {
	Enqueue(ctx context.Context, task *PayoutTask) error
	ClaimNext(ctx context.Context) (*PayoutTask, error)
	MarkSucceeded(ctx context.Context, taskID string) error
	MarkFailed(ctx context.Context, taskID, lastError string, final bool) error
}
