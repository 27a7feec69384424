package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/domain"
	"jobboard/internal/infra"
	"jobboard/internal/whop"
	"jobboard/pkg/zip"
)

// CheckoutCreator is the slice of the payment gateway the engine needs: it
// only ever opens checkout sessions. Payout transfers belong to the payout
// worker.
type CheckoutCreator interface {
	CreateCheckout(ctx context.Context, req whop.CheckoutRequest) (*whop.Checkout, error)
}

// BlobStore persists proof artifacts and maps keys to public URLs.
type BlobStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Read(ctx context.Context, key string) ([]byte, error)
	PublicURL(key string) string
	KeyFromURL(url string) (string, bool)
}

// Options configures the lifecycle engine.
type Options struct {
	Jobs        domain.JobRepository
	Submissions domain.SubmissionRepository
	Payouts     domain.PayoutTaskRepository
	Gateway     CheckoutCreator
	Store       BlobStore
	Logger      infra.Logger
	FeeBps      int
	RedirectURL string
}

// Engine drives the job/submission lifecycle: posting jobs, collecting
// proof-of-work, approving a winner through a hosted checkout, and applying
// the payment confirmation. All methods take explicit caller and tenant ids;
// nothing is read from ambient request state.
type Engine struct {
	jobs        domain.JobRepository
	subs        domain.SubmissionRepository
	payouts     domain.PayoutTaskRepository
	gateway     CheckoutCreator
	store       BlobStore
	logger      infra.Logger
	feeBps      int
	redirectURL string
}

// NewEngine creates a lifecycle engine.
func NewEngine(opts Options) *Engine {
	return &Engine{
		jobs:        opts.Jobs,
		subs:        opts.Submissions,
		payouts:     opts.Payouts,
		gateway:     opts.Gateway,
		store:       opts.Store,
		logger:      opts.Logger,
		feeBps:      opts.FeeBps,
		redirectURL: opts.RedirectURL,
	}
}

// CreateJobInput carries the creator-supplied fields of a new job.
type CreateJobInput struct {
	Title       string
	Description string
	Category    domain.JobCategory
	PayoutCents int64
}

// CreateJob posts a new open job for the tenant. Role enforcement (only
// community owners may post) happens at the identity layer; here the creator
// id is already trusted.
func (e *Engine) CreateJob(ctx context.Context, tenantID, creatorID string, in CreateJobInput) (*domain.Job, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrInvalidInput)
	}
	if !domain.ValidJobCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, in.Category)
	}
	if in.PayoutCents <= 0 {
		return nil, fmt.Errorf("%w: payout must be positive", domain.ErrInvalidInput)
	}

	job := &domain.Job{
		ID:            uuid.NewString(),
		TenantID:      tenantID,
		CreatorUserID: creatorID,
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		PayoutCents:   in.PayoutCents,
		Status:        domain.JobStatusOpen,
		CreatedAt:     time.Now().UTC(),
	}
	if err := e.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// ListOpenJobs returns the tenant's open jobs.
func (e *Engine) ListOpenJobs(ctx context.Context, tenantID string) ([]domain.Job, error) {
	return e.jobs.ListOpen(ctx, tenantID)
}

// ListCreatorJobs returns the jobs a creator posted inside the tenant.
func (e *Engine) ListCreatorJobs(ctx context.Context, tenantID, creatorID string) ([]domain.Job, error) {
	return e.jobs.ListByCreator(ctx, tenantID, creatorID)
}

// ListWorkerSubmissions returns the submissions a worker made inside the tenant.
func (e *Engine) ListWorkerSubmissions(ctx context.Context, tenantID, workerID string) ([]domain.Submission, error) {
	return e.subs.ListByWorker(ctx, tenantID, workerID)
}

// GetJob returns a job and, for its creator, the submissions received so far.
// A job outside the caller's tenant is reported as absent.
func (e *Engine) GetJob(ctx context.Context, tenantID, callerID, jobID string) (*domain.Job, []domain.Submission, error) {
	job, err := e.jobs.GetByID(ctx, tenantID, jobID)
	if err != nil {
		return nil, nil, err
	}
	if job.CreatorUserID != callerID {
		return job, nil, nil
	}
	subs, err := e.subs.ListByJob(ctx, tenantID, jobID)
	if err != nil {
		return nil, nil, err
	}
	return job, subs, nil
}

// Artifact is an uploaded proof-of-work file.
type Artifact struct {
	Filename string
	Data     []byte
}

// SubmitWork stores the proof artifact and records a pending submission on an
// open job.
func (e *Engine) SubmitWork(ctx context.Context, tenantID, workerID, jobID string, artifact Artifact, note string) (*domain.Submission, error) {
	job, err := e.jobs.GetByID(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusOpen {
		return nil, fmt.Errorf("%w: job is not open", domain.ErrConflict)
	}
	if len(artifact.Data) == 0 {
		return nil, fmt.Errorf("%w: proof artifact is required", domain.ErrInvalidInput)
	}

	key := artifactKey(jobID, artifact.Filename)
	storedKey, err := e.store.Write(ctx, key, artifact.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: store artifact: %v", domain.ErrUpstreamFailure, err)
	}

	sub := &domain.Submission{
		ID:           uuid.NewString(),
		JobID:        job.ID,
		TenantID:     tenantID,
		WorkerUserID: workerID,
		ProofURL:     e.store.PublicURL(storedKey),
		Note:         note,
		Status:       domain.SubmissionStatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.subs.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return sub, nil
}

// ArchiveSubmissions bundles every proof artifact of a job into a zip blob
// for offline review. Only the job's creator may pull the archive. Artifacts
// whose files have gone missing are skipped.
func (e *Engine) ArchiveSubmissions(ctx context.Context, tenantID, callerID, jobID string) ([]byte, error) {
	job, err := e.jobs.GetByID(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	if job.CreatorUserID != callerID {
		return nil, fmt.Errorf("%w: only the job creator can download submissions", domain.ErrUnauthorized)
	}

	subs, err := e.subs.ListByJob(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, fmt.Errorf("%w: job has no submissions", domain.ErrNotFound)
	}

	entries := make([]zip.Entry, 0, len(subs))
	for _, sub := range subs {
		key, ok := e.store.KeyFromURL(sub.ProofURL)
		if !ok {
			continue
		}
		data, err := e.store.Read(ctx, key)
		if err != nil {
			e.logger.Warn().Err(err).Str("submission_id", sub.ID).Msg("proof artifact unreadable, skipping")
			continue
		}
		entries = append(entries, zip.Entry{
			Name: sub.ID + path.Ext(key),
			Data: data,
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no readable proof artifacts", domain.ErrNotFound)
	}
	return zip.Archive(entries), nil
}

// ApproveSubmission starts the payment for a chosen submission: it snapshots
// the fee, opens a hosted checkout for payout plus fee, and persists the
// approval. The conditional update in MarkApproved is what serializes
// concurrent approvals; the loser sees ErrConflict. Submission statuses are
// untouched until the payment webhook lands.
func (e *Engine) ApproveSubmission(ctx context.Context, tenantID, callerID, jobID, submissionID string) (string, error) {
	job, err := e.jobs.GetByID(ctx, tenantID, jobID)
	if err != nil {
		return "", err
	}
	if job.CreatorUserID != callerID {
		return "", fmt.Errorf("%w: only the job creator can approve", domain.ErrUnauthorized)
	}
	if job.Status != domain.JobStatusOpen {
		return "", fmt.Errorf("%w: job is not open", domain.ErrConflict)
	}
	if job.ApprovedSubmissionID != nil {
		return "", fmt.Errorf("%w: payment already started for this job", domain.ErrConflict)
	}

	sub, err := e.subs.GetByID(ctx, tenantID, jobID, submissionID)
	if err != nil {
		return "", err
	}

	feeCents := domain.PlatformFee(job.PayoutCents, e.feeBps)
	totalCents := job.PayoutCents + feeCents

	checkout, err := e.gateway.CreateCheckout(ctx, whop.CheckoutRequest{
		AmountCents: totalCents,
		RedirectURL: e.redirectURL,
		Metadata: map[string]any{
			"jobId":        job.ID,
			"submissionId": sub.ID,
			"workerUserId": sub.WorkerUserID,
			"payoutCents":  job.PayoutCents,
			"feeBps":       e.feeBps,
			"feeCents":     feeCents,
			"totalCents":   totalCents,
			"tenantId":     tenantID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: create checkout: %v", domain.ErrUpstreamFailure, err)
	}

	ok, err := e.jobs.MarkApproved(ctx, domain.ApproveJobParams{
		JobID:        job.ID,
		TenantID:     tenantID,
		SubmissionID: sub.ID,
		FeeBps:       e.feeBps,
		FeeCents:     feeCents,
		TotalCents:   totalCents,
		CheckoutID:   checkout.ID,
		ApprovedAt:   time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("persist approval: %w", err)
	}
	if !ok {
		// Another approval won the race after our initial read.
		return "", fmt.Errorf("%w: payment already started for this job", domain.ErrConflict)
	}

	return checkout.PurchaseURL, nil
}

// RejectSubmission marks a submission rejected. Rejecting twice is a no-op
// and the job itself is unaffected.
func (e *Engine) RejectSubmission(ctx context.Context, tenantID, callerID, jobID, submissionID string) error {
	job, err := e.jobs.GetByID(ctx, tenantID, jobID)
	if err != nil {
		return err
	}
	if job.CreatorUserID != callerID {
		return fmt.Errorf("%w: only the job creator can reject", domain.ErrUnauthorized)
	}
	if _, err := e.subs.GetByID(ctx, tenantID, jobID, submissionID); err != nil {
		return err
	}
	return e.subs.UpdateStatus(ctx, tenantID, jobID, submissionID, domain.SubmissionStatusRejected)
}

// CompletePayment applies a confirmed payment to the job it belongs to. The
// job is resolved through the stored checkout linkage, never through event
// metadata. Deliveries that cannot be applied (unknown checkout, already
// handled, inconsistent state) are logged and dropped so the provider stops
// retrying; the payout transfer is enqueued for the worker, keyed by the
// payment id, and its failures never unwind the paid state.
func (e *Engine) CompletePayment(ctx context.Context, paymentID, checkoutID string) error {
	if paymentID == "" || checkoutID == "" {
		e.logger.Warn().Str("payment_id", paymentID).Msg("payment event missing identifiers, dropping")
		return nil
	}

	job, err := e.jobs.GetByCheckoutID(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			e.logger.Warn().Str("checkout_id", checkoutID).Msg("payment for unknown checkout, dropping")
			return nil
		}
		return fmt.Errorf("lookup job by checkout: %w", err)
	}

	// Idempotency guard, checked before any mutation.
	if job.PaymentStatus == domain.PaymentStatusPaid || (job.PaymentID != nil && *job.PaymentID == paymentID) {
		e.logger.Info().Str("job_id", job.ID).Str("payment_id", paymentID).Msg("payment already applied")
		return nil
	}

	if job.ApprovedSubmissionID == nil {
		e.logger.Error().Str("job_id", job.ID).Str("payment_id", paymentID).Msg("payment arrived without an approved submission")
		return nil
	}

	winner, err := e.subs.GetByID(ctx, job.TenantID, job.ID, *job.ApprovedSubmissionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			e.logger.Error().Str("job_id", job.ID).Str("submission_id", *job.ApprovedSubmissionID).Msg("approved submission missing")
			return nil
		}
		return fmt.Errorf("load approved submission: %w", err)
	}

	applied, err := e.jobs.MarkPaid(ctx, job.ID, paymentID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark job paid: %w", err)
	}
	if !applied {
		// A concurrent duplicate delivery got there first.
		e.logger.Info().Str("job_id", job.ID).Str("payment_id", paymentID).Msg("payment already applied concurrently")
		return nil
	}

	if err := e.subs.SettleApproval(ctx, job.ID, winner.ID); err != nil {
		return fmt.Errorf("settle submissions: %w", err)
	}

	task := &domain.PayoutTask{
		ID:           uuid.NewString(),
		JobID:        job.ID,
		PaymentID:    paymentID,
		WorkerUserID: winner.WorkerUserID,
		AmountCents:  job.PayoutCents,
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.payouts.Enqueue(ctx, task); err != nil {
		return fmt.Errorf("enqueue payout: %w", err)
	}

	e.logger.Info().
		Str("job_id", job.ID).
		Str("payment_id", paymentID).
		Str("worker_user_id", winner.WorkerUserID).
		Int64("payout_cents", job.PayoutCents).
		Msg("payment applied, payout queued")
	return nil
}

func artifactKey(jobID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("job-%s/%s%s", jobID, uuid.NewString(), ext)
}
