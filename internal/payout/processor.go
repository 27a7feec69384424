package payout

import (
	"context"
	"errors"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/infra"
	"jobboard/internal/whop"
)

// TransferCreator is the slice of the payment gateway the processor needs.
type TransferCreator interface {
	CreateTransfer(ctx context.Context, req whop.TransferRequest) (*whop.Transfer, error)
}

// Options configures the payout processor.
type Options struct {
	Tasks        domain.PayoutTaskRepository
	Gateway      TransferCreator
	Logger       infra.Logger
	MaxAttempts  int
	PollInterval time.Duration
}

// Processor drains the payout queue: it claims queued tasks and executes the
// gateway transfer for each. The gateway idempotence key is the payment id,
// so re-running a task after a crash cannot double-pay a worker. The
// processor never touches job state; a payout that keeps failing is parked
// as failed for operator reconciliation while the job stays paid and closed.
type Processor struct {
	tasks        domain.PayoutTaskRepository
	gateway      TransferCreator
	logger       infra.Logger
	maxAttempts  int
	pollInterval time.Duration
}

// NewProcessor creates a payout processor, applying defaults.
func NewProcessor(opts Options) *Processor {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Processor{
		tasks:        opts.Tasks,
		gateway:      opts.Gateway,
		logger:       opts.Logger,
		maxAttempts:  maxAttempts,
		pollInterval: pollInterval,
	}
}

// Run claims and executes tasks until the context is cancelled.
func (p *Processor) Run(ctx context.Context) error {
	p.logger.Info().Msg("payout: processor started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		processed, err := p.ProcessNext(ctx)
		if err != nil {
			p.logger.Error().Err(err).Msg("payout: claim failed")
		}
		if !processed {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.pollInterval):
			}
		}
	}
}

// ProcessNext claims and executes at most one task. It reports whether a
// task was claimed.
func (p *Processor) ProcessNext(ctx context.Context) (bool, error) {
	task, err := p.tasks.ClaimNext(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	p.execute(ctx, task)
	return true, nil
}

func (p *Processor) execute(ctx context.Context, task *domain.PayoutTask) {
	transfer, err := p.gateway.CreateTransfer(ctx, whop.TransferRequest{
		AmountCents:    task.AmountCents,
		Currency:       "usd",
		DestinationID:  task.WorkerUserID,
		IdempotenceKey: task.PaymentID,
		Metadata: map[string]any{
			"jobId":     task.JobID,
			"paymentId": task.PaymentID,
		},
	})
	if err != nil {
		final := task.Attempts >= p.maxAttempts
		p.logger.Error().Err(err).
			Str("task_id", task.ID).
			Str("job_id", task.JobID).
			Int("attempts", task.Attempts).
			Bool("final", final).
			Msg("payout: transfer failed")
		if markErr := p.tasks.MarkFailed(ctx, task.ID, err.Error(), final); markErr != nil {
			p.logger.Error().Err(markErr).Str("task_id", task.ID).Msg("payout: mark failed errored")
		}
		return
	}

	if err := p.tasks.MarkSucceeded(ctx, task.ID); err != nil {
		p.logger.Error().Err(err).Str("task_id", task.ID).Msg("payout: mark succeeded errored")
		return
	}
	p.logger.Info().
		Str("task_id", task.ID).
		Str("job_id", task.JobID).
		Str("transfer_id", transfer.ID).
		Int64("amount_cents", task.AmountCents).
		Msg("payout: transfer delivered")
}
