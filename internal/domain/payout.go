package domain

import "time"

// PayoutTaskStatus enumerates payout task lifecycle states.
type PayoutTaskStatus string

const (
	PayoutTaskQueued    PayoutTaskStatus = "queued"
	PayoutTaskRunning   PayoutTaskStatus = "running"
	PayoutTaskSucceeded PayoutTaskStatus = "succeeded"
	PayoutTaskFailed    PayoutTaskStatus = "failed"
)

// PayoutTask is the queued transfer of a job's payout to the winning worker.
// PaymentID is unique per task and doubles as the gateway idempotence key, so
// a redelivered webhook can never enqueue (or execute) a second transfer for
// the same payment.
type PayoutTask struct {
	ID           string
	JobID        string
	PaymentID    string
	WorkerUserID string
	AmountCents  int64
	Status       PayoutTaskStatus
	Attempts     int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
