package domain

import "time"

// SubmissionStatus enumerates submission lifecycle states.
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// Submission is a worker's proof-of-work for a job. At most one submission
// per job ends up approved; pending siblings are rejected when payment for
// the winner completes.
type Submission struct {
	ID           string
	JobID        string
	TenantID     string
	WorkerUserID string
	ProofURL     string
	Note         string
	Status       SubmissionStatus
	CreatedAt    time.Time
}
