package domain

import "time"

// JobCategory enumerates supported job categories.
type JobCategory string

const (
	JobCategoryEditing   JobCategory = "editing"
	JobCategoryThumbnail JobCategory = "thumbnail"
	JobCategoryGraphics  JobCategory = "graphics"
	JobCategoryOther     JobCategory = "other"
)

// ValidJobCategory reports whether c is one of the supported categories.
func ValidJobCategory(c JobCategory) bool {
	switch c {
	case JobCategoryEditing, JobCategoryThumbnail, JobCategoryGraphics, JobCategoryOther:
		return true
	}
	return false
}

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// PaymentStatus tracks the billing side of a job's lifecycle. The empty
// string means no payment has been initiated yet.
type PaymentStatus string

const (
	PaymentStatusNone     PaymentStatus = ""
	PaymentStatusRequired PaymentStatus = "requires_payment"
	PaymentStatusPaid     PaymentStatus = "paid"
)

// Job is a paid task posted by a community creator. Once a submission is
// approved the job carries the frozen fee snapshot and the checkout linkage
// until the payment webhook closes it.
type Job struct {
	ID                   string
	TenantID             string
	CreatorUserID        string
	Title                string
	Description          string
	Category             JobCategory
	PayoutCents          int64
	FeeBps               int
	FeeCents             int64
	TotalCents           int64
	Status               JobStatus
	PaymentStatus        PaymentStatus
	ApprovedSubmissionID *string
	CheckoutID           *string
	PaymentID            *string
	CreatedAt            time.Time
	ApprovedAt           *time.Time
	ClosedAt             *time.Time
	PaidAt               *time.Time
}
