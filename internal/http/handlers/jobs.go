package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"jobboard/internal/domain"
	"jobboard/internal/lifecycle"
	"jobboard/internal/middleware"
)

type createJobRequest struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"required,max=4000"`
	Category    string `json:"category" validate:"required,oneof=editing thumbnail graphics other"`
	PayoutCents int64  `json:"payout_cents" validate:"required,gt=0"`
}

type jobResponse struct {
	ID                   string  `json:"id"`
	TenantID             string  `json:"tenant_id"`
	CreatorUserID        string  `json:"creator_user_id"`
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	Category             string  `json:"category"`
	PayoutCents          int64   `json:"payout_cents"`
	FeeBps               int     `json:"fee_bps,omitempty"`
	FeeCents             int64   `json:"fee_cents,omitempty"`
	TotalCents           int64   `json:"total_cents,omitempty"`
	Status               string  `json:"status"`
	PaymentStatus        string  `json:"payment_status,omitempty"`
	ApprovedSubmissionID *string `json:"approved_submission_id,omitempty"`
	CreatedAt            string  `json:"created_at"`
}

func toJobResponse(job *domain.Job) jobResponse {
	return jobResponse{
		ID:                   job.ID,
		TenantID:             job.TenantID,
		CreatorUserID:        job.CreatorUserID,
		Title:                job.Title,
		Description:          job.Description,
		Category:             string(job.Category),
		PayoutCents:          job.PayoutCents,
		FeeBps:               job.FeeBps,
		FeeCents:             job.FeeCents,
		TotalCents:           job.TotalCents,
		Status:               string(job.Status),
		PaymentStatus:        string(job.PaymentStatus),
		ApprovedSubmissionID: job.ApprovedSubmissionID,
		CreatedAt:            job.CreatedAt.Format(time.RFC3339),
	}
}

func toJobResponses(jobs []domain.Job) []jobResponse {
	items := make([]jobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, toJobResponse(&jobs[i]))
	}
	return items
}

// JobsList returns the tenant's open jobs.
func (a *App) JobsList(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFromContext(r.Context())
	jobs, err := a.Service.ListOpenJobs(r.Context(), tenantID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toJobResponses(jobs)})
}

// JobsCreate posts a new job. Only community owners may post.
func (a *App) JobsCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthenticated", "not authenticated")
		return
	}
	if !caller.Owner {
		a.error(w, http.StatusForbidden, "unauthorized", "only the community owner can post jobs")
		return
	}

	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	tenantID := middleware.TenantFromContext(r.Context())
	job, err := a.Service.CreateJob(r.Context(), tenantID, caller.UserID, lifecycle.CreateJobInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.JobCategory(req.Category),
		PayoutCents: req.PayoutCents,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toJobResponse(job))
}

// JobsGet returns one job; the job's creator also receives its submissions.
func (a *App) JobsGet(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	tenantID := middleware.TenantFromContext(r.Context())

	job, subs, err := a.Service.GetJob(r.Context(), tenantID, caller.UserID, chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}

	resp := map[string]any{"job": toJobResponse(job)}
	if job.CreatorUserID == caller.UserID {
		resp["submissions"] = toSubmissionResponses(subs)
	}
	a.json(w, http.StatusOK, resp)
}

// MyJobs returns the jobs the caller created in this tenant.
func (a *App) MyJobs(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	tenantID := middleware.TenantFromContext(r.Context())

	jobs, err := a.Service.ListCreatorJobs(r.Context(), tenantID, caller.UserID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toJobResponses(jobs)})
}

// MySubmissions returns the submissions the caller made in this tenant.
func (a *App) MySubmissions(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	tenantID := middleware.TenantFromContext(r.Context())

	subs, err := a.Service.ListWorkerSubmissions(r.Context(), tenantID, caller.UserID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toSubmissionResponses(subs)})
}
