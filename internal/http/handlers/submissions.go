package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"jobboard/internal/domain"
	"jobboard/internal/lifecycle"
	"jobboard/internal/middleware"
)

const maxUploadBytes = 32 << 20

type submissionResponse struct {
	ID           string `json:"id"`
	JobID        string `json:"job_id"`
	WorkerUserID string `json:"worker_user_id"`
	ProofURL     string `json:"proof_url"`
	Note         string `json:"note,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func toSubmissionResponse(sub *domain.Submission) submissionResponse {
	return submissionResponse{
		ID:           sub.ID,
		JobID:        sub.JobID,
		WorkerUserID: sub.WorkerUserID,
		ProofURL:     sub.ProofURL,
		Note:         sub.Note,
		Status:       string(sub.Status),
		CreatedAt:    sub.CreatedAt.Format(time.RFC3339),
	}
}

func toSubmissionResponses(subs []domain.Submission) []submissionResponse {
	items := make([]submissionResponse, 0, len(subs))
	for i := range subs {
		items = append(items, toSubmissionResponse(&subs[i]))
	}
	return items
}

// SubmissionCreate accepts a multipart proof-of-work upload for an open job.
func (a *App) SubmissionCreate(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	tenantID := middleware.TenantFromContext(r.Context())
	jobID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read upload")
		return
	}

	sub, err := a.Service.SubmitWork(r.Context(), tenantID, caller.UserID, jobID,
		lifecycle.Artifact{Filename: header.Filename, Data: data}, r.FormValue("note"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toSubmissionResponse(sub))
}

// SubmissionsArchive streams every proof artifact of the job as one zip file.
func (a *App) SubmissionsArchive(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	tenantID := middleware.TenantFromContext(r.Context())
	jobID := chi.URLParam(r, "id")

	blob, err := a.Service.ArchiveSubmissions(r.Context(), tenantID, caller.UserID, jobID)
	if err != nil {
		a.domainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="job-`+jobID+`-submissions.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

// SubmissionApprove starts the payment for a submission and redirects the
// creator to the gateway's hosted checkout.
func (a *App) SubmissionApprove(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	tenantID := middleware.TenantFromContext(r.Context())
	jobID := chi.URLParam(r, "id")
	submissionID := chi.URLParam(r, "submissionID")

	checkoutURL, err := a.Service.ApproveSubmission(r.Context(), tenantID, caller.UserID, jobID, submissionID)
	if err != nil {
		a.domainError(w, err)
		return
	}

	a.Logger.Info().
		Str("job_id", jobID).
		Str("submission_id", submissionID).
		Str("country", middleware.CountryFromContext(r.Context())).
		Msg("approval started, redirecting to checkout")
	http.Redirect(w, r, checkoutURL, http.StatusSeeOther)
}

// SubmissionReject rejects a submission and sends the creator back to their
// jobs overview.
func (a *App) SubmissionReject(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	tenantID := middleware.TenantFromContext(r.Context())
	jobID := chi.URLParam(r, "id")
	submissionID := chi.URLParam(r, "submissionID")

	if err := a.Service.RejectSubmission(r.Context(), tenantID, caller.UserID, jobID, submissionID); err != nil {
		a.domainError(w, err)
		return
	}
	http.Redirect(w, r, a.AppBaseURL+"/my-jobs", http.StatusSeeOther)
}
