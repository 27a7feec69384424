package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"jobboard/internal/domain"
	"jobboard/internal/infra"
	"jobboard/internal/lifecycle"
)

// JobService is the slice of the lifecycle engine the HTTP layer consumes.
type JobService interface {
	CreateJob(ctx context.Context, tenantID, creatorID string, in lifecycle.CreateJobInput) (*domain.Job, error)
	ListOpenJobs(ctx context.Context, tenantID string) ([]domain.Job, error)
	ListCreatorJobs(ctx context.Context, tenantID, creatorID string) ([]domain.Job, error)
	ListWorkerSubmissions(ctx context.Context, tenantID, workerID string) ([]domain.Submission, error)
	GetJob(ctx context.Context, tenantID, callerID, jobID string) (*domain.Job, []domain.Submission, error)
	SubmitWork(ctx context.Context, tenantID, workerID, jobID string, artifact lifecycle.Artifact, note string) (*domain.Submission, error)
	ArchiveSubmissions(ctx context.Context, tenantID, callerID, jobID string) ([]byte, error)
	ApproveSubmission(ctx context.Context, tenantID, callerID, jobID, submissionID string) (string, error)
	RejectSubmission(ctx context.Context, tenantID, callerID, jobID, submissionID string) error
	CompletePayment(ctx context.Context, paymentID, checkoutID string) error
}

// App is the handler container wired by the router.
type App struct {
	Service       JobService
	Logger        infra.Logger
	WebhookSecret string
	AppBaseURL    string
	Validate      *validator.Validate
}

// NewApp creates the handler container.
func NewApp(service JobService, logger infra.Logger, webhookSecret, appBaseURL string) *App {
	return &App{
		Service:       service,
		Logger:        logger,
		WebhookSecret: webhookSecret,
		AppBaseURL:    appBaseURL,
		Validate:      validator.New(),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}

// domainError maps a lifecycle/domain error onto the HTTP surface.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		a.error(w, http.StatusUnauthorized, "unauthenticated", "not authenticated")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusForbidden, "unauthorized", "not authorized")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrUpstreamFailure):
		a.error(w, http.StatusBadGateway, "upstream_failure", "upstream call failed")
	default:
		a.Logger.Error().Err(err).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
