package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"jobboard/internal/http/handlers"
	"jobboard/internal/middleware"
)

// Options carries everything the route tree needs beyond the handlers.
type Options struct {
	Logger          zerolog.Logger
	Verifier        middleware.UserVerifier
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
	CORSOrigins     []string
	StoragePath     string
}

// NewRouter builds the HTTP route tree.
//
// The health check and the payment webhook sit outside the tenant group: the
// webhook is authenticated by its signature, not by an embedded-session
// cookie. Everything else requires a resolvable tenant, and mutating or
// caller-specific routes additionally require a verified user token.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.Country(opts.CountryLookup),
	)
	if len(opts.CORSOrigins) > 0 {
		r.Use(middleware.CORS(opts.CORSOrigins))
	}
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/webhooks/whop", app.WhopWebhook)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Tenant)

		r.Get("/v1/jobs", app.JobsList)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(opts.Verifier))

			r.Post("/v1/jobs", app.JobsCreate)
			r.Get("/v1/jobs/{id}", app.JobsGet)
			r.Get("/v1/my/jobs", app.MyJobs)
			r.Get("/v1/my/submissions", app.MySubmissions)

			r.Route("/v1/jobs/{id}/submissions", func(r chi.Router) {
				r.Post("/", app.SubmissionCreate)
				r.Get("/archive", app.SubmissionsArchive)
				r.Post("/{submissionID}/approve", app.SubmissionApprove)
				r.Post("/{submissionID}/reject", app.SubmissionReject)
			})
		})
	})

	if opts.StoragePath != "" {
		fileServer(r, "/static", http.Dir(opts.StoragePath))
	}

	return r
}

// fileServer serves proof artifacts from local storage under the given prefix.
func fileServer(r chi.Router, prefix string, root http.FileSystem) {
	handler := http.StripPrefix(prefix, http.FileServer(root))
	r.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		if strings.Contains(req.URL.Path, "..") {
			http.NotFound(w, req)
			return
		}
		handler.ServeHTTP(w, req)
	})
}
