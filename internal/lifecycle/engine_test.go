package lifecycle

import (
	archivezip "archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/domain"
	"jobboard/internal/whop"
)

// ---- in-memory fakes ----

type memJobs struct {
	mu   sync.Mutex
	jobs map[string]*domain.Job
}

func newMemJobs() *memJobs { return &memJobs{jobs: map[string]*domain.Job{}} }

func (m *memJobs) put(job *domain.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.jobs[job.ID] = &cp
}

func (m *memJobs) get(id string) domain.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.jobs[id]
}

func (m *memJobs) Create(_ context.Context, job *domain.Job) error {
	m.put(job)
	return nil
}

func (m *memJobs) GetByID(_ context.Context, tenantID, jobID string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok || job.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *memJobs) GetByCheckoutID(_ context.Context, checkoutID string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, job := range m.jobs {
		if job.CheckoutID != nil && *job.CheckoutID == checkoutID {
			cp := *job
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memJobs) ListOpen(_ context.Context, tenantID string) ([]domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []domain.Job
	for _, job := range m.jobs {
		if job.TenantID == tenantID && job.Status == domain.JobStatusOpen {
			items = append(items, *job)
		}
	}
	return items, nil
}

func (m *memJobs) ListByCreator(_ context.Context, tenantID, creatorID string) ([]domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []domain.Job
	for _, job := range m.jobs {
		if job.TenantID == tenantID && job.CreatorUserID == creatorID {
			items = append(items, *job)
		}
	}
	return items, nil
}

func (m *memJobs) MarkApproved(_ context.Context, p domain.ApproveJobParams) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[p.JobID]
	if !ok || job.TenantID != p.TenantID || job.Status != domain.JobStatusOpen || job.ApprovedSubmissionID != nil {
		return false, nil
	}
	job.ApprovedSubmissionID = &p.SubmissionID
	job.FeeBps = p.FeeBps
	job.FeeCents = p.FeeCents
	job.TotalCents = p.TotalCents
	job.CheckoutID = &p.CheckoutID
	job.PaymentStatus = domain.PaymentStatusRequired
	job.ApprovedAt = &p.ApprovedAt
	return true, nil
}

func (m *memJobs) MarkPaid(_ context.Context, jobID, paymentID string, paidAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok || job.PaymentStatus != domain.PaymentStatusRequired {
		return false, nil
	}
	job.PaymentStatus = domain.PaymentStatusPaid
	job.Status = domain.JobStatusClosed
	job.PaymentID = &paymentID
	job.PaidAt = &paidAt
	job.ClosedAt = &paidAt
	return true, nil
}

type memSubs struct {
	mu   sync.Mutex
	subs map[string]*domain.Submission
}

func newMemSubs() *memSubs { return &memSubs{subs: map[string]*domain.Submission{}} }

func (m *memSubs) put(sub *domain.Submission) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.subs[sub.ID] = &cp
}

func (m *memSubs) get(id string) domain.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.subs[id]
}

func (m *memSubs) Create(_ context.Context, sub *domain.Submission) error {
	m.put(sub)
	return nil
}

func (m *memSubs) GetByID(_ context.Context, tenantID, jobID, submissionID string) (*domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[submissionID]
	if !ok || sub.JobID != jobID || sub.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (m *memSubs) ListByJob(_ context.Context, tenantID, jobID string) ([]domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []domain.Submission
	for _, sub := range m.subs {
		if sub.TenantID == tenantID && sub.JobID == jobID {
			items = append(items, *sub)
		}
	}
	return items, nil
}

func (m *memSubs) ListByWorker(_ context.Context, tenantID, workerID string) ([]domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []domain.Submission
	for _, sub := range m.subs {
		if sub.TenantID == tenantID && sub.WorkerUserID == workerID {
			items = append(items, *sub)
		}
	}
	return items, nil
}

func (m *memSubs) UpdateStatus(_ context.Context, tenantID, jobID, submissionID string, status domain.SubmissionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.subs[submissionID]; ok && sub.JobID == jobID && sub.TenantID == tenantID {
		sub.Status = status
	}
	return nil
}

func (m *memSubs) SettleApproval(_ context.Context, jobID, approvedSubmissionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subs {
		if sub.JobID != jobID {
			continue
		}
		if sub.ID == approvedSubmissionID {
			sub.Status = domain.SubmissionStatusApproved
		} else if sub.Status == domain.SubmissionStatusPending {
			sub.Status = domain.SubmissionStatusRejected
		}
	}
	return nil
}

type memPayouts struct {
	mu    sync.Mutex
	tasks []domain.PayoutTask
}

func (m *memPayouts) Enqueue(_ context.Context, task *domain.PayoutTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.PaymentID == task.PaymentID {
			return nil
		}
	}
	m.tasks = append(m.tasks, *task)
	return nil
}

func (m *memPayouts) ClaimNext(context.Context) (*domain.PayoutTask, error) {
	return nil, domain.ErrNotFound
}

func (m *memPayouts) MarkSucceeded(context.Context, string) error { return nil }

func (m *memPayouts) MarkFailed(context.Context, string, string, bool) error { return nil }

func (m *memPayouts) all() []domain.PayoutTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.PayoutTask(nil), m.tasks...)
}

type fakeGateway struct {
	mu        sync.Mutex
	checkouts []whop.CheckoutRequest
	err       error
}

func (g *fakeGateway) CreateCheckout(_ context.Context, req whop.CheckoutRequest) (*whop.Checkout, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.checkouts = append(g.checkouts, req)
	id := fmt.Sprintf("co_%d", len(g.checkouts))
	return &whop.Checkout{ID: id, PurchaseURL: "https://whop.test/checkout/" + id}, nil
}

type fakeStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (s *fakeStore) Write(_ context.Context, key string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.files[key] = data
	return key, nil
}

func (s *fakeStore) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[key]
	if !ok {
		return nil, fmt.Errorf("no file %q", key)
	}
	return data, nil
}

func (s *fakeStore) PublicURL(key string) string { return "https://files.test/" + key }

func (s *fakeStore) KeyFromURL(url string) (string, bool) {
	key := strings.TrimPrefix(url, "https://files.test/")
	return key, key != url && key != ""
}

// ---- fixtures ----

type fixture struct {
	engine  *Engine
	jobs    *memJobs
	subs    *memSubs
	payouts *memPayouts
	gateway *fakeGateway
	store   *fakeStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		jobs:    newMemJobs(),
		subs:    newMemSubs(),
		payouts: &memPayouts{},
		gateway: &fakeGateway{},
		store:   &fakeStore{},
	}
	f.engine = NewEngine(Options{
		Jobs:        f.jobs,
		Submissions: f.subs,
		Payouts:     f.payouts,
		Gateway:     f.gateway,
		Store:       f.store,
		Logger:      zerolog.Nop(),
		FeeBps:      800,
		RedirectURL: "https://app.test/my-jobs?payment=success",
	})
	return f
}

func (f *fixture) seedJob(id, tenant, creator string, payout int64) {
	f.jobs.put(&domain.Job{
		ID:            id,
		TenantID:      tenant,
		CreatorUserID: creator,
		Title:         "Edit my video",
		Description:   "Cut a 10 minute VOD down to 60 seconds",
		Category:      domain.JobCategoryEditing,
		PayoutCents:   payout,
		Status:        domain.JobStatusOpen,
		CreatedAt:     time.Now().UTC(),
	})
}

func (f *fixture) seedSubmission(id, jobID, tenant, worker string) {
	f.subs.put(&domain.Submission{
		ID:           id,
		JobID:        jobID,
		TenantID:     tenant,
		WorkerUserID: worker,
		ProofURL:     "https://files.test/job-" + jobID + "/proof.png",
		Status:       domain.SubmissionStatusPending,
		CreatedAt:    time.Now().UTC(),
	})
}

// ---- tests ----

func TestCreateJob_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.CreateJob(ctx, "t1", "creator", CreateJobInput{Title: "", Description: "d", Category: domain.JobCategoryOther, PayoutCents: 100})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.engine.CreateJob(ctx, "t1", "creator", CreateJobInput{Title: "t", Description: "d", Category: "banner", PayoutCents: 100})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.engine.CreateJob(ctx, "t1", "creator", CreateJobInput{Title: "t", Description: "d", Category: domain.JobCategoryOther, PayoutCents: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	job, err := f.engine.CreateJob(ctx, "t1", "creator", CreateJobInput{Title: "t", Description: "d", Category: domain.JobCategoryThumbnail, PayoutCents: 2500})
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusOpen, job.Status)
	assert.Equal(t, "t1", job.TenantID)
}

func TestSubmitWork(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedJob("j1", "t1", "creator", 10000)

	sub, err := f.engine.SubmitWork(ctx, "t1", "worker", "j1", Artifact{Filename: "proof.PNG", Data: []byte("png")}, "done!")
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionStatusPending, sub.Status)
	assert.Contains(t, sub.ProofURL, "https://files.test/job-j1/")
	assert.Contains(t, sub.ProofURL, ".png")
}

func TestSubmitWork_MissingArtifact(t *testing.T) {
	f := newFixture(t)
	f.seedJob("j1", "t1", "creator", 10000)

	_, err := f.engine.SubmitWork(context.Background(), "t1", "worker", "j1", Artifact{}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmitWork_ClosedJob(t *testing.T) {
	f := newFixture(t)
	f.seedJob("j1", "t1", "creator", 10000)
	job := f.jobs.get("j1")
	job.Status = domain.JobStatusClosed
	f.jobs.put(&job)

	_, err := f.engine.SubmitWork(context.Background(), "t1", "worker", "j1", Artifact{Filename: "p.png", Data: []byte("x")}, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSubmitWork_CrossTenantLooksAbsent(t *testing.T) {
	f := newFixture(t)
	f.seedJob("j1", "t1", "creator", 10000)

	_, err := f.engine.SubmitWork(context.Background(), "t2", "worker", "j1", Artifact{Filename: "p.png", Data: []byte("x")}, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApproveSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedJob("j1", "t1", "creator", 10000)
	f.seedSubmission("s1", "j1", "t1", "worker")
	f.seedSubmission("s2", "j1", "t1", "worker2")

	url, err := f.engine.ApproveSubmission(ctx, "t1", "creator", "j1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "https://whop.test/checkout/co_1", url)

	job := f.jobs.get("j1")
	require.NotNil(t, job.ApprovedSubmissionID)
	assert.Equal(t, "s1", *job.ApprovedSubmissionID)
	assert.Equal(t, domain.PaymentStatusRequired, job.PaymentStatus)
	assert.Equal(t, int64(800), job.FeeCents)
	assert.Equal(t, int64(10800), job.TotalCents)
	assert.Equal(t, 800, job.FeeBps)

	// Approval must not settle anything yet: the job stays open and no
	// submission status moves until the payment webhook lands.
	assert.Equal(t, domain.JobStatusOpen, job.Status)
	assert.Equal(t, domain.SubmissionStatusPending, f.subs.get("s1").Status)
	assert.Equal(t, domain.SubmissionStatusPending, f.subs.get("s2").Status)

	require.Len(t, f.gateway.checkouts, 1)
	req := f.gateway.checkouts[0]
	assert.Equal(t, int64(10800), req.AmountCents)
	assert.Equal(t, "j1", req.Metadata["jobId"])
	assert.Equal(t, "worker", req.Metadata["workerUserId"])
}

func TestApproveSubmission_NotCreator(t *testing.T) {
	f := newFixture(t)
	f.seedJob("j1", "t1", "creator", 10000)
	f.seedSubmission("s1", "j1", "t1", "worker")

	_, err := f.engine.ApproveSubmission(context.Background(), "t1", "someone-else", "j1", "s1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestApproveSubmission_CrossTenant(t *testing.T) {
	f := newFixture(t)
	f.seedJob("j1", "t1", "creator", 10000)
	f.seedSubmission("s1", "j1", "t1", "worker")

	_, err := f.engine.ApproveSubmission(context.Background(), "t2", "creator", "j1", "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApproveSubmission_AlreadyApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedJob("j1", "t1", "creator", 10000)
	f.seedSubmission("s1", "j1", "t1", "worker")
	f.seedSubmission("s2", "j1", "t1", "worker2")

	_, err := f.engine.ApproveSubmission(ctx, "t1", "creator", "j1", "s1")
	require.NoError(t, err)

	_, err = f.engine.ApproveSubmission(ctx, "t1", "creator", "j1", "s2")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestApproveSubmission_ConcurrentRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedJob("j1", "t1", "creator", 10000)
	f.seedSubmission("s1", "j1", "t1", "worker")
	f.seedSubmission("s2", "j1", "t1", "worker2")

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, sid := range []string{"s1", "s2"} {
		wg.Add(1)
		go func(i int, sid string) {
			defer wg.Done()
			_, errs[i] = f.engine.ApproveSubmission(ctx, "t1", "creator", "j1", sid)
		}(i, sid)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one approval must win")
	assert.Equal(t, 1, conflicted, "the loser must see a conflict")

	job := f.jobs.get("j1")
	require.NotNil(t, job.ApprovedSubmissionID)
	assert.Contains(t, []string{"s1", "s2"}, *job.ApprovedSubmissionID)
}

func TestApproveSubmission_GatewayFailure(t *testing.T) {
	f := newFixture(t)
	f.seedJob("j1", "t1", "creator", 10000)
	f.seedSubmission("s1", "j1", "t1", "worker")
	f.gateway.err = errors.New("gateway down")

	_, err := f.engine.ApproveSubmission(context.Background(), "t1", "creator", "j1", "s1")
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)

	// Nothing persisted when checkout creation fails.
	assert.Nil(t, f.jobs.get("j1").ApprovedSubmissionID)
}

func TestRejectSubmission_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedJob("j1", "t1", "creator", 10000)
	f.seedSubmission("s1", "j1", "t1", "worker")

	require.NoError(t, f.engine.RejectSubmission(ctx, "t1", "creator", "j1", "s1"))
	assert.Equal(t, domain.SubmissionStatusRejected, f.subs.get("s1").Status)

	require.NoError(t, f.engine.RejectSubmission(ctx, "t1", "creator", "j1", "s1"))
	assert.Equal(t, domain.SubmissionStatusRejected, f.subs.get("s1").Status)

	// The job itself is unaffected by rejections.
	assert.Equal(t, domain.JobStatusOpen, f.jobs.get("j1").Status)
}

func TestRejectSubmission_NotCreator(t *testing.T) {
	f := newFixture(t)
	f.seedJob("j1", "t1", "creator", 10000)
	f.seedSubmission("s1", "j1", "t1", "worker")

	err := f.engine.RejectSubmission(context.Background(), "t1", "worker", "j1", "s1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func approveAndGetCheckout(t *testing.T, f *fixture) string {
	t.Helper()
	_, err := f.engine.ApproveSubmission(context.Background(), "t1", "creator", "j1", "s1")
	require.NoError(t, err)
	job := f.jobs.get("j1")
	require.NotNil(t, job.CheckoutID)
	return *job.CheckoutID
}

func TestCompletePayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedJob("j1", "t1", "creator", 10000)
	f.seedSubmission("s1", "j1", "t1", "worker")
	f.seedSubmission("s2", "j1", "t1", "worker2")
	checkoutID := approveAndGetCheckout(t, f)

	require.NoError(t, f.engine.CompletePayment(ctx, "pay_1", checkoutID))

	job := f.jobs.get("j1")
	assert.Equal(t, domain.PaymentStatusPaid, job.PaymentStatus)
	assert.Equal(t, domain.JobStatusClosed, job.Status)
	require.NotNil(t, job.PaymentID)
	assert.Equal(t, "pay_1", *job.PaymentID)
	assert.NotNil(t, job.PaidAt)

	assert.Equal(t, domain.SubmissionStatusApproved, f.subs.get("s1").Status)
	assert.Equal(t, domain.SubmissionStatusRejected, f.subs.get("s2").Status)

	tasks := f.payouts.all()
	require.Len(t, tasks, 1)
	assert.Equal(t, "pay_1", tasks[0].PaymentID)
	assert.Equal(t, "worker", tasks[0].WorkerUserID)
	// Worker receives the payout, not the total charge.
	assert.Equal(t, int64(10000), tasks[0].AmountCents)
}

func TestCompletePayment_DuplicateDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedJob("j1", "t1", "creator", 10000)
	f.seedSubmission("s1", "j1", "t1", "worker")
	checkoutID := approveAndGetCheckout(t, f)

	require.NoError(t, f.engine.CompletePayment(ctx, "pay_1", checkoutID))
	require.NoError(t, f.engine.CompletePayment(ctx, "pay_1", checkoutID))

	assert.Len(t, f.payouts.all(), 1, "duplicate delivery must not enqueue a second payout")
}

func TestCompletePayment_ConcurrentDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedJob("j1", "t1", "creator", 10000)
	f.seedSubmission("s1", "j1", "t1", "worker")
	checkoutID := approveAndGetCheckout(t, f)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.engine.CompletePayment(ctx, "pay_1", checkoutID)
		}()
	}
	wg.Wait()

	assert.Len(t, f.payouts.all(), 1)
	assert.Equal(t, domain.PaymentStatusPaid, f.jobs.get("j1").PaymentStatus)
}

func TestCompletePayment_UnknownCheckout(t *testing.T) {
	f := newFixture(t)

	// Dropped without error so the provider stops retrying.
	require.NoError(t, f.engine.CompletePayment(context.Background(), "pay_1", "co_missing"))
	assert.Empty(t, f.payouts.all())
}

func TestCompletePayment_NoApprovedSubmission(t *testing.T) {
	f := newFixture(t)
	f.seedJob("j1", "t1", "creator", 10000)
	job := f.jobs.get("j1")
	checkoutID := "co_orphan"
	job.CheckoutID = &checkoutID
	job.PaymentStatus = domain.PaymentStatusRequired
	f.jobs.put(&job)

	require.NoError(t, f.engine.CompletePayment(context.Background(), "pay_1", checkoutID))

	got := f.jobs.get("j1")
	assert.Equal(t, domain.PaymentStatusRequired, got.PaymentStatus)
	assert.Equal(t, domain.JobStatusOpen, got.Status)
	assert.Empty(t, f.payouts.all())
}

func TestGetJob_SubmissionsOnlyForCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedJob("j1", "t1", "creator", 10000)
	f.seedSubmission("s1", "j1", "t1", "worker")

	_, subs, err := f.engine.GetJob(ctx, "t1", "creator", "j1")
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	_, subs, err = f.engine.GetJob(ctx, "t1", "worker", "j1")
	require.NoError(t, err)
	assert.Empty(t, subs)

	_, _, err = f.engine.GetJob(ctx, "t2", "creator", "j1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArchiveSubmissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedJob("j1", "t1", "creator", 10000)

	s1, err := f.engine.SubmitWork(ctx, "t1", "worker1", "j1", Artifact{Filename: "cut.mp4", Data: []byte("video-bytes")}, "")
	require.NoError(t, err)
	s2, err := f.engine.SubmitWork(ctx, "t1", "worker2", "j1", Artifact{Filename: "thumb.png", Data: []byte("png-bytes")}, "")
	require.NoError(t, err)

	blob, err := f.engine.ArchiveSubmissions(ctx, "t1", "creator", "j1")
	require.NoError(t, err)

	zr, err := archivezip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	names := []string{zr.File[0].Name, zr.File[1].Name}
	assert.Contains(t, names, s1.ID+".mp4")
	assert.Contains(t, names, s2.ID+".png")
}

func TestArchiveSubmissions_CreatorOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedJob("j1", "t1", "creator", 10000)
	f.seedSubmission("s1", "j1", "t1", "worker")

	_, err := f.engine.ArchiveSubmissions(ctx, "t1", "worker", "j1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestArchiveSubmissions_Empty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedJob("j1", "t1", "creator", 10000)

	_, err := f.engine.ArchiveSubmissions(ctx, "t1", "creator", "j1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// A submission whose artifact has vanished from storage is skipped; with
	// nothing readable the archive is reported as absent too.
	f.seedSubmission("s1", "j1", "t1", "worker")
	_, err = f.engine.ArchiveSubmissions(ctx, "t1", "creator", "j1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
