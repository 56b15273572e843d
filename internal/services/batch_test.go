package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"talentsift/resume-relevance/internal/matching"
	"talentsift/resume-relevance/internal/models"
	"talentsift/resume-relevance/internal/repositories"
	"talentsift/resume-relevance/internal/scoring"
)

type memBatchRepo struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*models.Batch
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{batches: make(map[uuid.UUID]*models.Batch)}
}

func (r *memBatchRepo) Create(batch *models.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *batch
	r.batches[batch.ID] = &copy
	return nil
}

func (r *memBatchRepo) FindByID(id uuid.UUID) (*models.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.batches[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copy := *batch
	return &copy, nil
}

func (r *memBatchRepo) UpdateStatus(id uuid.UUID, status models.BatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.batches[id]
	if !ok {
		return repositories.ErrNotFound
	}
	batch.Status = status
	return nil
}

func (r *memBatchRepo) MarkStarted(id uuid.UUID) error {
	return r.UpdateStatus(id, models.BatchProcessing)
}

func (r *memBatchRepo) UpdateProgress(id uuid.UUID, processed, failed int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.batches[id]
	if !ok {
		return repositories.ErrNotFound
	}
	batch.Processed = processed
	batch.Failed = failed
	return nil
}

func (r *memBatchRepo) Finalize(final *models.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.batches[final.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	batch.Processed = final.Processed
	batch.Failed = final.Failed
	batch.HighFitCount = final.HighFitCount
	batch.MediumFitCount = final.MediumFitCount
	batch.LowFitCount = final.LowFitCount
	batch.AverageScore = final.AverageScore
	if batch.Status == models.BatchProcessing {
		batch.Status = final.Status
	}
	return nil
}

type memJobRepo struct {
	jobs map[uuid.UUID]*models.JobPosting
}

func (r *memJobRepo) Create(job *models.JobPosting) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *memJobRepo) FindByID(id uuid.UUID) (*models.JobPosting, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return job, nil
}

func (r *memJobRepo) List(skip, limit int) ([]models.JobPosting, error) {
	return nil, nil
}

type memResumeRepo struct {
	mu      sync.Mutex
	resumes map[uuid.UUID]*models.Resume
}

func newMemResumeRepo() *memResumeRepo {
	return &memResumeRepo{resumes: make(map[uuid.UUID]*models.Resume)}
}

func (r *memResumeRepo) Create(resume *models.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resumes[resume.ID] = resume
	return nil
}

func (r *memResumeRepo) FindByID(id uuid.UUID) (*models.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.resumes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copy := *resume
	return &copy, nil
}

func (r *memResumeRepo) FindByIDs(ids []uuid.UUID) ([]models.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Resume, 0, len(ids))
	for _, id := range ids {
		if resume, ok := r.resumes[id]; ok {
			out = append(out, *resume)
		}
	}
	return out, nil
}

func (r *memResumeRepo) UpdateParsedProfile(resume *models.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *resume
	r.resumes[resume.ID] = &copy
	return nil
}

type memEvalRepo struct {
	mu    sync.Mutex
	evals map[uuid.UUID]*models.Evaluation // keyed by resume ID
}

func newMemEvalRepo() *memEvalRepo {
	return &memEvalRepo{evals: make(map[uuid.UUID]*models.Evaluation)}
}

func (r *memEvalRepo) Upsert(eval *models.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *eval
	r.evals[eval.ResumeID] = &copy
	return nil
}

func (r *memEvalRepo) ListByJob(jobID uuid.UUID, filter repositories.EvaluationFilter) ([]models.Evaluation, error) {
	return r.AllByJob(jobID)
}

func (r *memEvalRepo) AllByJob(jobID uuid.UUID) ([]models.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Evaluation, 0, len(r.evals))
	for _, eval := range r.evals {
		if eval.JobID == jobID {
			out = append(out, *eval)
		}
	}
	return out, nil
}

// stubParser marks a resume as parsed with a canned skill set, or fails for
// the configured IDs.
type stubParser struct {
	failIDs map[uuid.UUID]bool
}

func (p *stubParser) ParseResume(resume *models.Resume) error {
	if p.failIDs[resume.ID] {
		return errors.New("unreadable file")
	}
	resume.Skills = models.StringList{"python", "sql"}
	resume.IsParsed = true
	return nil
}

type batchFixture struct {
	orch       BatchOrchestrator
	batchRepo  *memBatchRepo
	evalRepo   *memEvalRepo
	resumeRepo *memResumeRepo
	job        *models.JobPosting
	batch      *models.Batch
	resumeIDs  []uuid.UUID
}

func newBatchFixture(t *testing.T, total, unparsable int) *batchFixture {
	t.Helper()

	job := &models.JobPosting{
		ID:            uuid.New(),
		Title:         "Backend Engineer",
		Description:   "We build data services",
		Requirements:  "Required: Python, SQL.",
		ExperienceMin: 1,
		ExperienceMax: 10,
	}
	jobRepo := &memJobRepo{jobs: map[uuid.UUID]*models.JobPosting{job.ID: job}}

	resumeRepo := newMemResumeRepo()
	parser := &stubParser{failIDs: make(map[uuid.UUID]bool)}

	resumeIDs := make([]uuid.UUID, 0, total)
	for i := 0; i < total; i++ {
		resume := &models.Resume{
			ID:              uuid.New(),
			CandidateName:   fmt.Sprintf("Candidate %d", i),
			ExperienceYears: 3,
			Skills:          models.StringList{"python", "sql"},
			Education:       models.EducationList{{Degree: "Bachelor of Science"}},
			IsParsed:        true,
		}
		if i < unparsable {
			resume.IsParsed = false
			resume.Skills = nil
			parser.failIDs[resume.ID] = true
		}
		require.NoError(t, resumeRepo.Create(resume))
		resumeIDs = append(resumeIDs, resume.ID)
	}

	batch := &models.Batch{
		ID:           uuid.New(),
		JobID:        job.ID,
		BatchName:    "test batch",
		TotalResumes: total,
		Status:       models.BatchPending,
	}
	batchRepo := newMemBatchRepo()
	require.NoError(t, batchRepo.Create(batch))

	evalRepo := newMemEvalRepo()

	matcher := matching.NewEngine(matching.Config{}, nil)
	scorer := scoring.NewEngine(matcher, scoring.Config{}, nil)

	orch := NewBatchOrchestrator(
		batchRepo, jobRepo, resumeRepo, evalRepo,
		parser, scorer, nil, nil, 3, zap.NewNop().Sugar(),
	)

	return &batchFixture{
		orch:       orch,
		batchRepo:  batchRepo,
		evalRepo:   evalRepo,
		resumeRepo: resumeRepo,
		job:        job,
		batch:      batch,
		resumeIDs:  resumeIDs,
	}
}

func TestBatchOrchestrator_AllSucceed(t *testing.T) {
	f := newBatchFixture(t, 10, 0)

	require.NoError(t, f.orch.RunBatch(context.Background(), f.batch.ID, f.resumeIDs))

	batch, err := f.batchRepo.FindByID(f.batch.ID)
	require.NoError(t, err)

	assert.Equal(t, models.BatchCompleted, batch.Status)
	assert.Equal(t, 10, batch.Processed)
	assert.Zero(t, batch.Failed)
	assert.Equal(t, batch.TotalResumes, batch.Processed+batch.Failed)
	require.NotNil(t, batch.AverageScore)
	assert.Greater(t, *batch.AverageScore, 0.0)
	assert.Equal(t, 10, batch.HighFitCount+batch.MediumFitCount+batch.LowFitCount)

	evals, err := f.evalRepo.AllByJob(f.job.ID)
	require.NoError(t, err)
	assert.Len(t, evals, 10)
}

func TestBatchOrchestrator_PartialFailure(t *testing.T) {
	f := newBatchFixture(t, 10, 1)

	require.NoError(t, f.orch.RunBatch(context.Background(), f.batch.ID, f.resumeIDs))

	batch, err := f.batchRepo.FindByID(f.batch.ID)
	require.NoError(t, err)

	assert.Equal(t, models.BatchCompletedWithErrors, batch.Status)
	assert.Equal(t, 9, batch.Processed)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, batch.TotalResumes, batch.Processed+batch.Failed)

	// the failed candidate still has a stored record, never an absence
	evals, err := f.evalRepo.AllByJob(f.job.ID)
	require.NoError(t, err)
	assert.Len(t, evals, 10)

	failedID := f.resumeIDs[0]
	f.evalRepo.mu.Lock()
	failedEval := f.evalRepo.evals[failedID]
	f.evalRepo.mu.Unlock()
	require.NotNil(t, failedEval)
	assert.Equal(t, models.FitLow, failedEval.OverallFit)
	assert.Zero(t, failedEval.RelevanceScore)
	assert.True(t, failedEval.IsError)
	assert.Contains(t, failedEval.Weaknesses, "Error in scoring process")
}

func TestBatchOrchestrator_StatisticsExcludeErrorRecords(t *testing.T) {
	f := newBatchFixture(t, 2, 1)

	require.NoError(t, f.orch.RunBatch(context.Background(), f.batch.ID, f.resumeIDs))

	successID := f.resumeIDs[1]
	f.evalRepo.mu.Lock()
	successEval := f.evalRepo.evals[successID]
	f.evalRepo.mu.Unlock()
	require.NotNil(t, successEval)
	require.False(t, successEval.IsError)

	batch, err := f.batchRepo.FindByID(f.batch.ID)
	require.NoError(t, err)

	// the average covers only the successful evaluation, not the stored
	// error record's zero
	require.NotNil(t, batch.AverageScore)
	assert.InDelta(t, successEval.RelevanceScore, *batch.AverageScore, 1e-9)
	assert.Equal(t, 1, batch.HighFitCount+batch.MediumFitCount+batch.LowFitCount)
}

func TestBatchOrchestrator_AllFailuresLeaveNoAverage(t *testing.T) {
	f := newBatchFixture(t, 2, 2)

	require.NoError(t, f.orch.RunBatch(context.Background(), f.batch.ID, f.resumeIDs))

	batch, err := f.batchRepo.FindByID(f.batch.ID)
	require.NoError(t, err)

	assert.Equal(t, models.BatchCompletedWithErrors, batch.Status)
	assert.Equal(t, 2, batch.Failed)
	assert.Nil(t, batch.AverageScore)
	assert.Zero(t, batch.HighFitCount+batch.MediumFitCount+batch.LowFitCount)
}

func TestBatchOrchestrator_MissingResumesCountAsFailed(t *testing.T) {
	f := newBatchFixture(t, 3, 0)

	// drop one stored resume so the batch requests an ID that does not exist
	droppedID := f.resumeIDs[0]
	f.resumeRepo.mu.Lock()
	delete(f.resumeRepo.resumes, droppedID)
	f.resumeRepo.mu.Unlock()

	require.NoError(t, f.orch.RunBatch(context.Background(), f.batch.ID, f.resumeIDs))

	batch, err := f.batchRepo.FindByID(f.batch.ID)
	require.NoError(t, err)

	assert.Equal(t, models.BatchCompletedWithErrors, batch.Status)
	assert.Equal(t, 2, batch.Processed)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, batch.TotalResumes, batch.Processed+batch.Failed)
}

func TestBatchOrchestrator_TerminalBatchRejected(t *testing.T) {
	f := newBatchFixture(t, 2, 0)
	require.NoError(t, f.batchRepo.UpdateStatus(f.batch.ID, models.BatchCompleted))

	err := f.orch.RunBatch(context.Background(), f.batch.ID, f.resumeIDs)
	assert.ErrorIs(t, err, ErrBatchTerminal)
}

func TestBatchOrchestrator_RunningBatchRejected(t *testing.T) {
	f := newBatchFixture(t, 2, 0)
	require.NoError(t, f.batchRepo.UpdateStatus(f.batch.ID, models.BatchProcessing))

	err := f.orch.RunBatch(context.Background(), f.batch.ID, f.resumeIDs)
	assert.ErrorIs(t, err, ErrBatchAlreadyRunning)
}

func TestBatchOrchestrator_CancelRequiresProcessing(t *testing.T) {
	f := newBatchFixture(t, 2, 0)

	err := f.orch.Cancel(f.batch.ID)
	assert.ErrorIs(t, err, ErrBatchNotCancellable)

	err = f.orch.Cancel(uuid.New())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestBatchOrchestrator_MissingBatch(t *testing.T) {
	f := newBatchFixture(t, 2, 0)

	err := f.orch.RunBatch(context.Background(), uuid.New(), f.resumeIDs)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestBatchOrchestrator_NoResumesFailsBatch(t *testing.T) {
	f := newBatchFixture(t, 2, 0)

	err := f.orch.RunBatch(context.Background(), f.batch.ID, []uuid.UUID{uuid.New()})
	assert.Error(t, err)

	batch, err2 := f.batchRepo.FindByID(f.batch.ID)
	require.NoError(t, err2)
	assert.Equal(t, models.BatchFailed, batch.Status)
}
