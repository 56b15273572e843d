package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"talentsift/resume-relevance/internal/models"
	"talentsift/resume-relevance/internal/repositories"
	"talentsift/resume-relevance/internal/scoring"
)

var (
	ErrBatchTerminal       = errors.New("batch already in a terminal state")
	ErrBatchAlreadyRunning = errors.New("batch is already processing")
	ErrBatchNotCancellable = errors.New("only a processing batch can be cancelled")
)

// BatchOrchestrator drives the scoring engine over many resumes against one
// job posting. Workers run in a fixed-size pool and report outcomes over a
// channel to a single aggregator goroutine that owns the batch counters, so
// no counter is ever written concurrently.
type BatchOrchestrator interface {
	RunBatch(ctx context.Context, batchID uuid.UUID, resumeIDs []uuid.UUID) error
	Cancel(batchID uuid.UUID) error
}

type batchOrchestrator struct {
	batchRepo   repositories.BatchRepository
	jobRepo     repositories.JobRepository
	resumeRepo  repositories.ResumeRepository
	evalRepo    repositories.EvaluationRepository
	parser      ResumeParserService
	scorer      *scoring.Engine
	embedder    EmbeddingService   // optional
	vectorStore VectorStoreService // optional
	concurrency int
	log         *zap.SugaredLogger

	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
}

func NewBatchOrchestrator(
	batchRepo repositories.BatchRepository,
	jobRepo repositories.JobRepository,
	resumeRepo repositories.ResumeRepository,
	evalRepo repositories.EvaluationRepository,
	parser ResumeParserService,
	scorer *scoring.Engine,
	embedder EmbeddingService,
	vectorStore VectorStoreService,
	concurrency int,
	log *zap.SugaredLogger,
) BatchOrchestrator {
	if concurrency <= 0 {
		concurrency = 5
	}
	return &batchOrchestrator{
		batchRepo:   batchRepo,
		jobRepo:     jobRepo,
		resumeRepo:  resumeRepo,
		evalRepo:    evalRepo,
		parser:      parser,
		scorer:      scorer,
		embedder:    embedder,
		vectorStore: vectorStore,
		concurrency: concurrency,
		log:         log,
	}
}

type candidateOutcome struct {
	resumeID uuid.UUID
	err      error
}

// RunBatch processes every resume in the batch. Per-candidate failures are
// counted, never fatal; only a missing batch or job fails the whole run.
// Re-invoking on a terminal batch is rejected.
func (o *batchOrchestrator) RunBatch(ctx context.Context, batchID uuid.UUID, resumeIDs []uuid.UUID) error {
	batch, err := o.batchRepo.FindByID(batchID)
	if err != nil {
		return err
	}
	if batch.Status.IsTerminal() {
		return fmt.Errorf("batch %s: %w", batchID, ErrBatchTerminal)
	}
	if batch.Status == models.BatchProcessing {
		return fmt.Errorf("batch %s: %w", batchID, ErrBatchAlreadyRunning)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	o.registerCancel(batchID, cancel)
	defer o.unregisterCancel(batchID)

	if err := o.batchRepo.MarkStarted(batchID); err != nil {
		return err
	}

	job, err := o.jobRepo.FindByID(batch.JobID)
	if err != nil {
		o.log.Errorw("job not found for batch", "batch_id", batchID, "job_id", batch.JobID, "error", err)
		o.failBatch(batchID)
		return err
	}

	resumes, err := o.resumeRepo.FindByIDs(resumeIDs)
	if err != nil {
		o.failBatch(batchID)
		return err
	}
	if len(resumes) == 0 {
		o.failBatch(batchID)
		return fmt.Errorf("no resumes found for batch %s", batchID)
	}

	// Requested IDs with no stored resume count as failed so the counters
	// still add up to the batch total.
	missing := len(resumeIDs) - len(resumes)
	if missing > 0 {
		o.log.Warnw("some resumes not found for batch",
			"batch_id", batchID,
			"requested", len(resumeIDs),
			"found", len(resumes),
		)
	}

	o.log.Infow("batch processing started",
		"batch_id", batchID,
		"job_id", job.ID,
		"resumes", len(resumes),
		"workers", o.concurrency,
	)

	work := make(chan models.Resume)
	outcomes := make(chan candidateOutcome)

	var wg sync.WaitGroup
	for i := 0; i < o.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for resume := range work {
				outcomes <- o.processResume(runCtx, workerID, job, resume)
			}
		}(i + 1)
	}

	// Dispatch stops as soon as cancellation is observed; in-flight work is
	// allowed to finish.
	go func() {
		defer close(work)
		for _, resume := range resumes {
			select {
			case <-runCtx.Done():
				return
			case work <- resume:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	// Single aggregator: the only writer of the batch counters.
	processed, failed := 0, missing
	for outcome := range outcomes {
		if outcome.err != nil {
			failed++
			o.log.Warnw("candidate evaluation failed",
				"batch_id", batchID,
				"resume_id", outcome.resumeID,
				"error", outcome.err,
			)
		} else {
			processed++
		}
		if err := o.batchRepo.UpdateProgress(batchID, processed, failed); err != nil {
			o.log.Errorw("failed to update batch progress", "batch_id", batchID, "error", err)
		}
	}

	final := &models.Batch{
		ID:        batchID,
		JobID:     job.ID,
		Processed: processed,
		Failed:    failed,
	}
	if failed == 0 {
		final.Status = models.BatchCompleted
	} else {
		final.Status = models.BatchCompletedWithErrors
	}

	// Statistics cover the full stored evaluation set for the job, not just
	// this run.
	if err := o.computeStatistics(final); err != nil {
		o.log.Errorw("failed to compute batch statistics", "batch_id", batchID, "error", err)
	}

	if err := o.batchRepo.Finalize(final); err != nil {
		return err
	}

	o.log.Infow("batch processing finished",
		"batch_id", batchID,
		"processed", processed,
		"failed", failed,
		"cancelled", runCtx.Err() != nil,
	)
	return nil
}

// Cancel transitions a processing batch to cancelled and stops dispatching
// new work. Cancellation is cooperative: in-flight evaluations finish and
// their records remain.
func (o *batchOrchestrator) Cancel(batchID uuid.UUID) error {
	batch, err := o.batchRepo.FindByID(batchID)
	if err != nil {
		return err
	}
	if batch.Status != models.BatchProcessing {
		return fmt.Errorf("batch %s in state %s: %w", batchID, batch.Status, ErrBatchNotCancellable)
	}

	if err := o.batchRepo.UpdateStatus(batchID, models.BatchCancelled); err != nil {
		return err
	}

	o.mu.Lock()
	cancel, ok := o.cancels[batchID]
	o.mu.Unlock()
	if ok {
		cancel()
	}

	o.log.Infow("batch cancelled", "batch_id", batchID)
	return nil
}

// processResume is one unit of worker work: extract-if-needed, score,
// persist. Any failure still leaves an explicit error evaluation record so
// downstream consumers never see an absent result.
func (o *batchOrchestrator) processResume(ctx context.Context, workerID int, job *models.JobPosting, resume models.Resume) candidateOutcome {
	start := time.Now()

	if !resume.IsParsed {
		if err := o.parser.ParseResume(&resume); err != nil {
			o.persistEvaluation(resume.ID, job.ID, scoring.ErrorResult(), time.Since(start))
			return candidateOutcome{resumeID: resume.ID, err: err}
		}
	}

	result := o.scorer.Score(ctx, &resume, job)

	if err := o.persistEvaluation(resume.ID, job.ID, result, time.Since(start)); err != nil {
		return candidateOutcome{resumeID: resume.ID, err: err}
	}

	o.indexProfile(ctx, &resume)

	o.log.Debugw("candidate scored",
		"worker", workerID,
		"resume_id", resume.ID,
		"relevance", result.RelevanceScore,
		"fit", result.OverallFit,
	)
	return candidateOutcome{resumeID: resume.ID}
}

func (o *batchOrchestrator) persistEvaluation(resumeID, jobID uuid.UUID, result scoring.ScoringResult, elapsed time.Duration) error {
	eval := &models.Evaluation{
		ID:                    uuid.New(),
		ResumeID:              resumeID,
		JobID:                 jobID,
		RelevanceScore:        result.RelevanceScore,
		SkillsMatchScore:      result.SkillsMatchScore,
		ExperienceMatchScore:  result.ExperienceMatchScore,
		EducationMatchScore:   result.EducationMatchScore,
		SemanticScore:         result.SemanticScore,
		OverallFit:            result.OverallFit,
		MatchedSkills:         result.MatchedSkills,
		MissingSkills:         result.MissingSkills,
		MissingCertifications: result.MissingCertifications,
		MissingProjects:       result.MissingProjects,
		Strengths:             result.Strengths,
		Weaknesses:            result.Weaknesses,
		Recommendations:       result.Recommendations,
		IsError:               result.IsError,
		EvaluationDate:        time.Now(),
		ProcessingTimeSeconds: elapsed.Seconds(),
	}
	return o.evalRepo.Upsert(eval)
}

// indexProfile stores the candidate's profile embedding for the similar
// candidate search. Best effort: failures are logged, never counted.
func (o *batchOrchestrator) indexProfile(ctx context.Context, resume *models.Resume) {
	if o.embedder == nil || o.vectorStore == nil {
		return
	}

	text := strings.TrimSpace(resume.Summary + " " + strings.Join(resume.Skills, " "))
	if text == "" {
		return
	}

	embedding, err := o.embedder.Embed(ctx, text)
	if err != nil {
		o.log.Warnw("failed to embed profile", "resume_id", resume.ID, "error", err)
		return
	}
	if err := o.vectorStore.UpsertProfile(ctx, resume.ID, resume.CandidateName, embedding); err != nil {
		o.log.Warnw("failed to index profile", "resume_id", resume.ID, "error", err)
	}
}

// computeStatistics summarizes the successfully evaluated candidates for the
// job. Error records stay stored and served but never enter the average or
// the fit counts.
func (o *batchOrchestrator) computeStatistics(batch *models.Batch) error {
	evals, err := o.evalRepo.AllByJob(batch.JobID)
	if err != nil {
		return err
	}

	var total float64
	counted := 0
	for _, eval := range evals {
		if eval.IsError {
			continue
		}
		counted++
		total += eval.RelevanceScore
		switch eval.OverallFit {
		case models.FitHigh:
			batch.HighFitCount++
		case models.FitMedium:
			batch.MediumFitCount++
		default:
			batch.LowFitCount++
		}
	}
	if counted == 0 {
		return nil
	}
	avg := total / float64(counted)
	batch.AverageScore = &avg
	return nil
}

func (o *batchOrchestrator) failBatch(batchID uuid.UUID) {
	if err := o.batchRepo.UpdateStatus(batchID, models.BatchFailed); err != nil {
		o.log.Errorw("failed to mark batch failed", "batch_id", batchID, "error", err)
	}
}

func (o *batchOrchestrator) registerCancel(batchID uuid.UUID, cancel context.CancelFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancels == nil {
		o.cancels = make(map[uuid.UUID]context.CancelFunc)
	}
	o.cancels[batchID] = cancel
}

func (o *batchOrchestrator) unregisterCancel(batchID uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.cancels, batchID)
}
