package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"talentsift/resume-relevance/internal/models"
	"talentsift/resume-relevance/internal/repositories"
	"talentsift/resume-relevance/internal/services"
)

type EvaluationHandler struct {
	jobRepo      repositories.JobRepository
	resumeRepo   repositories.ResumeRepository
	batchRepo    repositories.BatchRepository
	orchestrator services.BatchOrchestrator
	log          *zap.SugaredLogger
}

func NewEvaluationHandler(
	jobRepo repositories.JobRepository,
	resumeRepo repositories.ResumeRepository,
	batchRepo repositories.BatchRepository,
	orchestrator services.BatchOrchestrator,
	log *zap.SugaredLogger,
) *EvaluationHandler {
	return &EvaluationHandler{
		jobRepo:      jobRepo,
		resumeRepo:   resumeRepo,
		batchRepo:    batchRepo,
		orchestrator: orchestrator,
		log:          log,
	}
}

// HandleEvaluate handles POST /evaluate. The batch record is created
// synchronously so the client can poll it immediately; processing itself
// runs in the background.
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.JobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_id is required",
		})
	}
	if len(req.ResumeIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_ids is required",
		})
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job_id format",
		})
	}

	resumeIDs := make([]uuid.UUID, 0, len(req.ResumeIDs))
	for _, raw := range req.ResumeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid resume ID format: %s", raw),
			})
		}
		resumeIDs = append(resumeIDs, id)
	}

	if _, err := h.jobRepo.FindByID(jobID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job posting not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load job posting",
		})
	}

	resumes, err := h.resumeRepo.FindByIDs(resumeIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load resumes",
		})
	}
	if len(resumes) != len(resumeIDs) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("Only %d of %d resumes found", len(resumes), len(resumeIDs)),
		})
	}

	batchName := req.BatchName
	if batchName == "" {
		batchName = fmt.Sprintf("batch_%s", time.Now().Format("20060102_150405"))
	}

	batch := &models.Batch{
		ID:           uuid.New(),
		JobID:        jobID,
		BatchName:    batchName,
		TotalResumes: len(resumeIDs),
		Status:       models.BatchPending,
		CreatedAt:    time.Now(),
	}

	if err := h.batchRepo.Create(batch); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create processing batch",
		})
	}

	go func() {
		if err := h.orchestrator.RunBatch(context.Background(), batch.ID, resumeIDs); err != nil {
			h.log.Errorw("batch run failed", "batch_id", batch.ID, "error", err)
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		BatchID:      batch.ID.String(),
		BatchName:    batch.BatchName,
		Status:       string(batch.Status),
		TotalResumes: batch.TotalResumes,
		Message:      fmt.Sprintf("Processing %d resumes in background", batch.TotalResumes),
	})
}

// HandleBatchStatus handles GET /batches/:id/status
func (h *EvaluationHandler) HandleBatchStatus(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid batch ID format",
		})
	}

	batch, err := h.batchRepo.FindByID(batchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Batch not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load batch",
		})
	}

	return c.JSON(batch)
}

// HandleCancelBatch handles POST /batches/:id/cancel
func (h *EvaluationHandler) HandleCancelBatch(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid batch ID format",
		})
	}

	if err := h.orchestrator.Cancel(batchID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Batch not found",
			})
		case errors.Is(err, services.ErrBatchNotCancellable):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Only a processing batch can be cancelled",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to cancel batch",
			})
		}
	}

	return c.JSON(fiber.Map{
		"batch_id": batchID.String(),
		"status":   string(models.BatchCancelled),
	})
}
