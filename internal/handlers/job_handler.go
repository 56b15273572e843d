package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentsift/resume-relevance/internal/models"
	"talentsift/resume-relevance/internal/repositories"
	"talentsift/resume-relevance/internal/services"
)

type JobHandler struct {
	jobRepo     repositories.JobRepository
	embedder    services.EmbeddingService   // optional
	vectorStore services.VectorStoreService // optional
}

func NewJobHandler(
	jobRepo repositories.JobRepository,
	embedder services.EmbeddingService,
	vectorStore services.VectorStoreService,
) *JobHandler {
	return &JobHandler{
		jobRepo:     jobRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
	}
}

// HandleCreateJob handles POST /jobs
func (h *JobHandler) HandleCreateJob(c *fiber.Ctx) error {
	var req models.CreateJobRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}
	if req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "description is required",
		})
	}
	if req.ExperienceMin < 0 || req.ExperienceMax < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "experience bounds must be non-negative",
		})
	}
	if req.ExperienceMax > 0 && req.ExperienceMax < req.ExperienceMin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "experience_max must not be below experience_min",
		})
	}

	job := &models.JobPosting{
		ID:             uuid.New(),
		Title:          req.Title,
		Company:        req.Company,
		Location:       req.Location,
		Description:    req.Description,
		Requirements:   req.Requirements,
		SkillsRequired: req.SkillsRequired,
		ExperienceMin:  req.ExperienceMin,
		ExperienceMax:  req.ExperienceMax,
		Department:     req.Department,
		EmploymentType: req.EmploymentType,
		IsActive:       true,
	}

	if err := h.jobRepo.Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create job posting",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleGetJob handles GET /jobs/:id
func (h *JobHandler) HandleGetJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job posting not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load job posting",
		})
	}

	return c.JSON(job)
}

// HandleSimilarCandidates handles GET /jobs/:id/similar-candidates. The job
// text is embedded and matched against the indexed candidate profiles.
// Requires the embedding and vector store services to be configured.
func (h *JobHandler) HandleSimilarCandidates(c *fiber.Ctx) error {
	if h.embedder == nil || h.vectorStore == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Similar candidate search is not configured",
		})
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	limit := c.QueryInt("limit", 10)
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job posting not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load job posting",
		})
	}

	text := strings.TrimSpace(job.Description + " " + job.Requirements)
	if text == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Job posting has no text to search with",
		})
	}

	embedding, err := h.embedder.Embed(c.Context(), text)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to embed job posting",
		})
	}

	matches, err := h.vectorStore.SearchSimilarProfiles(c.Context(), embedding, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search similar candidates",
		})
	}

	candidates := make([]models.SimilarCandidate, 0, len(matches))
	for _, match := range matches {
		candidates = append(candidates, models.SimilarCandidate{
			ResumeID:      match.ResumeID,
			CandidateName: match.CandidateName,
			Similarity:    match.Score,
		})
	}

	return c.JSON(fiber.Map{
		"job_id":     jobID.String(),
		"candidates": candidates,
	})
}

// HandleListJobs handles GET /jobs
func (h *JobHandler) HandleListJobs(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	jobs, err := h.jobRepo.List(skip, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list job postings",
		})
	}

	return c.JSON(fiber.Map{
		"jobs":  jobs,
		"count": len(jobs),
	})
}
