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

type ResumeHandler struct {
	resumeRepo  repositories.ResumeRepository
	parser      services.ResumeParserService
	embedder    services.EmbeddingService   // optional
	vectorStore services.VectorStoreService // optional
}

func NewResumeHandler(
	resumeRepo repositories.ResumeRepository,
	parser services.ResumeParserService,
	embedder services.EmbeddingService,
	vectorStore services.VectorStoreService,
) *ResumeHandler {
	return &ResumeHandler{
		resumeRepo:  resumeRepo,
		parser:      parser,
		embedder:    embedder,
		vectorStore: vectorStore,
	}
}

// HandleGetResume handles GET /resumes/:id
func (h *ResumeHandler) HandleGetResume(c *fiber.Ctx) error {
	resumeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume ID format",
		})
	}

	resume, err := h.resumeRepo.FindByID(resumeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Resume not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load resume",
		})
	}

	return c.JSON(resume)
}

// HandleParseResume handles POST /resumes/:id/parse. Re-parsing an already
// parsed resume is allowed and overwrites the stored profile.
func (h *ResumeHandler) HandleParseResume(c *fiber.Ctx) error {
	resumeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume ID format",
		})
	}

	resume, err := h.resumeRepo.FindByID(resumeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Resume not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load resume",
		})
	}

	if err := h.parser.ParseResume(resume); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":         "Failed to parse resume",
			"parsing_error": resume.ParsingError,
		})
	}

	return c.JSON(resume)
}

// HandleSimilarCandidates handles GET /resumes/:id/similar. Requires the
// embedding and vector store services to be configured.
func (h *ResumeHandler) HandleSimilarCandidates(c *fiber.Ctx) error {
	if h.embedder == nil || h.vectorStore == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Similar candidate search is not configured",
		})
	}

	resumeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume ID format",
		})
	}

	limit := c.QueryInt("limit", 10)
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	resume, err := h.resumeRepo.FindByID(resumeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Resume not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load resume",
		})
	}

	text := strings.TrimSpace(resume.Summary + " " + strings.Join(resume.Skills, " "))
	if text == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Resume has no extracted profile to search with",
		})
	}

	embedding, err := h.embedder.Embed(c.Context(), text)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to embed candidate profile",
		})
	}

	// One extra so the candidate itself can be filtered out of its own results.
	matches, err := h.vectorStore.SearchSimilarProfiles(c.Context(), embedding, limit+1)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search similar candidates",
		})
	}

	candidates := make([]models.SimilarCandidate, 0, len(matches))
	for _, match := range matches {
		if match.ResumeID == resumeID.String() {
			continue
		}
		candidates = append(candidates, models.SimilarCandidate{
			ResumeID:      match.ResumeID,
			CandidateName: match.CandidateName,
			Similarity:    match.Score,
		})
		if len(candidates) == limit {
			break
		}
	}

	return c.JSON(fiber.Map{
		"resume_id":  resumeID.String(),
		"candidates": candidates,
	})
}
