package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentsift/resume-relevance/internal/models"
	"talentsift/resume-relevance/internal/repositories"
)

type ResultHandler struct {
	evalRepo repositories.EvaluationRepository
}

func NewResultHandler(evalRepo repositories.EvaluationRepository) *ResultHandler {
	return &ResultHandler{
		evalRepo: evalRepo,
	}
}

// HandleGetResults handles GET /results/:job_id. Results are sorted by
// relevance score descending and can be filtered by min_score and fit_level.
func (h *ResultHandler) HandleGetResults(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	filter := repositories.EvaluationFilter{
		Skip:     c.QueryInt("skip", 0),
		Limit:    c.QueryInt("limit", 100),
		FitLevel: c.Query("fit_level"),
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	if raw := c.Query("min_score"); raw != "" {
		minScore := c.QueryFloat("min_score")
		filter.MinScore = &minScore
	}

	switch filter.FitLevel {
	case "", string(models.FitHigh), string(models.FitMedium), string(models.FitLow):
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fit_level. Expected High, Medium or Low",
		})
	}

	evals, err := h.evalRepo.ListByJob(jobID, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list evaluation results",
		})
	}

	results := make([]models.EvaluationResponse, 0, len(evals))
	for _, eval := range evals {
		results = append(results, models.EvaluationResponse{
			ID:                   eval.ID.String(),
			ResumeID:             eval.ResumeID.String(),
			JobID:                eval.JobID.String(),
			CandidateName:        eval.Resume.CandidateName,
			RelevanceScore:       eval.RelevanceScore,
			SkillsMatchScore:     eval.SkillsMatchScore,
			ExperienceMatchScore: eval.ExperienceMatchScore,
			EducationMatchScore:  eval.EducationMatchScore,
			SemanticScore:        eval.SemanticScore,
			OverallFit:           string(eval.OverallFit),
			MatchedSkills:        eval.MatchedSkills,
			MissingSkills:        eval.MissingSkills,
			Recommendations:      eval.Recommendations,
			EvaluationDate:       eval.EvaluationDate,
		})
	}

	return c.JSON(fiber.Map{
		"job_id":  jobID.String(),
		"count":   len(results),
		"results": results,
	})
}
