package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talentsift/resume-relevance/internal/models"
)

type EvaluationFilter struct {
	MinScore *float64
	FitLevel string
	Skip     int
	Limit    int
}

type EvaluationRepository interface {
	Upsert(eval *models.Evaluation) error
	ListByJob(jobID uuid.UUID, filter EvaluationFilter) ([]models.Evaluation, error)
	AllByJob(jobID uuid.UUID) ([]models.Evaluation, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

// Upsert writes the evaluation for a (resume, job) pair, replacing any prior
// record for the same pair in a single statement. Last writer wins when the
// same pair is re-scored.
func (r *evaluationRepository) Upsert(eval *models.Evaluation) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "resume_id"}, {Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"relevance_score",
			"skills_match_score",
			"experience_match_score",
			"education_match_score",
			"semantic_score",
			"overall_fit",
			"matched_skills",
			"missing_skills",
			"missing_certifications",
			"missing_projects",
			"strengths",
			"weaknesses",
			"recommendations",
			"is_error",
			"evaluation_date",
			"processing_time_seconds",
		}),
	}).Create(eval).Error
	if err != nil {
		return fmt.Errorf("failed to upsert evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) ListByJob(jobID uuid.UUID, filter EvaluationFilter) ([]models.Evaluation, error) {
	query := r.db.Preload("Resume").Where("job_id = ?", jobID)

	if filter.MinScore != nil {
		query = query.Where("relevance_score >= ?", *filter.MinScore)
	}
	if filter.FitLevel != "" {
		query = query.Where("overall_fit = ?", filter.FitLevel)
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	var evals []models.Evaluation
	err := query.
		Order("relevance_score DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&evals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evals, nil
}

// AllByJob returns every stored evaluation for the job. Batch statistics are
// derived from this full set, not just the evaluations of the current run.
func (r *evaluationRepository) AllByJob(jobID uuid.UUID) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	if err := r.db.Where("job_id = ?", jobID).Find(&evals).Error; err != nil {
		return nil, fmt.Errorf("failed to load evaluations: %w", err)
	}
	return evals, nil
}
