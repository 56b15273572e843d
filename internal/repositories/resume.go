package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talentsift/resume-relevance/internal/models"
)

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindByID(id uuid.UUID) (*models.Resume, error)
	FindByIDs(ids []uuid.UUID) ([]models.Resume, error)
	UpdateParsedProfile(resume *models.Resume) error
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(resume *models.Resume) error {
	if err := r.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) FindByID(id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("id = ?", id).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resume %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

func (r *resumeRepository) FindByIDs(ids []uuid.UUID) ([]models.Resume, error) {
	var resumes []models.Resume
	if err := r.db.Where("id IN ?", ids).Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("failed to find resumes: %w", err)
	}
	return resumes, nil
}

// UpdateParsedProfile persists the extracted profile fields in one write so a
// reader never observes a half-parsed resume.
func (r *resumeRepository) UpdateParsedProfile(resume *models.Resume) error {
	now := time.Now()
	resume.ProcessedAt = &now

	result := r.db.Model(&models.Resume{}).
		Where("id = ?", resume.ID).
		Updates(map[string]interface{}{
			"candidate_name":   resume.CandidateName,
			"email":            resume.Email,
			"phone":            resume.Phone,
			"experience_years": resume.ExperienceYears,
			"skills":           resume.Skills,
			"education":        resume.Education,
			"certifications":   resume.Certifications,
			"projects":         resume.Projects,
			"summary":          resume.Summary,
			"is_parsed":        resume.IsParsed,
			"parsing_error":    resume.ParsingError,
			"processed_at":     resume.ProcessedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update parsed profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("resume %s: %w", resume.ID, ErrNotFound)
	}
	return nil
}
