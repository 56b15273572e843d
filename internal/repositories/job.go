package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talentsift/resume-relevance/internal/models"
)

var ErrNotFound = errors.New("record not found")

type JobRepository interface {
	Create(job *models.JobPosting) error
	FindByID(id uuid.UUID) (*models.JobPosting, error)
	List(skip, limit int) ([]models.JobPosting, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(job *models.JobPosting) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job posting: %w", err)
	}
	return nil
}

func (r *jobRepository) FindByID(id uuid.UUID) (*models.JobPosting, error) {
	var job models.JobPosting
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job posting %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find job posting: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) List(skip, limit int) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	err := r.db.
		Where("is_active = ?", true).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	return jobs, nil
}
