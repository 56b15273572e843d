package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talentsift/resume-relevance/internal/models"
)

type BatchRepository interface {
	Create(batch *models.Batch) error
	FindByID(id uuid.UUID) (*models.Batch, error)
	UpdateStatus(id uuid.UUID, status models.BatchStatus) error
	MarkStarted(id uuid.UUID) error
	UpdateProgress(id uuid.UUID, processed, failed int) error
	Finalize(batch *models.Batch) error
}

type batchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Create(batch *models.Batch) error {
	if err := r.db.Create(batch).Error; err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	return nil
}

func (r *batchRepository) FindByID(id uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	if err := r.db.Where("id = ?", id).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("batch %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find batch: %w", err)
	}
	return &batch, nil
}

func (r *batchRepository) UpdateStatus(id uuid.UUID, status models.BatchStatus) error {
	updates := map[string]interface{}{"status": status}
	if status.IsTerminal() {
		updates["completed_at"] = time.Now()
	}

	result := r.db.Model(&models.Batch{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update batch status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("batch %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *batchRepository) MarkStarted(id uuid.UUID) error {
	result := r.db.Model(&models.Batch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.BatchProcessing,
			"started_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark batch started: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("batch %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *batchRepository) UpdateProgress(id uuid.UUID, processed, failed int) error {
	result := r.db.Model(&models.Batch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed": processed,
			"failed":    failed,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update batch progress: %w", result.Error)
	}
	return nil
}

// Finalize writes the end-of-run counters, statistics and status. The status
// column is guarded so a batch that was cancelled mid-run never transitions
// out of its terminal state.
func (r *batchRepository) Finalize(batch *models.Batch) error {
	updates := map[string]interface{}{
		"processed":        batch.Processed,
		"failed":           batch.Failed,
		"high_fit_count":   batch.HighFitCount,
		"medium_fit_count": batch.MediumFitCount,
		"low_fit_count":    batch.LowFitCount,
		"average_score":    batch.AverageScore,
	}

	result := r.db.Model(&models.Batch{}).
		Where("id = ?", batch.ID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to finalize batch: %w", result.Error)
	}

	result = r.db.Model(&models.Batch{}).
		Where("id = ? AND status = ?", batch.ID, models.BatchProcessing).
		Updates(map[string]interface{}{
			"status":       batch.Status,
			"completed_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to finalize batch status: %w", result.Error)
	}
	return nil
}
