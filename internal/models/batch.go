package models

import (
	"time"

	"github.com/google/uuid"
)

type BatchStatus string

const (
	BatchPending             BatchStatus = "pending"
	BatchProcessing          BatchStatus = "processing"
	BatchCompleted           BatchStatus = "completed"
	BatchCompletedWithErrors BatchStatus = "completed_with_errors"
	BatchFailed              BatchStatus = "failed"
	BatchCancelled           BatchStatus = "cancelled"
)

// IsTerminal reports whether a batch can no longer change status.
func (s BatchStatus) IsTerminal() bool {
	switch s {
	case BatchCompleted, BatchCompletedWithErrors, BatchFailed, BatchCancelled:
		return true
	}
	return false
}

// Batch tracks one orchestration run scoring many resumes against a single
// job posting. Counters are owned by the orchestrator's aggregator; workers
// never touch them directly. processed + failed never exceeds total.
type Batch struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID        uuid.UUID   `gorm:"type:uuid;not null" json:"job_id"`
	BatchName    string      `gorm:"type:text;not null" json:"batch_name"`
	TotalResumes int         `gorm:"not null" json:"total_resumes"`
	Processed    int         `gorm:"default:0" json:"processed_resumes"`
	Failed       int         `gorm:"default:0" json:"failed_resumes"`
	Status       BatchStatus `gorm:"type:text;not null;default:'pending'" json:"status"`

	// Results summary, recomputed from the full evaluation set for the job
	// once all workers have joined.
	HighFitCount   int      `gorm:"default:0" json:"high_fit_count"`
	MediumFitCount int      `gorm:"default:0" json:"medium_fit_count"`
	LowFitCount    int      `gorm:"default:0" json:"low_fit_count"`
	AverageScore   *float64 `json:"average_score,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Batch) TableName() string {
	return "processing_batches"
}
