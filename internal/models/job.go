package models

import (
	"time"

	"github.com/google/uuid"
)

type JobPosting struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title          string     `gorm:"type:text;not null" json:"title"`
	Company        string     `gorm:"type:text" json:"company"`
	Location       string     `gorm:"type:text" json:"location"`
	Description    string     `gorm:"type:text;not null" json:"description"`
	Requirements   string     `gorm:"type:text;not null" json:"requirements"`
	SkillsRequired StringList `gorm:"type:jsonb" json:"skills_required"`
	ExperienceMin  int        `gorm:"default:0" json:"experience_min"`
	ExperienceMax  int        `gorm:"default:10" json:"experience_max"`
	Department     string     `gorm:"type:text" json:"department,omitempty"`
	EmploymentType string     `gorm:"type:text;default:'Full-time'" json:"employment_type"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (JobPosting) TableName() string {
	return "job_postings"
}
