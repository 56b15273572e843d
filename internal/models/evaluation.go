package models

import (
	"time"

	"github.com/google/uuid"
)

type FitLevel string

const (
	FitHigh   FitLevel = "High"
	FitMedium FitLevel = "Medium"
	FitLow    FitLevel = "Low"
)

// Evaluation is the persisted scoring result for one (resume, job) pair.
// Re-scoring the same pair overwrites the previous record.
type Evaluation struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_resume_job" json:"resume_id"`
	JobID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_resume_job" json:"job_id"`

	// Dimension scores, all in [0,100]
	RelevanceScore       float64  `gorm:"not null" json:"relevance_score"`
	SkillsMatchScore     float64  `gorm:"not null" json:"skills_match_score"`
	ExperienceMatchScore float64  `gorm:"not null" json:"experience_match_score"`
	EducationMatchScore  float64  `gorm:"not null" json:"education_match_score"`
	SemanticScore        float64  `gorm:"not null" json:"semantic_score"`
	OverallFit           FitLevel `gorm:"type:text;not null" json:"overall_fit"`

	// Analysis results
	MatchedSkills         StringList `gorm:"type:jsonb" json:"matched_skills"`
	MissingSkills         StringList `gorm:"type:jsonb" json:"missing_skills"`
	MissingCertifications StringList `gorm:"type:jsonb" json:"missing_certifications"`
	MissingProjects       StringList `gorm:"type:jsonb" json:"missing_projects"`
	Strengths             StringList `gorm:"type:jsonb" json:"strengths"`
	Weaknesses            StringList `gorm:"type:jsonb" json:"weaknesses"`
	Recommendations       string     `gorm:"type:text" json:"recommendations"`

	// IsError marks a degraded record written when evaluation failed. The
	// record is still served, but batch statistics skip it.
	IsError bool `gorm:"default:false" json:"is_error,omitempty"`

	EvaluationDate        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"evaluation_date"`
	ProcessingTimeSeconds float64   `json:"processing_time_seconds,omitempty"`

	// Relations
	Resume     Resume     `gorm:"foreignKey:ResumeID" json:"-"`
	JobPosting JobPosting `gorm:"foreignKey:JobID" json:"-"`
}

func (Evaluation) TableName() string {
	return "resume_evaluations"
}
