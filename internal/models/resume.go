package models

import (
	"time"

	"github.com/google/uuid"
)

// Resume is the candidate profile consumed by the matching pipeline. The
// attribute extractor fills the extracted fields exactly once; downstream
// code treats them as read-only. An unparsed resume carries empty/zero
// extracted fields plus ParsingError, never absent fields.
type Resume struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateName string    `gorm:"type:text;not null" json:"candidate_name"`
	Email         string    `gorm:"type:text" json:"email,omitempty"`
	Phone         string    `gorm:"type:text" json:"phone,omitempty"`
	FilePath      string    `gorm:"type:text;not null" json:"-"`
	FileName      string    `gorm:"type:text;not null" json:"file_name"`
	FileType      string    `gorm:"type:text;not null" json:"file_type"`

	// Extracted information
	ExperienceYears float64       `gorm:"default:0" json:"experience_years"`
	Skills          StringList    `gorm:"type:jsonb" json:"skills"`
	Education       EducationList `gorm:"type:jsonb" json:"education"`
	Certifications  StringList    `gorm:"type:jsonb" json:"certifications"`
	Projects        ProjectList   `gorm:"type:jsonb" json:"projects"`
	Summary         string        `gorm:"type:text" json:"summary,omitempty"`

	// Processing status
	IsParsed     bool   `gorm:"default:false" json:"is_parsed"`
	ParsingError string `gorm:"type:text" json:"parsing_error,omitempty"`

	UploadedAt  time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"uploaded_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func (Resume) TableName() string {
	return "resumes"
}
