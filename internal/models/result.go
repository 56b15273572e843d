package models

import "time"

type CreateJobRequest struct {
	Title          string   `json:"title" validate:"required"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Description    string   `json:"description" validate:"required"`
	Requirements   string   `json:"requirements" validate:"required"`
	SkillsRequired []string `json:"skills_required"`
	ExperienceMin  int      `json:"experience_min"`
	ExperienceMax  int      `json:"experience_max"`
	Department     string   `json:"department"`
	EmploymentType string   `json:"employment_type"`
}

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

type EvaluateRequest struct {
	JobID     string   `json:"job_id" validate:"required,uuid"`
	ResumeIDs []string `json:"resume_ids" validate:"required"`
	BatchName string   `json:"batch_name"`
}

type EvaluateResponse struct {
	BatchID      string `json:"batch_id"`
	BatchName    string `json:"batch_name"`
	Status       string `json:"status"`
	TotalResumes int    `json:"total_resumes"`
	Message      string `json:"message"`
}

type EvaluationResponse struct {
	ID                   string    `json:"id"`
	ResumeID             string    `json:"resume_id"`
	JobID                string    `json:"job_id"`
	CandidateName        string    `json:"candidate_name"`
	RelevanceScore       float64   `json:"relevance_score"`
	SkillsMatchScore     float64   `json:"skills_match_score"`
	ExperienceMatchScore float64   `json:"experience_match_score"`
	EducationMatchScore  float64   `json:"education_match_score"`
	SemanticScore        float64   `json:"semantic_score"`
	OverallFit           string    `json:"overall_fit"`
	MatchedSkills        []string  `json:"matched_skills"`
	MissingSkills        []string  `json:"missing_skills"`
	Recommendations      string    `json:"recommendations"`
	EvaluationDate       time.Time `json:"evaluation_date"`
}

type SimilarCandidate struct {
	ResumeID      string  `json:"resume_id"`
	CandidateName string  `json:"candidate_name"`
	Similarity    float32 `json:"similarity"`
}
