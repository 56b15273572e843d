package services

import (
	"fmt"

	"go.uber.org/zap"

	"talentsift/resume-relevance/internal/models"
	"talentsift/resume-relevance/internal/repositories"
)

// ResumeParserService runs the attribute extractor over a stored resume
// file and persists the structured profile. Parsing is idempotent; callers
// skip it when the resume is already parsed.
type ResumeParserService interface {
	ParseResume(resume *models.Resume) error
}

type resumeParserService struct {
	pdfParser  PDFParserService
	extractor  AttributeExtractor
	resumeRepo repositories.ResumeRepository
	log        *zap.SugaredLogger
}

func NewResumeParserService(
	pdfParser PDFParserService,
	extractor AttributeExtractor,
	resumeRepo repositories.ResumeRepository,
	log *zap.SugaredLogger,
) ResumeParserService {
	return &resumeParserService{
		pdfParser:  pdfParser,
		extractor:  extractor,
		resumeRepo: resumeRepo,
		log:        log,
	}
}

// ParseResume extracts the candidate profile from the resume file and
// updates the record in place. On failure the resume is persisted with
// empty profile fields, IsParsed=false and the error recorded, so the
// pipeline downstream always has a complete (if empty) profile to work with.
func (s *resumeParserService) ParseResume(resume *models.Resume) error {
	text, err := s.pdfParser.ExtractText(resume.FilePath)
	if err != nil {
		s.recordFailure(resume, err)
		return fmt.Errorf("failed to extract resume text: %w", err)
	}

	profile, err := s.extractor.Extract(text)
	if err != nil {
		s.recordFailure(resume, err)
		return fmt.Errorf("failed to extract profile: %w", err)
	}

	resume.CandidateName = profile.CandidateName
	resume.Email = profile.Email
	resume.Phone = profile.Phone
	resume.ExperienceYears = profile.ExperienceYears
	resume.Skills = profile.Skills
	resume.Education = profile.Education
	resume.Certifications = profile.Certifications
	resume.Projects = profile.Projects
	resume.Summary = profile.Summary
	resume.IsParsed = true
	resume.ParsingError = ""

	if err := s.resumeRepo.UpdateParsedProfile(resume); err != nil {
		return fmt.Errorf("failed to persist parsed profile: %w", err)
	}

	s.log.Infow("resume parsed",
		"resume_id", resume.ID,
		"skills", len(resume.Skills),
		"experience_years", resume.ExperienceYears,
	)
	return nil
}

func (s *resumeParserService) recordFailure(resume *models.Resume, cause error) {
	resume.ExperienceYears = 0
	resume.Skills = models.StringList{}
	resume.Education = models.EducationList{}
	resume.Certifications = models.StringList{}
	resume.Projects = models.ProjectList{}
	resume.Summary = ""
	resume.IsParsed = false
	resume.ParsingError = cause.Error()

	if err := s.resumeRepo.UpdateParsedProfile(resume); err != nil {
		s.log.Errorw("failed to record parsing failure", "resume_id", resume.ID, "error", err)
	}
}
