package matching

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"talentsift/resume-relevance/internal/models"
)

// MatchResult holds the four dimension scores, the derived relevance score
// and the explanation material for one (candidate, job) evaluation.
type MatchResult struct {
	RelevanceScore  float64
	SkillsScore     float64
	ExperienceScore float64
	EducationScore  float64
	SemanticScore   float64
	MatchedSkills   []string
	MissingSkills   []string
	Strengths       []string
	Weaknesses      []string
}

// Relevance weights for the four dimensions.
const (
	weightSkills     = 0.4
	weightExperience = 0.3
	weightEducation  = 0.2
	weightSemantic   = 0.1
)

// Config carries the injectable keyword tables and collaborators of the
// engine. Zero-value fields fall back to the defaults.
type Config struct {
	SkillAliases      map[string][]string
	EducationKeywords []EducationKeyword
	TechnicalSkills   []string

	// Oracle is the preferred similarity capability; Fallback is used when
	// Oracle is unavailable or fails. At least Fallback must be set.
	Oracle   SimilarityOracle
	Fallback SimilarityOracle
}

// DefaultTechnicalSkills is the fixed vocabulary scanned when a job text has
// no explicit required/preferred sections.
func DefaultTechnicalSkills() []string {
	return []string{
		"python", "java", "javascript", "react", "angular", "node.js",
		"sql", "mysql", "postgresql", "mongodb", "aws", "azure",
		"docker", "kubernetes", "git", "jenkins", "tensorflow",
		"machine learning", "data analysis", "html", "css",
	}
}

// Engine composes the skill matcher, the dimension scorers and the semantic
// similarity oracle into a MatchResult.
type Engine struct {
	skills          *SkillMatcher
	education       *EducationScorer
	technicalSkills []string
	oracle          SimilarityOracle
	fallback        SimilarityOracle
	log             *zap.SugaredLogger
}

func NewEngine(cfg Config, log *zap.SugaredLogger) *Engine {
	if cfg.TechnicalSkills == nil {
		cfg.TechnicalSkills = DefaultTechnicalSkills()
	}
	if cfg.Fallback == nil {
		cfg.Fallback = NewTermFrequencyOracle(nil, 0)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Engine{
		skills:          NewSkillMatcher(cfg.SkillAliases),
		education:       NewEducationScorer(cfg.EducationKeywords),
		technicalSkills: cfg.TechnicalSkills,
		oracle:          cfg.Oracle,
		fallback:        cfg.Fallback,
		log:             log,
	}
}

var (
	requiredSectionRes = []*regexp.Regexp{
		regexp.MustCompile(`required[:\-]?\s*([^.]+)`),
		regexp.MustCompile(`must have[:\-]?\s*([^.]+)`),
		regexp.MustCompile(`essential[:\-]?\s*([^.]+)`),
	}
	preferredSectionRes = []*regexp.Regexp{
		regexp.MustCompile(`preferred[:\-]?\s*([^.]+)`),
		regexp.MustCompile(`nice to have[:\-]?\s*([^.]+)`),
		regexp.MustCompile(`bonus[:\-]?\s*([^.]+)`),
	}
	skillDelimiterRe = regexp.MustCompile(`[,;|•\n]`)
)

// Evaluate scores the candidate against the job. It never returns an error:
// an internal failure degrades to a zero-valued result carrying a single
// explanatory weakness.
func (e *Engine) Evaluate(ctx context.Context, candidate *models.Resume, job *models.JobPosting) (result MatchResult) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorw("evaluation panicked", "candidate", candidate.ID, "job", job.ID, "panic", r)
			result = errorMatchResult()
		}
	}()

	required, preferred := e.deriveJobSkills(job)

	skillResult := e.skills.Match(candidate.Skills, required, preferred)
	experienceScore := ScoreExperience(candidate.ExperienceYears, job.ExperienceMin, job.ExperienceMax)
	educationScore := e.education.Score(candidate.Education, job.Requirements)

	candidateText := candidate.Summary + " " + strings.Join(candidate.Skills, " ")
	jobText := job.Description + " " + job.Requirements
	semanticScore := e.semanticSimilarity(ctx, candidateText, jobText)

	relevance := skillResult.Score*weightSkills +
		experienceScore*weightExperience +
		educationScore*weightEducation +
		semanticScore*weightSemantic
	if relevance > 100 {
		relevance = 100
	}
	if relevance < 0 {
		relevance = 0
	}

	strengths, weaknesses := deriveStrengthsWeaknesses(skillResult, experienceScore, educationScore)

	return MatchResult{
		RelevanceScore:  relevance,
		SkillsScore:     skillResult.Score,
		ExperienceScore: experienceScore,
		EducationScore:  educationScore,
		SemanticScore:   semanticScore,
		MatchedSkills:   skillResult.Matched,
		MissingSkills:   skillResult.Missing,
		Strengths:       strengths,
		Weaknesses:      weaknesses,
	}
}

// deriveJobSkills extracts required and preferred skill lists from the job's
// description and requirements text. Explicit "required"/"preferred" style
// sections win; otherwise the job's own skill list is treated as required;
// otherwise the technical vocabulary found in the text is split in half.
func (e *Engine) deriveJobSkills(job *models.JobPosting) ([]string, []string) {
	fullText := strings.ToLower(job.Description + " " + job.Requirements)

	required := extractSection(fullText, requiredSectionRes)
	preferred := extractSection(fullText, preferredSectionRes)

	if len(required) > 0 || len(preferred) > 0 {
		return required, preferred
	}

	if len(job.SkillsRequired) > 0 {
		return job.SkillsRequired, nil
	}

	found := make([]string, 0)
	for _, skill := range e.technicalSkills {
		if strings.Contains(fullText, skill) {
			found = append(found, skill)
		}
	}
	half := len(found) / 2
	return found[:half], found[half:]
}

func extractSection(text string, patterns []*regexp.Regexp) []string {
	skills := make([]string, 0)
	for _, re := range patterns {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			for _, piece := range skillDelimiterRe.Split(match[1], -1) {
				piece = strings.TrimSpace(piece)
				if piece != "" && len(piece) < 50 {
					skills = append(skills, piece)
				}
			}
		}
	}
	return skills
}

// semanticSimilarity tries the preferred oracle first and falls back to the
// term-frequency one; if both fail the dimension scores zero.
func (e *Engine) semanticSimilarity(ctx context.Context, candidateText, jobText string) float64 {
	if e.oracle != nil {
		score, err := e.oracle.Similarity(ctx, candidateText, jobText)
		if err == nil {
			return score
		}
		e.log.Warnw("similarity oracle failed, using fallback", "error", err)
	}

	score, err := e.fallback.Similarity(ctx, candidateText, jobText)
	if err != nil {
		e.log.Warnw("fallback similarity failed", "error", err)
		return 0
	}
	return score
}

func deriveStrengthsWeaknesses(skillResult SkillMatchResult, experienceScore, educationScore float64) ([]string, []string) {
	strengths := make([]string, 0, 4)
	weaknesses := make([]string, 0, 2)

	if skillResult.Score >= 70 {
		strengths = append(strengths, "Strong technical skill match")
	} else {
		weaknesses = append(weaknesses, "Limited technical skill alignment")
	}

	if experienceScore >= 80 {
		strengths = append(strengths, "Appropriate experience level")
	} else if experienceScore < 50 {
		weaknesses = append(weaknesses, "Experience level mismatch")
	}

	if educationScore >= 70 {
		strengths = append(strengths, "Relevant educational background")
	}

	if len(skillResult.Matched) > 5 {
		strengths = append(strengths, "Diverse technical skill set")
	}

	return strengths, weaknesses
}

func errorMatchResult() MatchResult {
	return MatchResult{
		MatchedSkills: []string{},
		MissingSkills: []string{},
		Strengths:     []string{},
		Weaknesses:    []string{"Error in evaluation process"},
	}
}
