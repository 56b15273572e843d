package scoring

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"talentsift/resume-relevance/internal/matching"
	"talentsift/resume-relevance/internal/models"
)

// ScoringResult is the full explainable evaluation of one candidate against
// one job posting.
type ScoringResult struct {
	RelevanceScore        float64
	SkillsMatchScore      float64
	ExperienceMatchScore  float64
	EducationMatchScore   float64
	SemanticScore         float64
	OverallFit            models.FitLevel
	MatchedSkills         []string
	MissingSkills         []string
	MissingCertifications []string
	MissingProjects       []string
	Strengths             []string
	Weaknesses            []string
	Recommendations       string

	// IsError is set on the degraded fallback result only.
	IsError bool
}

// Fit thresholds: boundary values classify into the higher tier.
const (
	highFitThreshold   = 75.0
	mediumFitThreshold = 50.0
)

const (
	maxMissingCertifications = 5
	maxMissingProjects       = 3
)

// CertificationCategory groups certification keywords scanned against the
// job requirements text.
type CertificationCategory struct {
	Name     string
	Keywords []string
}

func DefaultCertificationCategories() []CertificationCategory {
	return []CertificationCategory{
		{"cloud", []string{"aws", "azure", "gcp", "google cloud"}},
		{"project_management", []string{"pmp", "scrum", "agile"}},
		{"security", []string{"cissp", "ceh", "security+"}},
		{"data", []string{"tableau", "power bi", "databricks"}},
		{"programming", []string{"oracle", "microsoft", "java", "python"}},
	}
}

// RoleCertification suggests well-known certifications when a role keyword
// appears in the job text.
type RoleCertification struct {
	RoleKeyword    string
	Certifications []string
}

func DefaultRoleCertifications() []RoleCertification {
	return []RoleCertification{
		{"cloud", []string{"AWS Solutions Architect", "Azure Fundamentals"}},
		{"data", []string{"Google Analytics", "Tableau Desktop"}},
		{"security", []string{"CompTIA Security+", "CISSP"}},
		{"project", []string{"PMP", "Scrum Master"}},
	}
}

// ProjectCategory maps a portfolio category to the keywords that place a
// project (or a job text) into it.
type ProjectCategory struct {
	Label           string
	ProjectKeywords []string
	JobKeywords     []string
	Suggestion      string
}

func DefaultProjectCategories() []ProjectCategory {
	return []ProjectCategory{
		{
			Label:           "web development",
			ProjectKeywords: []string{"web", "website", "frontend", "backend"},
			JobKeywords:     []string{"web development", "frontend", "backend", "full stack"},
			Suggestion:      "Web Development Project",
		},
		{
			Label:           "mobile development",
			ProjectKeywords: []string{"mobile", "android", "ios", "app"},
			JobKeywords:     []string{"mobile", "android", "ios", "app development"},
			Suggestion:      "Mobile Application Project",
		},
		{
			Label:           "data science",
			ProjectKeywords: []string{"data", "analytics", "ml", "ai"},
			JobKeywords:     []string{"data science", "machine learning", "analytics"},
			Suggestion:      "Data Science/ML Project",
		},
		{
			Label:           "cloud computing",
			ProjectKeywords: []string{"cloud", "aws", "azure"},
			JobKeywords:     []string{"cloud", "aws", "azure", "devops"},
			Suggestion:      "Cloud Computing Project",
		},
	}
}

// Config carries the injectable keyword tables of the scoring engine.
type Config struct {
	CertificationCategories []CertificationCategory
	RoleCertifications      []RoleCertification
	ProjectCategories       []ProjectCategory
	HighValueSkills         []string
}

func DefaultHighValueSkills() []string {
	return []string{"python", "java", "react", "aws", "machine learning", "sql"}
}

// Engine consumes MatchResults and derives fit classification, gap
// inference and recommendation text.
type Engine struct {
	matcher   *matching.Engine
	certCats  []CertificationCategory
	roleCerts []RoleCertification
	projCats  []ProjectCategory
	highValue []string
	log       *zap.SugaredLogger
}

func NewEngine(matcher *matching.Engine, cfg Config, log *zap.SugaredLogger) *Engine {
	if cfg.CertificationCategories == nil {
		cfg.CertificationCategories = DefaultCertificationCategories()
	}
	if cfg.RoleCertifications == nil {
		cfg.RoleCertifications = DefaultRoleCertifications()
	}
	if cfg.ProjectCategories == nil {
		cfg.ProjectCategories = DefaultProjectCategories()
	}
	if cfg.HighValueSkills == nil {
		cfg.HighValueSkills = DefaultHighValueSkills()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Engine{
		matcher:   matcher,
		certCats:  cfg.CertificationCategories,
		roleCerts: cfg.RoleCertifications,
		projCats:  cfg.ProjectCategories,
		highValue: cfg.HighValueSkills,
		log:       log,
	}
}

// Score evaluates a candidate against a job and never returns an error: any
// internal failure degrades to a Low-fit zero result with an explanatory
// weakness, which the batch orchestrator records as a per-candidate failure.
func (e *Engine) Score(ctx context.Context, candidate *models.Resume, job *models.JobPosting) (result ScoringResult) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorw("scoring panicked", "candidate", candidate.ID, "job", job.ID, "panic", r)
			result = ErrorResult()
		}
	}()

	match := e.matcher.Evaluate(ctx, candidate, job)

	fit := FitLevel(match.RelevanceScore)
	missingCerts := e.missingCertifications(candidate.Certifications, job.Requirements)
	missingProjects := e.missingProjectCategories(candidate.Projects, job.Requirements)

	strengths := e.extendStrengths(match, candidate)
	weaknesses := e.extendWeaknesses(match, candidate, missingCerts, missingProjects)

	result = ScoringResult{
		RelevanceScore:        match.RelevanceScore,
		SkillsMatchScore:      match.SkillsScore,
		ExperienceMatchScore:  match.ExperienceScore,
		EducationMatchScore:   match.EducationScore,
		SemanticScore:         match.SemanticScore,
		OverallFit:            fit,
		MatchedSkills:         match.MatchedSkills,
		MissingSkills:         match.MissingSkills,
		MissingCertifications: missingCerts,
		MissingProjects:       missingProjects,
		Strengths:             strengths,
		Weaknesses:            weaknesses,
	}
	result.Recommendations = e.recommendations(result, candidate)
	return result
}

// FitLevel classifies a relevance score; exactly 75 is High, exactly 50 is
// Medium.
func FitLevel(relevanceScore float64) models.FitLevel {
	switch {
	case relevanceScore >= highFitThreshold:
		return models.FitHigh
	case relevanceScore >= mediumFitThreshold:
		return models.FitMedium
	default:
		return models.FitLow
	}
}

func (e *Engine) missingCertifications(candidateCerts []string, requirements string) []string {
	reqLower := strings.ToLower(requirements)

	certsLower := make([]string, len(candidateCerts))
	for i, c := range candidateCerts {
		certsLower[i] = strings.ToLower(c)
	}

	hasCert := func(keyword string) bool {
		for _, c := range certsLower {
			if strings.Contains(c, strings.ToLower(keyword)) {
				return true
			}
		}
		return false
	}

	missing := make([]string, 0, maxMissingCertifications)
	seen := make(map[string]struct{})
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		missing = append(missing, name)
	}

	for _, cat := range e.certCats {
		for _, keyword := range cat.Keywords {
			if strings.Contains(reqLower, keyword) && !hasCert(keyword) {
				add(strings.ToUpper(keyword))
			}
		}
	}

	for _, rc := range e.roleCerts {
		if !strings.Contains(reqLower, rc.RoleKeyword) {
			continue
		}
		for _, cert := range rc.Certifications {
			if !hasCert(cert) {
				add(cert)
			}
		}
	}

	if len(missing) > maxMissingCertifications {
		missing = missing[:maxMissingCertifications]
	}
	return missing
}

func (e *Engine) missingProjectCategories(projects []models.Project, requirements string) []string {
	reqLower := strings.ToLower(requirements)

	covered := make(map[string]struct{})
	for _, p := range projects {
		text := strings.ToLower(p.Title + " " + p.Description)
		for _, cat := range e.projCats {
			if containsAny(text, cat.ProjectKeywords) {
				covered[cat.Label] = struct{}{}
			}
		}
	}

	missing := make([]string, 0, maxMissingProjects)
	for _, cat := range e.projCats {
		if !containsAny(reqLower, cat.JobKeywords) {
			continue
		}
		if _, ok := covered[cat.Label]; !ok {
			missing = append(missing, cat.Suggestion)
		}
	}

	if len(missing) > maxMissingProjects {
		missing = missing[:maxMissingProjects]
	}
	return missing
}

// extendStrengths adds certification- and portfolio-based observations to
// the matching engine's strengths.
func (e *Engine) extendStrengths(match matching.MatchResult, candidate *models.Resume) []string {
	strengths := append([]string{}, match.Strengths...)

	matchedHighValue := make([]string, 0, 3)
	for _, skill := range match.MatchedSkills {
		if containsAny(strings.ToLower(skill), e.highValue) {
			matchedHighValue = append(matchedHighValue, skill)
			if len(matchedHighValue) == 3 {
				break
			}
		}
	}
	if len(matchedHighValue) > 0 {
		strengths = append(strengths, "Proficiency in high-demand skills: "+strings.Join(matchedHighValue, ", "))
	}

	if len(candidate.Projects) >= 3 {
		strengths = append(strengths, "Diverse project portfolio demonstrating practical experience")
	}
	if len(candidate.Certifications) > 0 {
		strengths = append(strengths, "Professional certifications demonstrate commitment to continuous learning")
	}

	return strengths
}

// extendWeaknesses adds gap observations to the matching engine's
// weaknesses.
func (e *Engine) extendWeaknesses(match matching.MatchResult, candidate *models.Resume, missingCerts, missingProjects []string) []string {
	weaknesses := append([]string{}, match.Weaknesses...)

	if len(match.MissingSkills) > 0 {
		top := match.MissingSkills
		if len(top) > 3 {
			top = top[:3]
		}
		weaknesses = append(weaknesses, "Missing key skills: "+strings.Join(top, ", "))
	}

	if len(missingCerts) > 0 {
		top := missingCerts
		if len(top) > 2 {
			top = top[:2]
		}
		weaknesses = append(weaknesses, "Lack of relevant certifications: "+strings.Join(top, ", "))
	}

	if len(missingProjects) > 0 {
		top := missingProjects
		if len(top) > 2 {
			top = top[:2]
		}
		weaknesses = append(weaknesses, "Limited project experience in: "+strings.Join(top, ", "))
	}

	if len(candidate.Projects) < 2 {
		weaknesses = append(weaknesses, "Limited project portfolio to demonstrate practical skills")
	}

	return weaknesses
}

// recommendations builds the templated multi-paragraph guidance keyed off
// the fit level and the identified gaps.
func (e *Engine) recommendations(result ScoringResult, candidate *models.Resume) string {
	var b strings.Builder

	switch result.OverallFit {
	case models.FitHigh:
		b.WriteString("Excellent match! You're well-qualified for this position.")
	case models.FitMedium:
		b.WriteString("Good potential! With some improvements, you could be a strong candidate.")
	default:
		b.WriteString("There's room for growth. Focus on developing key skills to improve your candidacy.")
	}

	if len(result.MissingSkills) > 0 {
		top := result.MissingSkills
		if len(top) > 3 {
			top = top[:3]
		}
		b.WriteString("\n\nPriority skills to develop:")
		for i, skill := range top {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, skill)
		}
	}

	if len(result.MissingCertifications) > 0 {
		top := result.MissingCertifications
		if len(top) > 2 {
			top = top[:2]
		}
		b.WriteString("\n\nRecommended certifications:")
		for i, cert := range top {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, cert)
		}
	}

	if len(result.MissingProjects) > 0 {
		b.WriteString("\n\nSuggested project types:")
		for i, project := range result.MissingProjects {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, project)
		}
	}

	if result.ExperienceMatchScore < 70 {
		if candidate.ExperienceYears < 2 {
			b.WriteString("\n\nFocus on gaining more hands-on experience through internships or entry-level positions.")
		} else {
			b.WriteString("\n\nConsider highlighting more relevant work experience or taking on projects that align with the job requirements.")
		}
	}

	if len(candidate.Projects) < 3 {
		b.WriteString("\n\nBuild a stronger portfolio with 3-5 diverse projects showcasing different skills.")
	}

	b.WriteString("\n\nImmediate action items:")
	for _, item := range actionItems(result.OverallFit) {
		b.WriteString("\n  - " + item)
	}

	return b.String()
}

// actionItems returns the fixed action list for a fit tier.
func actionItems(fit models.FitLevel) []string {
	switch fit {
	case models.FitHigh:
		return []string{
			"Polish your resume to highlight relevant experience",
			"Prepare for technical interviews",
			"Research the company and role thoroughly",
		}
	case models.FitMedium:
		return []string{
			"Address 1-2 critical skill gaps",
			"Enhance your project portfolio",
			"Consider relevant certifications",
		}
	default:
		return []string{
			"Focus on developing 2-3 key missing skills",
			"Complete at least one relevant project",
			"Consider taking online courses or bootcamps",
		}
	}
}

// ErrorResult is the degraded scoring outcome used when evaluation fails
// entirely; downstream consumers always receive a record, never an absence.
func ErrorResult() ScoringResult {
	return ScoringResult{
		OverallFit:            models.FitLow,
		MatchedSkills:         []string{},
		MissingSkills:         []string{},
		MissingCertifications: []string{},
		MissingProjects:       []string{},
		Strengths:             []string{},
		Weaknesses:            []string{"Error in scoring process"},
		Recommendations:       "Unable to generate recommendations due to a processing error.",
		IsError:               true,
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
