package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"talentsift/resume-relevance/internal/models"
)

// ExtractedProfile is everything the attribute extractor can pull out of
// plain resume text. Fields that could not be found are empty or zero,
// never absent.
type ExtractedProfile struct {
	CandidateName   string
	Email           string
	Phone           string
	ExperienceYears float64
	Skills          []string
	Education       []models.EducationEntry
	Certifications  []string
	Projects        []models.Project
	Summary         string
}

// AttributeExtractor turns plain resume text into a structured candidate
// profile using pattern heuristics. Extraction is deterministic and
// idempotent for a given text.
type AttributeExtractor interface {
	Extract(text string) (*ExtractedProfile, error)
}

type attributeExtractor struct {
	skillsVocabulary []string
}

func NewAttributeExtractor() AttributeExtractor {
	return &attributeExtractor{skillsVocabulary: defaultSkillsVocabulary()}
}

// defaultSkillsVocabulary is the categorized skill vocabulary scanned
// against resume text, flattened into one list.
func defaultSkillsVocabulary() []string {
	return []string{
		// programming languages
		"python", "java", "javascript", "c++", "c#", "php", "ruby", "go",
		"rust", "kotlin", "swift", "typescript", "scala", "matlab",
		// web technologies
		"html", "css", "react", "angular", "vue", "node.js", "express",
		"django", "flask", "spring", "laravel", "bootstrap", "jquery",
		// databases
		"mysql", "postgresql", "mongodb", "redis", "elasticsearch",
		"oracle", "sql server", "sqlite", "cassandra", "dynamodb",
		// cloud platforms
		"aws", "azure", "google cloud", "gcp", "docker", "kubernetes",
		"jenkins", "terraform", "ansible", "heroku", "netlify",
		// data science
		"machine learning", "deep learning", "tensorflow", "pytorch",
		"pandas", "numpy", "scikit-learn", "data analysis", "statistics",
		// tools
		"git", "github", "gitlab", "jira", "confluence", "slack",
		"visual studio", "intellij", "eclipse", "postman",
	}
}

var (
	emailRe  = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\+?1?[-.\s]?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`),
		regexp.MustCompile(`\+?91[-.\s]?[0-9]{10}`),
		regexp.MustCompile(`[0-9]{10}`),
	}
	nameRe = regexp.MustCompile(`^[A-Za-z\s]+$`)

	experiencePhraseRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(?:of\s*)?experience`),
		regexp.MustCompile(`(?i)experience[:\-]?\s*(\d+)\+?\s*years?`),
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*in\s*(?:the\s*)?(?:field|industry)`),
	}
	yearRangeRe = regexp.MustCompile(`(?i)(\d{4})\s*[-–]\s*(\d{4}|present|current)`)

	skillSectionRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)skills?[:\-]?\s*([^.\n]+)`),
		regexp.MustCompile(`(?i)technologies?[:\-]?\s*([^.\n]+)`),
		regexp.MustCompile(`(?i)programming languages?[:\-]?\s*([^.\n]+)`),
	}
	listDelimiterRe = regexp.MustCompile(`[,;|•\n]`)

	degreeRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)((?:bachelor|master|phd|doctorate|diploma|certificate|b\.tech|m\.tech|bca|mca|bba|mba|b\.sc|m\.sc)[^.\n]*)`),
		regexp.MustCompile(`(?i)((?:engineering|computer science|information technology|software)[^.\n]*)`),
	}

	certificationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)certified\s+([^.\n]+)`),
		regexp.MustCompile(`(?i)certification[:\-]?\s*([^.\n]+)`),
		regexp.MustCompile(`(?i)((?:aws|azure|google|microsoft|oracle|cisco|comptia)[^.\n]*certified[^.\n]*)`),
	}

	collapseRe = regexp.MustCompile(`\s+`)
)

const maxExperienceYears = 50

func (e *attributeExtractor) Extract(text string) (*ExtractedProfile, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text to extract from")
	}

	name, email, phone := extractContactInfo(text)

	profile := &ExtractedProfile{
		CandidateName:   name,
		Email:           email,
		Phone:           phone,
		ExperienceYears: extractExperienceYears(text),
		Skills:          e.extractSkills(text),
		Education:       extractEducation(text),
		Certifications:  extractCertifications(text),
		Projects:        extractProjects(text),
		Summary:         extractSummary(text),
	}
	if profile.CandidateName == "" {
		profile.CandidateName = "Unknown"
	}
	return profile, nil
}

func extractContactInfo(text string) (name, email, phone string) {
	if m := emailRe.FindString(text); m != "" {
		email = m
	}

	for _, re := range phoneRes {
		if m := re.FindString(text); m != "" {
			phone = m
			break
		}
	}

	// Candidate name: an early short line of plain letters that is not a
	// generic resume header.
	lines := strings.Split(text, "\n")
	limit := 5
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if line == "" || len(strings.Fields(line)) > 4 {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "resume") || strings.Contains(lower, "cv") || strings.Contains(lower, "curriculum") {
			continue
		}
		if nameRe.MatchString(line) {
			name = line
			break
		}
	}

	return name, email, phone
}

func extractExperienceYears(text string) float64 {
	for _, re := range experiencePhraseRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if years, err := strconv.ParseFloat(m[1], 64); err == nil {
				return years
			}
		}
	}

	// Fall back to summing work-history date ranges.
	var total float64
	currentYear := time.Now().Year()
	for _, m := range yearRangeRe.FindAllStringSubmatch(text, -1) {
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end := currentYear
		if y, err := strconv.Atoi(m[2]); err == nil {
			end = y
		}
		if end > start {
			total += float64(end - start)
		}
	}

	if total > maxExperienceYears {
		total = maxExperienceYears
	}
	return total
}

func (e *attributeExtractor) extractSkills(text string) []string {
	textLower := strings.ToLower(text)

	found := make([]string, 0)
	seen := make(map[string]struct{})
	add := func(skill string) {
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		found = append(found, skill)
	}

	for _, skill := range e.skillsVocabulary {
		if strings.Contains(textLower, skill) {
			add(skill)
		}
	}

	for _, re := range skillSectionRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, piece := range listDelimiterRe.Split(m[1], -1) {
				piece = strings.TrimSpace(piece)
				if piece != "" && len(piece) < 30 {
					add(piece)
				}
			}
		}
	}

	return found
}

func extractEducation(text string) []models.EducationEntry {
	textLower := strings.ToLower(text)

	// Narrow to the education section when one exists.
	section := text
	for _, keyword := range []string{"education", "academic", "qualification"} {
		if idx := strings.Index(textLower, keyword); idx != -1 {
			end := idx + 1000
			if end > len(text) {
				end = len(text)
			}
			section = text[idx:end]
			break
		}
	}

	education := make([]models.EducationEntry, 0)
	seen := make(map[string]struct{})
	for _, re := range degreeRes {
		for _, m := range re.FindAllStringSubmatch(section, -1) {
			degree := strings.TrimSpace(m[1])
			key := strings.ToLower(degree)
			if degree == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			education = append(education, models.EducationEntry{
				Degree: degree,
				Field:  "Not specified",
				Year:   "Not specified",
			})
		}
	}
	return education
}

func extractCertifications(text string) []string {
	certs := make([]string, 0)
	seen := make(map[string]struct{})
	for _, re := range certificationRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			cert := strings.TrimSpace(m[1])
			if cert == "" || len(cert) >= 100 {
				continue
			}
			key := strings.ToLower(cert)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			certs = append(certs, cert)
		}
	}
	return certs
}

const maxProjects = 10

func extractProjects(text string) []models.Project {
	textLower := strings.ToLower(text)

	section := text
	for _, keyword := range []string{"project", "work", "portfolio", "github"} {
		if idx := strings.Index(textLower, keyword); idx != -1 {
			end := idx + 2000
			if end > len(text) {
				end = len(text)
			}
			section = text[idx:end]
			break
		}
	}

	projects := make([]models.Project, 0, maxProjects)
	lines := strings.Split(section, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || len(strings.Fields(line)) > 8 {
			continue
		}
		if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			continue
		}

		description := ""
		if i+1 < len(lines) {
			description = strings.TrimSpace(lines[i+1])
			if len(description) > 200 {
				description = description[:200]
			}
		}

		projects = append(projects, models.Project{Title: line, Description: description})
		if len(projects) == maxProjects {
			break
		}
	}
	return projects
}

func extractSummary(text string) string {
	limit := 500
	if len(text) < limit {
		limit = len(text)
	}
	return strings.TrimSpace(collapseRe.ReplaceAllString(text[:limit], " "))
}
