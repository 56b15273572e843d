package matching

import (
	"strings"

	"talentsift/resume-relevance/internal/models"
)

// EducationKeyword pairs a degree keyword with its base score. Held as a
// slice so scanning order is fixed.
type EducationKeyword struct {
	Keyword string
	Score   float64
}

func DefaultEducationKeywords() []EducationKeyword {
	return []EducationKeyword{
		{"bachelor", 60},
		{"master", 80},
		{"phd", 100},
		{"doctorate", 100},
		{"engineering", 70},
		{"computer science", 90},
		{"mba", 75},
	}
}

// EducationScorer rates education entries against the job's requirements
// text using an injected keyword table.
type EducationScorer struct {
	keywords []EducationKeyword
}

func NewEducationScorer(keywords []EducationKeyword) *EducationScorer {
	if keywords == nil {
		keywords = DefaultEducationKeywords()
	}
	return &EducationScorer{keywords: keywords}
}

// Score returns 50 for an empty education list and 60 when no keyword
// matches any entry. A keyword that appears both in the requirements text
// and in some degree earns a +20 bonus capped at 100.
func (s *EducationScorer) Score(education []models.EducationEntry, requirementsText string) float64 {
	if len(education) == 0 {
		return 50
	}

	reqLower := strings.ToLower(requirementsText)

	var baseScore float64
	for _, edu := range education {
		degree := strings.ToLower(edu.Degree)
		for _, kw := range s.keywords {
			if strings.Contains(degree, kw.Keyword) && kw.Score > baseScore {
				baseScore = kw.Score
			}
		}
	}

	for _, kw := range s.keywords {
		if !strings.Contains(reqLower, kw.Keyword) {
			continue
		}
		for _, edu := range education {
			if strings.Contains(strings.ToLower(edu.Degree), kw.Keyword) {
				bonus := baseScore + 20
				if bonus > 100 {
					return 100
				}
				return bonus
			}
		}
	}

	if baseScore > 0 {
		return baseScore
	}
	return 60
}
