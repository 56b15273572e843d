package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"talentsift/resume-relevance/internal/matching"
	"talentsift/resume-relevance/internal/models"
)

type stubOracle struct {
	score float64
}

func (s *stubOracle) Similarity(context.Context, string, string) (float64, error) {
	return s.score, nil
}

func newTestEngine(semanticScore float64) *Engine {
	matcher := matching.NewEngine(matching.Config{Oracle: &stubOracle{score: semanticScore}}, nil)
	return NewEngine(matcher, Config{}, nil)
}

func testCandidate() *models.Resume {
	return &models.Resume{
		CandidateName:   "Jordan Smith",
		ExperienceYears: 3,
		Skills:          models.StringList{"python", "sql"},
		Education:       models.EducationList{{Degree: "Bachelor of Science"}},
		Certifications:  models.StringList{"AWS Certified Solutions Architect"},
		Projects: models.ProjectList{
			{Title: "Inventory web app", Description: "frontend and backend"},
		},
		Summary:  "Backend developer focused on data services",
		IsParsed: true,
	}
}

func testJob() *models.JobPosting {
	return &models.JobPosting{
		Title:         "Backend Engineer",
		Description:   "We build data services",
		Requirements:  "Required: Python, SQL. Preferred: AWS.",
		ExperienceMin: 2,
		ExperienceMax: 5,
	}
}

func TestFitLevel_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  models.FitLevel
	}{
		{100, models.FitHigh},
		{75, models.FitHigh},
		{74.999, models.FitMedium},
		{50, models.FitMedium},
		{49.999, models.FitLow},
		{0, models.FitLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FitLevel(tt.score), "score %.3f", tt.score)
	}
}

func TestEngine_Score_HighFit(t *testing.T) {
	engine := newTestEngine(50)

	result := engine.Score(context.Background(), testCandidate(), testJob())

	// 0.4*70 + 0.3*100 + 0.2*60 + 0.1*50 = 75, the High boundary
	assert.InDelta(t, 75.0, result.RelevanceScore, 1e-9)
	assert.Equal(t, models.FitHigh, result.OverallFit)
	assert.False(t, result.IsError)
	assert.ElementsMatch(t, []string{"python", "sql"}, result.MatchedSkills)
	assert.Equal(t, []string{"aws"}, result.MissingSkills)
}

func TestEngine_Score_MissingCertifications(t *testing.T) {
	engine := newTestEngine(0)

	// "python" appears in the requirements but the candidate holds no
	// matching certification; the held AWS cert covers the cloud keyword
	result := engine.Score(context.Background(), testCandidate(), testJob())
	assert.Equal(t, []string{"PYTHON"}, result.MissingCertifications)
}

func TestEngine_Score_MissingProjectCategories(t *testing.T) {
	engine := newTestEngine(0)

	result := engine.Score(context.Background(), testCandidate(), testJob())

	// the job mentions aws but the portfolio has no cloud project
	assert.Equal(t, []string{"Cloud Computing Project"}, result.MissingProjects)
}

func TestEngine_Score_ExtendsStrengths(t *testing.T) {
	engine := newTestEngine(50)

	result := engine.Score(context.Background(), testCandidate(), testJob())

	assert.Contains(t, result.Strengths, "Strong technical skill match")
	assert.Contains(t, result.Strengths, "Proficiency in high-demand skills: python, sql")
	assert.Contains(t, result.Strengths, "Professional certifications demonstrate commitment to continuous learning")
}

func TestEngine_Score_ExtendsWeaknesses(t *testing.T) {
	engine := newTestEngine(50)

	result := engine.Score(context.Background(), testCandidate(), testJob())

	assert.Contains(t, result.Weaknesses, "Missing key skills: aws")
	assert.Contains(t, result.Weaknesses, "Limited project portfolio to demonstrate practical skills")
}

func TestEngine_Score_Recommendations(t *testing.T) {
	engine := newTestEngine(50)

	result := engine.Score(context.Background(), testCandidate(), testJob())

	assert.Contains(t, result.Recommendations, "Excellent match!")
	assert.Contains(t, result.Recommendations, "Priority skills to develop:")
	assert.Contains(t, result.Recommendations, "aws")
	assert.Contains(t, result.Recommendations, "Immediate action items:")
	assert.Contains(t, result.Recommendations, "Prepare for technical interviews")
	// one project in the portfolio
	assert.Contains(t, result.Recommendations, "Build a stronger portfolio")
}

func TestEngine_Score_LowFitRecommendations(t *testing.T) {
	engine := newTestEngine(0)

	candidate := &models.Resume{
		CandidateName:   "Newcomer",
		ExperienceYears: 0,
		Skills:          models.StringList{"excel"},
	}

	result := engine.Score(context.Background(), candidate, testJob())

	assert.Equal(t, models.FitLow, result.OverallFit)
	assert.Contains(t, result.Recommendations, "There's room for growth.")
	assert.Contains(t, result.Recommendations, "internships or entry-level positions")
	assert.Contains(t, result.Recommendations, "Consider taking online courses or bootcamps")
}

func TestErrorResult(t *testing.T) {
	result := ErrorResult()

	assert.Equal(t, models.FitLow, result.OverallFit)
	assert.Zero(t, result.RelevanceScore)
	assert.True(t, result.IsError)
	assert.Equal(t, []string{"Error in scoring process"}, result.Weaknesses)
	assert.NotEmpty(t, result.Recommendations)
	assert.NotNil(t, result.MatchedSkills)
	assert.NotNil(t, result.MissingSkills)
}
