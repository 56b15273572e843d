package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillMatcher_FullRequiredNoPreferred(t *testing.T) {
	m := NewSkillMatcher(nil)

	result := m.Match(
		[]string{"Python", "SQL", "Docker", "Git"},
		[]string{"python", "sql", "docker", "git"},
		[]string{"kubernetes", "terraform"},
	)

	// All required matched, no preferred matched: 0.7*1 + 0.3*0 scaled to 100.
	assert.InDelta(t, 70.0, result.Score, 1e-9)
	assert.ElementsMatch(t, []string{"python", "sql", "docker", "git"}, result.Matched)
	assert.ElementsMatch(t, []string{"kubernetes", "terraform"}, result.Missing)
}

func TestSkillMatcher_PartialCoverage(t *testing.T) {
	m := NewSkillMatcher(nil)

	result := m.Match(
		[]string{"python", "aws"},
		[]string{"python", "sql"},
		[]string{"aws"},
	)

	// 0.7*(1/2) + 0.3*(1/1) = 0.65
	assert.InDelta(t, 65.0, result.Score, 1e-9)
	assert.Equal(t, []string{"python", "aws"}, result.Matched)
	assert.Equal(t, []string{"sql"}, result.Missing)
}

func TestSkillMatcher_EmptyJobLists(t *testing.T) {
	m := NewSkillMatcher(nil)

	result := m.Match([]string{"python"}, nil, nil)

	assert.InDelta(t, 100.0, result.Score, 1e-9)
	assert.Empty(t, result.Matched)
	assert.Empty(t, result.Missing)
}

func TestSkillMatcher_EmptyCandidateSkills(t *testing.T) {
	m := NewSkillMatcher(nil)

	result := m.Match(nil, []string{"python", "sql"}, []string{"aws"})

	assert.Zero(t, result.Score)
	assert.Empty(t, result.Matched)
	assert.Equal(t, []string{"python", "sql", "aws"}, result.Missing)
}

func TestSkillMatcher_AliasesAreBidirectional(t *testing.T) {
	m := NewSkillMatcher(nil)

	result := m.Match([]string{"nodejs"}, []string{"javascript"}, nil)
	assert.Equal(t, []string{"javascript"}, result.Matched)

	result = m.Match([]string{"javascript"}, []string{"nodejs"}, nil)
	assert.Equal(t, []string{"nodejs"}, result.Matched)

	result = m.Match([]string{"ml"}, []string{"machine learning"}, nil)
	assert.Equal(t, []string{"machine learning"}, result.Matched)
}

func TestSkillMatcher_SubstringMatch(t *testing.T) {
	m := NewSkillMatcher(nil)

	result := m.Match([]string{"postgresql"}, []string{"sql"}, nil)
	assert.Equal(t, []string{"sql"}, result.Matched)
}

func TestSkillMatcher_SingleCharNeverSubstringMatches(t *testing.T) {
	m := NewSkillMatcher(nil)

	result := m.Match([]string{"r"}, []string{"react", "terraform"}, nil)

	// nothing matches, but the empty preferred list still counts as covered:
	// 0.7*0 + 0.3*1
	assert.InDelta(t, 30.0, result.Score, 1e-9)
	assert.Empty(t, result.Matched)
	assert.ElementsMatch(t, []string{"react", "terraform"}, result.Missing)
}

func TestSkillMatcher_DuplicatesAndCaseCollapse(t *testing.T) {
	m := NewSkillMatcher(nil)

	result := m.Match(
		[]string{"Python", "python", " PYTHON "},
		[]string{"Python", "python"},
		nil,
	)

	assert.InDelta(t, 100.0, result.Score, 1e-9)
	assert.Equal(t, []string{"python"}, result.Matched)
}
