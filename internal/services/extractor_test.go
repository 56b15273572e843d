package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResumeText = `Jordan Smith
Software Engineer
jordan.smith@example.com
+1 555-123-4567

Summary: Backend developer with 5 years of experience building data services.

Skills: Python, Django, PostgreSQL, Docker
Technologies: AWS, Terraform

Education
Bachelor of Technology in Computer Science, 2018

Certifications
AWS Certified Solutions Architect
Certified Kubernetes Administrator
`

func TestAttributeExtractor_EmptyText(t *testing.T) {
	e := NewAttributeExtractor()

	_, err := e.Extract("   \n  ")
	assert.Error(t, err)
}

func TestAttributeExtractor_ContactInfo(t *testing.T) {
	e := NewAttributeExtractor()

	profile, err := e.Extract(sampleResumeText)
	require.NoError(t, err)

	assert.Equal(t, "Jordan Smith", profile.CandidateName)
	assert.Equal(t, "jordan.smith@example.com", profile.Email)
	assert.NotEmpty(t, profile.Phone)
}

func TestAttributeExtractor_UnknownNameFallback(t *testing.T) {
	e := NewAttributeExtractor()

	profile, err := e.Extract("resume\n12345\n@@@\n###\n$$$\nsome body text here without a name line")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", profile.CandidateName)
}

func TestAttributeExtractor_ExperienceFromPhrase(t *testing.T) {
	e := NewAttributeExtractor()

	profile, err := e.Extract(sampleResumeText)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, profile.ExperienceYears, 1e-9)
}

func TestAttributeExtractor_ExperienceFromDateRanges(t *testing.T) {
	e := NewAttributeExtractor()

	text := `Alex Doe
alex@example.com

Work History
Software Engineer, Acme Corp, 2015 - 2019
Senior Engineer, Widgets Inc, 2019 - 2022
`
	profile, err := e.Extract(text)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, profile.ExperienceYears, 1e-9)
}

func TestAttributeExtractor_ExperienceCapped(t *testing.T) {
	e := NewAttributeExtractor()

	var b strings.Builder
	b.WriteString("Alex Doe\n\nWork History\n")
	for i := 0; i < 10; i++ {
		b.WriteString("Engineer, Some Corp, 1990 - 2000\n")
	}

	profile, err := e.Extract(b.String())
	require.NoError(t, err)
	assert.InDelta(t, 50.0, profile.ExperienceYears, 1e-9)
}

func TestAttributeExtractor_SkillsFromVocabularyAndSections(t *testing.T) {
	e := NewAttributeExtractor()

	profile, err := e.Extract(sampleResumeText)
	require.NoError(t, err)

	assert.Contains(t, profile.Skills, "python")
	assert.Contains(t, profile.Skills, "django")
	assert.Contains(t, profile.Skills, "postgresql")
	assert.Contains(t, profile.Skills, "docker")
	assert.Contains(t, profile.Skills, "aws")
	assert.Contains(t, profile.Skills, "terraform")

	// vocabulary and section hits are deduplicated case-insensitively
	for _, s := range profile.Skills {
		assert.NotEqual(t, "Python", s)
	}
}

func TestAttributeExtractor_Education(t *testing.T) {
	e := NewAttributeExtractor()

	profile, err := e.Extract(sampleResumeText)
	require.NoError(t, err)

	require.NotEmpty(t, profile.Education)
	assert.Contains(t, strings.ToLower(profile.Education[0].Degree), "bachelor")
	assert.Equal(t, "Not specified", profile.Education[0].Field)
	assert.Equal(t, "Not specified", profile.Education[0].Year)
}

func TestAttributeExtractor_Certifications(t *testing.T) {
	e := NewAttributeExtractor()

	profile, err := e.Extract(sampleResumeText)
	require.NoError(t, err)

	require.NotEmpty(t, profile.Certifications)
	joined := strings.ToLower(strings.Join(profile.Certifications, " | "))
	assert.Contains(t, joined, "aws")
}

func TestAttributeExtractor_Summary(t *testing.T) {
	e := NewAttributeExtractor()

	profile, err := e.Extract(sampleResumeText)
	require.NoError(t, err)

	assert.NotEmpty(t, profile.Summary)
	assert.LessOrEqual(t, len(profile.Summary), 500)
	assert.NotContains(t, profile.Summary, "\n")
}
