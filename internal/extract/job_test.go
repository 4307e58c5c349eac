package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

const sampleJob = `Senior Python Developer

Requirements:
- 5+ years of experience in Python development
- Strong knowledge of Django and Flask
- Experience with SQL databases (PostgreSQL, MySQL)
- Bachelor's degree in Computer Science

Preferred:
- AWS experience
- Machine learning knowledge
`

func TestAnalyzeJobDescription(t *testing.T) {
	a := NewJobAnalyzer(nil)

	got := a.Analyze("Senior Python Developer", sampleJob)

	assert.Equal(t, "Senior Python Developer", got.Title)
	assert.Equal(t, 5, got.MinExperienceYears)
	assert.Equal(t, kernel.EducationBachelor, got.MinEducation)

	for _, skill := range []string{"python", "django", "flask", "sql", "postgresql", "mysql"} {
		assert.Contains(t, got.RequiredSkills, skill)
	}
	assert.NotContains(t, got.RequiredSkills, "aws")
	assert.NotContains(t, got.RequiredSkills, "machine learning")

	require.Contains(t, got.PreferredSkills, "aws")
	require.Contains(t, got.PreferredSkills, "machine learning")
	assert.Equal(t, 1.0, got.PreferredSkills["aws"])
}

func TestAnalyzePreferredWinsOverBodyMention(t *testing.T) {
	a := NewJobAnalyzer(nil)
	desc := "We use Docker everywhere.\n\nNice to have:\n- Docker certification\n"

	got := a.Analyze("Platform Engineer", desc)

	assert.NotContains(t, got.RequiredSkills, "docker")
	assert.Contains(t, got.PreferredSkills, "docker")
}

func TestAnalyzeMinExperienceKeepsSmallest(t *testing.T) {
	desc := "8+ years of experience preferred, at least 3 years required"
	got := NewJobAnalyzer(nil).Analyze("x", desc)
	assert.Equal(t, 3, got.MinExperienceYears)
}

func TestAnalyzeNoRequirementsStated(t *testing.T) {
	got := NewJobAnalyzer(nil).Analyze("Intern", "Help the team ship things")

	assert.Zero(t, got.MinExperienceYears)
	assert.Equal(t, kernel.EducationNone, got.MinEducation)
	assert.Empty(t, got.PreferredSkills)
}

func TestAnalyzeKeyPhrases(t *testing.T) {
	desc := "Strong knowledge of distributed systems. Proven track record in delivery."
	got := NewJobAnalyzer(nil).Analyze("x", desc)

	assert.Contains(t, got.KeyPhrases, "track record in delivery")
	assert.NotEmpty(t, got.KeyPhrases)
}

func TestExtractSectionStopsAtBlankLine(t *testing.T) {
	text := "requirements:\n- python\n- sql\n\nsomething else with java"
	section := extractSection(text, requiredHeaders)

	assert.Contains(t, section, "python")
	assert.NotContains(t, section, "java")
}
