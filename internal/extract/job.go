package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Abraxas-365/sift/internal/match"
	"github.com/Abraxas-365/sift/pkg/kernel"
)

// JobAnalysis is the structured requirement record derived from a job
// description. Preferred skills carry a uniform weight of 1 unless the
// posting is edited afterwards.
type JobAnalysis struct {
	Title              string                `json:"title"`
	RequiredSkills     []string              `json:"required_skills"`
	PreferredSkills    map[string]float64    `json:"preferred_skills"`
	MinExperienceYears int                   `json:"min_experience_years"`
	MinEducation       kernel.EducationLevel `json:"min_education"`
	KeyPhrases         []string              `json:"key_phrases"`
}

var (
	requiredHeaders  = []string{"required", "requirements", "must have", "qualifications"}
	preferredHeaders = []string{"preferred", "nice to have", "plus", "bonus"}

	jobExperienceRes = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\+?\s*years?\s*(?:of\s*)?experience`),
		regexp.MustCompile(`minimum\s*(?:of\s*)?(\d+)\s*years?`),
		regexp.MustCompile(`at least\s*(\d+)\s*years?`),
		regexp.MustCompile(`(\d+)\+?\s*yrs?`),
	}

	jobEducationRes = []struct {
		level    kernel.EducationLevel
		patterns []*regexp.Regexp
	}{
		{kernel.EducationDoctorate, compileAll(`ph\.?d`, `doctorate`, `doctoral`)},
		{kernel.EducationMaster, compileAll(`master(?:'s|s)?`, `msc`, `\bms\b`, `\bmba\b`)},
		{kernel.EducationBachelor, compileAll(`bachelor(?:'s|s)?`, `bsc`, `\bbs\b`, `\bdegree\b`)},
		{kernel.EducationAssociate, compileAll(`associate`, `diploma`)},
	}

	keyPhraseRes = []*regexp.Regexp{
		regexp.MustCompile(`strong ([\w\s-]+)`),
		regexp.MustCompile(`excellent ([\w\s-]+)`),
		regexp.MustCompile(`proven ([\w\s-]+)`),
		regexp.MustCompile(`experience (?:with|in) ([\w\s-]+)`),
		regexp.MustCompile(`knowledge of ([\w\s-]+)`),
	}
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// JobAnalyzer derives structured requirements from a free-form posting
type JobAnalyzer struct {
	vocab    *match.Vocabulary
	mentions []string
}

func NewJobAnalyzer(vocab *match.Vocabulary) *JobAnalyzer {
	if vocab == nil {
		vocab = match.DefaultVocabulary()
	}
	return &JobAnalyzer{vocab: vocab, mentions: vocab.Mentions()}
}

// Analyze extracts skills, experience and education requirements from a
// job description. A skill found in the requirements section (or in the
// body with no section hit) is required; one found only in the
// preferred section is preferred.
func (a *JobAnalyzer) Analyze(title, description string) JobAnalysis {
	lower := strings.ToLower(description)

	requiredSection := foldForScan(extractSection(lower, requiredHeaders))
	preferredSection := foldForScan(extractSection(lower, preferredHeaders))
	body := foldForScan(lower)

	requiredSet := make(map[string]struct{})
	preferredSet := make(map[string]struct{})
	for _, m := range a.mentions {
		name, ok := a.vocab.Canonical(m)
		if !ok {
			continue
		}
		switch {
		case containsSkill(requiredSection, m):
			requiredSet[name] = struct{}{}
		case containsSkill(preferredSection, m):
			preferredSet[name] = struct{}{}
		case containsSkill(body, m):
			requiredSet[name] = struct{}{}
		}
	}
	for name := range preferredSet {
		delete(requiredSet, name)
	}

	required := make([]string, 0, len(requiredSet))
	for name := range requiredSet {
		required = append(required, name)
	}
	sort.Strings(required)

	preferred := make(map[string]float64, len(preferredSet))
	for name := range preferredSet {
		preferred[name] = 1.0
	}

	return JobAnalysis{
		Title:              title,
		RequiredSkills:     required,
		PreferredSkills:    preferred,
		MinExperienceYears: extractMinExperience(lower),
		MinEducation:       extractEducationRequirement(lower),
		KeyPhrases:         extractKeyPhrases(lower),
	}
}

// foldForScan normalizes text once so whole-word skill lookups reduce
// to substring checks.
func foldForScan(text string) string {
	if text == "" {
		return ""
	}
	return " " + match.FoldSkill(text) + " "
}

func containsSkill(foldedText, foldedSkill string) bool {
	return foldedText != "" && strings.Contains(foldedText, " "+foldedSkill+" ")
}

// extractSection returns the body under the first matching header, up
// to the next blank line.
func extractSection(lower string, headers []string) string {
	for _, h := range headers {
		re := regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(h) + `[:\s]`)
		loc := re.FindStringIndex(lower)
		if loc == nil {
			continue
		}
		body := lower[loc[1]:]
		if end := strings.Index(body, "\n\n"); end >= 0 {
			body = body[:end]
		}
		return strings.TrimSpace(body)
	}
	return ""
}

// extractMinExperience keeps the smallest stated requirement, so "5+
// years preferred, at least 3 years required" reads as 3.
func extractMinExperience(lower string) int {
	best := -1
	for _, re := range jobExperienceRes {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil && (best < 0 || n < best) {
				best = n
			}
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func extractEducationRequirement(lower string) kernel.EducationLevel {
	for _, entry := range jobEducationRes {
		for _, re := range entry.patterns {
			if re.MatchString(lower) {
				return entry.level
			}
		}
	}
	return kernel.EducationNone
}

const maxKeyPhrases = 20

// extractKeyPhrases pulls emphasized requirement fragments ("strong
// knowledge of X", "proven Y") for display alongside the posting.
func extractKeyPhrases(lower string) []string {
	seen := make(map[string]struct{})
	for _, re := range keyPhraseRes {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			phrase := strings.TrimSpace(m[1])
			if len(phrase) > 5 && len(phrase) < 50 {
				seen[phrase] = struct{}{}
			}
		}
	}
	phrases := make([]string, 0, len(seen))
	for p := range seen {
		phrases = append(phrases, p)
	}
	sort.Strings(phrases)
	if len(phrases) > maxKeyPhrases {
		phrases = phrases[:maxKeyPhrases]
	}
	return phrases
}
