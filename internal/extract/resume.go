package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Abraxas-365/sift/internal/match"
	"github.com/Abraxas-365/sift/pkg/kernel"
)

// ResumeDetails is the structured record pulled out of raw resume text.
// Missing fields stay zero valued; extraction never fails.
type ResumeDetails struct {
	CandidateName   string                `json:"candidate_name"`
	Email           string                `json:"email"`
	Phone           string                `json:"phone"`
	Skills          []string              `json:"skills"`
	ExperienceYears float64               `json:"experience_years"`
	Education       kernel.EducationLevel `json:"education"`
}

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	resumeExperienceRes = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\+?\s*years?\s*(?:of\s*)?experience`),
		regexp.MustCompile(`experience[:\s]+(\d+)\+?\s*years?`),
		regexp.MustCompile(`(\d+)\+?\s*yrs?\s*(?:of\s*)?experience`),
	}
)

// educationSignals is ordered highest level first; the first keyword hit
// wins, so a resume listing both a master's and a bachelor's reports the
// master's.
var educationSignals = []struct {
	level    kernel.EducationLevel
	keywords []string
}{
	{kernel.EducationDoctorate, []string{"phd", "ph.d", "doctorate", "doctoral"}},
	{kernel.EducationMaster, []string{"master", "msc", "m.s.", "mba", "meng"}},
	{kernel.EducationBachelor, []string{"bachelor", "bsc", "b.s.", "beng", "btech"}},
	{kernel.EducationAssociate, []string{"associate", "diploma"}},
	{kernel.EducationHighSchool, []string{"high school", "secondary", "ged"}},
}

// ResumeExtractor pulls contact details, skills, experience and
// education out of free-form resume text with keyword and regex
// heuristics.
type ResumeExtractor struct {
	vocab    *match.Vocabulary
	mentions []string
}

func NewResumeExtractor(vocab *match.Vocabulary) *ResumeExtractor {
	if vocab == nil {
		vocab = match.DefaultVocabulary()
	}
	return &ResumeExtractor{vocab: vocab, mentions: vocab.Mentions()}
}

// Extract parses resume text into a structured record
func (e *ResumeExtractor) Extract(text string) ResumeDetails {
	return ResumeDetails{
		CandidateName:   extractName(text),
		Email:           emailRe.FindString(text),
		Phone:           strings.TrimSpace(phoneRe.FindString(text)),
		Skills:          scanSkills(text, e.vocab, e.mentions),
		ExperienceYears: extractExperienceYears(text),
		Education:       extractEducation(text),
	}
}

// scanSkills finds every vocabulary mention present in the text as a
// whole word and resolves it to its canonical name.
func scanSkills(text string, vocab *match.Vocabulary, mentions []string) []string {
	folded := " " + match.FoldSkill(text) + " "
	seen := make(map[string]struct{})
	for _, m := range mentions {
		if !strings.Contains(folded, " "+m+" ") {
			continue
		}
		if name, ok := vocab.Canonical(m); ok {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	return vocab.Normalize(out)
}

// extractExperienceYears scans for "N years of experience" phrasings
// and keeps the largest claim.
func extractExperienceYears(text string) float64 {
	lower := strings.ToLower(text)
	best := 0
	for _, re := range resumeExperienceRes {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil && n > best {
				best = n
			}
		}
	}
	return float64(best)
}

func extractEducation(text string) kernel.EducationLevel {
	lower := strings.ToLower(text)
	for _, sig := range educationSignals {
		for _, kw := range sig.keywords {
			if strings.Contains(lower, kw) {
				return sig.level
			}
		}
	}
	return kernel.EducationNone
}

// extractName takes the first early line that looks like a person's
// name: a few words, no email, reasonable length.
func extractName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) <= 3 || len(line) >= 50 || strings.Contains(line, "@") {
			continue
		}
		if n := len(strings.Fields(line)); n >= 2 && n <= 4 {
			return line
		}
	}
	return ""
}
