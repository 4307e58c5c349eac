package match

import (
	"sort"
	"strings"
	"unicode"
)

// Vocabulary canonicalizes free-text skill mentions. Lookup is
// case/punctuation folded, exact match first, then alias table.
type Vocabulary struct {
	canonical map[string]string
	aliases   map[string]string
}

// NewVocabulary builds a vocabulary from canonical skill names and an
// alias table (alias -> canonical name). Aliases whose target is not a
// vocabulary entry are ignored.
func NewVocabulary(terms []string, aliases map[string]string) *Vocabulary {
	v := &Vocabulary{
		canonical: make(map[string]string, len(terms)),
		aliases:   make(map[string]string, len(aliases)),
	}
	for _, t := range terms {
		folded := FoldSkill(t)
		if folded == "" {
			continue
		}
		v.canonical[folded] = t
	}
	for alias, target := range aliases {
		name, ok := v.canonical[FoldSkill(target)]
		if !ok {
			continue
		}
		v.aliases[FoldSkill(alias)] = name
	}
	return v
}

// Canonical resolves a single mention to its vocabulary entry
func (v *Vocabulary) Canonical(mention string) (string, bool) {
	folded := FoldSkill(mention)
	if name, ok := v.canonical[folded]; ok {
		return name, true
	}
	if name, ok := v.aliases[folded]; ok {
		return name, true
	}
	return "", false
}

// Normalize maps a set of mentions to canonical vocabulary entries.
// Unmatched mentions are dropped. The result is deduplicated and sorted
// so the same input set always yields the same output, regardless of
// mention order.
func (v *Vocabulary) Normalize(mentions []string) []string {
	seen := make(map[string]struct{}, len(mentions))
	for _, m := range mentions {
		if name, ok := v.Canonical(m); ok {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// CanonicalOrFolded resolves to a vocabulary entry when possible and
// otherwise returns the folded form. Job requirements use this so a
// required skill outside the vocabulary still participates in matching
// under its folded spelling.
func (v *Vocabulary) CanonicalOrFolded(mention string) string {
	if name, ok := v.Canonical(mention); ok {
		return name
	}
	return FoldSkill(mention)
}

// Mentions returns every folded spelling the vocabulary recognizes,
// canonical entries and aliases alike, sorted. Text scanners iterate
// this list and resolve hits through Canonical.
func (v *Vocabulary) Mentions() []string {
	out := make([]string, 0, len(v.canonical)+len(v.aliases))
	for folded := range v.canonical {
		out = append(out, folded)
	}
	for folded := range v.aliases {
		out = append(out, folded)
	}
	sort.Strings(out)
	return out
}

// FoldSkill lowercases a mention and collapses punctuation to single
// spaces. '+' and '#' survive folding so "C++" and "C#" stay distinct.
func FoldSkill(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		keep := unicode.IsLetter(r) || unicode.IsNumber(r) || r == '+' || r == '#'
		if keep {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// DefaultVocabulary returns the built-in technical skill vocabulary
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(defaultSkillTerms, defaultSkillAliases)
}

var defaultSkillTerms = []string{
	// Programming languages
	"python", "java", "javascript", "typescript", "c++", "c#", "ruby",
	"php", "swift", "kotlin", "go", "rust", "scala", "r", "perl",
	// Web frameworks
	"html", "css", "react", "angular", "vue", "svelte", "next.js",
	"node.js", "django", "flask", "fastapi", "spring", "asp.net",
	"express", "laravel", "ruby on rails", "jquery", "bootstrap",
	// Databases
	"sql", "mysql", "postgresql", "mongodb", "redis", "oracle",
	"cassandra", "dynamodb", "sqlite", "mariadb", "elasticsearch",
	"neo4j", "nosql",
	// Cloud and devops
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins",
	"terraform", "ansible", "git", "github", "gitlab", "ci/cd",
	"devops", "microservices", "rest api",
	// Data science and ML
	"machine learning", "deep learning", "nlp", "computer vision",
	"tensorflow", "pytorch", "keras", "scikit-learn", "pandas", "numpy",
	"matplotlib", "tableau", "power bi", "spark", "hadoop",
	"data analysis", "big data",
	// Mobile
	"android", "ios", "react native", "flutter", "xamarin",
	// Testing
	"selenium", "junit", "pytest", "jest", "cypress", "test automation",
	"unit testing",
	// Soft skills
	"leadership", "communication", "teamwork", "problem solving",
	"analytical", "project management", "agile", "scrum", "kanban",
	"mentoring",
}

var defaultSkillAliases = map[string]string{
	"js":         "javascript",
	"ts":         "typescript",
	"golang":     "go",
	"py":         "python",
	"postgres":   "postgresql",
	"mongo":      "mongodb",
	"k8s":        "kubernetes",
	"ml":         "machine learning",
	"dl":         "deep learning",
	"reactjs":    "react",
	"react.js":   "react",
	"nodejs":     "node.js",
	"node":       "node.js",
	"vuejs":      "vue",
	"vue.js":     "vue",
	"nextjs":     "next.js",
	"sklearn":    "scikit-learn",
	"amazon web services": "aws",
	"google cloud":        "gcp",
	"google cloud platform": "gcp",
	"es":          "elasticsearch",
	"rest":        "rest api",
	"restful api": "rest api",
	"cicd":        "ci/cd",
}
