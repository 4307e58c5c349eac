package match

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// JobProfile is the structured job-requirement record the engine scores
// against. Preferred skill weights are non-negative and need not sum to
// 1; they are normalized internally.
type JobProfile struct {
	Title              string
	Description        string
	RequiredSkills     []string
	PreferredSkills    map[string]float64
	MinExperienceYears int
	MinEducation       kernel.EducationLevel
}

// Candidate is one structured resume record in a ranking batch. RawText
// feeds the similarity engine only; the extracted fields feed the factor
// scorers.
type Candidate struct {
	ID              string
	RawText         string
	Skills          []string
	ExperienceYears float64
	Education       kernel.EducationLevel
}

// Breakdown is the immutable per-candidate scoring result. All
// sub-scores and the overall score lie in [0,1].
type Breakdown struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Semantic   float64 `json:"semantic"`
	Overall    float64 `json:"overall"`

	MatchedRequired  []string `json:"matched_required"`
	MissingRequired  []string `json:"missing_required"`
	MatchedPreferred []string `json:"matched_preferred"`

	// Flags records non-fatal input repairs (clamped experience,
	// unknown education, empty text). A flagged candidate is still
	// fully scored.
	Flags []string `json:"flags,omitempty"`
}

// Ranked pairs a candidate with its breakdown and 1-based rank
type Ranked struct {
	CandidateID string    `json:"candidate_id"`
	Breakdown   Breakdown `json:"breakdown"`
	Rank        int       `json:"rank"`
}

// Input-repair flags surfaced on Breakdown.Flags
const (
	FlagExperienceClamped = "experience_clamped"
	FlagUnknownEducation  = "unknown_education"
	FlagEmptyText         = "empty_text"
	FlagNoSkills          = "no_extracted_skills"
)

// Engine scores and ranks resume batches against a job profile. It is
// a pure function of its inputs plus its immutable configuration:
// construct once, share across goroutines, never mutate mid-batch.
type Engine struct {
	cfg      Config
	eduIndex map[kernel.EducationLevel]int
}

// New validates the configuration and builds an engine. Warnings carry
// the renormalization notice when RenormalizeWeights fired.
func New(cfg Config) (*Engine, []string, error) {
	validated, warnings, err := cfg.validate()
	if err != nil {
		return nil, nil, err
	}

	eduIndex := make(map[kernel.EducationLevel]int, len(validated.EducationLadder))
	for i, level := range validated.EducationLadder {
		eduIndex[level] = i
	}

	return &Engine{cfg: validated, eduIndex: eduIndex}, warnings, nil
}

// Weights returns the effective (possibly renormalized) weights
func (e *Engine) Weights() Weights {
	return e.cfg.Weights
}

// RankBatch scores every candidate against the profile and returns them
// ranked. The TF-IDF corpus is built once over the job description plus
// all candidate texts, then shared read-only by the parallel scorers.
// Every input candidate appears in the output exactly once; malformed
// candidates are repaired and flagged, never dropped.
func (e *Engine) RankBatch(ctx context.Context, profile JobProfile, candidates []Candidate) ([]Ranked, error) {
	required, preferred := e.normalizeJobSkills(profile)
	requiredIdx := e.ladderIndex(profile.MinEducation)

	docs := make([][]string, 0, len(candidates)+1)
	docs = append(docs, Tokenize(profile.Description, e.cfg.Stopwords))
	for _, c := range candidates {
		docs = append(docs, Tokenize(c.RawText, e.cfg.Stopwords))
	}
	corpus := NewCorpus(docs)

	results := make([]Ranked, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	limit := e.cfg.MaxParallel
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g.SetLimit(limit)

	for i := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.scoreCandidate(candidates[i], required, preferred,
				profile.MinExperienceYears, requiredIdx, corpus, i+1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortAndRank(results)
	return results, nil
}

// scoreCandidate computes one candidate's breakdown against the
// pre-normalized job skill sets and the shared corpus. corpusIdx is the
// candidate's document position (the job description is document 0).
func (e *Engine) scoreCandidate(c Candidate, required []string, preferred map[string]float64,
	minExperience, requiredEduIdx int, corpus *Corpus, corpusIdx int) Ranked {

	var flags []string

	resumeSkills := e.cfg.Vocabulary.Normalize(c.Skills)
	if len(c.Skills) == 0 {
		flags = append(flags, FlagNoSkills)
	}

	years := c.ExperienceYears
	if years < 0 {
		years = 0
		flags = append(flags, FlagExperienceClamped)
	}

	candidateEduIdx, known := e.eduIndex[c.Education]
	if !known {
		candidateEduIdx = 0
		if c.Education != "" && c.Education != kernel.EducationNone {
			flags = append(flags, FlagUnknownEducation)
		}
	}

	if c.RawText == "" {
		flags = append(flags, FlagEmptyText)
	}

	skills := e.scoreSkills(resumeSkills, required, preferred)
	experience := e.scoreExperience(years, minExperience)
	education := e.scoreEducation(candidateEduIdx, requiredEduIdx)
	semantic := corpus.Similarity(0, corpusIdx)

	return Ranked{
		CandidateID: c.ID,
		Breakdown: Breakdown{
			Skills:           skills.Score,
			Experience:       experience,
			Education:        education,
			Semantic:         semantic,
			Overall:          e.aggregate(skills.Score, experience, education, semantic),
			MatchedRequired:  skills.MatchedRequired,
			MissingRequired:  skills.MissingRequired,
			MatchedPreferred: skills.MatchedPreferred,
			Flags:            flags,
		},
	}
}

// normalizeJobSkills canonicalizes the job's skill sets. Required wins
// over preferred when a skill appears in both, and duplicate preferred
// entries with conflicting weights keep the larger weight.
func (e *Engine) normalizeJobSkills(profile JobProfile) ([]string, map[string]float64) {
	requiredSet := make(map[string]struct{}, len(profile.RequiredSkills))
	required := make([]string, 0, len(profile.RequiredSkills))
	for _, s := range profile.RequiredSkills {
		name := e.cfg.Vocabulary.CanonicalOrFolded(s)
		if name == "" {
			continue
		}
		if _, dup := requiredSet[name]; dup {
			continue
		}
		requiredSet[name] = struct{}{}
		required = append(required, name)
	}

	preferred := make(map[string]float64, len(profile.PreferredSkills))
	for s, w := range profile.PreferredSkills {
		name := e.cfg.Vocabulary.CanonicalOrFolded(s)
		if name == "" {
			continue
		}
		if _, isRequired := requiredSet[name]; isRequired {
			continue
		}
		if w < 0 {
			w = 0
		}
		if prev, dup := preferred[name]; !dup || w > prev {
			preferred[name] = w
		}
	}

	return required, preferred
}

// ladderIndex returns a level's ordinal position, treating anything
// outside the configured ladder as no requirement.
func (e *Engine) ladderIndex(level kernel.EducationLevel) int {
	if idx, ok := e.eduIndex[level]; ok {
		return idx
	}
	return 0
}
