package match

import (
	"fmt"
	"math"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// Weights holds the aggregation weight of each scoring factor
type Weights struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Semantic   float64 `json:"semantic"`
}

// Sum returns the total of the four weights
func (w Weights) Sum() float64 {
	return w.Skills + w.Experience + w.Education + w.Semantic
}

// DefaultWeights are the documented production defaults
func DefaultWeights() Weights {
	return Weights{
		Skills:     0.40,
		Experience: 0.25,
		Education:  0.15,
		Semantic:   0.20,
	}
}

// Config is the engine configuration. It is validated once at engine
// construction and shared read-only across all scoring calls.
type Config struct {
	Weights Weights

	// RenormalizeWeights scales weights to sum to 1 instead of failing
	// validation; a warning is surfaced to the caller when it fires.
	RenormalizeWeights bool

	// WeightTolerance is the allowed deviation of the weight sum from 1
	WeightTolerance float64

	// RequiredShare and PreferredShare split the skills sub-score
	// between required coverage and preferred matches when both skill
	// sets are non-empty
	RequiredShare  float64
	PreferredShare float64

	// EducationPenalty is the score cost per ordinal step of shortfall
	EducationPenalty float64

	// EducationLadder is the ordinal education scale, lowest first
	EducationLadder []kernel.EducationLevel

	Vocabulary *Vocabulary
	Stopwords  map[string]struct{}

	// MaxParallel bounds concurrent candidate scoring; <=0 means one
	// goroutine per CPU
	MaxParallel int
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		Weights:            DefaultWeights(),
		RenormalizeWeights: false,
		WeightTolerance:    1e-3,
		RequiredShare:      0.7,
		PreferredShare:     0.3,
		EducationPenalty:   0.2,
		EducationLadder:    DefaultEducationLadder(),
		Vocabulary:         DefaultVocabulary(),
		Stopwords:          DefaultStopwords(),
	}
}

// DefaultEducationLadder is the six-level ordinal education scale
func DefaultEducationLadder() []kernel.EducationLevel {
	return []kernel.EducationLevel{
		kernel.EducationNone,
		kernel.EducationHighSchool,
		kernel.EducationAssociate,
		kernel.EducationBachelor,
		kernel.EducationMaster,
		kernel.EducationDoctorate,
	}
}

// validate checks the configuration and applies the documented
// renormalization fallback. It returns the possibly-adjusted config and
// any warnings surfaced to the caller.
func (c Config) validate() (Config, []string, error) {
	var warnings []string

	if c.Weights.Skills < 0 || c.Weights.Experience < 0 ||
		c.Weights.Education < 0 || c.Weights.Semantic < 0 {
		return c, nil, ErrInvalidConfig().
			WithDetail("reason", "negative aggregation weight").
			WithDetail("weights", c.Weights)
	}

	sum := c.Weights.Sum()
	if math.Abs(sum-1.0) > c.WeightTolerance {
		if !c.RenormalizeWeights || sum <= 0 {
			return c, nil, ErrInvalidConfig().
				WithDetail("reason", "aggregation weights must sum to 1.0").
				WithDetail("sum", sum)
		}
		c.Weights.Skills /= sum
		c.Weights.Experience /= sum
		c.Weights.Education /= sum
		c.Weights.Semantic /= sum
		warnings = append(warnings,
			fmt.Sprintf("aggregation weights summed to %.4f; renormalized to 1.0", sum))
	}

	shareSum := c.RequiredShare + c.PreferredShare
	if c.RequiredShare < 0 || c.PreferredShare < 0 || math.Abs(shareSum-1.0) > c.WeightTolerance {
		return c, nil, ErrInvalidConfig().
			WithDetail("reason", "skill shares must be non-negative and sum to 1.0").
			WithDetail("required_share", c.RequiredShare).
			WithDetail("preferred_share", c.PreferredShare)
	}

	if c.EducationPenalty < 0 || c.EducationPenalty > 1 {
		return c, nil, ErrInvalidConfig().
			WithDetail("reason", "education penalty must be in [0,1]").
			WithDetail("penalty", c.EducationPenalty)
	}

	if len(c.EducationLadder) == 0 {
		return c, nil, ErrInvalidConfig().
			WithDetail("reason", "education ladder is empty")
	}
	seen := make(map[kernel.EducationLevel]struct{}, len(c.EducationLadder))
	for _, level := range c.EducationLadder {
		if _, dup := seen[level]; dup {
			return c, nil, ErrInvalidConfig().
				WithDetail("reason", "duplicate education ladder entry").
				WithDetail("level", level.String())
		}
		seen[level] = struct{}{}
	}

	if c.Vocabulary == nil {
		c.Vocabulary = DefaultVocabulary()
	}
	if c.Stopwords == nil {
		c.Stopwords = DefaultStopwords()
	}

	return c, warnings, nil
}
