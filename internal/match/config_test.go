package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/kernel"
)

func TestDefaultConfigIsValid(t *testing.T) {
	engine, warnings, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.NotNil(t, engine)
}

func TestWeightsMustSumToOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Skills: 0.5, Experience: 0.5, Education: 0.5, Semantic: 0.5}

	_, _, err := New(cfg)
	require.Error(t, err)

	var appErr *errx.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, CodeInvalidConfig, appErr.Code)
}

func TestWeightRenormalizationWarns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Skills: 0.8, Experience: 0.5, Education: 0.3, Semantic: 0.4}
	cfg.RenormalizeWeights = true

	engine, warnings, err := New(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.InDelta(t, 1.0, engine.Weights().Sum(), 1e-9)
	assert.InDelta(t, 0.4, engine.Weights().Skills, 1e-9)
}

func TestNegativeWeightRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Skills: 1.2, Experience: -0.2, Education: 0.0, Semantic: 0.0}
	cfg.RenormalizeWeights = true

	_, _, err := New(cfg)
	assert.Error(t, err)
}

func TestDuplicateLadderEntryRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EducationLadder = []kernel.EducationLevel{
		kernel.EducationNone,
		kernel.EducationBachelor,
		kernel.EducationBachelor,
	}

	_, _, err := New(cfg)
	assert.Error(t, err)
}

func TestEmptyLadderRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EducationLadder = nil

	_, _, err := New(cfg)
	assert.Error(t, err)
}

func TestMissingVocabularyFallsBackToDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Vocabulary = nil
	cfg.Stopwords = nil

	engine, _, err := New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, engine.cfg.Vocabulary)
	assert.NotNil(t, engine.cfg.Stopwords)
}
