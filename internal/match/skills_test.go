package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExactAndAlias(t *testing.T) {
	v := DefaultVocabulary()

	got := v.Normalize([]string{"Python", "JS", "golang", "underwater basket weaving"})
	assert.Equal(t, []string{"go", "javascript", "python"}, got)
}

func TestNormalizeIsOrderIndependent(t *testing.T) {
	v := DefaultVocabulary()

	a := v.Normalize([]string{"react", "AWS", "Docker"})
	b := v.Normalize([]string{"Docker", "react", "aws"})
	assert.Equal(t, a, b)
}

func TestNormalizeDeduplicates(t *testing.T) {
	v := DefaultVocabulary()

	got := v.Normalize([]string{"postgres", "PostgreSQL", "POSTGRESQL"})
	assert.Equal(t, []string{"postgresql"}, got)
}

func TestFoldSkillKeepsLanguageSymbols(t *testing.T) {
	assert.Equal(t, "c++", FoldSkill("C++"))
	assert.Equal(t, "c#", FoldSkill(" C# "))
	assert.Equal(t, "node js", FoldSkill("Node.js"))
	assert.Equal(t, "ci cd", FoldSkill("CI/CD"))
}

func TestCanonicalOrFoldedKeepsUnknownSkills(t *testing.T) {
	v := DefaultVocabulary()

	// Unknown job requirements survive under their folded spelling
	assert.Equal(t, "cobol", v.CanonicalOrFolded("COBOL"))
	// Known ones resolve to the vocabulary entry
	assert.Equal(t, "kubernetes", v.CanonicalOrFolded("K8s"))
}

func TestAliasToMissingTargetIgnored(t *testing.T) {
	v := NewVocabulary([]string{"python"}, map[string]string{"ziglang": "zig"})

	_, ok := v.Canonical("ziglang")
	assert.False(t, ok)
}

func TestTokenizeStripsPunctuationAndStopwords(t *testing.T) {
	got := Tokenize("The quick, QUICK developer -- of Go!", DefaultStopwords())
	assert.Equal(t, []string{"quick", "quick", "developer", "go"}, got)
}

func TestTokenizeEmptyText(t *testing.T) {
	assert.Empty(t, Tokenize("", DefaultStopwords()))
	assert.Empty(t, Tokenize("  .  !  ", DefaultStopwords()))
}
