package match

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text, strips punctuation, splits on whitespace and
// drops stopwords and single-character fragments. No stemming is applied,
// so vocabulary matching stays exact.
func Tokenize(text string, stopwords map[string]struct{}) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, skip := stopwords[f]; skip {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// DefaultStopwords returns the default English stopword set
func DefaultStopwords() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an",
		"and", "any", "are", "as", "at", "be", "because", "been", "before",
		"being", "below", "between", "both", "but", "by", "can", "could",
		"did", "do", "does", "doing", "down", "during", "each", "few", "for",
		"from", "further", "had", "has", "have", "having", "he", "her",
		"here", "hers", "him", "his", "how", "i", "if", "in", "into", "is",
		"it", "its", "itself", "just", "me", "more", "most", "my", "myself",
		"no", "nor", "not", "now", "of", "off", "on", "once", "only", "or",
		"other", "our", "ours", "out", "over", "own", "same", "she",
		"should", "so", "some", "such", "than", "that", "the", "their",
		"theirs", "them", "then", "there", "these", "they", "this", "those",
		"through", "to", "too", "under", "until", "up", "very", "was", "we",
		"were", "what", "when", "where", "which", "while", "who", "whom",
		"why", "will", "with", "would", "you", "your", "yours", "yourself",
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
