package match

import "math"

// Corpus holds the TF-IDF vector space for one ranking batch. It is built
// once per batch and is read-only afterwards, so concurrent scorers can
// share it without synchronization. Document-frequency statistics cover
// the whole batch; rebuilding per pair would make IDF asymmetric and the
// scores within a batch incomparable.
type Corpus struct {
	vectors []map[string]float64
	norms   []float64
}

// NewCorpus builds TF-IDF vectors for the given tokenized documents.
// Term weight is tf * ln(N/df); a term present in every document weighs
// exactly zero.
func NewCorpus(docs [][]string) *Corpus {
	n := len(docs)

	counts := make([]map[string]float64, n)
	df := make(map[string]int)
	for i, tokens := range docs {
		tf := make(map[string]float64, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		counts[i] = tf
		for term := range tf {
			df[term]++
		}
	}

	c := &Corpus{
		vectors: make([]map[string]float64, n),
		norms:   make([]float64, n),
	}
	for i, tf := range counts {
		vec := make(map[string]float64, len(tf))
		var sumSq float64
		for term, freq := range tf {
			w := freq * math.Log(float64(n)/float64(df[term]))
			if w == 0 {
				continue
			}
			vec[term] = w
			sumSq += w * w
		}
		c.vectors[i] = vec
		c.norms[i] = math.Sqrt(sumSq)
	}
	return c
}

// Len returns the number of documents in the corpus
func (c *Corpus) Len() int {
	return len(c.vectors)
}

// Similarity returns the cosine similarity between two documents,
// clamped to [0,1]. Zero vectors (empty or all-stopword documents, or
// documents with no distinctive terms) yield 0.
func (c *Corpus) Similarity(i, j int) float64 {
	if i < 0 || j < 0 || i >= len(c.vectors) || j >= len(c.vectors) {
		return 0
	}
	if c.norms[i] == 0 || c.norms[j] == 0 {
		return 0
	}

	// Iterate the smaller vector
	a, b := c.vectors[i], c.vectors[j]
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}

	return clamp01(dot / (c.norms[i] * c.norms[j]))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
