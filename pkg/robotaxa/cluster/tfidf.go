package cluster

import (
	"math"
	"sort"
)

// MaxVocabulary caps the vectorizer vocabulary at the most frequent terms
// across the whole corpus.
const MaxVocabulary = 1000

// Vectorizer turns a corpus of documents into L2-normalized TF-IDF vectors
// over a bounded vocabulary.
type Vectorizer struct {
	maxTerms int
}

// NewVectorizer creates a vectorizer with the given vocabulary cap. A cap of
// zero or less uses MaxVocabulary.
func NewVectorizer(maxTerms int) *Vectorizer {
	if maxTerms <= 0 {
		maxTerms = MaxVocabulary
	}
	return &Vectorizer{maxTerms: maxTerms}
}

// Model holds a fitted vocabulary: the selected terms in index order and the
// per-term inverse document frequency.
type Model struct {
	Terms []string
	idf   []float64
	index map[string]int
}

// Fit selects the vocabulary from the corpus and returns one vector per
// document. Terms are ranked by collection frequency with alphabetical
// tie-break, so the same corpus always produces the same vocabulary.
//
// idf(t) = ln((1+n)/(1+df(t))) + 1; vectors are L2-normalized. Documents
// with no in-vocabulary terms come back as zero vectors.
func (v *Vectorizer) Fit(docs []string) (Model, [][]float64) {
	if len(docs) == 0 {
		return Model{index: map[string]int{}}, nil
	}

	tokenized := make([][]string, len(docs))
	collection := make(map[string]int64)
	df := make(map[string]int64)
	for i, doc := range docs {
		tokens := tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			collection[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				df[tok]++
			}
		}
	}

	terms := make([]string, 0, len(collection))
	for term := range collection {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if collection[terms[i]] != collection[terms[j]] {
			return collection[terms[i]] > collection[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.maxTerms {
		terms = terms[:v.maxTerms]
	}
	// Vocabulary index order is alphabetical over the selected terms.
	sort.Strings(terms)

	model := Model{
		Terms: terms,
		idf:   make([]float64, len(terms)),
		index: make(map[string]int, len(terms)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		model.index[term] = i
		model.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vectors := make([][]float64, len(docs))
	for i, tokens := range tokenized {
		vectors[i] = model.vector(tokens)
	}
	return model, vectors
}

func (m Model) vector(tokens []string) []float64 {
	vec := make([]float64, len(m.Terms))
	for _, tok := range tokens {
		if idx, ok := m.index[tok]; ok {
			vec[idx]++
		}
	}
	var norm float64
	for i := range vec {
		vec[i] *= m.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
