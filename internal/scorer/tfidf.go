package scorer

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain no terms")
	ErrNoTermsRemain   = errors.New("no terms remain after document frequency pruning")
	ErrInvalidDFRange  = errors.New("max_df allows fewer documents than min_df")
)

// VectorizerOptions configures term extraction and pruning.
type VectorizerOptions struct {
	NGramMin    int     // smallest n-gram, default 1
	NGramMax    int     // largest n-gram, default 2
	MaxFeatures int     // keep only the most frequent terms; 0 keeps all
	MinDF       int     // minimum number of documents containing a term
	MaxDF       float64 // maximum proportion of documents containing a term, in (0, 1]
}

// Vector is a sparse, L2-normalized TF-IDF row.
type Vector map[string]float64

// Vectorizer builds TF-IDF vectors over a small in-memory corpus. It holds no
// state between calls, so one value can be shared freely.
type Vectorizer struct {
	opts VectorizerOptions
}

func NewVectorizer(opts VectorizerOptions) *Vectorizer {
	if opts.NGramMin <= 0 {
		opts.NGramMin = 1
	}
	if opts.NGramMax < opts.NGramMin {
		opts.NGramMax = opts.NGramMin
	}
	if opts.MinDF <= 0 {
		opts.MinDF = 1
	}
	if opts.MaxDF <= 0 || opts.MaxDF > 1 {
		opts.MaxDF = 1
	}
	return &Vectorizer{opts: opts}
}

// FitTransform learns the vocabulary of docs and returns one vector per
// document, in order. Documents are expected to be normalized already:
// terms are whitespace separated tokens and their n-grams.
func (v *Vectorizer) FitTransform(docs []string) ([]Vector, error) {
	counts := make([]map[string]int, len(docs))
	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)

	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, term := range v.terms(doc) {
			if counts[i][term] == 0 {
				docFreq[term]++
			}
			counts[i][term]++
			totalFreq[term]++
		}
	}

	if len(docFreq) == 0 {
		return nil, ErrEmptyVocabulary
	}

	maxDocCount := v.opts.MaxDF * float64(len(docs))
	if maxDocCount < float64(v.opts.MinDF) {
		return nil, ErrInvalidDFRange
	}

	vocab := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if float64(df) > maxDocCount || df < v.opts.MinDF {
			continue
		}
		vocab = append(vocab, term)
	}
	if len(vocab) == 0 {
		return nil, ErrNoTermsRemain
	}

	sort.Strings(vocab)
	if v.opts.MaxFeatures > 0 && len(vocab) > v.opts.MaxFeatures {
		sort.SliceStable(vocab, func(i, j int) bool {
			return totalFreq[vocab[i]] > totalFreq[vocab[j]]
		})
		vocab = vocab[:v.opts.MaxFeatures]
	}

	n := float64(len(docs))
	vectors := make([]Vector, len(docs))
	for i := range docs {
		vec := make(Vector)
		var norm float64
		for _, term := range vocab {
			tf := counts[i][term]
			if tf == 0 {
				continue
			}
			// smoothed idf, as if one extra document contained every term
			idf := math.Log((1+n)/(1+float64(docFreq[term]))) + 1
			w := float64(tf) * idf
			vec[term] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range vec {
				vec[term] /= norm
			}
		}
		vectors[i] = vec
	}

	return vectors, nil
}

func (v *Vectorizer) terms(doc string) []string {
	tokens := strings.Fields(doc)
	var terms []string
	for n := v.opts.NGramMin; n <= v.opts.NGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// Cosine returns the cosine similarity of two vectors, clamped to [0, 1].
// A zero vector is dissimilar to everything.
func Cosine(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot, normA, normB float64
	for term, wa := range a {
		normA += wa * wa
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		normB += wb * wb
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return clamp01(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x) || x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

func (o VectorizerOptions) String() string {
	return fmt.Sprintf("ngram=(%d,%d) max_features=%d min_df=%d max_df=%.2f",
		o.NGramMin, o.NGramMax, o.MaxFeatures, o.MinDF, o.MaxDF)
}
