package matching

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// SimilarityOracle rates how semantically close two texts are, in [0,100].
type SimilarityOracle interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Embedder produces a sentence-level embedding vector for a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	specialRe    = regexp.MustCompile(`[^\w\s\-\+\#\.]`)
)

// NormalizeText lowercases, collapses whitespace and strips special
// characters other than hyphen, plus, hash and period.
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = specialRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// EmbeddingOracle computes similarity as the cosine of two embedding
// vectors, scaled to [0,100].
type EmbeddingOracle struct {
	embedder Embedder
}

func NewEmbeddingOracle(embedder Embedder) *EmbeddingOracle {
	return &EmbeddingOracle{embedder: embedder}
}

func (o *EmbeddingOracle) Similarity(ctx context.Context, a, b string) (float64, error) {
	aClean := NormalizeText(a)
	bClean := NormalizeText(b)
	if aClean == "" || bClean == "" {
		return 0, nil
	}

	vecA, err := o.embedder.Embed(ctx, aClean)
	if err != nil {
		return 0, fmt.Errorf("failed to embed first text: %w", err)
	}
	vecB, err := o.embedder.Embed(ctx, bClean)
	if err != nil {
		return 0, fmt.Errorf("failed to embed second text: %w", err)
	}

	sim := cosine32(vecA, vecB) * 100
	if sim < 0 {
		sim = 0
	}
	if sim > 100 {
		sim = 100
	}
	return sim, nil
}

// TermFrequencyOracle is the deterministic fallback: both texts are turned
// into term-frequency vectors over a shared vocabulary of unigrams and
// bigrams (stopword-filtered, capped at MaxVocabulary terms) and compared
// with cosine similarity.
type TermFrequencyOracle struct {
	stopwords     map[string]struct{}
	maxVocabulary int
}

const defaultMaxVocabulary = 5000

func NewTermFrequencyOracle(stopwords []string, maxVocabulary int) *TermFrequencyOracle {
	if stopwords == nil {
		stopwords = DefaultStopwords()
	}
	if maxVocabulary <= 0 {
		maxVocabulary = defaultMaxVocabulary
	}

	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[w] = struct{}{}
	}
	return &TermFrequencyOracle{stopwords: set, maxVocabulary: maxVocabulary}
}

func DefaultStopwords() []string {
	return []string{
		"a", "an", "and", "are", "as", "at", "be", "been", "but", "by",
		"for", "from", "has", "have", "he", "her", "his", "i", "if", "in",
		"into", "is", "it", "its", "me", "my", "no", "not", "of", "on",
		"or", "our", "she", "so", "such", "that", "the", "their", "them",
		"then", "there", "these", "they", "this", "to", "was", "we", "were",
		"which", "who", "will", "with", "would", "you", "your",
	}
}

func (o *TermFrequencyOracle) Similarity(_ context.Context, a, b string) (float64, error) {
	termsA := o.terms(NormalizeText(a))
	termsB := o.terms(NormalizeText(b))
	if len(termsA) == 0 || len(termsB) == 0 {
		return 0, nil
	}

	vocab := o.vocabulary(termsA, termsB)

	vecA := frequencyVector(termsA, vocab)
	vecB := frequencyVector(termsB, vocab)

	return cosine64(vecA, vecB) * 100, nil
}

// terms produces stopword-filtered unigrams and bigrams.
func (o *TermFrequencyOracle) terms(text string) []string {
	words := make([]string, 0)
	for _, w := range strings.Fields(text) {
		if _, stop := o.stopwords[w]; stop {
			continue
		}
		words = append(words, w)
	}

	terms := make([]string, 0, 2*len(words))
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// vocabulary selects up to maxVocabulary terms across both documents,
// keeping the most frequent ones. Ties break lexicographically so the
// vector layout is deterministic.
func (o *TermFrequencyOracle) vocabulary(termsA, termsB []string) map[string]int {
	counts := make(map[string]int)
	for _, t := range termsA {
		counts[t]++
	}
	for _, t := range termsB {
		counts[t]++
	}

	ordered := make([]string, 0, len(counts))
	for t := range counts {
		ordered = append(ordered, t)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if counts[ordered[i]] != counts[ordered[j]] {
			return counts[ordered[i]] > counts[ordered[j]]
		}
		return ordered[i] < ordered[j]
	})

	if len(ordered) > o.maxVocabulary {
		ordered = ordered[:o.maxVocabulary]
	}

	vocab := make(map[string]int, len(ordered))
	for i, t := range ordered {
		vocab[t] = i
	}
	return vocab
}

func frequencyVector(terms []string, vocab map[string]int) []float64 {
	vec := make([]float64, len(vocab))
	for _, t := range terms {
		if idx, ok := vocab[t]; ok {
			vec[idx]++
		}
	}
	return vec
}

func cosine64(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func cosine32(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
