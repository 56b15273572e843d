package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors[text], nil
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello   World", "hello world"},
		{"C++ and C# devs!", "c++ and c# devs"},
		{"  Node.js / React  ", "node.js react"},
		{"tabs\tand\nnewlines", "tabs and newlines"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.in))
	}
}

func TestEmbeddingOracle_Similarity(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0, 0},
		"beta":  {1, 0, 0},
		"gamma": {0, 1, 0},
		"delta": {-1, 0, 0},
	}}
	oracle := NewEmbeddingOracle(embedder)

	score, err := oracle.Similarity(context.Background(), "alpha", "beta")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, score, 1e-6)

	score, err = oracle.Similarity(context.Background(), "alpha", "gamma")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-6)

	// negative cosine clamps to zero
	score, err = oracle.Similarity(context.Background(), "alpha", "delta")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-6)
}

func TestEmbeddingOracle_EmptyText(t *testing.T) {
	oracle := NewEmbeddingOracle(&stubEmbedder{})

	score, err := oracle.Similarity(context.Background(), "", "something")
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestEmbeddingOracle_PropagatesError(t *testing.T) {
	oracle := NewEmbeddingOracle(&stubEmbedder{err: errors.New("quota exceeded")})

	_, err := oracle.Similarity(context.Background(), "alpha", "beta")
	assert.Error(t, err)
}

func TestTermFrequencyOracle_IdenticalTexts(t *testing.T) {
	oracle := NewTermFrequencyOracle(nil, 0)

	score, err := oracle.Similarity(context.Background(), "python developer with sql", "python developer with sql")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, score, 1e-6)
}

func TestTermFrequencyOracle_DisjointTexts(t *testing.T) {
	oracle := NewTermFrequencyOracle(nil, 0)

	score, err := oracle.Similarity(context.Background(), "python pandas numpy", "carpentry woodwork joinery")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-6)
}

func TestTermFrequencyOracle_EmptyAfterStopwords(t *testing.T) {
	oracle := NewTermFrequencyOracle(nil, 0)

	score, err := oracle.Similarity(context.Background(), "the a an", "python developer")
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestTermFrequencyOracle_PartialOverlapIsBounded(t *testing.T) {
	oracle := NewTermFrequencyOracle(nil, 0)

	score, err := oracle.Similarity(context.Background(),
		"python developer building services",
		"python engineer building pipelines")
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 100.0)
}
