package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns canned vectors keyed by input text.
type stubEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors[text], nil
}

func (s *stubEmbedder) Dimension() int { return 3 }

func TestSemanticMatchIdenticalTexts(t *testing.T) {
	matcher := NewSemanticMatcher(NewHashEmbedder(64))

	result, err := matcher.Match(context.Background(), "same text", "same text")
	require.NoError(t, err)

	assert.InDelta(t, 100.0, result.SemanticScore, 0.01)
}

func TestSemanticMatchOrthogonalVectors(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"resume": {1, 0, 0},
		"jd":     {0, 1, 0},
	}}
	matcher := NewSemanticMatcher(embedder)

	result, err := matcher.Match(context.Background(), "resume", "jd")
	require.NoError(t, err)

	assert.InDelta(t, 50.0, result.SemanticScore, 0.01)
}

func TestSemanticMatchOppositeVectors(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"resume": {1, 0, 0},
		"jd":     {-1, 0, 0},
	}}
	matcher := NewSemanticMatcher(embedder)

	result, err := matcher.Match(context.Background(), "resume", "jd")
	require.NoError(t, err)

	assert.InDelta(t, 0.0, result.SemanticScore, 0.01)
}

func TestSemanticMatchEmbedderErrorPropagates(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("provider down")}
	matcher := NewSemanticMatcher(embedder)

	_, err := matcher.Match(context.Background(), "resume", "jd")

	// A provider outage must be a visible failure, never a zero score.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestSemanticMatchReturnsResumeVector(t *testing.T) {
	matcher := NewSemanticMatcher(NewHashEmbedder(16))

	result, err := matcher.Match(context.Background(), "resume text", "jd text")
	require.NoError(t, err)

	assert.Len(t, result.ResumeVector, 16)
}

func TestRescaleSimilarity(t *testing.T) {
	assert.Equal(t, 100.0, RescaleSimilarity(1))
	assert.Equal(t, 0.0, RescaleSimilarity(-1))
	assert.Equal(t, 50.0, RescaleSimilarity(0))

	// Monotonic in the cosine similarity.
	prev := -1.0
	for sim := -1.0; sim <= 1.0; sim += 0.05 {
		score := RescaleSimilarity(sim)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}

	// Clamped against drift outside [-1,1].
	assert.Equal(t, 100.0, RescaleSimilarity(1.0000001))
	assert.Equal(t, 0.0, RescaleSimilarity(-1.0000001))
}

func TestPhraseHits(t *testing.T) {
	jd := "Looking for a python engineer. Must enjoy kayaking. Remote work possible."
	resume := "python developer who likes remote collaboration"

	hits := PhraseHits(resume, jd)

	assert.Equal(t, []string{
		"Looking for a python engineer",
		"Remote work possible",
	}, hits)
}

func TestPhraseHitsCaps(t *testing.T) {
	// Ten phrases all overlap the resume; only the first 8 are scanned and
	// only 5 hits are reported.
	jd := "go one. go two. go three. go four. go five. go six. go seven. go eight. go nine. go ten."
	hits := PhraseHits("go", jd)

	assert.Equal(t, []string{"go one", "go two", "go three", "go four", "go five"}, hits)
}

func TestPhraseHitsEmptyJD(t *testing.T) {
	assert.Empty(t, PhraseHits("resume", ""))
	assert.Empty(t, PhraseHits("resume", "..."))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 2, 3}, []float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)

	// Zero vectors are dissimilar, not a division by zero.
	assert.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}
