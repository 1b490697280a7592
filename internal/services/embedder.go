package services

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"
)

// Embedder maps text to a fixed-dimension vector. Two vectors are only
// comparable when produced by the same Embedder instance.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimension() int
}

// hashEmbedder is a deterministic stand-in for a real embedding model: the
// text's SHA-256 digest seeds a PRNG that fills the vector. Identical texts
// always produce identical vectors, so cosine similarity of a text with
// itself is exactly 1. Used when no Gemini API key is configured and in
// tests.
type hashEmbedder struct {
	dim int
}

func NewHashEmbedder(dim int) Embedder {
	return &hashEmbedder{dim: dim}
}

// Embed implements Embedder.
func (h *hashEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	digest := sha256.Sum256([]byte(text))
	seed := int64(binary.BigEndian.Uint64(digest[:8]) & math.MaxInt64)

	rng := rand.New(rand.NewSource(seed))
	vec := make([]float64, h.dim)
	for i := range vec {
		vec[i] = rng.Float64()
	}
	return vec, nil
}

// Dimension implements Embedder.
func (h *hashEmbedder) Dimension() int {
	return h.dim
}

// CosineSimilarity returns the cosine of the angle between a and b in
// [-1,1]. Zero vectors compare as dissimilar instead of dividing by zero.
func CosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	return dot / ((math.Sqrt(normA) + 1e-12) * (math.Sqrt(normB) + 1e-12))
}
