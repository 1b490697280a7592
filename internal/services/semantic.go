package services

import (
	"context"
	"fmt"
	"strings"
)

const (
	// maxPhrases caps how many JD phrases are scanned for textual overlap.
	maxPhrases = 8
	// maxSemanticHits caps how many overlapping phrases are reported.
	maxSemanticHits = 5
)

// SemanticResult carries the embedding-based score and the JD phrases that
// textually overlap the resume. The phrase hits are a bag-of-words heuristic
// independent of the embedding path; only SemanticScore feeds score fusion.
// ResumeVector is the resume's embedding, kept so callers can index it
// without a second provider round trip.
type SemanticResult struct {
	SemanticScore float64  `json:"semantic_score"`
	Hits          []string `json:"hits"`

	ResumeVector []float64 `json:"-"`
}

type SemanticMatcher interface {
	Match(ctx context.Context, resumeText, jdText string) (*SemanticResult, error)
}

type semanticMatcher struct {
	embedder Embedder
}

func NewSemanticMatcher(embedder Embedder) SemanticMatcher {
	return &semanticMatcher{embedder: embedder}
}

// Match embeds both texts and rescales their cosine similarity from [-1,1]
// to [0,100]. Embedding failures propagate: a provider outage must surface as
// an error, never as a zero score.
func (m *semanticMatcher) Match(ctx context.Context, resumeText, jdText string) (*SemanticResult, error) {
	resumeVec, err := m.embedder.Embed(ctx, resumeText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed resume: %w", err)
	}

	jdVec, err := m.embedder.Embed(ctx, jdText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	sim := CosineSimilarity(resumeVec, jdVec)

	return &SemanticResult{
		SemanticScore: RescaleSimilarity(sim),
		Hits:          PhraseHits(resumeText, jdText),
		ResumeVector:  resumeVec,
	}, nil
}

// RescaleSimilarity maps a cosine similarity in [-1,1] onto a 0-100 score,
// clamping against floating-point drift.
func RescaleSimilarity(sim float64) float64 {
	score := (sim + 1) / 2 * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// PhraseHits scans the first JD phrases for case-insensitive word overlap
// with the resume. A phrase counts as a hit when any of its words appears in
// the resume text. At most maxSemanticHits phrases are returned, in phrase
// order.
func PhraseHits(resumeText, jdText string) []string {
	resumeLower := strings.ToLower(resumeText)

	var hits []string
	for _, phrase := range SplitPhrases(jdText, maxPhrases) {
		for _, word := range strings.Fields(phrase) {
			if strings.Contains(resumeLower, strings.ToLower(word)) {
				hits = append(hits, phrase)
				break
			}
		}
		if len(hits) >= maxSemanticHits {
			break
		}
	}

	return hits
}
