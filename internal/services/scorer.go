package services

// Verdict tiers for the fused score.
const (
	VerdictHigh   = "High"
	VerdictMedium = "Medium"
	VerdictLow    = "Low"
)

// Weights combines the hard and semantic component scores. Hard and Semantic
// must sum to 1 to keep the fused score in [0,100].
type Weights struct {
	Hard     float64
	Semantic float64
}

var DefaultWeights = Weights{Hard: 0.6, Semantic: 0.4}

// FuseScores is the weighted combination of the two component scores. Pure
// arithmetic, no failure mode.
func FuseScores(hardScore, semanticScore float64, w Weights) float64 {
	return w.Hard*hardScore + w.Semantic*semanticScore
}

// VerdictFor buckets a final score: High at 75 and above, Medium from 50 up
// to 75, Low below 50.
func VerdictFor(finalScore float64) string {
	switch {
	case finalScore >= 75:
		return VerdictHigh
	case finalScore >= 50:
		return VerdictMedium
	default:
		return VerdictLow
	}
}
