package services

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// partialRatioThreshold is the 0-100 fuzzy partial-ratio score at or above
// which a skill counts as present even without an exact substring hit.
const partialRatioThreshold = 75

// MatchResult is the hard matcher's output. Matched and Missing partition the
// input skill set exactly, preserving its order.
type MatchResult struct {
	HardScore float64  `json:"hard_score"`
	Matched   []string `json:"matched"`
	Missing   []string `json:"missing"`
}

type HardMatcher interface {
	Match(resumeText string, skills []string) MatchResult
}

type hardMatcher struct{}

func NewHardMatcher() HardMatcher {
	return &hardMatcher{}
}

// Match checks each skill against the normalized resume text. A skill matches
// when it appears as a literal substring or its fuzzy partial ratio reaches
// the threshold. HardScore is the matched fraction on a 0-100 scale; an empty
// skill set scores 0 rather than dividing by zero.
func (m *hardMatcher) Match(resumeText string, skills []string) MatchResult {
	resumeNorm := NormalizeText(resumeText)

	result := MatchResult{}
	for _, skill := range skills {
		skillNorm := NormalizeText(skill)
		if matchesSkill(resumeNorm, skillNorm) {
			result.Matched = append(result.Matched, skill)
		} else {
			result.Missing = append(result.Missing, skill)
		}
	}

	if len(skills) > 0 {
		result.HardScore = 100.0 * float64(len(result.Matched)) / float64(len(skills))
	}

	return result
}

func matchesSkill(resumeNorm, skillNorm string) bool {
	if skillNorm == "" || resumeNorm == "" {
		return false
	}
	if strings.Contains(resumeNorm, skillNorm) {
		return true
	}
	return fuzzy.PartialRatio(skillNorm, resumeNorm) >= partialRatioThreshold
}
