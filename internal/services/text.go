package services

import (
	"regexp"
	"strings"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s\-\+\.\/,]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeText lowercases text and strips everything outside letters, digits,
// underscores, whitespace, and the hyphen/plus/dot/slash/comma set that skill
// tokens like "c++", "node.js" or "ci/cd" depend on. Letters are matched as
// Unicode, so accented and non-Latin resumes survive intact. Runs of
// whitespace collapse to a single space.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = nonWordRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// SplitPhrases breaks text into sentence-like phrases on ".", trimming
// whitespace and dropping empties, keeping at most limit phrases.
func SplitPhrases(text string, limit int) []string {
	var phrases []string
	for _, p := range strings.Split(text, ".") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		phrases = append(phrases, p)
		if limit > 0 && len(phrases) >= limit {
			break
		}
	}
	return phrases
}

// Snippet returns at most max bytes of text. Prompts sent to the LLM cap
// resume and JD text so requests stay small.
func Snippet(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}

// CleanText collapses blank lines and trims each remaining line.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
