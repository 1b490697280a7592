package services

import (
	"fmt"
	"strings"
)

const (
	// promptSnippetSize caps how much resume/JD text goes into the prompt.
	promptSnippetSize = 1500
	// maxFeedbackLines caps the suggestions returned to the caller.
	maxFeedbackLines = 8
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildFeedbackPrompt creates the career-coach prompt for resume improvement
// suggestions. Resume and JD text are truncated so the request stays small.
func (pb *PromptBuilder) BuildFeedbackPrompt(resumeText, jdText string, missingSkills []string) string {
	missing := "None"
	if len(missingSkills) > 0 {
		missing = strings.Join(missingSkills, ", ")
	}

	return fmt.Sprintf(`You are a concise, practical career coach. Given a job description and a candidate resume, produce up to 6 short, actionable improvement suggestions the candidate can implement quickly (e.g., add project X, learn library Y, fix resume formatting). Prioritize concrete steps and specific technologies. Output as short bullet points (no numbering).

Job description (first %d chars):
%s

Resume (first %d chars):
%s

Missing skills detected: %s

Return only the bullet points (one per line).`,
		promptSnippetSize, Snippet(jdText, promptSnippetSize),
		promptSnippetSize, Snippet(resumeText, promptSnippetSize),
		missing)
}

// ParseSuggestionLines normalizes raw LLM output into suggestion strings:
// one per line, bullet markers and leading numbering stripped, deduplicated
// case-insensitively, capped at maxFeedbackLines.
func ParseSuggestionLines(text string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		line = strings.TrimSpace(strings.TrimLeft(line, "-*•"))
		if len(line) > 2 && line[0] >= '0' && line[0] <= '9' && (line[1] == '.' || line[1] == ')') {
			line = strings.TrimSpace(line[2:])
		}
		if line == "" {
			continue
		}

		key := strings.ToLower(line)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		out = append(out, line)
		if len(out) >= maxFeedbackLines {
			break
		}
	}

	return out
}
