package services

import (
	"context"
	"log"
	"strings"
)

type FeedbackGenerator interface {
	// Generate returns improvement suggestions plus whether the language
	// model produced them. Never fails and never returns an empty list: any
	// LLM error falls back to deterministic rule-based feedback.
	Generate(ctx context.Context, missingSkills, matchedSkills []string, resumeText, jdText string) ([]string, bool)
}

type feedbackGenerator struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

// NewFeedbackGenerator builds a feedback generator. gemini may be nil, in
// which case every call takes the rule-based path.
func NewFeedbackGenerator(gemini GeminiService, maxRetries int) FeedbackGenerator {
	return &feedbackGenerator{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// Generate implements FeedbackGenerator.
func (f *feedbackGenerator) Generate(ctx context.Context, missingSkills, matchedSkills []string, resumeText, jdText string) ([]string, bool) {
	if suggestions := f.fromLLM(ctx, missingSkills, resumeText, jdText); len(suggestions) > 0 {
		return suggestions, true
	}

	return f.ruleBased(missingSkills, resumeText, jdText), false
}

func (f *feedbackGenerator) fromLLM(ctx context.Context, missingSkills []string, resumeText, jdText string) []string {
	if f.gemini == nil {
		log.Println("⚠️  No language model configured; using rule-based feedback")
		return nil
	}

	prompt := f.promptBuilder.BuildFeedbackPrompt(resumeText, jdText, missingSkills)

	response, err := f.gemini.GenerateTextWithRetry(ctx, prompt, 0.2, f.maxRetries)
	if err != nil {
		log.Printf("⚠️  LLM feedback failed, falling back to rule-based: %v\n", err)
		return nil
	}

	return ParseSuggestionLines(response)
}

// ruleBased produces deterministic feedback from the match results alone.
func (f *feedbackGenerator) ruleBased(missingSkills []string, resumeText, jdText string) []string {
	var feedback []string

	if len(missingSkills) > 0 {
		feedback = append(feedback,
			"Missing / weak skills: "+strings.Join(missingSkills, ", "),
			"Recommendation: Add short projects or certifications covering the missing skills above.",
		)
	} else {
		feedback = append(feedback,
			"All listed JD skills appear in the resume. Strengthen impact by quantifying achievements.",
		)
	}

	if strings.Contains(strings.ToLower(jdText), "tensorflow") &&
		!strings.Contains(strings.ToLower(resumeText), "tensorflow") {
		feedback = append(feedback,
			"If applying to ML roles, add TensorFlow experience or a small TensorFlow project.",
		)
	}

	return feedback
}
