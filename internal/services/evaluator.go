package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"alfredoptarigan/resume-relevance/internal/models"
	"alfredoptarigan/resume-relevance/internal/repositories"
)

// EvaluationOutcome is the complete result of scoring one (resume, job)
// pair. ResumeVector is the embedding used for the semantic score, reused to
// update the similarity index.
type EvaluationOutcome struct {
	Score        float64
	Verdict      string
	Details      *models.EvaluationDetails
	ResumeVector []float64
}

type EvaluatorService interface {
	// Evaluate scores a resume against a job description. Fails only when
	// the embedding provider does: degenerate inputs (no skills, empty
	// resume) still produce defined scores.
	Evaluate(ctx context.Context, resumeText, jdText string) (*EvaluationOutcome, error)

	// EvaluateCandidate runs a stored evaluation end to end: load records,
	// score, persist the result, and index the resume embedding.
	EvaluateCandidate(ctx context.Context, evalID uuid.UUID) error
}

type evaluatorService struct {
	evalRepo   repositories.EvaluationRepository
	resumeRepo repositories.ResumeRepository
	jobRepo    repositories.JobRepository
	extractor  SkillExtractor
	hard       HardMatcher
	semantic   SemanticMatcher
	feedback   FeedbackGenerator
	index      VectorIndex
	weights    Weights
}

func NewEvaluatorService(
	evalRepo repositories.EvaluationRepository,
	resumeRepo repositories.ResumeRepository,
	jobRepo repositories.JobRepository,
	extractor SkillExtractor,
	hard HardMatcher,
	semantic SemanticMatcher,
	feedback FeedbackGenerator,
	index VectorIndex,
	weights Weights,
) EvaluatorService {
	return &evaluatorService{
		evalRepo:   evalRepo,
		resumeRepo: resumeRepo,
		jobRepo:    jobRepo,
		extractor:  extractor,
		hard:       hard,
		semantic:   semantic,
		feedback:   feedback,
		index:      index,
		weights:    weights,
	}
}

// Evaluate implements EvaluatorService.
func (e *evaluatorService) Evaluate(ctx context.Context, resumeText, jdText string) (*EvaluationOutcome, error) {
	skills := e.extractor.ExtractSkills(jdText)
	hardResult := e.hard.Match(resumeText, skills)

	semResult, err := e.semantic.Match(ctx, resumeText, jdText)
	if err != nil {
		return nil, fmt.Errorf("semantic matching failed: %w", err)
	}

	finalScore := FuseScores(hardResult.HardScore, semResult.SemanticScore, e.weights)
	verdict := VerdictFor(finalScore)

	suggestions, llmUsed := e.feedback.Generate(ctx, hardResult.Missing, hardResult.Matched, resumeText, jdText)

	details := &models.EvaluationDetails{
		HardMatches:   hardResult.Matched,
		MissingSkills: hardResult.Missing,
		SemanticHits:  semResult.Hits,
		Breakdown: models.ScoreBreakdown{
			HardScore:     hardResult.HardScore,
			SemanticScore: semResult.SemanticScore,
		},
		Feedback: suggestions,
		LLMUsed:  llmUsed,
	}

	return &EvaluationOutcome{
		Score:        finalScore,
		Verdict:      verdict,
		Details:      details,
		ResumeVector: semResult.ResumeVector,
	}, nil
}

// EvaluateCandidate implements EvaluatorService.
func (e *evaluatorService) EvaluateCandidate(ctx context.Context, evalID uuid.UUID) error {
	if err := e.evalRepo.UpdateStatus(evalID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Printf("🔄 Starting evaluation %s\n", evalID)

	evaluation, err := e.evalRepo.FindByID(evalID)
	if err != nil {
		e.evalRepo.UpdateError(evalID, err.Error())
		return fmt.Errorf("failed to get evaluation: %w", err)
	}

	resume, err := e.resumeRepo.FindByID(evaluation.ResumeID)
	if err != nil {
		e.evalRepo.UpdateError(evalID, fmt.Sprintf("resume not found: %v", err))
		return fmt.Errorf("failed to get resume: %w", err)
	}

	job, err := e.jobRepo.FindByID(evaluation.JobID)
	if err != nil {
		e.evalRepo.UpdateError(evalID, fmt.Sprintf("job not found: %v", err))
		return fmt.Errorf("failed to get job: %w", err)
	}

	outcome, err := e.Evaluate(ctx, resume.RawText, job.JDText)
	if err != nil {
		e.evalRepo.UpdateError(evalID, err.Error())
		return fmt.Errorf("failed to evaluate resume: %w", err)
	}

	detailsJSON, err := json.Marshal(outcome.Details)
	if err != nil {
		e.evalRepo.UpdateError(evalID, fmt.Sprintf("failed to encode details: %v", err))
		return fmt.Errorf("failed to encode details: %w", err)
	}

	details := string(detailsJSON)
	updateData := &repositories.EvaluationUpdateData{
		Score:   &outcome.Score,
		Verdict: &outcome.Verdict,
		Details: &details,
	}

	if err := e.evalRepo.UpdateResult(evalID, updateData); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	// Index the resume embedding for similar-candidate retrieval. The
	// evaluation already completed, so an indexing failure only logs.
	if err := e.indexResume(ctx, resume, job, outcome.ResumeVector); err != nil {
		log.Printf("⚠️  Failed to index resume %s: %v\n", resume.ID, err)
	}

	log.Printf("✅ Evaluation %s completed: %.2f (%s)\n", evalID, outcome.Score, outcome.Verdict)
	return nil
}

func (e *evaluatorService) indexResume(ctx context.Context, resume *models.Resume, job *models.Job, vector []float64) error {
	return e.index.Add(ctx, vector, map[string]string{
		"resume_id": resume.ID.String(),
		"job_id":    job.ID.String(),
		"name":      resume.Name,
		"email":     resume.Email,
		"location":  resume.Location,
	})
}
