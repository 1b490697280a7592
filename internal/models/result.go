package models

// ScoreBreakdown carries the two independently computed component scores.
type ScoreBreakdown struct {
	HardScore     float64 `json:"hard_score"`
	SemanticScore float64 `json:"semantic_score"`
}

// EvaluationDetails is the full per-evaluation analysis. HardMatches and
// MissingSkills always partition the extracted skill set.
type EvaluationDetails struct {
	HardMatches   []string       `json:"hard_matches"`
	MissingSkills []string       `json:"missing_skills"`
	SemanticHits  []string       `json:"semantic_hits"`
	Breakdown     ScoreBreakdown `json:"breakdown"`
	Feedback      []string       `json:"feedback"`
	LLMUsed       bool           `json:"llm_used"`
}

type CreateJobResponse struct {
	JobID string `json:"job_id"`
}

type UploadResumeResponse struct {
	ResumeID string `json:"resume_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type EvaluateRequest struct {
	ResumeID string `json:"resume_id" validate:"required,uuid"`
	JobID    string `json:"job_id" validate:"required,uuid"`
}

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type EvaluationResult struct {
	Score   float64            `json:"score"`
	Verdict string             `json:"verdict"`
	Details *EvaluationDetails `json:"details"`
}

type ResultResponse struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Result       *EvaluationResult `json:"result,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
}

type SimilarResumeResponse struct {
	Meta  map[string]string `json:"meta"`
	Score float64           `json:"score"`
}
