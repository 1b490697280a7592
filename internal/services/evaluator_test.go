package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-relevance/internal/models"
	"alfredoptarigan/resume-relevance/internal/repositories"
)

type fakeEvalRepo struct {
	mu    sync.Mutex
	evals map[uuid.UUID]*models.Evaluation
}

func newFakeEvalRepo() *fakeEvalRepo {
	return &fakeEvalRepo{evals: make(map[uuid.UUID]*models.Evaluation)}
}

func (f *fakeEvalRepo) Create(eval *models.Evaluation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *eval
	f.evals[eval.ID] = &copied
	return nil
}

func (f *fakeEvalRepo) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	eval, ok := f.evals[id]
	if !ok {
		return nil, fmt.Errorf("evaluation not found")
	}
	copied := *eval
	return &copied, nil
}

func (f *fakeEvalRepo) UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	eval, ok := f.evals[id]
	if !ok {
		return fmt.Errorf("evaluation not found")
	}
	eval.Status = status
	return nil
}

func (f *fakeEvalRepo) UpdateResult(id uuid.UUID, data *repositories.EvaluationUpdateData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	eval, ok := f.evals[id]
	if !ok {
		return fmt.Errorf("evaluation not found")
	}
	eval.Status = models.StatusCompleted
	eval.Score = data.Score
	eval.Verdict = data.Verdict
	eval.Details = data.Details
	return nil
}

func (f *fakeEvalRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	eval, ok := f.evals[id]
	if !ok {
		return fmt.Errorf("evaluation not found")
	}
	eval.Status = models.StatusFailed
	eval.ErrorMessage = &errorMsg
	return nil
}

func (f *fakeEvalRepo) FindPendingJobs(limit int) ([]models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pending []models.Evaluation
	for _, eval := range f.evals {
		if eval.Status == models.StatusQueued && len(pending) < limit {
			pending = append(pending, *eval)
		}
	}
	return pending, nil
}

func (f *fakeEvalRepo) FindByJobID(jobID uuid.UUID) ([]models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Evaluation
	for _, eval := range f.evals {
		if eval.JobID == jobID {
			out = append(out, *eval)
		}
	}
	return out, nil
}

type fakeResumeRepo struct {
	resumes map[uuid.UUID]*models.Resume
}

func (f *fakeResumeRepo) Create(resume *models.Resume) error {
	f.resumes[resume.ID] = resume
	return nil
}

func (f *fakeResumeRepo) FindByID(id uuid.UUID) (*models.Resume, error) {
	resume, ok := f.resumes[id]
	if !ok {
		return nil, fmt.Errorf("resume not found")
	}
	return resume, nil
}

func (f *fakeResumeRepo) FindAll() ([]models.Resume, error) {
	var out []models.Resume
	for _, r := range f.resumes {
		out = append(out, *r)
	}
	return out, nil
}

type fakeJobRepo struct {
	jobs map[uuid.UUID]*models.Job
}

func (f *fakeJobRepo) Create(job *models.Job) error {
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) FindByID(id uuid.UUID) (*models.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job not found")
	}
	return job, nil
}

func (f *fakeJobRepo) FindAll() ([]models.Job, error) {
	var out []models.Job
	for _, j := range f.jobs {
		out = append(out, *j)
	}
	return out, nil
}

type evaluatorFixture struct {
	evalRepo   *fakeEvalRepo
	resumeRepo *fakeResumeRepo
	jobRepo    *fakeJobRepo
	index      VectorIndex
	evaluator  EvaluatorService
}

func newEvaluatorFixture(t *testing.T, embedder Embedder) *evaluatorFixture {
	t.Helper()

	evalRepo := newFakeEvalRepo()
	resumeRepo := &fakeResumeRepo{resumes: make(map[uuid.UUID]*models.Resume)}
	jobRepo := &fakeJobRepo{jobs: make(map[uuid.UUID]*models.Job)}

	index, err := NewFileVectorIndex(t.TempDir(), embedder.Dimension())
	require.NoError(t, err)

	evaluator := NewEvaluatorService(
		evalRepo,
		resumeRepo,
		jobRepo,
		NewSkillExtractor(),
		NewHardMatcher(),
		NewSemanticMatcher(embedder),
		NewFeedbackGenerator(nil, 1),
		index,
		DefaultWeights,
	)

	return &evaluatorFixture{
		evalRepo:   evalRepo,
		resumeRepo: resumeRepo,
		jobRepo:    jobRepo,
		index:      index,
		evaluator:  evaluator,
	}
}

func (fx *evaluatorFixture) seedEvaluation(resumeText, jdText string) *models.Evaluation {
	resume := &models.Resume{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Location: "Remote", RawText: resumeText}
	job := &models.Job{ID: uuid.New(), Title: "Backend Engineer", JDText: jdText}
	fx.resumeRepo.Create(resume)
	fx.jobRepo.Create(job)

	eval := &models.Evaluation{
		ID:       uuid.New(),
		ResumeID: resume.ID,
		JobID:    job.ID,
		Status:   models.StatusQueued,
	}
	fx.evalRepo.Create(eval)
	return eval
}

func TestEvaluateScenario(t *testing.T) {
	fx := newEvaluatorFixture(t, NewHashEmbedder(32))

	outcome, err := fx.evaluator.Evaluate(
		context.Background(),
		"experienced python developer, used docker daily",
		"Requirements: python, docker, kubernetes",
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"python", "docker"}, outcome.Details.HardMatches)
	assert.Equal(t, []string{"kubernetes"}, outcome.Details.MissingSkills)
	assert.InDelta(t, 66.67, outcome.Details.Breakdown.HardScore, 0.01)
	assert.False(t, outcome.Details.LLMUsed)
	assert.NotEmpty(t, outcome.Details.Feedback)
	assert.GreaterOrEqual(t, outcome.Score, 0.0)
	assert.LessOrEqual(t, outcome.Score, 100.0)
	assert.Equal(t, VerdictFor(outcome.Score), outcome.Verdict)
	assert.Len(t, outcome.ResumeVector, 32)
}

func TestEvaluateIdenticalTexts(t *testing.T) {
	fx := newEvaluatorFixture(t, NewHashEmbedder(32))

	text := "senior python engineer with docker experience"
	outcome, err := fx.evaluator.Evaluate(context.Background(), text, text)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, outcome.Details.Breakdown.SemanticScore, 0.01)
}

func TestEvaluateDegenerateInputs(t *testing.T) {
	fx := newEvaluatorFixture(t, NewHashEmbedder(16))

	// No skills in the JD and an empty resume still produce defined
	// scores, not an error.
	outcome, err := fx.evaluator.Evaluate(context.Background(), "", "We value kindness.")
	require.NoError(t, err)

	assert.Equal(t, 0.0, outcome.Details.Breakdown.HardScore)
	assert.Empty(t, outcome.Details.HardMatches)
	assert.Empty(t, outcome.Details.MissingSkills)
}

func TestEvaluateEmbedderFailure(t *testing.T) {
	fx := newEvaluatorFixture(t, &stubEmbedder{err: errors.New("embedding service unavailable")})

	_, err := fx.evaluator.Evaluate(context.Background(), "resume", "jd")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding service unavailable")
}

func TestEvaluateCandidatePersistsAndIndexes(t *testing.T) {
	embedder := NewHashEmbedder(32)
	fx := newEvaluatorFixture(t, embedder)
	eval := fx.seedEvaluation(
		"experienced python developer, used docker daily",
		"Requirements: python, docker, kubernetes",
	)

	require.NoError(t, fx.evaluator.EvaluateCandidate(context.Background(), eval.ID))

	stored, err := fx.evalRepo.FindByID(eval.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, stored.Status)
	require.NotNil(t, stored.Score)
	require.NotNil(t, stored.Verdict)
	require.NotNil(t, stored.Details)

	var details models.EvaluationDetails
	require.NoError(t, json.Unmarshal([]byte(*stored.Details), &details))
	assert.Equal(t, []string{"kubernetes"}, details.MissingSkills)

	// The resume embedding landed in the similarity index.
	queryVec, err := embedder.Embed(context.Background(), "experienced python developer, used docker daily")
	require.NoError(t, err)
	hits, err := fx.index.Search(context.Background(), queryVec, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, eval.ResumeID.String(), hits[0].Metadata["resume_id"])
	assert.Equal(t, "Ada", hits[0].Metadata["name"])
}

func TestEvaluateCandidateEmbedderFailureMarksFailed(t *testing.T) {
	fx := newEvaluatorFixture(t, &stubEmbedder{err: errors.New("provider down")})
	eval := fx.seedEvaluation("resume text", "Requirements: python")

	err := fx.evaluator.EvaluateCandidate(context.Background(), eval.ID)
	require.Error(t, err)

	stored, findErr := fx.evalRepo.FindByID(eval.ID)
	require.NoError(t, findErr)
	assert.Equal(t, models.StatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Contains(t, *stored.ErrorMessage, "provider down")
}
