package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-relevance/internal/models"
	"alfredoptarigan/resume-relevance/internal/repositories"
	"alfredoptarigan/resume-relevance/internal/services"
)

type EvaluationHandler struct {
	evalRepo   repositories.EvaluationRepository
	resumeRepo repositories.ResumeRepository
	jobRepo    repositories.JobRepository
	evaluator  services.EvaluatorService
	worker     services.Worker
}

func NewEvaluationHandler(
	evalRepo repositories.EvaluationRepository,
	resumeRepo repositories.ResumeRepository,
	jobRepo repositories.JobRepository,
	evaluator services.EvaluatorService,
	worker services.Worker,
) *EvaluationHandler {
	return &EvaluationHandler{
		evalRepo:   evalRepo,
		resumeRepo: resumeRepo,
		jobRepo:    jobRepo,
		evaluator:  evaluator,
		worker:     worker,
	}
}

func (h *EvaluationHandler) parseRequest(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}

	if req.ResumeID == "" {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "resume_id is required")
	}
	if req.JobID == "" {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "job_id is required")
	}

	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid resume_id format")
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid job_id format")
	}

	if _, err := h.resumeRepo.FindByID(resumeID); err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Resume not found")
	}
	if _, err := h.jobRepo.FindByID(jobID); err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Job not found")
	}

	return resumeID, jobID, nil
}

// HandleEvaluate handles POST /evaluate: queues the evaluation and returns
// immediately with its id.
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	resumeID, jobID, err := h.parseRequest(c)
	if err != nil {
		return err
	}

	evaluation := &models.Evaluation{
		ID:        uuid.New(),
		ResumeID:  resumeID,
		JobID:     jobID,
		Status:    models.StatusQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.evalRepo.Create(evaluation); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create evaluation",
		})
	}

	h.worker.EnqueueEvaluation(evaluation.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:     evaluation.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleEvaluateSync handles POST /evaluate/sync: runs the whole pipeline in
// the request and returns score, verdict, and details.
func (h *EvaluationHandler) HandleEvaluateSync(c *fiber.Ctx) error {
	resumeID, jobID, err := h.parseRequest(c)
	if err != nil {
		return err
	}

	evaluation := &models.Evaluation{
		ID:        uuid.New(),
		ResumeID:  resumeID,
		JobID:     jobID,
		Status:    models.StatusQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.evalRepo.Create(evaluation); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create evaluation",
		})
	}

	if err := h.evaluator.EvaluateCandidate(c.Context(), evaluation.ID); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	completed, err := h.evalRepo.FindByID(evaluation.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load evaluation result",
		})
	}

	return c.JSON(buildResultResponse(completed))
}
