package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-relevance/internal/models"
	"alfredoptarigan/resume-relevance/internal/repositories"
)

type ResultHandler struct {
	evalRepo repositories.EvaluationRepository
}

func NewResultHandler(evalRepo repositories.EvaluationRepository) *ResultHandler {
	return &ResultHandler{
		evalRepo: evalRepo,
	}
}

// HandleGetResult handles GET /result/:id.
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	evalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation ID format",
		})
	}

	evaluation, err := h.evalRepo.FindByID(evalID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Evaluation not found",
		})
	}

	return c.JSON(buildResultResponse(evaluation))
}

// HandleListForJob handles GET /jobs/:id/evaluations, score descending.
func (h *ResultHandler) HandleListForJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	evaluations, err := h.evalRepo.FindByJobID(jobID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list evaluations",
		})
	}

	responses := make([]models.ResultResponse, 0, len(evaluations))
	for i := range evaluations {
		responses = append(responses, buildResultResponse(&evaluations[i]))
	}

	return c.JSON(responses)
}

func buildResultResponse(evaluation *models.Evaluation) models.ResultResponse {
	response := models.ResultResponse{
		ID:     evaluation.ID.String(),
		Status: string(evaluation.Status),
	}

	if evaluation.Status == models.StatusCompleted && evaluation.Score != nil && evaluation.Verdict != nil {
		result := &models.EvaluationResult{
			Score:   *evaluation.Score,
			Verdict: *evaluation.Verdict,
		}

		if evaluation.Details != nil {
			var details models.EvaluationDetails
			if err := json.Unmarshal([]byte(*evaluation.Details), &details); err == nil {
				result.Details = &details
			}
		}

		response.Result = result
	}

	if evaluation.Status == models.StatusFailed {
		response.ErrorMessage = evaluation.ErrorMessage
	}

	return response
}
