package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-relevance/internal/models"
	"alfredoptarigan/resume-relevance/internal/repositories"
	"alfredoptarigan/resume-relevance/internal/services"
)

type JobHandler struct {
	jobRepo     repositories.JobRepository
	uploads     services.UploadStore
	extractor   services.DocumentExtractor
	embedder    services.Embedder
	index       services.VectorIndex
	maxFileSize int64
}

func NewJobHandler(
	jobRepo repositories.JobRepository,
	uploads services.UploadStore,
	extractor services.DocumentExtractor,
	embedder services.Embedder,
	index services.VectorIndex,
	maxFileSize int64,
) *JobHandler {
	return &JobHandler{
		jobRepo:     jobRepo,
		uploads:     uploads,
		extractor:   extractor,
		embedder:    embedder,
		index:       index,
		maxFileSize: maxFileSize,
	}
}

// HandleCreateJob handles POST /jobs: a multipart form with title, optional
// location, and the JD as a pdf/txt file.
func (h *JobHandler) HandleCreateJob(c *fiber.Ctx) error {
	title := c.FormValue("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}
	location := c.FormValue("location")

	jdFile, err := c.FormFile("jd_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "jd_file is required",
		})
	}

	if jdFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("JD file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filePath, err := h.uploads.Save(jdFile, "jd")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save JD file: %v", err),
		})
	}

	jdText, err := h.extractor.ExtractText(filePath)
	if err != nil {
		h.uploads.Remove(filePath)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to extract JD text: %v", err),
		})
	}

	job := &models.Job{
		ID:        uuid.New(),
		Title:     title,
		JDText:    jdText,
		Location:  location,
		FilePath:  filePath,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.jobRepo.Create(job); err != nil {
		h.uploads.Remove(filePath)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create job",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.CreateJobResponse{
		JobID: job.ID.String(),
	})
}

// HandleListJobs handles GET /jobs.
func (h *JobHandler) HandleListJobs(c *fiber.Ctx) error {
	jobs, err := h.jobRepo.FindAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list jobs",
		})
	}

	return c.JSON(jobs)
}

// HandleSimilarResumes handles GET /jobs/:id/similar: nearest-neighbor
// retrieval of indexed resumes for the job's JD embedding.
func (h *JobHandler) HandleSimilarResumes(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	topK := 5
	if v := c.Query("top_k"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			topK = parsed
		}
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	queryVec, err := h.embedder.Embed(c.Context(), job.JDText)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to embed job description: %v", err),
		})
	}

	hits, err := h.index.Search(c.Context(), queryVec, topK)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("similarity search failed: %v", err),
		})
	}

	results := make([]models.SimilarResumeResponse, 0, len(hits))
	for _, hit := range hits {
		results = append(results, models.SimilarResumeResponse{
			Meta:  hit.Metadata,
			Score: hit.Score,
		})
	}

	return c.JSON(results)
}
