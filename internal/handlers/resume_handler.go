package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-relevance/internal/models"
	"alfredoptarigan/resume-relevance/internal/repositories"
	"alfredoptarigan/resume-relevance/internal/services"
)

type ResumeHandler struct {
	resumeRepo  repositories.ResumeRepository
	uploads     services.UploadStore
	extractor   services.DocumentExtractor
	maxFileSize int64
}

func NewResumeHandler(
	resumeRepo repositories.ResumeRepository,
	uploads services.UploadStore,
	extractor services.DocumentExtractor,
	maxFileSize int64,
) *ResumeHandler {
	return &ResumeHandler{
		resumeRepo:  resumeRepo,
		uploads:     uploads,
		extractor:   extractor,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload handles POST /resumes: a multipart form with the resume file
// plus optional name, email, and location fields. Missing name/email are
// sniffed from the extracted text.
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filePath, err := h.uploads.Save(file, "resume")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume file: %v", err),
		})
	}

	rawText, err := h.extractor.ExtractText(filePath)
	if err != nil {
		h.uploads.Remove(filePath)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to extract resume text: %v", err),
		})
	}

	name := c.FormValue("name")
	email := c.FormValue("email")
	if name == "" || email == "" {
		parsedName, parsedEmail := services.ParseNameEmail(rawText)
		if name == "" {
			name = parsedName
		}
		if email == "" {
			email = parsedEmail
		}
	}

	resume := &models.Resume{
		ID:               uuid.New(),
		Name:             name,
		Email:            email,
		Location:         c.FormValue("location"),
		RawText:          rawText,
		OriginalFileName: file.Filename,
		FilePath:         filePath,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.resumeRepo.Create(resume); err != nil {
		h.uploads.Remove(filePath)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save resume record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResumeResponse{
		ResumeID: resume.ID.String(),
		Name:     resume.Name,
		Email:    resume.Email,
	})
}
