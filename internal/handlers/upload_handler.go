package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentsift/resume-relevance/internal/models"
	"talentsift/resume-relevance/internal/repositories"
	"talentsift/resume-relevance/internal/services"
)

type UploadHandler struct {
	resumeRepo     repositories.ResumeRepository
	storageService services.StorageService
	maxFileSize    int64
}

func NewUploadHandler(
	resumeRepo repositories.ResumeRepository,
	storageService services.StorageService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		resumeRepo:     resumeRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /resumes/upload. The uploaded file is stored
// unparsed; extraction runs on demand or as part of a batch.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume file uploaded. Please upload 'file' as a PDF.",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, fileType, err := h.storageService.SaveResume(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume file: %v", err),
		})
	}

	resume := models.Resume{
		ID:            uuid.New(),
		CandidateName: file.Filename,
		FilePath:      filePath,
		FileName:      filename,
		FileType:      fileType,
		UploadedAt:    time.Now(),
	}

	if err := h.resumeRepo.Create(&resume); err != nil {
		// Cleanup uploaded file if database insert fails
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save resume record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		ID:           resume.ID.String(),
		Filename:     resume.FileName,
		OriginalName: file.Filename,
		FileType:     resume.FileType,
	})
}
