package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"recruitpme/cv-matcher/internal/models"
	"recruitpme/cv-matcher/internal/services"
)

type AnalyzeHandler struct {
	matchService   services.MatchService
	extractor      services.CVExtractor
	storageService services.StorageService
	maxFileSize    int64
}

func NewAnalyzeHandler(
	matchService services.MatchService,
	extractor services.CVExtractor,
	storageService services.StorageService,
	maxFileSize int64,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		matchService:   matchService,
		extractor:      extractor,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleAnalyzeCV handles POST /analyze/cv: single-CV analysis without any
// job comparison.
func (h *AnalyzeHandler) HandleAnalyzeCV(c *fiber.Ctx) error {
	file, err := c.FormFile("cv")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cv file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	_, filePath, err := h.storageService.SaveFile(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save file: %v", err),
		})
	}

	text, err := h.extractor.ExtractFromPDF(filePath)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to extract text from the CV",
		})
	}

	analysis, err := h.matchService.AnalyzeCV(models.Document{ID: file.Filename, Text: text})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unable to extract text from the CV",
		})
	}

	return c.JSON(analysis)
}

// HandleAnalyzeJob handles POST /analyze/job: extraction over the offer
// text alone.
func (h *AnalyzeHandler) HandleAnalyzeJob(c *fiber.Ctx) error {
	var job models.JobOffer
	if err := c.BodyParser(&job); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	if job.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	return c.JSON(h.matchService.AnalyzeJob(job))
}
