package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"recruitpme/cv-matcher/internal/models"
	"recruitpme/cv-matcher/internal/services"
)

type MatchHandler struct {
	matchService   services.MatchService
	extractor      services.CVExtractor
	storageService services.StorageService
	uploadPath     string
	maxFileSize    int64
}

func NewMatchHandler(
	matchService services.MatchService,
	extractor services.CVExtractor,
	storageService services.StorageService,
	uploadPath string,
	maxFileSize int64,
) *MatchHandler {
	return &MatchHandler{
		matchService:   matchService,
		extractor:      extractor,
		storageService: storageService,
		uploadPath:     uploadPath,
		maxFileSize:    maxFileSize,
	}
}

// HandleMatch handles POST /match. The multipart form carries a JSON-encoded
// "job" field, plus CV sources: uploaded "files" and/or a "cv_directory"
// value.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	jobValues := form.Value["job"]
	if len(jobValues) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job is required",
		})
	}

	var job models.JobOffer
	if err := json.Unmarshal([]byte(jobValues[0]), &job); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job payload",
		})
	}

	if job.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job title is required",
		})
	}

	files := form.File["files"]
	var cvDirectory string
	if dirs := form.Value["cv_directory"]; len(dirs) > 0 {
		cvDirectory = dirs[0]
	}

	if len(files) == 0 && cvDirectory == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "you must provide either CV files or a cv_directory",
		})
	}

	var docs []models.Document

	for _, file := range files {
		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("file %s too large. Max size: %d bytes", file.Filename, h.maxFileSize),
			})
		}

		_, filePath, err := h.storageService.SaveFile(file)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save file %s: %v", file.Filename, err),
			})
		}

		// Extraction failure only skips this candidate; the service skips
		// empty documents and reports when none survive.
		text, err := h.extractor.ExtractFromPDF(filePath)
		if err != nil {
			text = ""
		}
		docs = append(docs, models.Document{ID: file.Filename, Text: text})
	}

	if cvDirectory != "" {
		directory := cvDirectory
		if info, err := os.Stat(directory); err != nil || !info.IsDir() {
			directory = filepath.Join(h.uploadPath, cvDirectory)
		}
		if info, err := os.Stat(directory); err != nil || !info.IsDir() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("directory %s does not exist", cvDirectory),
			})
		}

		dirDocs, err := h.extractor.ExtractAllFromDirectory(directory)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to read directory: %v", err),
			})
		}
		docs = append(docs, dirDocs...)
	}

	results, err := h.matchService.MatchCandidates(c.Context(), job, docs)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoValidDocuments):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "no valid CV could be extracted",
			})
		case errors.Is(err, services.ErrNoJobText):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "job offer has no text",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("matching failed: %v", err),
			})
		}
	}

	return c.JSON(models.MatchResponse{Results: results})
}
