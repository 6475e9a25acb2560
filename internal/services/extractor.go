package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"recruitpme/cv-matcher/internal/models"
)

type CVExtractor interface {
	ExtractFromPDF(filePath string) (string, error)
	ExtractAllFromDirectory(directory string) ([]models.Document, error)
}

type cvExtractor struct {
	allowedExtensions map[string]bool
	logger            *zap.Logger
}

func NewCVExtractor(allowedExtensions []string, logger *zap.Logger) CVExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	allowed := make(map[string]bool, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}

	return &cvExtractor{
		allowedExtensions: allowed,
		logger:            logger,
	}
}

// ExtractFromPDF extracts plain text page by page, falling back to
// whole-document extraction when the per-page pass yields nothing. A file
// that fails structural validation skips the per-page pass entirely: a
// broken page tree makes the page walk unreliable, while whole-document
// extraction tolerates it.
func (e *cvExtractor) ExtractFromPDF(filePath string) (string, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", filePath)
	}

	if err := api.ValidateFile(filePath, nil); err != nil {
		e.logger.Warn("pdf validation failed, using whole-document extraction",
			zap.String("file", filePath),
			zap.Error(err),
		)
		return e.extractWholeDocument(filePath)
	}

	text, err := e.extractByPage(filePath)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if err != nil {
		e.logger.Warn("per-page extraction failed, using whole-document extraction",
			zap.String("file", filePath),
			zap.Error(err),
		)
	}

	return e.extractWholeDocument(filePath)
}

func (e *cvExtractor) extractByPage(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPages := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Debug("skipping unreadable page",
				zap.String("file", filePath),
				zap.Int("page", pageIndex),
				zap.Error(err),
			)
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func (e *cvExtractor) extractWholeDocument(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("no text content found in PDF: %w", err)
	}

	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	text := buf.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}

	return text, nil
}

// ExtractAllFromDirectory extracts text from every allowed file in the
// directory, in sorted filename order. Files that fail extraction are
// skipped, never failing the batch.
func (e *cvExtractor) ExtractAllFromDirectory(directory string) ([]models.Document, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", directory, err)
	}

	var documents []models.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !e.allowedExtensions[ext] {
			continue
		}

		text, err := e.ExtractFromPDF(filepath.Join(directory, entry.Name()))
		if err != nil {
			e.logger.Warn("skipping document, extraction failed",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}

		documents = append(documents, models.Document{ID: entry.Name(), Text: text})
	}

	e.logger.Info("directory extraction finished",
		zap.String("directory", directory),
		zap.Int("documents", len(documents)),
	)

	return documents, nil
}
