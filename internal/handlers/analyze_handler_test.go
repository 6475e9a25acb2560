package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitpme/cv-matcher/internal/config"
	"recruitpme/cv-matcher/internal/handlers"
	"recruitpme/cv-matcher/internal/models"
	"recruitpme/cv-matcher/internal/services"
)

type fixedEmbeddingModel struct{ dim int }

func (m *fixedEmbeddingModel) EmbedText(_ context.Context, _ string) ([]float32, error) {
	v := make([]float32, m.dim)
	v[0] = 1
	return v, nil
}

func (m *fixedEmbeddingModel) Dimension() int { return m.dim }

type emptyRecognizer struct{}

func (emptyRecognizer) Entities(string) ([]services.Entity, error) { return nil, nil }

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	matchingCfg := config.MatchingConfig{
		SimilarityThreshold: 0.5,
		MaxScore:            100,
		ChunkSize:           512,
		ChunkOverlap:        100,
	}
	analyzer := services.NewEntityAnalyzer(emptyRecognizer{}, config.AnalysisConfig{
		SkillVocabulary: []string{"python", "sql"},
		ReferenceYear:   2023,
	}, nil)

	matchService := services.NewMatchService(
		services.NewTextProcessor(),
		services.NewTextEncoder(&fixedEmbeddingModel{dim: 3}, matchingCfg),
		services.NewMatcher(matchingCfg),
		analyzer,
		services.NewMatchSummarizer(analyzer),
		1,
		nil,
	)

	extractor := services.NewCVExtractor([]string{".pdf"}, nil)
	storage := services.NewStorageService(t.TempDir(), []string{".pdf"})

	app := fiber.New()
	h := handlers.NewAnalyzeHandler(matchService, extractor, storage, 1024*1024)
	app.Post("/api/v1/analyze/job", h.HandleAnalyzeJob)
	app.Post("/api/v1/analyze/cv", h.HandleAnalyzeCV)

	return app
}

func TestHandleAnalyzeJob(t *testing.T) {
	app := newTestApp(t)

	body := `{"title":"Backend Developer","description":"python services, 5 years of experience","skills":["python","react"]}`
	req := httptest.NewRequest("POST", "/api/v1/analyze/job", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var analysis models.JobAnalysis
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&analysis))

	assert.Equal(t, "Backend Developer", analysis.Title)
	assert.Contains(t, analysis.Skills, "python")
	require.NotNil(t, analysis.ExperienceYears)
	assert.Equal(t, 5, *analysis.ExperienceYears)
	assert.Equal(t, []string{"python", "react"}, analysis.ProvidedSkills)
}

func TestHandleAnalyzeJobMissingTitle(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/v1/analyze/job", strings.NewReader(`{"description":"python"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleAnalyzeCVMissingFile(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/v1/analyze/cv", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
