package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitpme/cv-matcher/internal/config"
	"recruitpme/cv-matcher/internal/models"
	"recruitpme/cv-matcher/internal/services"
)

func newTestMatchService(t *testing.T) services.MatchService {
	t.Helper()

	matchingCfg := config.MatchingConfig{
		SimilarityThreshold: 0.5,
		MinScore:            0,
		MaxScore:            100,
		ChunkSize:           512,
		ChunkOverlap:        100,
	}

	model := &stubEmbeddingModel{
		dim: 3,
		embed: func(text string) []float32 {
			if strings.Contains(text, "python") {
				return []float32{1, 0, 0}
			}
			return []float32{0, 1, 0}
		},
	}

	processor := services.NewTextProcessor()
	analyzer := services.NewEntityAnalyzer(&stubRecognizer{}, config.AnalysisConfig{
		SkillVocabulary: []string{"python", "sql", "react"},
		ReferenceYear:   2023,
	}, nil)

	return services.NewMatchService(
		processor,
		services.NewTextEncoder(model, matchingCfg),
		services.NewMatcher(matchingCfg),
		analyzer,
		services.NewMatchSummarizer(analyzer),
		2,
		nil,
	)
}

func TestMatchCandidatesRanksByRelevance(t *testing.T) {
	s := newTestMatchService(t)

	job := models.JobOffer{
		Title:       "Python Backend Developer",
		Description: "Python and SQL services",
		Skills:      []string{"python", "sql"},
	}
	docs := []models.Document{
		{ID: "gardener.pdf", Text: "Gardening and cooking enthusiast"},
		{ID: "dev.pdf", Text: "Python developer, 7 years of experience with python and sql"},
		{ID: "broken.pdf", Text: ""},
	}

	results, err := s.MatchCandidates(context.Background(), job, docs)
	require.NoError(t, err)

	// The empty document is skipped, not an error.
	require.Len(t, results, 2)
	assert.Equal(t, "dev.pdf", results[0].Filename)
	assert.Equal(t, "gardener.pdf", results[1].Filename)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)

	best := results[0]
	require.NotNil(t, best.ExperienceYears)
	assert.Equal(t, 7, *best.ExperienceYears)
	assert.Equal(t, services.LevelSenior, best.ExperienceLevel)
	assert.Contains(t, best.MatchedSkills, "python")
	assert.Contains(t, best.MatchedSkills, "sql")
	assert.Empty(t, best.MissingSkills)
	assert.ElementsMatch(t, best.Skills, append(best.MatchedSkills, best.MissingSkills...))

	for _, result := range results {
		assert.GreaterOrEqual(t, result.Score, 0)
		assert.LessOrEqual(t, result.Score, 100)
	}
}

func TestMatchCandidatesAllDocumentsEmpty(t *testing.T) {
	s := newTestMatchService(t)

	job := models.JobOffer{Title: "Python Developer", Description: "python"}
	docs := []models.Document{
		{ID: "a.pdf", Text: ""},
		{ID: "b.pdf", Text: "   "},
	}

	_, err := s.MatchCandidates(context.Background(), job, docs)
	assert.ErrorIs(t, err, services.ErrNoValidDocuments)
}

func TestMatchCandidatesNoJobText(t *testing.T) {
	s := newTestMatchService(t)

	_, err := s.MatchCandidates(context.Background(), models.JobOffer{}, []models.Document{
		{ID: "a.pdf", Text: "python developer"},
	})
	assert.ErrorIs(t, err, services.ErrNoJobText)
}

func TestMatchCandidatesNoCandidates(t *testing.T) {
	s := newTestMatchService(t)

	job := models.JobOffer{Title: "Python Developer", Description: "python"}
	_, err := s.MatchCandidates(context.Background(), job, nil)
	assert.ErrorIs(t, err, services.ErrNoValidDocuments)
}

func TestAnalyzeCV(t *testing.T) {
	s := newTestMatchService(t)

	analysis, err := s.AnalyzeCV(models.Document{
		ID:   "dev.pdf",
		Text: "Python and SQL developer, 12 years of experience\n\nMaster's degree, Lyon university",
	})
	require.NoError(t, err)

	assert.Equal(t, "dev.pdf", analysis.Filename)
	assert.Equal(t, []string{"python", "sql"}, analysis.Skills)
	require.NotNil(t, analysis.ExperienceYears)
	assert.Equal(t, 12, *analysis.ExperienceYears)
	assert.Equal(t, services.LevelExpert, analysis.ExperienceLevel)
	require.Len(t, analysis.Education, 1)
	assert.Contains(t, analysis.Education[0], "master")
}

func TestAnalyzeCVEmptyText(t *testing.T) {
	s := newTestMatchService(t)

	_, err := s.AnalyzeCV(models.Document{ID: "empty.pdf", Text: "  "})
	assert.Error(t, err)
}

func TestAnalyzeJob(t *testing.T) {
	s := newTestMatchService(t)

	job := models.JobOffer{
		Title:       "Backend Developer",
		Description: "python services, 5 years of experience required",
		Skills:      []string{"python", "kubernetes"},
	}

	analysis := s.AnalyzeJob(job)

	assert.Equal(t, "Backend Developer", analysis.Title)
	assert.Contains(t, analysis.Skills, "python")
	require.NotNil(t, analysis.ExperienceYears)
	assert.Equal(t, 5, *analysis.ExperienceYears)
	assert.Equal(t, []string{"python", "kubernetes"}, analysis.ProvidedSkills)
}

func TestAnalyzeJobNoProvidedSkills(t *testing.T) {
	s := newTestMatchService(t)

	analysis := s.AnalyzeJob(models.JobOffer{Title: "Developer", Description: "no terms"})
	assert.NotNil(t, analysis.ProvidedSkills)
	assert.Empty(t, analysis.ProvidedSkills)
}
