package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recruitpme/cv-matcher/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, 0.5, cfg.Matching.SimilarityThreshold)
	assert.Equal(t, 0, cfg.Matching.MinScore)
	assert.Equal(t, 100, cfg.Matching.MaxScore)
	assert.Equal(t, 512, cfg.Matching.ChunkSize)
	assert.Equal(t, 100, cfg.Matching.ChunkOverlap)
	assert.True(t, cfg.Analysis.OrgEntitiesAsSkills)
	assert.NotEmpty(t, cfg.Analysis.SkillVocabulary)
	assert.Equal(t, []string{".pdf"}, cfg.Storage.AllowedExtensions)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SIMILARITY_THRESHOLD", "0.7")
	t.Setenv("SKILL_VOCABULARY", "go, rust ,zig")
	t.Setenv("ORG_ENTITIES_AS_SKILLS", "false")
	t.Setenv("REFERENCE_YEAR", "2023")

	cfg := config.Load()

	assert.Equal(t, 0.7, cfg.Matching.SimilarityThreshold)
	assert.Equal(t, []string{"go", "rust", "zig"}, cfg.Analysis.SkillVocabulary)
	assert.False(t, cfg.Analysis.OrgEntitiesAsSkills)
	assert.Equal(t, 2023, cfg.Analysis.ReferenceYear)
}
