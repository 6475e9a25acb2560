package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitpme/cv-matcher/internal/config"
	"recruitpme/cv-matcher/internal/services"
)

func newTestMatcher() services.Matcher {
	return services.NewMatcher(config.MatchingConfig{
		SimilarityThreshold: 0.5,
		MinScore:            0,
		MaxScore:            100,
	})
}

func TestSimilarityIdentity(t *testing.T) {
	m := newTestMatcher()

	v := []float32{0.3, 0.4, 0.5, 0.1}
	assert.InDelta(t, 1.0, m.Similarity(v, v), 1e-9)
}

func TestSimilarityDegenerateInputs(t *testing.T) {
	m := newTestMatcher()

	v := []float32{1, 0, 0}
	zero := []float32{0, 0, 0}

	assert.Zero(t, m.Similarity(nil, v))
	assert.Zero(t, m.Similarity(v, nil))
	assert.Zero(t, m.Similarity(zero, v))
	assert.Zero(t, m.Similarity(v, []float32{1, 0}), "mismatched dimensions yield no signal")
}

func TestSimilarityToScoreMonotonic(t *testing.T) {
	m := newTestMatcher()

	prev := -1
	for s := 0.0; s <= 1.0; s += 0.05 {
		score := m.SimilarityToScore(s)
		assert.GreaterOrEqual(t, score, prev, "score must not decrease as similarity grows")
		prev = score
	}
}

func TestSimilarityToScoreBounds(t *testing.T) {
	m := newTestMatcher()

	for _, s := range []float64{-5, -0.1, 0, 0.25, 0.5, 0.75, 1, 1.1, 5} {
		score := m.SimilarityToScore(s)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}

	// Sigmoid midpoint sits at the configured threshold.
	assert.Equal(t, 50, m.SimilarityToScore(0.5))
}

func TestRankCandidates(t *testing.T) {
	m := newTestMatcher()

	job := []float32{1, 0}
	candidates := []services.CandidateEmbedding{
		{ID: "weak.pdf", Vector: []float32{0, 1}},
		{ID: "strong.pdf", Vector: []float32{1, 0}},
		{ID: "middle.pdf", Vector: []float32{0.8, 0.6}},
	}

	records := m.RankCandidates(candidates, job)
	require.Len(t, records, 3)

	assert.Equal(t, "strong.pdf", records[0].ID)
	assert.Equal(t, "middle.pdf", records[1].ID)
	assert.Equal(t, "weak.pdf", records[2].ID)

	for i := 1; i < len(records); i++ {
		assert.GreaterOrEqual(t, records[i-1].Score, records[i].Score)
	}
}

func TestRankCandidatesEmpty(t *testing.T) {
	m := newTestMatcher()

	records := m.RankCandidates(nil, []float32{1, 0})
	assert.Empty(t, records)
}

func TestRankCandidatesTiesKeepInputOrder(t *testing.T) {
	m := newTestMatcher()

	job := []float32{1, 0}
	candidates := []services.CandidateEmbedding{
		{ID: "first.pdf", Vector: []float32{1, 0}},
		{ID: "second.pdf", Vector: []float32{1, 0}},
	}

	records := m.RankCandidates(candidates, job)
	require.Len(t, records, 2)
	assert.Equal(t, "first.pdf", records[0].ID)
	assert.Equal(t, "second.pdf", records[1].ID)
}
