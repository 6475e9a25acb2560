package services

import (
	"math"
	"sort"

	"recruitpme/cv-matcher/internal/config"
)

// CandidateEmbedding pairs a candidate identifier with its encoded vector.
// Candidates are passed as a slice so that ranking ties break on input
// order.
type CandidateEmbedding struct {
	ID     string
	Vector []float32
}

// MatchRecord is the scored outcome for one candidate.
type MatchRecord struct {
	ID         string
	Similarity float64
	Score      int
}

type Matcher interface {
	Similarity(a, b []float32) float64
	SimilarityToScore(similarity float64) int
	RankCandidates(candidates []CandidateEmbedding, job []float32) []MatchRecord
}

type matcher struct {
	threshold float64
	minScore  int
	maxScore  int
}

func NewMatcher(cfg config.MatchingConfig) Matcher {
	return &matcher{
		threshold: cfg.SimilarityThreshold,
		minScore:  cfg.MinScore,
		maxScore:  cfg.MaxScore,
	}
}

// Similarity computes the cosine similarity between two vectors. A missing,
// mismatched, or zero-norm vector yields 0 rather than an error.
func (m *matcher) Similarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SimilarityToScore calibrates a cosine similarity into a bounded integer
// score. Raw similarities cluster tightly around the middle of their range
// for sentence embeddings, so a sigmoid centered on the configured threshold
// stretches the differences that matter. The transform is monotonic:
// similarity ordering is preserved in score ordering.
func (m *matcher) SimilarityToScore(similarity float64) int {
	if similarity < 0 {
		similarity = 0
	} else if similarity > 1 {
		similarity = 1
	}

	x := 10 * (similarity - m.threshold)
	sigmoid := 1 / (1 + math.Exp(-x))

	score := float64(m.minScore) + sigmoid*float64(m.maxScore-m.minScore)

	return int(math.Round(score))
}

// RankCandidates scores every candidate against the job vector and returns
// the records sorted by descending score. Ties keep input order. Zero
// candidates yield an empty ranking.
func (m *matcher) RankCandidates(candidates []CandidateEmbedding, job []float32) []MatchRecord {
	records := make([]MatchRecord, 0, len(candidates))

	for _, candidate := range candidates {
		similarity := m.Similarity(candidate.Vector, job)
		records = append(records, MatchRecord{
			ID:         candidate.ID,
			Similarity: similarity,
			Score:      m.SimilarityToScore(similarity),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})

	return records
}
