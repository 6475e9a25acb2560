package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"recruitpme/cv-matcher/internal/config"
)

// EmbeddingModel is the semantic embedding backend. Implementations must be
// safe for concurrent calls after construction, or the caller has to set the
// worker concurrency to 1.
type EmbeddingModel interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

type TextEncoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
}

type textEncoder struct {
	model     EmbeddingModel
	chunkSize int
	overlap   int
}

func NewTextEncoder(model EmbeddingModel, cfg config.MatchingConfig) TextEncoder {
	chunkSize := cfg.ChunkSize
	overlap := cfg.ChunkOverlap

	if chunkSize <= 0 {
		chunkSize = 512
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}

	return &textEncoder{
		model:     model,
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// Encode converts text into a unit-length vector by splitting it into
// overlapping word windows, encoding each window, and averaging the
// unit-normalized window embeddings. Empty input yields the zero vector of
// the model's dimensionality; callers must treat it as "no signal", not as a
// valid semantic point.
func (e *textEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return zeroVector(e.model.Dimension()), nil
	}

	chunks := e.chunkWords(text)

	sum := make([]float64, e.model.Dimension())
	for _, chunk := range chunks {
		embedding, err := e.model.EmbedText(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk: %w", err)
		}
		if len(embedding) != len(sum) {
			return nil, fmt.Errorf("unexpected embedding dimension: got %d, want %d", len(embedding), len(sum))
		}

		for i, v := range l2Normalize(embedding) {
			sum[i] += float64(v)
		}
	}

	avg := make([]float32, len(sum))
	for i, v := range sum {
		avg[i] = float32(v / float64(len(chunks)))
	}

	return l2Normalize(avg), nil
}

// chunkWords splits text into word windows of chunkSize words advancing by
// chunkSize-overlap, so that boundary-spanning phrases appear in at least
// one window intact.
func (e *textEncoder) chunkWords(text string) []string {
	words := strings.Fields(text)

	step := e.chunkSize - e.overlap
	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + e.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}

	if len(chunks) == 0 {
		chunks = []string{text}
	}

	return chunks
}

func zeroVector(dimension int) []float32 {
	return make([]float32, dimension)
}

// l2Normalize returns a fresh unit-length copy of v. A zero-norm vector is
// returned as a copy unchanged to avoid division by zero.
func l2Normalize(v []float32) []float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}

	out := make([]float32, len(v))
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		copy(out, v)
		return out
	}

	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
