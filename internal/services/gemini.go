package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"recruitpme/cv-matcher/internal/config"
)

// maxEmbedInputChars caps the text sent per embedding call; the chunking in
// TextEncoder keeps inputs well below this in practice.
const maxEmbedInputChars = 40000

type geminiModel struct {
	client     *genai.Client
	embedModel string
	dimension  int
}

// NewGeminiModel creates the production embedding backend. The genai client
// is stateless after construction and safe for concurrent calls.
func NewGeminiModel(ctx context.Context, cfg config.GeminiConfig, dimension int) (EmbeddingModel, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiModel{
		client:     client,
		embedModel: cfg.EmbedModel,
		dimension:  dimension,
	}, nil
}

func (g *geminiModel) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbedInputChars {
		text = text[:maxEmbedInputChars]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

func (g *geminiModel) Dimension() int {
	return g.dimension
}
