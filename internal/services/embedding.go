package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// EmbeddingService produces sentence-level embeddings for profile and job
// text. It satisfies the matching package's Embedder capability.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type embeddingService struct {
	client *genai.Client
	model  string
}

// Inputs above this length are truncated before embedding; the embedding
// model has a token ceiling well below it.
const maxEmbeddingInput = 40000

func NewEmbeddingService(apiKey, model string) (EmbeddingService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &embeddingService{client: client, model: model}, nil
}

func (s *embeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbeddingInput {
		text = text[:maxEmbeddingInput]
	}

	result, err := s.client.Models.EmbedContent(ctx, s.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}
