// Package embedding provides text embedding generation with multiple backend support.
package embedding

import (
	"context"
	"fmt"

	"github.com/bobagent/ability-mcp-go/internal/config"
)

// Embedder defines the interface for text embedding providers.
// Implementations include Ollama (local) and AWS Bedrock (API).
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// More efficient than multiple Embed calls for bulk operations.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the name of the embedding model being used.
	Model() string

	// Dimension returns the embedding vector dimension.
	Dimension() int
}

// Provider names accepted in configuration.
const (
	ProviderOllama  = "ollama"
	ProviderBedrock = "bedrock"
)

// New creates an Embedder from the application configuration.
func New(ctx context.Context, cfg config.Config) (Embedder, error) {
	switch cfg.EmbedProvider {
	case ProviderOllama, "":
		return NewOllamaEmbedder(cfg.EmbedModel, cfg.OllamaHost, 0)

	case ProviderBedrock:
		return NewBedrockEmbedder(ctx, cfg.BedrockModel, 0)

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.EmbedProvider)
	}
}
