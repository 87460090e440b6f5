package embedding

import (
	"context"
	"hash/fnv"
)

// MockEmbedder produces deterministic vectors derived from the input
// text. It exists so memory-layer tests can run without an embedding
// backend.
type MockEmbedder struct {
	dimension int
}

var _ Embedder = (*MockEmbedder)(nil)

// NewMockEmbedder creates a mock embedder with the given dimension.
// Zero dimension defaults to 8.
func NewMockEmbedder(dimension int) *MockEmbedder {
	if dimension == 0 {
		dimension = 8
	}
	return &MockEmbedder{dimension: dimension}
}

// Model returns the mock model name.
func (m *MockEmbedder) Model() string {
	return "mock"
}

// Dimension returns the configured embedding dimension.
func (m *MockEmbedder) Dimension() int {
	return m.dimension
}

// Embed returns a deterministic vector: identical texts map to
// identical vectors, different texts almost always differ.
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, m.dimension)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(seed%2000)/1000 - 1
	}
	return vec, nil
}

// EmbedBatch embeds each text with Embed.
func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}
