package embedding

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobagent/ability-mcp-go/internal/config"
)

func TestNewOllamaEmbedderDefaults(t *testing.T) {
	e, err := NewOllamaEmbedder("", "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultOllamaModel, e.Model())
	assert.Equal(t, DefaultOllamaDimension, e.Dimension())
}

func TestNewOllamaEmbedderCustomModel(t *testing.T) {
	e, err := NewOllamaEmbedder("nomic-embed-text", "http://localhost:11434", 768)
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", e.Model())
	assert.Equal(t, 768, e.Dimension())
}

func TestNewUnknownProvider(t *testing.T) {
	cfg := config.Config{EmbedProvider: "carrier-pigeon"}
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

// fakeBedrock returns a canned Titan response with the requested dimension.
type fakeBedrock struct {
	lastModelID string
	dimension   int
}

func (f *fakeBedrock) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput,
	optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.lastModelID = *params.ModelId

	vec := make([]float32, f.dimension)
	for i := range vec {
		vec[i] = float32(i)
	}
	body, err := json.Marshal(titanEmbedResponse{Embedding: vec, InputTextTokenCount: 3})
	if err != nil {
		return nil, err
	}
	return &bedrockruntime.InvokeModelOutput{Body: body}, nil
}

func TestBedrockEmbed(t *testing.T) {
	fake := &fakeBedrock{dimension: 16}
	e := newBedrockEmbedder(fake, "", 16)

	assert.Equal(t, DefaultBedrockModel, e.Model())
	assert.Equal(t, 16, e.Dimension())

	vec, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vec, 16)
	assert.Equal(t, DefaultBedrockModel, fake.lastModelID)
}

func TestBedrockEmbedDimensionMismatch(t *testing.T) {
	fake := &fakeBedrock{dimension: 8}
	e := newBedrockEmbedder(fake, "", 16)

	_, err := e.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestBedrockEmbedBatch(t *testing.T) {
	fake := &fakeBedrock{dimension: 4}
	e := newBedrockEmbedder(fake, "custom-model", 4)

	vectors, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, vectors, 3)
	assert.Equal(t, "custom-model", fake.lastModelID)
}

func TestMockEmbedderDeterministic(t *testing.T) {
	m := NewMockEmbedder(8)

	a, err := m.Embed(context.Background(), "same text")
	require.NoError(t, err)
	b, err := m.Embed(context.Background(), "same text")
	require.NoError(t, err)
	c, err := m.Embed(context.Background(), "other text")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 8)
}
