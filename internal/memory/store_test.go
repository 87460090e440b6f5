package memory

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobagent/ability-mcp-go/internal/embedding"
	"github.com/bobagent/ability-mcp-go/internal/models"
)

func testStore() *Store {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return NewStore(embedding.NewMockEmbedder(16), logger)
}

func TestStoreAndGetAll(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	mem, err := s.Store(ctx, "the sky is blue", models.MemorySemantic, "alice", map[string]any{"source": "observation"})
	require.NoError(t, err)
	assert.NotEmpty(t, mem.ID)
	assert.Contains(t, mem.ID, "mem_")
	assert.Equal(t, models.MemorySemantic, mem.Type)
	assert.Equal(t, "alice", mem.UserID)
	assert.False(t, mem.Created.IsZero())

	all, err := s.GetAll("alice", "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, mem.ID, all[0].ID)
}

func TestStoreInvalidType(t *testing.T) {
	s := testStore()

	_, err := s.Store(context.Background(), "content", "imaginary", "alice", nil)
	require.ErrorIs(t, err, ErrInvalidType)
	assert.Contains(t, err.Error(), "imaginary")
}

func TestStoreEmptyContent(t *testing.T) {
	s := testStore()

	_, err := s.Store(context.Background(), "", models.MemoryEpisodic, "alice", nil)
	require.ErrorIs(t, err, ErrInvalidType)
}

func TestSearchFindsStoredMemory(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	stored, err := s.Store(ctx, "paris is the capital of france", models.MemorySemantic, "alice", nil)
	require.NoError(t, err)
	_, err = s.Store(ctx, "remember to water the plants", models.MemoryWorking, "alice", nil)
	require.NoError(t, err)

	// The mock embedder maps identical texts to identical vectors, so
	// the exact content must come back as the closest match.
	results, err := s.Search(ctx, "paris is the capital of france", "alice", "", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, stored.ID, results[0].ID)
	assert.InDelta(t, 1.0, float64(results[0].Score), 1e-3)
}

func TestSearchTypeFilter(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	_, err := s.Store(ctx, "how to brew coffee", models.MemoryProcedural, "alice", nil)
	require.NoError(t, err)
	_, err = s.Store(ctx, "coffee tastes bitter", models.MemorySemantic, "alice", nil)
	require.NoError(t, err)

	results, err := s.Search(ctx, "coffee", "alice", models.MemoryProcedural, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.MemoryProcedural, results[0].Type)
}

func TestSearchEmptyStore(t *testing.T) {
	s := testStore()

	results, err := s.Search(context.Background(), "anything", "nobody", "", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUpdateAppendsRevision(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	mem, err := s.Store(ctx, "draft note", models.MemoryWorking, "alice", nil)
	require.NoError(t, err)

	updated, err := s.Update(ctx, "alice", mem.ID, "final note")
	require.NoError(t, err)
	assert.Equal(t, "final note", updated.Content)
	assert.False(t, updated.Updated.Before(mem.Created))

	history, err := s.History("alice", mem.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "created", history[0].Event)
	assert.Equal(t, "draft note", history[0].Content)
	assert.Equal(t, "updated", history[1].Event)
	assert.Equal(t, "final note", history[1].Content)
}

func TestUpdateUnknownMemory(t *testing.T) {
	s := testStore()

	_, err := s.Update(context.Background(), "alice", "mem_none", "content")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	mem, err := s.Store(ctx, "ephemeral", models.MemoryWorking, "alice", nil)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "alice", mem.ID))

	all, err := s.GetAll("alice", "")
	require.NoError(t, err)
	assert.Empty(t, all)

	err = s.Delete(ctx, "alice", mem.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAll(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		_, err := s.Store(ctx, content, models.MemoryEpisodic, "alice", nil)
		require.NoError(t, err)
	}
	_, err := s.Store(ctx, "bob's memory", models.MemoryEpisodic, "bob", nil)
	require.NoError(t, err)

	count, err := s.DeleteAll("alice")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	all, err := s.GetAll("alice", "")
	require.NoError(t, err)
	assert.Empty(t, all)

	// Other users are untouched.
	bobAll, err := s.GetAll("bob", "")
	require.NoError(t, err)
	assert.Len(t, bobAll, 1)

	// Storing works again after a wipe.
	_, err = s.Store(ctx, "fresh start", models.MemoryEpisodic, "alice", nil)
	require.NoError(t, err)
}

func TestStats(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	stats := s.Stats("alice")
	assert.Equal(t, 0, stats.Total)

	_, err := s.Store(ctx, "a", models.MemoryEpisodic, "alice", nil)
	require.NoError(t, err)
	_, err = s.Store(ctx, "b", models.MemoryEpisodic, "alice", nil)
	require.NoError(t, err)
	_, err = s.Store(ctx, "c", models.MemorySemantic, "alice", nil)
	require.NoError(t, err)

	stats = s.Stats("alice")
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByType[models.MemoryEpisodic])
	assert.Equal(t, 1, stats.ByType[models.MemorySemantic])
}

func TestUserIsolation(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	_, err := s.Store(ctx, "alice's secret", models.MemoryLongTerm, "alice", nil)
	require.NoError(t, err)

	results, err := s.Search(ctx, "alice's secret", "bob", "", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
