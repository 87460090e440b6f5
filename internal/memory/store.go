// Package memory implements the layered agent memory store backed by
// an embedded vector database.
package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/bobagent/ability-mcp-go/internal/embedding"
	"github.com/bobagent/ability-mcp-go/internal/models"
)

var (
	// ErrNotFound is returned when no memory exists with the given ID.
	ErrNotFound = errors.New("memory not found")

	// ErrInvalidType is returned for unknown memory types.
	ErrInvalidType = errors.New("invalid memory type")
)

// entry pairs a memory with its revision history. The map of entries
// is the source of truth; chromem holds the vectors for search.
type entry struct {
	memory    models.Memory
	revisions []models.MemoryRevision
}

// Store is a per-user, typed memory store with semantic search.
type Store struct {
	mu          sync.RWMutex
	db          *chromem.DB
	collections map[string]*chromem.Collection
	entries     map[string]map[string]*entry // userID -> memoryID -> entry

	embedder embedding.Embedder
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore creates a memory store using the given embedder.
func NewStore(embedder embedding.Embedder, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:          chromem.NewDB(),
		collections: make(map[string]*chromem.Collection),
		entries:     make(map[string]map[string]*entry),
		embedder:    embedder,
		logger:      logger,
		now:         time.Now,
	}
}

// collection returns the per-user chromem collection, creating it on
// first use. Caller must hold mu.
func (s *Store) collectionLocked(userID string) (*chromem.Collection, error) {
	if col, ok := s.collections[userID]; ok {
		return col, nil
	}

	col, err := s.db.CreateCollection("user_"+userID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	s.collections[userID] = col
	return col, nil
}

// Store saves a new memory and returns it with its generated ID.
func (s *Store) Store(ctx context.Context, content string, memType models.MemoryType,
	userID string, metadata map[string]any,
) (models.Memory, error) {
	if !models.ValidMemoryType(memType) {
		return models.Memory{}, fmt.Errorf("%w: %q (known: %v)", ErrInvalidType, memType, models.MemoryTypes)
	}
	if content == "" {
		return models.Memory{}, fmt.Errorf("%w: content cannot be empty", ErrInvalidType)
	}

	vector, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return models.Memory{}, fmt.Errorf("embed memory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	mem := models.Memory{
		ID:       generateMemoryID(now),
		Content:  content,
		Type:     memType,
		UserID:   userID,
		Metadata: metadata,
		Created:  now,
		Updated:  now,
	}

	col, err := s.collectionLocked(userID)
	if err != nil {
		return models.Memory{}, err
	}

	if err := col.AddDocument(ctx, chromem.Document{
		ID:        mem.ID,
		Content:   content,
		Embedding: vector,
		Metadata: map[string]string{
			"memory_type": string(memType),
			"user_id":     userID,
		},
	}); err != nil {
		return models.Memory{}, fmt.Errorf("add document: %w", err)
	}

	if s.entries[userID] == nil {
		s.entries[userID] = make(map[string]*entry)
	}
	s.entries[userID][mem.ID] = &entry{
		memory: mem,
		revisions: []models.MemoryRevision{
			{Content: content, Event: "created", Timestamp: now},
		},
	}

	s.logger.Debug("memory stored", "memory_id", mem.ID, "type", memType, "user_id", userID)
	return mem, nil
}

// Search returns memories semantically similar to query, best first.
// A non-empty memType restricts results to that type.
func (s *Store) Search(ctx context.Context, query, userID string,
	memType models.MemoryType, limit int,
) ([]models.MemorySearchResult, error) {
	if memType != "" && !models.ValidMemoryType(memType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, memType)
	}
	if limit <= 0 {
		limit = 10
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[userID]
	if !ok || col.Count() == 0 {
		return nil, nil
	}

	// chromem rejects nResults larger than the collection.
	n := limit
	if count := col.Count(); n > count {
		n = count
	}

	var where map[string]string
	if memType != "" {
		where = map[string]string{"memory_type": string(memType)}
	}

	results, err := col.QueryEmbedding(ctx, vector, n, where, nil)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}

	matches := make([]models.MemorySearchResult, 0, len(results))
	for _, r := range results {
		ent, ok := s.entries[userID][r.ID]
		if !ok {
			continue
		}
		matches = append(matches, models.MemorySearchResult{
			Memory: ent.memory,
			Score:  r.Similarity,
		})
	}
	return matches, nil
}

// GetAll returns all of a user's memories, newest first. A non-empty
// memType restricts results to that type.
func (s *Store) GetAll(userID string, memType models.MemoryType) ([]models.Memory, error) {
	if memType != "" && !models.ValidMemoryType(memType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, memType)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	memories := make([]models.Memory, 0, len(s.entries[userID]))
	for _, ent := range s.entries[userID] {
		if memType != "" && ent.memory.Type != memType {
			continue
		}
		memories = append(memories, ent.memory)
	}

	sort.Slice(memories, func(i, j int) bool {
		if memories[i].Created.Equal(memories[j].Created) {
			return memories[i].ID > memories[j].ID
		}
		return memories[i].Created.After(memories[j].Created)
	})
	return memories, nil
}

// Update replaces a memory's content, re-embeds it, and appends a
// revision to its history.
func (s *Store) Update(ctx context.Context, userID, memoryID, content string) (models.Memory, error) {
	if content == "" {
		return models.Memory{}, fmt.Errorf("%w: content cannot be empty", ErrInvalidType)
	}

	vector, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return models.Memory{}, fmt.Errorf("embed memory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[userID][memoryID]
	if !ok {
		return models.Memory{}, fmt.Errorf("%w: %s", ErrNotFound, memoryID)
	}

	col, err := s.collectionLocked(userID)
	if err != nil {
		return models.Memory{}, err
	}

	// Replace the stored vector: chromem has no update, so delete and re-add.
	if err := col.Delete(ctx, nil, nil, memoryID); err != nil {
		return models.Memory{}, fmt.Errorf("delete old document: %w", err)
	}
	if err := col.AddDocument(ctx, chromem.Document{
		ID:        memoryID,
		Content:   content,
		Embedding: vector,
		Metadata: map[string]string{
			"memory_type": string(ent.memory.Type),
			"user_id":     userID,
		},
	}); err != nil {
		return models.Memory{}, fmt.Errorf("add document: %w", err)
	}

	now := s.now().UTC()
	ent.memory.Content = content
	ent.memory.Updated = now
	ent.revisions = append(ent.revisions, models.MemoryRevision{
		Content: content, Event: "updated", Timestamp: now,
	})

	s.logger.Debug("memory updated", "memory_id", memoryID, "user_id", userID)
	return ent.memory, nil
}

// Delete removes a single memory.
func (s *Store) Delete(ctx context.Context, userID, memoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[userID][memoryID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, memoryID)
	}

	if col, ok := s.collections[userID]; ok {
		if err := col.Delete(ctx, nil, nil, memoryID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
	}
	delete(s.entries[userID], memoryID)

	s.logger.Debug("memory deleted", "memory_id", memoryID, "user_id", userID)
	return nil
}

// DeleteAll removes every memory belonging to a user and returns how
// many were removed.
func (s *Store) DeleteAll(userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.entries[userID])
	delete(s.entries, userID)

	if _, ok := s.collections[userID]; ok {
		if err := s.db.DeleteCollection("user_" + userID); err != nil {
			return 0, fmt.Errorf("delete collection: %w", err)
		}
		delete(s.collections, userID)
	}

	s.logger.Debug("memories cleared", "user_id", userID, "count", count)
	return count, nil
}

// History returns the revision history of a memory, oldest first.
func (s *Store) History(userID, memoryID string) ([]models.MemoryRevision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ent, ok := s.entries[userID][memoryID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, memoryID)
	}

	history := make([]models.MemoryRevision, len(ent.revisions))
	copy(history, ent.revisions)
	return history, nil
}

// generateMemoryID creates a sortable unique memory ID.
func generateMemoryID(now time.Time) string {
	return "mem_" + now.Format("20060102T150405") + "_" + uuid.NewString()[:8]
}

// Stats summarizes a user's stored memories.
func (s *Store) Stats(userID string) models.MemoryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.MemoryStats{ByType: make(map[models.MemoryType]int)}
	for _, ent := range s.entries[userID] {
		stats.Total++
		stats.ByType[ent.memory.Type]++
	}
	return stats
}
