package models

import "time"

// MemoryType classifies memories in the layered memory architecture.
type MemoryType string

const (
	MemoryEpisodic   MemoryType = "episodic"
	MemoryProcedural MemoryType = "procedural"
	MemorySemantic   MemoryType = "semantic"
	MemoryWorking    MemoryType = "working"
	MemoryLongTerm   MemoryType = "long-term"
)

// MemoryTypes lists the accepted memory types in a stable order.
var MemoryTypes = []MemoryType{
	MemoryEpisodic,
	MemoryProcedural,
	MemorySemantic,
	MemoryWorking,
	MemoryLongTerm,
}

// ValidMemoryType reports whether t is one of the known types.
func ValidMemoryType(t MemoryType) bool {
	for _, known := range MemoryTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Memory is one stored memory entry scoped to a user.
type Memory struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Type     MemoryType     `json:"memory_type"`
	UserID   string         `json:"user_id"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Created  time.Time      `json:"created"`
	Updated  time.Time      `json:"updated"`
}

// MemorySearchResult is a memory with its similarity score.
type MemorySearchResult struct {
	Memory
	Score float32 `json:"score"`
}

// MemoryRevision is one entry in a memory's change history.
type MemoryRevision struct {
	Content   string    `json:"content"`
	Event     string    `json:"event"` // "created" or "updated"
	Timestamp time.Time `json:"timestamp"`
}

// MemoryStats summarizes a user's stored memories.
type MemoryStats struct {
	Total  int                `json:"total"`
	ByType map[MemoryType]int `json:"by_type"`
}
