package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bobagent/ability-mcp-go/internal/models"
	"github.com/bobagent/ability-mcp-go/internal/tools"
)

// Dependencies holds shared state injected into memory tool handlers.
type Dependencies struct {
	Store       *Store
	Logger      *slog.Logger
	DefaultUser string
}

func (d *Dependencies) user(userID string) string {
	if userID != "" {
		return userID
	}
	if d.DefaultUser != "" {
		return d.DefaultUser
	}
	return "default_user"
}

// StoreMemoryInput defines the input schema for store_memory.
type StoreMemoryInput struct {
	Content    string         `json:"content" jsonschema:"required,The memory content to store"`
	MemoryType string         `json:"memory_type" jsonschema:"required,One of episodic procedural semantic working long-term"`
	UserID     string         `json:"user_id,omitempty" jsonschema:"User identifier (default default_user)"`
	Metadata   map[string]any `json:"metadata,omitempty" jsonschema:"Optional metadata to store with the memory"`
}

// SearchMemoriesInput defines the input schema for search_memories.
type SearchMemoriesInput struct {
	Query      string `json:"query" jsonschema:"required,Search query"`
	UserID     string `json:"user_id,omitempty" jsonschema:"User identifier (default default_user)"`
	MemoryType string `json:"memory_type,omitempty" jsonschema:"Optional filter by memory type"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

// GetAllMemoriesInput defines the input schema for get_all_memories.
type GetAllMemoriesInput struct {
	UserID     string `json:"user_id,omitempty" jsonschema:"User identifier (default default_user)"`
	MemoryType string `json:"memory_type,omitempty" jsonschema:"Optional filter by memory type"`
}

// UpdateMemoryInput defines the input schema for update_memory.
type UpdateMemoryInput struct {
	MemoryID string `json:"memory_id" jsonschema:"required,ID of the memory to update"`
	Content  string `json:"content" jsonschema:"required,New content for the memory"`
	UserID   string `json:"user_id,omitempty" jsonschema:"User identifier (default default_user)"`
}

// DeleteMemoryInput defines the input schema for delete_memory.
type DeleteMemoryInput struct {
	MemoryID string `json:"memory_id" jsonschema:"required,ID of the memory to delete"`
	UserID   string `json:"user_id,omitempty" jsonschema:"User identifier (default default_user)"`
}

// DeleteAllMemoriesInput defines the input schema for delete_all_memories.
type DeleteAllMemoriesInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"User identifier (default default_user)"`
}

// MemoryHistoryInput defines the input schema for get_memory_history.
type MemoryHistoryInput struct {
	MemoryID string `json:"memory_id" jsonschema:"required,ID of the memory"`
	UserID   string `json:"user_id,omitempty" jsonschema:"User identifier (default default_user)"`
}

// MemoryStatsInput defines the input schema for get_memory_stats.
type MemoryStatsInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"User identifier (default default_user)"`
}

// NewStoreMemoryHandler creates the store_memory tool handler.
func NewStoreMemoryHandler(deps *Dependencies) mcp.ToolHandlerFor[StoreMemoryInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StoreMemoryInput) (
		*mcp.CallToolResult, any, error,
	) {
		mem, err := deps.Store.Store(ctx, input.Content,
			models.MemoryType(input.MemoryType), deps.user(input.UserID), input.Metadata)
		if err != nil {
			return memoryErrorResult(err), nil, nil
		}

		deps.Logger.Info("store_memory completed", "memory_id", mem.ID, "type", mem.Type)
		return tools.JSONResult(map[string]any{"memory": mem}), nil, nil
	}
}

// NewSearchMemoriesHandler creates the search_memories tool handler.
func NewSearchMemoriesHandler(deps *Dependencies) mcp.ToolHandlerFor[SearchMemoriesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchMemoriesInput) (
		*mcp.CallToolResult, any, error,
	) {
		results, err := deps.Store.Search(ctx, input.Query, deps.user(input.UserID),
			models.MemoryType(input.MemoryType), input.Limit)
		if err != nil {
			return memoryErrorResult(err), nil, nil
		}
		if results == nil {
			results = []models.MemorySearchResult{}
		}

		deps.Logger.Debug("search_memories completed", "query", input.Query, "count", len(results))
		return tools.JSONResult(map[string]any{
			"query":   input.Query,
			"results": results,
			"count":   len(results),
		}), nil, nil
	}
}

// NewGetAllMemoriesHandler creates the get_all_memories tool handler.
func NewGetAllMemoriesHandler(deps *Dependencies) mcp.ToolHandlerFor[GetAllMemoriesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetAllMemoriesInput) (
		*mcp.CallToolResult, any, error,
	) {
		userID := deps.user(input.UserID)
		memories, err := deps.Store.GetAll(userID, models.MemoryType(input.MemoryType))
		if err != nil {
			return memoryErrorResult(err), nil, nil
		}

		return tools.JSONResult(map[string]any{
			"user_id":  userID,
			"memories": memories,
			"count":    len(memories),
		}), nil, nil
	}
}

// NewUpdateMemoryHandler creates the update_memory tool handler.
func NewUpdateMemoryHandler(deps *Dependencies) mcp.ToolHandlerFor[UpdateMemoryInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input UpdateMemoryInput) (
		*mcp.CallToolResult, any, error,
	) {
		mem, err := deps.Store.Update(ctx, deps.user(input.UserID), input.MemoryID, input.Content)
		if err != nil {
			return memoryErrorResult(err), nil, nil
		}

		deps.Logger.Info("update_memory completed", "memory_id", mem.ID)
		return tools.JSONResult(map[string]any{"memory": mem}), nil, nil
	}
}

// NewDeleteMemoryHandler creates the delete_memory tool handler.
func NewDeleteMemoryHandler(deps *Dependencies) mcp.ToolHandlerFor[DeleteMemoryInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input DeleteMemoryInput) (
		*mcp.CallToolResult, any, error,
	) {
		if err := deps.Store.Delete(ctx, deps.user(input.UserID), input.MemoryID); err != nil {
			return memoryErrorResult(err), nil, nil
		}

		deps.Logger.Info("delete_memory completed", "memory_id", input.MemoryID)
		return tools.JSONResult(map[string]any{
			"memory_id": input.MemoryID,
			"message":   "Memory deleted successfully",
		}), nil, nil
	}
}

// NewDeleteAllMemoriesHandler creates the delete_all_memories tool handler.
func NewDeleteAllMemoriesHandler(deps *Dependencies) mcp.ToolHandlerFor[DeleteAllMemoriesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input DeleteAllMemoriesInput) (
		*mcp.CallToolResult, any, error,
	) {
		userID := deps.user(input.UserID)
		count, err := deps.Store.DeleteAll(userID)
		if err != nil {
			return memoryErrorResult(err), nil, nil
		}

		deps.Logger.Info("delete_all_memories completed", "user_id", userID, "count", count)
		return tools.JSONResult(map[string]any{
			"user_id": userID,
			"deleted": count,
			"message": "All memories deleted successfully",
		}), nil, nil
	}
}

// NewMemoryHistoryHandler creates the get_memory_history tool handler.
func NewMemoryHistoryHandler(deps *Dependencies) mcp.ToolHandlerFor[MemoryHistoryInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input MemoryHistoryInput) (
		*mcp.CallToolResult, any, error,
	) {
		history, err := deps.Store.History(deps.user(input.UserID), input.MemoryID)
		if err != nil {
			return memoryErrorResult(err), nil, nil
		}

		return tools.JSONResult(map[string]any{
			"memory_id": input.MemoryID,
			"history":   history,
		}), nil, nil
	}
}

// NewMemoryStatsHandler creates the get_memory_stats tool handler.
func NewMemoryStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[MemoryStatsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input MemoryStatsInput) (
		*mcp.CallToolResult, any, error,
	) {
		userID := deps.user(input.UserID)
		stats := deps.Store.Stats(userID)

		return tools.JSONResult(map[string]any{
			"user_id": userID,
			"stats":   stats,
		}), nil, nil
	}
}

// memoryErrorResult maps store errors to tool error results with hints.
func memoryErrorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, ErrNotFound):
		return tools.ErrorResult(err.Error(), "Use search_memories or get_all_memories to find valid IDs")
	case errors.Is(err, ErrInvalidType):
		return tools.ErrorResult(err.Error(),
			fmt.Sprintf("Valid types: %v", models.MemoryTypes))
	default:
		return tools.ErrorResult(err.Error(), "")
	}
}

// RegisterAll registers every memory tool on the MCP server.
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "store_memory",
		Description: "Store a new memory entry in the layered memory system",
	}, NewStoreMemoryHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_memories",
		Description: "Search for relevant memories using semantic search",
	}, NewSearchMemoriesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_all_memories",
		Description: "Retrieve all memories for a user, optionally filtered by type",
	}, NewGetAllMemoriesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_memory",
		Description: "Update an existing memory entry and record a revision",
	}, NewUpdateMemoryHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_memory",
		Description: "Delete a specific memory entry",
	}, NewDeleteMemoryHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_all_memories",
		Description: "Delete all memories for a user",
	}, NewDeleteAllMemoriesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_memory_history",
		Description: "Get the history of changes for a specific memory",
	}, NewMemoryHistoryHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_memory_stats",
		Description: "Get statistics about stored memories",
	}, NewMemoryStatsHandler(deps))
}
