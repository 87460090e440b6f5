package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GetTrainingStatsInput defines the (empty) input schema for get_training_stats.
type GetTrainingStatsInput struct{}

// ServerStatsInput defines the (empty) input schema for get_server_stats.
type ServerStatsInput struct{}

// NewGetTrainingStatsHandler creates the get_training_stats tool handler.
// Aggregates episode counts, success rate and reward averages.
func NewGetTrainingStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[GetTrainingStatsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetTrainingStatsInput) (
		*mcp.CallToolResult, any, error,
	) {
		stats := deps.Store.Stats()

		deps.Logger.Debug("get_training_stats completed",
			"total_episodes", stats.TotalEpisodes,
			"completed", stats.CompletedEpisodes,
		)
		return JSONResult(map[string]any{"stats": stats}), nil, nil
	}
}

// NewServerStatsHandler creates the get_server_stats tool handler,
// exposing per-operation runtime timings from the metrics collector.
func NewServerStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[ServerStatsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ServerStatsInput) (
		*mcp.CallToolResult, any, error,
	) {
		if deps.Collector == nil {
			return ErrorResult("Server metrics are not enabled", ""), nil, nil
		}
		return JSONResult(deps.Collector.Snapshot()), nil, nil
	}
}
