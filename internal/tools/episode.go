package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bobagent/ability-mcp-go/internal/ability"
)

// StartEpisodeInput defines the input schema for the start_episode tool.
type StartEpisodeInput struct {
	Goal     string         `json:"goal" jsonschema:"required,The goal for this episode"`
	Metadata map[string]any `json:"metadata,omitempty" jsonschema:"Optional metadata for the episode"`
}

// StartEpisodeResult is the response from start_episode.
type StartEpisodeResult struct {
	EpisodeID string    `json:"episode_id"`
	Goal      string    `json:"goal"`
	StartTime time.Time `json:"start_time"`
}

// EndEpisodeInput defines the input schema for the end_episode tool.
type EndEpisodeInput struct {
	EpisodeID   string   `json:"episode_id" jsonschema:"required,ID of the episode"`
	Success     bool     `json:"success" jsonschema:"required,Whether the episode was successful"`
	FinalReward *float64 `json:"final_reward,omitempty" jsonschema:"Optional final reward to add"`
	Summary     string   `json:"summary,omitempty" jsonschema:"Optional summary of the episode"`
}

// GetEpisodeInput defines the input schema for the get_episode tool.
type GetEpisodeInput struct {
	EpisodeID string `json:"episode_id" jsonschema:"required,ID of the episode"`
}

// NewStartEpisodeHandler creates the start_episode tool handler.
// Opens a new training episode and makes it the current one.
func NewStartEpisodeHandler(deps *Dependencies) mcp.ToolHandlerFor[StartEpisodeInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StartEpisodeInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Goal == "" {
			return ErrorResult("Goal cannot be empty", "Provide a goal for the episode"), nil, nil
		}

		ep := deps.Store.StartEpisode(input.Goal, input.Metadata)

		deps.Logger.Info("start_episode completed", "episode_id", ep.ID)
		return JSONResult(StartEpisodeResult{
			EpisodeID: ep.ID,
			Goal:      ep.Goal,
			StartTime: ep.StartTime,
		}), nil, nil
	}
}

// NewEndEpisodeHandler creates the end_episode tool handler.
// Finalizes the episode, runs credit assignment, evaluates the batch
// trigger, and snapshots the episode to the archive when configured.
func NewEndEpisodeHandler(deps *Dependencies) mcp.ToolHandlerFor[EndEpisodeInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EndEpisodeInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.EpisodeID == "" {
			return ErrorResult("Episode ID cannot be empty", "Provide an episode_id"), nil, nil
		}

		summary, err := deps.Store.EndEpisode(input.EpisodeID, input.Success, input.FinalReward, input.Summary)
		if err != nil {
			return episodeErrorResult(input.EpisodeID, err), nil, nil
		}

		if deps.Archiver != nil {
			if ep, getErr := deps.Store.GetEpisode(input.EpisodeID); getErr == nil {
				if archErr := deps.Archiver.ArchiveEpisode(ctx, *ep); archErr != nil {
					deps.Logger.Warn("episode archive failed", "episode_id", input.EpisodeID, "error", archErr)
				}
			}
		}

		deps.Logger.Info("end_episode completed",
			"episode_id", input.EpisodeID,
			"total_reward", summary.TotalReward,
			"transitions", summary.TransitionsCount,
		)
		return JSONResult(summary), nil, nil
	}
}

// NewGetEpisodeHandler creates the get_episode tool handler.
func NewGetEpisodeHandler(deps *Dependencies) mcp.ToolHandlerFor[GetEpisodeInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetEpisodeInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.EpisodeID == "" {
			return ErrorResult("Episode ID cannot be empty", "Provide an episode_id"), nil, nil
		}

		ep, err := deps.Store.GetEpisode(input.EpisodeID)
		if err != nil {
			return episodeErrorResult(input.EpisodeID, err), nil, nil
		}

		deps.Logger.Debug("get_episode completed", "episode_id", input.EpisodeID)
		return JSONResult(map[string]any{"episode": ep}), nil, nil
	}
}

// episodeErrorResult maps store errors to tool error results with hints.
func episodeErrorResult(episodeID string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, ability.ErrNotFound):
		return ErrorResult(fmt.Sprintf("Episode %s not found", episodeID),
			"Use start_episode to create episodes")
	case errors.Is(err, ability.ErrInvalidState):
		return ErrorResult(fmt.Sprintf("Episode %s is not active", episodeID),
			"Completed episodes are frozen; start a new episode")
	case errors.Is(err, ability.ErrInvalidInput):
		return ErrorResult(err.Error(), "")
	default:
		return ErrorResult(err.Error(), "")
	}
}
