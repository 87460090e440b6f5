package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bobagent/ability-mcp-go/internal/ability"
	"github.com/bobagent/ability-mcp-go/internal/models"
)

// ConfigureTrainingInput defines the input schema for configure_training.
// Omitted fields keep their current values.
type ConfigureTrainingInput struct {
	RewardThreshold     *float64 `json:"reward_threshold,omitempty" jsonschema:"Minimum reward threshold"`
	MaxEpisodesPerBatch *int     `json:"max_episodes_per_batch,omitempty" jsonschema:"Episodes per training batch (min 1)"`
	LearningRate        *float64 `json:"learning_rate,omitempty" jsonschema:"Learning rate for training (must be positive)"`
	DiscountFactor      *float64 `json:"discount_factor,omitempty" jsonschema:"Discount factor for future rewards, in (0 and 1]"`
	TrainingEnabled     *bool    `json:"training_enabled,omitempty" jsonschema:"Enable or disable training"`
}

// ClearEpisodesInput defines the (empty) input schema for clear_episodes.
type ClearEpisodesInput struct{}

// ClearEpisodesResult is the response from clear_episodes.
type ClearEpisodesResult struct {
	Cleared int    `json:"cleared"`
	Message string `json:"message"`
}

// NewConfigureTrainingHandler creates the configure_training tool handler.
func NewConfigureTrainingHandler(deps *Dependencies) mcp.ToolHandlerFor[ConfigureTrainingInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ConfigureTrainingInput) (
		*mcp.CallToolResult, any, error,
	) {
		cfg, err := deps.Store.Configure(models.ConfigUpdate{
			RewardThreshold:     input.RewardThreshold,
			MaxEpisodesPerBatch: input.MaxEpisodesPerBatch,
			LearningRate:        input.LearningRate,
			DiscountFactor:      input.DiscountFactor,
			TrainingEnabled:     input.TrainingEnabled,
		})
		if err != nil {
			if errors.Is(err, ability.ErrInvalidInput) {
				return ErrorResult(err.Error(), "Adjust the value and retry"), nil, nil
			}
			return ErrorResult(err.Error(), ""), nil, nil
		}

		deps.Logger.Info("configure_training completed")
		return JSONResult(map[string]any{"config": cfg}), nil, nil
	}
}

// NewClearEpisodesHandler creates the clear_episodes tool handler.
// Irreversibly discards all stored episodes.
func NewClearEpisodesHandler(deps *Dependencies) mcp.ToolHandlerFor[ClearEpisodesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ClearEpisodesInput) (
		*mcp.CallToolResult, any, error,
	) {
		count := deps.Store.Clear()

		deps.Logger.Info("clear_episodes completed", "cleared", count)
		return JSONResult(ClearEpisodesResult{
			Cleared: count,
			Message: formatCleared(count),
		}), nil, nil
	}
}

func formatCleared(count int) string {
	if count == 1 {
		return "Cleared 1 episode"
	}
	return fmt.Sprintf("Cleared %d episodes", count)
}
