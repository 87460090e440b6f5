package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RecordLLMCallInput defines the input schema for the record_llm_call tool.
type RecordLLMCallInput struct {
	EpisodeID  string         `json:"episode_id" jsonschema:"required,ID of the current episode"`
	InputText  string         `json:"input_text" jsonschema:"required,Input to the LLM"`
	OutputText string         `json:"output_text" jsonschema:"required,Output from the LLM"`
	Model      string         `json:"model,omitempty" jsonschema:"Name of the model used (default claude)"`
	Reward     *float64       `json:"reward,omitempty" jsonschema:"Optional reward for this call; estimated if omitted"`
	Metadata   map[string]any `json:"metadata,omitempty" jsonschema:"Optional metadata (expected key enables match bonus)"`
}

// RecordToolCallInput defines the input schema for the record_tool_call tool.
type RecordToolCallInput struct {
	EpisodeID  string         `json:"episode_id" jsonschema:"required,ID of the current episode"`
	ToolName   string         `json:"tool_name" jsonschema:"required,Name of the tool called"`
	InputData  map[string]any `json:"input_data,omitempty" jsonschema:"Input to the tool"`
	OutputData any            `json:"output_data,omitempty" jsonschema:"Output from the tool"`
	Reward     *float64       `json:"reward,omitempty" jsonschema:"Optional reward for this call; estimated if omitted"`
	Metadata   map[string]any `json:"metadata,omitempty" jsonschema:"Optional metadata (success key enables success bonus)"`
}

// RecordResult is the response from both record tools.
type RecordResult struct {
	EpisodeID    string  `json:"episode_id"`
	TransitionID int     `json:"transition_id"`
	Reward       float64 `json:"reward"`
}

// NewRecordLLMCallHandler creates the record_llm_call tool handler.
func NewRecordLLMCallHandler(deps *Dependencies) mcp.ToolHandlerFor[RecordLLMCallInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RecordLLMCallInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.EpisodeID == "" {
			return ErrorResult("Episode ID cannot be empty", "Provide an episode_id"), nil, nil
		}

		model := input.Model
		if model == "" {
			model = "claude"
		}

		index, reward, err := deps.Store.RecordModelCall(
			input.EpisodeID, input.InputText, input.OutputText, model, input.Reward, input.Metadata)
		if err != nil {
			return episodeErrorResult(input.EpisodeID, err), nil, nil
		}

		deps.Logger.Debug("record_llm_call completed",
			"episode_id", input.EpisodeID, "transition_id", index, "reward", reward)
		return JSONResult(RecordResult{
			EpisodeID:    input.EpisodeID,
			TransitionID: index,
			Reward:       reward,
		}), nil, nil
	}
}

// NewRecordToolCallHandler creates the record_tool_call tool handler.
func NewRecordToolCallHandler(deps *Dependencies) mcp.ToolHandlerFor[RecordToolCallInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RecordToolCallInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.EpisodeID == "" {
			return ErrorResult("Episode ID cannot be empty", "Provide an episode_id"), nil, nil
		}
		if input.ToolName == "" {
			return ErrorResult("Tool name cannot be empty", "Provide the tool_name that was called"), nil, nil
		}

		index, reward, err := deps.Store.RecordToolCall(
			input.EpisodeID, input.ToolName, input.InputData, input.OutputData, input.Reward, input.Metadata)
		if err != nil {
			return episodeErrorResult(input.EpisodeID, err), nil, nil
		}

		deps.Logger.Debug("record_tool_call completed",
			"episode_id", input.EpisodeID, "tool", input.ToolName, "transition_id", index, "reward", reward)
		return JSONResult(RecordResult{
			EpisodeID:    input.EpisodeID,
			TransitionID: index,
			Reward:       reward,
		}), nil, nil
	}
}
