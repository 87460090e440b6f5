package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all ability tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	// Ping tool - test/placeholder
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Test tool - responds with pong or echoes input",
	}, NewPingHandler(deps))

	// Episode lifecycle
	mcp.AddTool(server, &mcp.Tool{
		Name:        "start_episode",
		Description: "Start a new training episode for the agent",
	}, NewStartEpisodeHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "end_episode",
		Description: "End an episode, apply credit assignment, and evaluate the training batch trigger",
	}, NewEndEpisodeHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_episode",
		Description: "Retrieve episode data including transitions and adjusted rewards",
	}, NewGetEpisodeHandler(deps))

	// Transition recording
	mcp.AddTool(server, &mcp.Tool{
		Name:        "record_llm_call",
		Description: "Record an LLM call as part of agent execution",
	}, NewRecordLLMCallHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "record_tool_call",
		Description: "Record a tool call as part of agent execution",
	}, NewRecordToolCallHandler(deps))

	// Statistics and configuration
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_training_stats",
		Description: "Get aggregate training statistics across all episodes",
	}, NewGetTrainingStatsHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "configure_training",
		Description: "Update training parameters; omitted fields keep their current values",
	}, NewConfigureTrainingHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_episodes",
		Description: "Clear all stored episodes (irreversible)",
	}, NewClearEpisodesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_server_stats",
		Description: "Get per-operation server runtime statistics",
	}, NewServerStatsHandler(deps))
}
