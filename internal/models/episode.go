package models

import "time"

// EpisodeStatus is the lifecycle state of an episode.
type EpisodeStatus string

const (
	// StatusActive means the episode is open and accepting transitions.
	StatusActive EpisodeStatus = "active"

	// StatusCompleted means the episode has ended and its transitions are frozen.
	StatusCompleted EpisodeStatus = "completed"
)

// TransitionKind distinguishes the two recorded step types.
type TransitionKind string

const (
	// KindModelCall is a call to a language model.
	KindModelCall TransitionKind = "llm_call"

	// KindToolCall is an invocation of a named tool.
	KindToolCall TransitionKind = "tool_call"
)

// Episode is one bounded agent run from goal to completion.
// Transitions are append-only while active and frozen once completed.
type Episode struct {
	ID          string         `json:"episode_id"`
	Goal        string         `json:"goal"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Transitions []Transition   `json:"transitions"`
	TotalReward float64        `json:"total_reward"`
	Status      EpisodeStatus  `json:"status"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     *time.Time     `json:"end_time,omitempty"`
	Success     *bool          `json:"success,omitempty"`
	Summary     *string        `json:"summary,omitempty"`

	// DurationSeconds is derived at completion (end - start).
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

// Transition is one recorded step within an episode. It belongs to
// exactly one episode and its index equals its append order.
type Transition struct {
	Kind      TransitionKind `json:"type"`
	Timestamp time.Time      `json:"timestamp"`

	// Model call fields (Kind == KindModelCall).
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
	Model  string `json:"model,omitempty"`

	// Tool call fields (Kind == KindToolCall).
	ToolName   string         `json:"tool_name,omitempty"`
	ToolInput  map[string]any `json:"tool_input,omitempty"`
	ToolOutput any            `json:"tool_output,omitempty"`

	Reward   float64        `json:"reward"`
	Metadata map[string]any `json:"metadata,omitempty"`

	// AdjustedReward is computed exactly once, at episode completion,
	// by temporal credit assignment. Nil while the episode is active.
	AdjustedReward *float64 `json:"adjusted_reward,omitempty"`
}

// EpisodeSummary is returned by ending an episode.
type EpisodeSummary struct {
	EpisodeID        string       `json:"episode_id"`
	EpisodeSuccess   bool         `json:"episode_success"`
	TotalReward      float64      `json:"total_reward"`
	DurationSeconds  float64      `json:"duration_seconds"`
	TransitionsCount int          `json:"transitions_count"`
	Training         *BatchReport `json:"training,omitempty"`
}

// TrainingStats aggregates counts over the whole store.
type TrainingStats struct {
	TotalEpisodes            int            `json:"total_episodes"`
	CompletedEpisodes        int            `json:"completed_episodes"`
	SuccessfulEpisodes       int            `json:"successful_episodes"`
	SuccessRate              float64        `json:"success_rate"`
	TotalTransitions         int            `json:"total_transitions"`
	AvgReward                float64        `json:"avg_reward"`
	AvgTransitionsPerEpisode float64        `json:"avg_transitions_per_episode"`
	TrainingConfig           TrainingConfig `json:"training_config"`
}
