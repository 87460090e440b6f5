package models

import "time"

// TrainingConfig holds the process-wide training tunables. It is read
// by credit assignment (DiscountFactor) and the batch trigger
// (MaxEpisodesPerBatch, TrainingEnabled).
type TrainingConfig struct {
	RewardThreshold     float64 `json:"reward_threshold" yaml:"reward_threshold"`
	MaxEpisodesPerBatch int     `json:"max_episodes_per_batch" yaml:"max_episodes_per_batch"`
	LearningRate        float64 `json:"learning_rate" yaml:"learning_rate"`
	DiscountFactor      float64 `json:"discount_factor" yaml:"discount_factor"`
	TrainingEnabled     bool    `json:"training_enabled" yaml:"training_enabled"`
}

// DefaultTrainingConfig returns the initial tunables.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		RewardThreshold:     0.7,
		MaxEpisodesPerBatch: 10,
		LearningRate:        0.001,
		DiscountFactor:      0.99,
		TrainingEnabled:     true,
	}
}

// ConfigUpdate is a field-by-field patch for TrainingConfig.
// Nil fields keep their prior values.
type ConfigUpdate struct {
	RewardThreshold     *float64 `json:"reward_threshold,omitempty"`
	MaxEpisodesPerBatch *int     `json:"max_episodes_per_batch,omitempty"`
	LearningRate        *float64 `json:"learning_rate,omitempty"`
	DiscountFactor      *float64 `json:"discount_factor,omitempty"`
	TrainingEnabled     *bool    `json:"training_enabled,omitempty"`
}

// TrainingBatch is the reproducible batch descriptor handed to the
// training collaborator when the trigger fires.
type TrainingBatch struct {
	Timestamp        time.Time      `json:"timestamp"`
	NumEpisodes      int            `json:"num_episodes"`
	EpisodeIDs       []string       `json:"episode_ids"`
	TotalTransitions int            `json:"total_transitions"`
	AvgReward        float64        `json:"avg_reward"`
	Config           TrainingConfig `json:"config"`
}

// BatchReport describes the outcome of a batch-trigger evaluation.
// Exactly one of Batch or Message is meaningful: Triggered carries a
// batch, otherwise Message explains why no batch was produced.
type BatchReport struct {
	Triggered bool           `json:"triggered"`
	Batch     *TrainingBatch `json:"training_data,omitempty"`
	Message   string         `json:"message,omitempty"`
}
