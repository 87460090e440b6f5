package ability

import (
	"fmt"
	"strings"

	"github.com/bobagent/ability-mcp-go/internal/models"
)

// Reward heuristic constants. These are deliberately simple defaults;
// swap in a learned estimator by implementing RewardEstimator.
const (
	modelCallBaseReward = 0.5
	expectedMatchBonus  = 0.3
	goodLengthBonus     = 0.2
	toolCallBaseReward  = 0.6
	toolSuccessBonus    = 0.4
	maxReward           = 1.0
	goodOutputMinLen    = 50
	goodOutputMaxLen    = 1000
)

// RewardEstimator computes a default scalar reward for a transition
// when the caller supplies none. Implementations must be pure.
type RewardEstimator interface {
	// EstimateModelCall scores a model call from its output text and
	// optional metadata.
	EstimateModelCall(output string, metadata map[string]any) float64

	// EstimateToolCall scores a tool call from its name, output and
	// optional metadata.
	EstimateToolCall(toolName string, output any, metadata map[string]any) float64
}

// HeuristicEstimator is the default RewardEstimator.
//
// Model calls start at 0.5, gain 0.3 when the output contains the
// metadata "expected" string (case-insensitive) and 0.2 when the
// output length is between 50 and 1000 characters inclusive. Tool
// calls start at 0.6 and gain 0.4 when metadata declares success.
// Results are clamped to at most 1.0.
type HeuristicEstimator struct{}

var _ RewardEstimator = HeuristicEstimator{}

// EstimateModelCall implements RewardEstimator.
func (HeuristicEstimator) EstimateModelCall(output string, metadata map[string]any) float64 {
	reward := modelCallBaseReward

	if expected := expectedString(metadata); expected != "" {
		if strings.Contains(strings.ToLower(output), strings.ToLower(expected)) {
			reward += expectedMatchBonus
		}
	}

	if n := len(output); n >= goodOutputMinLen && n <= goodOutputMaxLen {
		reward += goodLengthBonus
	}

	return min(maxReward, reward)
}

// EstimateToolCall implements RewardEstimator.
func (HeuristicEstimator) EstimateToolCall(toolName string, output any, metadata map[string]any) float64 {
	reward := toolCallBaseReward

	if metadataSuccess(metadata) {
		reward += toolSuccessBonus
	}

	return min(maxReward, reward)
}

// expectedString extracts the documented "expected" metadata key,
// rendering non-string scalars as their string form.
func expectedString(metadata map[string]any) string {
	if metadata == nil {
		return ""
	}
	v, ok := metadata["expected"]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// metadataSuccess reports whether the documented "success" metadata
// key is set and truthy.
func metadataSuccess(metadata map[string]any) bool {
	if metadata == nil {
		return false
	}
	v, ok := metadata["success"].(bool)
	return ok && v
}

// estimate dispatches on transition kind.
func estimate(est RewardEstimator, t *models.Transition) float64 {
	if t.Kind == models.KindToolCall {
		return est.EstimateToolCall(t.ToolName, t.ToolOutput, t.Metadata)
	}
	return est.EstimateModelCall(t.Output, t.Metadata)
}
