package ability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateModelCall(t *testing.T) {
	est := HeuristicEstimator{}

	tests := []struct {
		name     string
		output   string
		metadata map[string]any
		want     float64
	}{
		{
			name:   "base reward only",
			output: "ok",
			want:   0.5,
		},
		{
			name:   "length bonus",
			output: strings.Repeat("x", 50),
			want:   0.7,
		},
		{
			name:   "length bonus upper bound inclusive",
			output: strings.Repeat("x", 1000),
			want:   0.7,
		},
		{
			name:   "too long for length bonus",
			output: strings.Repeat("x", 1001),
			want:   0.5,
		},
		{
			name:     "expected match is case-insensitive",
			output:   "The Answer Is FORTY-TWO",
			metadata: map[string]any{"expected": "forty-two"},
			want:     0.8,
		},
		{
			name:     "expected miss",
			output:   "no idea",
			metadata: map[string]any{"expected": "forty-two"},
			want:     0.5,
		},
		{
			name:     "both bonuses clamp to 1.0",
			output:   strings.Repeat("forty-two ", 10),
			metadata: map[string]any{"expected": "forty-two"},
			want:     1.0,
		},
		{
			name:     "non-string expected value",
			output:   "result: 42",
			metadata: map[string]any{"expected": 42},
			want:     0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := est.EstimateModelCall(tt.output, tt.metadata)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEstimateToolCall(t *testing.T) {
	est := HeuristicEstimator{}

	tests := []struct {
		name     string
		metadata map[string]any
		want     float64
	}{
		{"no metadata", nil, 0.6},
		{"success true", map[string]any{"success": true}, 1.0},
		{"success false", map[string]any{"success": false}, 0.6},
		{"success wrong type", map[string]any{"success": "yes"}, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := est.EstimateToolCall("search", map[string]any{"q": "x"}, tt.metadata)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
