package ability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobagent/ability-mcp-go/internal/models"
)

func transitionsWithRewards(rewards ...float64) []models.Transition {
	out := make([]models.Transition, len(rewards))
	for i, r := range rewards {
		out[i] = models.Transition{Kind: models.KindModelCall, Reward: r}
	}
	return out
}

func TestAssignCreditLastTransitionKeepsRawReward(t *testing.T) {
	trs := transitionsWithRewards(0.2, 0.9, 0.7)
	assignCredit(trs, 0.5)

	last := trs[len(trs)-1]
	require.NotNil(t, last.AdjustedReward)
	assert.InDelta(t, 0.7, *last.AdjustedReward, 1e-9)
}

func TestAssignCreditExponentialDiscount(t *testing.T) {
	gamma := 0.9
	rewards := []float64{0.3, 0.5, 0.8, 1.0, 0.6}
	trs := transitionsWithRewards(rewards...)
	assignCredit(trs, gamma)

	n := len(trs)
	for i, tr := range trs {
		require.NotNil(t, tr.AdjustedReward, "transition %d", i)
		want := rewards[i] * math.Pow(gamma, float64(n-i-1))
		assert.InDelta(t, want, *tr.AdjustedReward, 1e-9, "transition %d", i)
	}
}

func TestAssignCreditSingleTransition(t *testing.T) {
	trs := transitionsWithRewards(0.42)
	assignCredit(trs, 0.99)

	require.NotNil(t, trs[0].AdjustedReward)
	assert.InDelta(t, 0.42, *trs[0].AdjustedReward, 1e-9)
}

func TestAssignCreditEmptyListIsNoop(t *testing.T) {
	var trs []models.Transition
	assignCredit(trs, 0.99)
	assert.Empty(t, trs)
}

func TestAssignCreditGammaOneKeepsAllRewards(t *testing.T) {
	rewards := []float64{0.1, 0.2, 0.3}
	trs := transitionsWithRewards(rewards...)
	assignCredit(trs, 1.0)

	for i, tr := range trs {
		require.NotNil(t, tr.AdjustedReward)
		assert.InDelta(t, rewards[i], *tr.AdjustedReward, 1e-9)
	}
}
