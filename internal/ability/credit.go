package ability

import (
	"math"

	"github.com/bobagent/ability-mcp-go/internal/models"
)

// assignCredit redistributes credit across an episode's final
// transition list using exponential temporal discounting.
//
// For N transitions and discount factor gamma, transition i receives
//
//	adjusted_reward[i] = reward[i] * gamma^(N-i-1)
//
// so the last transition keeps its full raw reward and earlier ones
// are discounted the further they sit from the episode's end. Runs
// exactly once per episode, after the transition list is frozen.
func assignCredit(transitions []models.Transition, gamma float64) {
	n := len(transitions)
	if n == 0 {
		return
	}

	for i := range transitions {
		weight := math.Pow(gamma, float64(n-i-1))
		adjusted := transitions[i].Reward * weight
		transitions[i].AdjustedReward = &adjusted
	}
}
