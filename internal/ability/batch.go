package ability

import (
	"time"

	"github.com/bobagent/ability-mcp-go/internal/models"
)

// BatchSink receives packaged training batches. The handoff is
// synchronous and fire-and-forget: the store does not interpret the
// sink's behavior beyond producing the batch descriptor.
type BatchSink func(batch models.TrainingBatch)

// evaluateBatchTrigger decides whether enough completed episodes have
// accumulated to package a training batch. Called with the store lock
// held, after an episode transitions to completed.
//
// completed must be in natural store order (completion order); the
// batch takes exactly the last MaxEpisodesPerBatch entries.
func evaluateBatchTrigger(completed []*models.Episode, cfg models.TrainingConfig, now time.Time) models.BatchReport {
	if !cfg.TrainingEnabled {
		return models.BatchReport{Message: "Training disabled"}
	}

	if len(completed) < cfg.MaxEpisodesPerBatch {
		return models.BatchReport{Message: "Not enough episodes for training batch"}
	}

	selected := completed[len(completed)-cfg.MaxEpisodesPerBatch:]

	ids := make([]string, 0, len(selected))
	totalTransitions := 0
	rewardSum := 0.0
	for _, ep := range selected {
		ids = append(ids, ep.ID)
		totalTransitions += len(ep.Transitions)
		rewardSum += ep.TotalReward
	}

	batch := models.TrainingBatch{
		Timestamp:        now,
		NumEpisodes:      len(selected),
		EpisodeIDs:       ids,
		TotalTransitions: totalTransitions,
		AvgReward:        rewardSum / float64(len(selected)),
		Config:           cfg,
	}

	return models.BatchReport{
		Triggered: true,
		Batch:     &batch,
		Message:   "Training batch prepared",
	}
}
