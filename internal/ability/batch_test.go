package ability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobagent/ability-mcp-go/internal/models"
)

// completeEpisodes runs n start/record/end cycles and returns the last report.
func completeEpisodes(t *testing.T, s *Store, n int, reward float64) *models.BatchReport {
	t.Helper()
	var report *models.BatchReport
	for range n {
		ep := s.StartEpisode("goal", nil)
		_, _, err := s.RecordModelCall(ep.ID, "in", "out", "claude", floatPtr(reward), nil)
		require.NoError(t, err)
		summary, err := s.EndEpisode(ep.ID, true, nil, "")
		require.NoError(t, err)
		report = summary.Training
	}
	return report
}

func TestBatchTriggerFiresAtThreshold(t *testing.T) {
	s := testStore(t)
	_, err := s.Configure(models.ConfigUpdate{MaxEpisodesPerBatch: intPtr(3)})
	require.NoError(t, err)

	var batches []models.TrainingBatch
	s.sink = func(b models.TrainingBatch) { batches = append(batches, b) }

	report := completeEpisodes(t, s, 2, 0.5)
	require.NotNil(t, report)
	assert.False(t, report.Triggered)
	assert.Equal(t, "Not enough episodes for training batch", report.Message)
	assert.Empty(t, batches)

	report = completeEpisodes(t, s, 1, 0.5)
	require.NotNil(t, report)
	assert.True(t, report.Triggered)
	require.Len(t, batches, 1)
	assert.Equal(t, 3, batches[0].NumEpisodes)
	assert.Equal(t, 3, batches[0].TotalTransitions)
	assert.InDelta(t, 0.5, batches[0].AvgReward, 1e-9)
	assert.Len(t, batches[0].EpisodeIDs, 3)
}

func TestBatchTriggerSelectsMostRecentCompleted(t *testing.T) {
	s := testStore(t)
	_, err := s.Configure(models.ConfigUpdate{MaxEpisodesPerBatch: intPtr(2)})
	require.NoError(t, err)

	var lastBatch *models.TrainingBatch
	s.sink = func(b models.TrainingBatch) { lastBatch = &b }

	var ids []string
	for range 3 {
		ep := s.StartEpisode("goal", nil)
		ids = append(ids, ep.ID)
		_, err := s.EndEpisode(ep.ID, true, nil, "")
		require.NoError(t, err)
	}

	require.NotNil(t, lastBatch)
	// Last 2 completed episodes in store order.
	assert.Equal(t, []string{ids[1], ids[2]}, lastBatch.EpisodeIDs)
}

func TestBatchTriggerDisabled(t *testing.T) {
	s := testStore(t)
	_, err := s.Configure(models.ConfigUpdate{
		MaxEpisodesPerBatch: intPtr(1),
		TrainingEnabled:     boolPtr(false),
	})
	require.NoError(t, err)

	fired := false
	s.sink = func(models.TrainingBatch) { fired = true }

	report := completeEpisodes(t, s, 2, 0.5)
	require.NotNil(t, report)
	assert.False(t, report.Triggered)
	assert.Equal(t, "Training disabled", report.Message)
	assert.False(t, fired)
}

func TestBatchDescriptorSnapshotsConfig(t *testing.T) {
	s := testStore(t)
	_, err := s.Configure(models.ConfigUpdate{
		MaxEpisodesPerBatch: intPtr(1),
		LearningRate:        floatPtr(0.05),
	})
	require.NoError(t, err)

	var batch *models.TrainingBatch
	s.sink = func(b models.TrainingBatch) { batch = &b }

	completeEpisodes(t, s, 1, 0.9)

	require.NotNil(t, batch)
	assert.InDelta(t, 0.05, batch.Config.LearningRate, 1e-9)
	assert.Equal(t, 1, batch.Config.MaxEpisodesPerBatch)
	assert.False(t, batch.Timestamp.IsZero())
}
