package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordAndSnapshot(t *testing.T) {
	c := NewCollector()

	c.Record("start_episode", 10*time.Millisecond, false)
	c.Record("start_episode", 30*time.Millisecond, false)
	c.Record("start_episode", 20*time.Millisecond, true)

	snap := c.Snapshot()
	op, ok := snap.Operations["start_episode"]
	require.True(t, ok)

	assert.Equal(t, int64(3), op.Count)
	assert.Equal(t, int64(1), op.Errors)
	assert.Equal(t, int64(60), op.TotalTimeMs)
	assert.InDelta(t, 20.0, op.AvgTimeMs, 1e-9)
	assert.Equal(t, int64(10), op.MinTimeMs)
	assert.Equal(t, int64(30), op.MaxTimeMs)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestCollectorEmptySnapshot(t *testing.T) {
	c := NewCollector()
	snap := c.Snapshot()
	assert.Empty(t, snap.Operations)
}

func TestCollectorConcurrentAccess(t *testing.T) {
	c := NewCollector()

	done := make(chan struct{})
	for range 4 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 100 {
				c.Record("op", time.Millisecond, false)
				_ = c.Snapshot()
			}
		}()
	}
	for range 4 {
		<-done
	}

	assert.Equal(t, int64(400), c.Snapshot().Operations["op"].Count)
}
