package observability

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobagent/ability-mcp-go/internal/models"
)

func newTestStore() *Store {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return NewStore(logger)
}

// advanceClock pins the store clock to base and returns a function
// that moves it forward.
func advanceClock(s *Store, base time.Time) func(d time.Duration) {
	current := base
	s.now = func() time.Time { return current }
	return func(d time.Duration) { current = current.Add(d) }
}

func TestStartAndEndTrace(t *testing.T) {
	s := newTestStore()
	advance := advanceClock(s, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	tr := s.StartTrace("agent run", map[string]any{"task": "demo"})
	assert.Contains(t, tr.ID, "trace_")
	assert.Equal(t, models.TraceActive, tr.Status)
	assert.Equal(t, tr.ID, s.Current())

	advance(250 * time.Millisecond)

	durationMs, totalSpans, err := s.EndTrace(tr.ID, "")
	require.NoError(t, err)
	assert.InDelta(t, 250, durationMs, 1e-9)
	assert.Equal(t, 0, totalSpans)
	assert.Empty(t, s.Current())

	got, err := s.GetTrace(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TraceSuccess, got.Status)
	require.NotNil(t, got.EndTime)
}

func TestEndTraceUnknown(t *testing.T) {
	s := newTestStore()

	_, _, err := s.EndTrace("trace_none", "success")
	require.ErrorIs(t, err, ErrTraceNotFound)
}

func TestSpanLifecycle(t *testing.T) {
	s := newTestStore()
	advance := advanceClock(s, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	tr := s.StartTrace("run", nil)

	span, err := s.AddSpan(tr.ID, "search", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "span_1", span.ID)
	assert.Equal(t, "tool", span.Type, "span type should default to tool")

	second, err := s.AddSpan(tr.ID, "think", "llm", nil)
	require.NoError(t, err)
	assert.Equal(t, "span_2", second.ID)

	advance(100 * time.Millisecond)

	durationMs, err := s.EndSpan(tr.ID, span.ID, "", "")
	require.NoError(t, err)
	assert.InDelta(t, 100, durationMs, 1e-9)

	_, err = s.EndSpan(tr.ID, "span_99", "success", "")
	require.ErrorIs(t, err, ErrSpanNotFound)

	_, err = s.EndSpan("trace_none", span.ID, "success", "")
	require.ErrorIs(t, err, ErrTraceNotFound)

	got, err := s.GetTrace(tr.ID)
	require.NoError(t, err)
	require.Len(t, got.Spans, 2)
	assert.Equal(t, models.TraceSuccess, got.Spans[0].Status)
	assert.Equal(t, models.TraceActive, got.Spans[1].Status)
}

func TestEndSpanRecordsError(t *testing.T) {
	s := newTestStore()

	tr := s.StartTrace("run", nil)
	span, err := s.AddSpan(tr.ID, "fetch", "tool", nil)
	require.NoError(t, err)

	_, err = s.EndSpan(tr.ID, span.ID, "error", "connection refused")
	require.NoError(t, err)

	got, err := s.GetTrace(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TraceError, got.Spans[0].Status)
	assert.Equal(t, "connection refused", got.Spans[0].Error)
}

func TestAllTracesOrder(t *testing.T) {
	s := newTestStore()

	first := s.StartTrace("first", nil)
	second := s.StartTrace("second", nil)

	traces := s.AllTraces()
	require.Len(t, traces, 2)
	assert.Equal(t, first.ID, traces[0].ID)
	assert.Equal(t, second.ID, traces[1].ID)
}

func TestMetricsFilters(t *testing.T) {
	s := newTestStore()
	advance := advanceClock(s, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	s.RecordMetric("latency_ms", 120, map[string]string{"tool": "search"})
	advance(time.Minute)
	cutoff := s.now()
	s.RecordMetric("latency_ms", 80, nil)
	s.RecordMetric("tokens", 512, nil)

	all := s.Metrics("", nil)
	assert.Len(t, all, 3)

	byName := s.Metrics("latency_ms", nil)
	assert.Len(t, byName, 2)

	recent := s.Metrics("", &cutoff)
	assert.Len(t, recent, 2)

	both := s.Metrics("latency_ms", &cutoff)
	require.Len(t, both, 1)
	assert.InDelta(t, 80, both[0].Value, 1e-9)
}

// endSpans is a helper that adds and ends spans with given statuses
// and per-span durations.
func endSpans(t *testing.T, s *Store, traceID string, advance func(time.Duration),
	statuses []string, duration time.Duration,
) {
	t.Helper()
	for _, status := range statuses {
		span, err := s.AddSpan(traceID, "step", "tool", nil)
		require.NoError(t, err)
		advance(duration)
		_, err = s.EndSpan(traceID, span.ID, status, "")
		require.NoError(t, err)
	}
}

func TestEvaluateHealthyTrace(t *testing.T) {
	s := newTestStore()
	advance := advanceClock(s, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	tr := s.StartTrace("run", nil)
	endSpans(t, s, tr.ID, advance, []string{"success", "success", "success", "success"}, 100*time.Millisecond)

	eval, err := s.Evaluate(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, eval.TotalSpans)
	assert.Equal(t, 4, eval.SuccessfulSpans)
	assert.InDelta(t, 1.0, eval.SuccessRate, 1e-9)
	assert.InDelta(t, 100, eval.AvgDurationMs, 1e-9)
	assert.Equal(t, "good", eval.Performance)
	assert.Equal(t, "high", eval.Reliability)
	assert.Equal(t, "efficient", eval.Efficiency)
}

func TestEvaluateUnreliableTrace(t *testing.T) {
	s := newTestStore()
	advance := advanceClock(s, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	tr := s.StartTrace("run", nil)
	endSpans(t, s, tr.ID, advance, []string{"success", "error", "error", "success"}, 100*time.Millisecond)

	eval, err := s.Evaluate(tr.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, eval.SuccessRate, 1e-9)
	assert.InDelta(t, 0.5, eval.ErrorRate, 1e-9)
	assert.Equal(t, "needs_improvement", eval.Performance)
	assert.Equal(t, "low", eval.Reliability)
}

func TestEvaluateSlowTrace(t *testing.T) {
	s := newTestStore()
	advance := advanceClock(s, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	tr := s.StartTrace("run", nil)
	endSpans(t, s, tr.ID, advance, []string{"success", "success"}, 6*time.Second)

	eval, err := s.Evaluate(tr.ID)
	require.NoError(t, err)
	assert.InDelta(t, 6000, eval.AvgDurationMs, 1e-9)
	assert.Equal(t, "needs_improvement", eval.Performance, "slow spans should pull performance down despite full success")
	assert.Equal(t, "slow", eval.Efficiency)
}

func TestEvaluateEmptyTrace(t *testing.T) {
	s := newTestStore()

	tr := s.StartTrace("idle", nil)

	eval, err := s.Evaluate(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, eval.TotalSpans)
	assert.Zero(t, eval.SuccessRate)
	assert.Equal(t, "needs_improvement", eval.Performance)
	assert.Equal(t, "high", eval.Reliability)
	assert.Equal(t, "efficient", eval.Efficiency)
}

func TestEvaluateUnknownTrace(t *testing.T) {
	s := newTestStore()

	_, err := s.Evaluate("trace_none")
	require.ErrorIs(t, err, ErrTraceNotFound)
}
