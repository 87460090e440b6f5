// Package observability implements in-process tracing, metrics, and
// trace evaluation for agent executions.
package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bobagent/ability-mcp-go/internal/models"
)

var (
	// ErrTraceNotFound is returned when no trace exists with the given ID.
	ErrTraceNotFound = errors.New("trace not found")

	// ErrSpanNotFound is returned when a trace has no span with the given ID.
	ErrSpanNotFound = errors.New("span not found")
)

// Evaluation thresholds, in milliseconds where applicable.
const (
	goodSuccessRate  = 0.8
	goodAvgDuration  = 5000
	lowErrorRate     = 0.1
	efficientAvgTime = 3000
)

// Store holds traces and metrics in memory.
type Store struct {
	mu      sync.RWMutex
	traces  map[string]*models.Trace
	order   []string
	metrics []models.Metric
	current string

	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates an empty observability store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		traces: make(map[string]*models.Trace),
		logger: logger,
		now:    time.Now,
	}
}

// StartTrace opens a new trace and makes it the current one.
func (s *Store) StartTrace(name string, attributes map[string]any) models.Trace {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	tr := &models.Trace{
		ID:         "trace_" + now.Format("20060102_150405") + fmt.Sprintf("_%06d", now.Nanosecond()/1000),
		Name:       name,
		Attributes: attributes,
		Spans:      []models.Span{},
		Status:     models.TraceActive,
		StartTime:  now,
	}

	s.traces[tr.ID] = tr
	s.order = append(s.order, tr.ID)
	s.current = tr.ID

	s.logger.Debug("trace started", "trace_id", tr.ID, "name", name)
	return copyTrace(tr)
}

// AddSpan opens a new span inside a trace and returns it.
func (s *Store) AddSpan(traceID, name, spanType string, attributes map[string]any) (models.Span, error) {
	if spanType == "" {
		spanType = "tool"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tr, ok := s.traces[traceID]
	if !ok {
		return models.Span{}, fmt.Errorf("%w: %s", ErrTraceNotFound, traceID)
	}

	span := models.Span{
		ID:         fmt.Sprintf("span_%d", len(tr.Spans)+1),
		Name:       name,
		Type:       spanType,
		Attributes: attributes,
		Status:     models.TraceActive,
		StartTime:  s.now().UTC(),
	}
	tr.Spans = append(tr.Spans, span)

	s.logger.Debug("span added", "trace_id", traceID, "span_id", span.ID, "type", spanType)
	return span, nil
}

// EndSpan closes a span with the given status. An empty status counts
// as success. Returns the span's duration in milliseconds.
func (s *Store) EndSpan(traceID, spanID, status, errMsg string) (float64, error) {
	if status == "" {
		status = models.TraceSuccess
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tr, ok := s.traces[traceID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrTraceNotFound, traceID)
	}

	for i := range tr.Spans {
		if tr.Spans[i].ID != spanID {
			continue
		}

		now := s.now().UTC()
		span := &tr.Spans[i]
		span.EndTime = &now
		span.Status = status
		span.Error = errMsg
		span.DurationMs = float64(now.Sub(span.StartTime)) / float64(time.Millisecond)

		s.logger.Debug("span ended", "trace_id", traceID, "span_id", spanID,
			"status", status, "duration_ms", span.DurationMs)
		return span.DurationMs, nil
	}

	return 0, fmt.Errorf("%w: %s in trace %s", ErrSpanNotFound, spanID, traceID)
}

// EndTrace closes a trace. An empty status counts as success. Returns
// the trace's duration in milliseconds and its span count.
func (s *Store) EndTrace(traceID, status string) (float64, int, error) {
	if status == "" {
		status = models.TraceSuccess
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tr, ok := s.traces[traceID]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrTraceNotFound, traceID)
	}

	now := s.now().UTC()
	tr.EndTime = &now
	tr.Status = status
	tr.DurationMs = float64(now.Sub(tr.StartTime)) / float64(time.Millisecond)

	if s.current == traceID {
		s.current = ""
	}

	s.logger.Info("trace ended", "trace_id", traceID, "status", status,
		"duration_ms", tr.DurationMs, "spans", len(tr.Spans))
	return tr.DurationMs, len(tr.Spans), nil
}

// GetTrace returns a copy of the trace with all its spans.
func (s *Store) GetTrace(traceID string) (models.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tr, ok := s.traces[traceID]
	if !ok {
		return models.Trace{}, fmt.Errorf("%w: %s", ErrTraceNotFound, traceID)
	}
	return copyTrace(tr), nil
}

// AllTraces returns all traces in creation order.
func (s *Store) AllTraces() []models.Trace {
	s.mu.RLock()
	defer s.mu.RUnlock()

	traces := make([]models.Trace, 0, len(s.order))
	for _, id := range s.order {
		traces = append(traces, copyTrace(s.traces[id]))
	}
	return traces
}

// RecordMetric appends a metric sample and returns it with its
// timestamp filled in.
func (s *Store) RecordMetric(name string, value float64, labels map[string]string) models.Metric {
	s.mu.Lock()
	defer s.mu.Unlock()

	metric := models.Metric{
		Name:      name,
		Value:     value,
		Labels:    labels,
		Timestamp: s.now().UTC(),
	}
	s.metrics = append(s.metrics, metric)
	return metric
}

// Metrics returns recorded metrics, optionally filtered by name and by
// a lower timestamp bound.
func (s *Store) Metrics(name string, since *time.Time) []models.Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]models.Metric, 0, len(s.metrics))
	for _, m := range s.metrics {
		if name != "" && m.Name != name {
			continue
		}
		if since != nil && m.Timestamp.Before(*since) {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

// Evaluate grades a trace from its span outcomes.
func (s *Store) Evaluate(traceID string) (models.TraceEvaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tr, ok := s.traces[traceID]
	if !ok {
		return models.TraceEvaluation{}, fmt.Errorf("%w: %s", ErrTraceNotFound, traceID)
	}

	eval := models.TraceEvaluation{TraceID: traceID, TotalSpans: len(tr.Spans)}

	var durations []float64
	for _, span := range tr.Spans {
		switch span.Status {
		case models.TraceSuccess:
			eval.SuccessfulSpans++
		case models.TraceError:
			eval.ErrorSpans++
		}
		if span.EndTime != nil {
			durations = append(durations, span.DurationMs)
		}
	}

	if eval.TotalSpans > 0 {
		eval.SuccessRate = float64(eval.SuccessfulSpans) / float64(eval.TotalSpans)
		eval.ErrorRate = float64(eval.ErrorSpans) / float64(eval.TotalSpans)
	}

	if len(durations) > 0 {
		eval.MinDurationMs = durations[0]
		eval.MaxDurationMs = durations[0]
		var sum float64
		for _, d := range durations {
			sum += d
			if d < eval.MinDurationMs {
				eval.MinDurationMs = d
			}
			if d > eval.MaxDurationMs {
				eval.MaxDurationMs = d
			}
		}
		eval.AvgDurationMs = sum / float64(len(durations))
	}

	eval.Performance = "needs_improvement"
	if eval.SuccessRate >= goodSuccessRate && eval.AvgDurationMs < goodAvgDuration {
		eval.Performance = "good"
	}
	eval.Reliability = "low"
	if eval.ErrorRate <= lowErrorRate {
		eval.Reliability = "high"
	}
	eval.Efficiency = "slow"
	if eval.AvgDurationMs < efficientAvgTime {
		eval.Efficiency = "efficient"
	}

	return eval, nil
}

// Current returns the ID of the most recently started unfinished
// trace, or "" when none is active.
func (s *Store) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func copyTrace(tr *models.Trace) models.Trace {
	out := *tr
	out.Spans = make([]models.Span, len(tr.Spans))
	copy(out.Spans, tr.Spans)
	return out
}
