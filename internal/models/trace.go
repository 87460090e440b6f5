package models

import "time"

// TraceStatus marks a trace or span as in-flight or finished.
const (
	TraceActive  = "active"
	TraceSuccess = "success"
	TraceError   = "error"
)

// Trace is one monitored agent execution with its child spans.
type Trace struct {
	ID         string         `json:"trace_id"`
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Spans      []Span         `json:"spans"`
	Status     string         `json:"status"`
	StartTime  time.Time      `json:"start_time"`
	EndTime    *time.Time     `json:"end_time,omitempty"`
	DurationMs float64        `json:"duration_ms,omitempty"`
}

// Span is one timed operation inside a trace.
type Span struct {
	ID         string         `json:"span_id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"` // tool, llm, agent, ...
	Attributes map[string]any `json:"attributes,omitempty"`
	Status     string         `json:"status"`
	Error      string         `json:"error,omitempty"`
	StartTime  time.Time      `json:"start_time"`
	EndTime    *time.Time     `json:"end_time,omitempty"`
	DurationMs float64        `json:"duration_ms,omitempty"`
}

// Metric is one recorded performance measurement.
type Metric struct {
	Name      string            `json:"name"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// TraceEvaluation grades a finished trace from its span outcomes.
type TraceEvaluation struct {
	TraceID         string  `json:"trace_id"`
	TotalSpans      int     `json:"total_spans"`
	SuccessfulSpans int     `json:"successful_spans"`
	ErrorSpans      int     `json:"error_spans"`
	SuccessRate     float64 `json:"success_rate"`
	ErrorRate       float64 `json:"error_rate"`
	AvgDurationMs   float64 `json:"avg_duration_ms"`
	MaxDurationMs   float64 `json:"max_duration_ms"`
	MinDurationMs   float64 `json:"min_duration_ms"`

	Performance string `json:"performance"` // good / needs_improvement
	Reliability string `json:"reliability"` // high / low
	Efficiency  string `json:"efficiency"`  // efficient / slow
}
