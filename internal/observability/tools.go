package observability

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bobagent/ability-mcp-go/internal/tools"
)

// Dependencies holds shared state injected into observability tool handlers.
type Dependencies struct {
	Store  *Store
	Logger *slog.Logger
}

// StartTraceInput defines the input schema for start_trace.
type StartTraceInput struct {
	Name       string         `json:"name" jsonschema:"required,Name of the trace"`
	Attributes map[string]any `json:"attributes,omitempty" jsonschema:"Optional attributes to attach to the trace"`
}

// AddSpanInput defines the input schema for add_span.
type AddSpanInput struct {
	TraceID    string         `json:"trace_id" jsonschema:"required,ID of the trace"`
	Name       string         `json:"name" jsonschema:"required,Name of the span"`
	SpanType   string         `json:"span_type,omitempty" jsonschema:"Type of span: tool llm or agent (default tool)"`
	Attributes map[string]any `json:"attributes,omitempty" jsonschema:"Optional attributes to attach to the span"`
}

// EndSpanInput defines the input schema for end_span.
type EndSpanInput struct {
	TraceID string `json:"trace_id" jsonschema:"required,ID of the trace"`
	SpanID  string `json:"span_id" jsonschema:"required,ID of the span"`
	Status  string `json:"status,omitempty" jsonschema:"Status of the span: success or error (default success)"`
	Error   string `json:"error,omitempty" jsonschema:"Optional error message when status is error"`
}

// EndTraceInput defines the input schema for end_trace.
type EndTraceInput struct {
	TraceID string `json:"trace_id" jsonschema:"required,ID of the trace"`
	Status  string `json:"status,omitempty" jsonschema:"Final status of the trace (default success)"`
}

// GetTraceInput defines the input schema for get_trace.
type GetTraceInput struct {
	TraceID string `json:"trace_id" jsonschema:"required,ID of the trace"`
}

// RecordMetricInput defines the input schema for record_metric.
type RecordMetricInput struct {
	Name   string            `json:"name" jsonschema:"required,Name of the metric"`
	Value  float64           `json:"value" jsonschema:"required,Metric value"`
	Labels map[string]string `json:"labels,omitempty" jsonschema:"Optional labels for the metric"`
}

// GetMetricsInput defines the input schema for get_metrics.
type GetMetricsInput struct {
	Name  string `json:"name,omitempty" jsonschema:"Optional filter by metric name"`
	Since string `json:"since,omitempty" jsonschema:"Optional RFC 3339 timestamp to filter metrics since"`
}

// EvaluatePerformanceInput defines the input schema for evaluate_performance.
type EvaluatePerformanceInput struct {
	TraceID string `json:"trace_id" jsonschema:"required,ID of the trace to evaluate"`
}

// NewStartTraceHandler creates the start_trace tool handler.
func NewStartTraceHandler(deps *Dependencies) mcp.ToolHandlerFor[StartTraceInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StartTraceInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Name == "" {
			return tools.ErrorResult("Trace name cannot be empty", "Provide a name for the trace"), nil, nil
		}

		tr := deps.Store.StartTrace(input.Name, input.Attributes)

		deps.Logger.Info("start_trace completed", "trace_id", tr.ID)
		return tools.JSONResult(map[string]any{
			"trace_id":   tr.ID,
			"name":       tr.Name,
			"start_time": tr.StartTime,
		}), nil, nil
	}
}

// NewAddSpanHandler creates the add_span tool handler.
func NewAddSpanHandler(deps *Dependencies) mcp.ToolHandlerFor[AddSpanInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AddSpanInput) (
		*mcp.CallToolResult, any, error,
	) {
		span, err := deps.Store.AddSpan(input.TraceID, input.Name, input.SpanType, input.Attributes)
		if err != nil {
			return traceErrorResult(err), nil, nil
		}

		return tools.JSONResult(map[string]any{
			"trace_id": input.TraceID,
			"span_id":  span.ID,
			"name":     span.Name,
			"type":     span.Type,
		}), nil, nil
	}
}

// NewEndSpanHandler creates the end_span tool handler.
func NewEndSpanHandler(deps *Dependencies) mcp.ToolHandlerFor[EndSpanInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EndSpanInput) (
		*mcp.CallToolResult, any, error,
	) {
		durationMs, err := deps.Store.EndSpan(input.TraceID, input.SpanID, input.Status, input.Error)
		if err != nil {
			return traceErrorResult(err), nil, nil
		}

		return tools.JSONResult(map[string]any{
			"trace_id":    input.TraceID,
			"span_id":     input.SpanID,
			"status":      spanStatus(input.Status),
			"duration_ms": durationMs,
		}), nil, nil
	}
}

// NewEndTraceHandler creates the end_trace tool handler.
func NewEndTraceHandler(deps *Dependencies) mcp.ToolHandlerFor[EndTraceInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EndTraceInput) (
		*mcp.CallToolResult, any, error,
	) {
		durationMs, totalSpans, err := deps.Store.EndTrace(input.TraceID, input.Status)
		if err != nil {
			return traceErrorResult(err), nil, nil
		}

		deps.Logger.Info("end_trace completed", "trace_id", input.TraceID)
		return tools.JSONResult(map[string]any{
			"trace_id":    input.TraceID,
			"status":      spanStatus(input.Status),
			"duration_ms": durationMs,
			"total_spans": totalSpans,
		}), nil, nil
	}
}

// NewGetTraceHandler creates the get_trace tool handler.
func NewGetTraceHandler(deps *Dependencies) mcp.ToolHandlerFor[GetTraceInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetTraceInput) (
		*mcp.CallToolResult, any, error,
	) {
		tr, err := deps.Store.GetTrace(input.TraceID)
		if err != nil {
			return traceErrorResult(err), nil, nil
		}

		return tools.JSONResult(map[string]any{"trace": tr}), nil, nil
	}
}

// NewGetAllTracesHandler creates the get_all_traces tool handler.
func NewGetAllTracesHandler(deps *Dependencies) mcp.ToolHandlerFor[struct{}, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (
		*mcp.CallToolResult, any, error,
	) {
		traces := deps.Store.AllTraces()
		return tools.JSONResult(map[string]any{
			"traces": traces,
			"count":  len(traces),
		}), nil, nil
	}
}

// NewRecordMetricHandler creates the record_metric tool handler.
func NewRecordMetricHandler(deps *Dependencies) mcp.ToolHandlerFor[RecordMetricInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RecordMetricInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Name == "" {
			return tools.ErrorResult("Metric name cannot be empty", "Provide a name for the metric"), nil, nil
		}

		metric := deps.Store.RecordMetric(input.Name, input.Value, input.Labels)
		return tools.JSONResult(map[string]any{"metric": metric}), nil, nil
	}
}

// NewGetMetricsHandler creates the get_metrics tool handler.
func NewGetMetricsHandler(deps *Dependencies) mcp.ToolHandlerFor[GetMetricsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetMetricsInput) (
		*mcp.CallToolResult, any, error,
	) {
		var since *time.Time
		if input.Since != "" {
			parsed, err := time.Parse(time.RFC3339, input.Since)
			if err != nil {
				return tools.ErrorResult("Invalid since timestamp: "+input.Since,
					"Use RFC 3339 format, e.g. 2026-01-02T15:04:05Z"), nil, nil
			}
			since = &parsed
		}

		metrics := deps.Store.Metrics(input.Name, since)
		return tools.JSONResult(map[string]any{
			"metrics": metrics,
			"count":   len(metrics),
		}), nil, nil
	}
}

// NewEvaluatePerformanceHandler creates the evaluate_performance tool handler.
func NewEvaluatePerformanceHandler(deps *Dependencies) mcp.ToolHandlerFor[EvaluatePerformanceInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EvaluatePerformanceInput) (
		*mcp.CallToolResult, any, error,
	) {
		eval, err := deps.Store.Evaluate(input.TraceID)
		if err != nil {
			return traceErrorResult(err), nil, nil
		}

		deps.Logger.Info("evaluate_performance completed",
			"trace_id", input.TraceID, "performance", eval.Performance)
		return tools.JSONResult(map[string]any{"evaluation": eval}), nil, nil
	}
}

func spanStatus(status string) string {
	if status == "" {
		return "success"
	}
	return status
}

// traceErrorResult maps store errors to tool error results with hints.
func traceErrorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, ErrTraceNotFound):
		return tools.ErrorResult(err.Error(), "Use start_trace to create traces")
	case errors.Is(err, ErrSpanNotFound):
		return tools.ErrorResult(err.Error(), "Use add_span to create spans")
	default:
		return tools.ErrorResult(err.Error(), "")
	}
}

// RegisterAll registers every observability tool on the MCP server.
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "start_trace",
		Description: "Start a new trace for monitoring agent execution",
	}, NewStartTraceHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_span",
		Description: "Add a span to an existing trace",
	}, NewAddSpanHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "end_span",
		Description: "End a span and mark its completion status",
	}, NewEndSpanHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "end_trace",
		Description: "End a trace and finalize its data",
	}, NewEndTraceHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_trace",
		Description: "Retrieve a complete trace with all its spans",
	}, NewGetTraceHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_all_traces",
		Description: "Retrieve all traces",
	}, NewGetAllTracesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "record_metric",
		Description: "Record a performance metric",
	}, NewRecordMetricHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_metrics",
		Description: "Retrieve recorded metrics, optionally filtered by name and time",
	}, NewGetMetricsHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "evaluate_performance",
		Description: "Evaluate the performance of a trace from its span outcomes",
	}, NewEvaluatePerformanceHandler(deps))
}
