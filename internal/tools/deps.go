// Package tools provides MCP tool handlers and registration for the
// ability server.
package tools

import (
	"context"
	"log/slog"

	"github.com/bobagent/ability-mcp-go/internal/ability"
	"github.com/bobagent/ability-mcp-go/internal/metrics"
	"github.com/bobagent/ability-mcp-go/internal/models"
)

// Archiver snapshots completed episodes to external storage. Archiving
// is best-effort: failures are logged and never fail the tool call.
type Archiver interface {
	ArchiveEpisode(ctx context.Context, ep models.Episode) error
}

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Store     *ability.Store
	Archiver  Archiver // nil when archiving is disabled
	Collector *metrics.Collector
	Logger    *slog.Logger
}
