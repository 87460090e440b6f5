package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobagent/ability-mcp-go/internal/models"
)

// ErrNotFound indicates the requested episode snapshot does not exist.
var ErrNotFound = errors.New("archived episode not found")

// Record is one archived episode snapshot as stored in SurrealDB.
type Record struct {
	ID              surrealmodels.RecordID `json:"id,omitempty"`
	EpisodeID       string                 `json:"episode_id"`
	Goal            string                 `json:"goal"`
	Metadata        map[string]any         `json:"metadata,omitempty"`
	Transitions     []models.Transition    `json:"transitions"`
	TotalReward     float64                `json:"total_reward"`
	Status          string                 `json:"status"`
	Success         *bool                  `json:"success,omitempty"`
	Summary         *string                `json:"summary,omitempty"`
	StartTime       time.Time              `json:"start_time"`
	EndTime         *time.Time             `json:"end_time,omitempty"`
	DurationSeconds float64                `json:"duration_seconds"`
	ArchivedAt      time.Time              `json:"archived_at"`
}

// ArchiveEpisode stores a snapshot of a completed episode.
func (c *Client) ArchiveEpisode(ctx context.Context, ep models.Episode) error {
	rec := Record{
		EpisodeID:       ep.ID,
		Goal:            ep.Goal,
		Metadata:        ep.Metadata,
		Transitions:     ep.Transitions,
		TotalReward:     ep.TotalReward,
		Status:          string(ep.Status),
		Success:         ep.Success,
		Summary:         ep.Summary,
		StartTime:       ep.StartTime,
		EndTime:         ep.EndTime,
		DurationSeconds: ep.DurationSeconds,
		ArchivedAt:      time.Now().UTC(),
	}
	if rec.Transitions == nil {
		rec.Transitions = []models.Transition{}
	}

	_, err := surrealdb.Query[any](ctx, c.db, `
		CREATE archived_episode CONTENT {
			episode_id: $episode_id,
			goal: $goal,
			metadata: $metadata,
			transitions: $transitions,
			total_reward: $total_reward,
			status: $status,
			success: $success,
			summary: $summary,
			start_time: $start_time,
			end_time: $end_time,
			duration_seconds: $duration_seconds,
			archived_at: $archived_at
		}
	`, map[string]any{
		"episode_id":       rec.EpisodeID,
		"goal":             rec.Goal,
		"metadata":         rec.Metadata,
		"transitions":      rec.Transitions,
		"total_reward":     rec.TotalReward,
		"status":           rec.Status,
		"success":          rec.Success,
		"summary":          rec.Summary,
		"start_time":       rec.StartTime,
		"end_time":         rec.EndTime,
		"duration_seconds": rec.DurationSeconds,
		"archived_at":      rec.ArchivedAt,
	})
	if err != nil {
		return fmt.Errorf("archive episode %s: %w", ep.ID, err)
	}

	c.logger.Debug("episode archived", "episode_id", ep.ID)
	return nil
}

// GetEpisode fetches an archived episode by its original episode ID.
func (c *Client) GetEpisode(ctx context.Context, episodeID string) (*Record, error) {
	results, err := surrealdb.Query[[]Record](ctx, c.db, `
		SELECT * FROM archived_episode WHERE episode_id = $episode_id LIMIT 1
	`, map[string]any{"episode_id": episodeID})
	if err != nil {
		return nil, fmt.Errorf("get archived episode: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, episodeID)
	}
	return &(*results)[0].Result[0], nil
}

// ListRecent returns the most recently archived episodes, newest first.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	results, err := surrealdb.Query[[]Record](ctx, c.db, `
		SELECT * FROM archived_episode ORDER BY archived_at DESC LIMIT $limit
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list archived episodes: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []Record{}, nil
	}
	return (*results)[0].Result, nil
}
