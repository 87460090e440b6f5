package ability

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobagent/ability-mcp-go/internal/models"
)

// Store owns all episodes and their lifecycle. One store exists per
// server process; all mutating operations run under a single write
// lock and reads copy episodes out, so callers never observe a
// partially-updated episode.
type Store struct {
	mu       sync.RWMutex
	episodes map[string]*models.Episode
	order    []string // insertion order; completion order is this order filtered by status
	current  string   // current episode ID, "" when none

	cfg       models.TrainingConfig
	estimator RewardEstimator
	sink      BatchSink
	logger    *slog.Logger

	now func() time.Time
}

// NewStore creates a store with the default training configuration.
// A nil estimator falls back to HeuristicEstimator; a nil sink logs
// packaged batches; a nil logger uses slog.Default().
func NewStore(estimator RewardEstimator, sink BatchSink, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if estimator == nil {
		estimator = HeuristicEstimator{}
	}
	s := &Store{
		episodes:  make(map[string]*models.Episode),
		cfg:       models.DefaultTrainingConfig(),
		estimator: estimator,
		logger:    logger,
		now:       time.Now,
	}
	if sink == nil {
		sink = s.logBatch
	}
	s.sink = sink
	return s
}

// logBatch is the default batch sink. In production the batch would be
// handed to a training backend.
func (s *Store) logBatch(batch models.TrainingBatch) {
	s.logger.Info("training batch prepared",
		"num_episodes", batch.NumEpisodes,
		"total_transitions", batch.TotalTransitions,
		"avg_reward", batch.AvgReward,
	)
}

// generateEpisodeID creates a timestamp-derived episode ID with a
// short random suffix so IDs stay unique within a clock tick.
func (s *Store) generateEpisodeID() string {
	ts := s.now().UTC().Format("20060102T150405")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "ep_" + ts + "_" + suffix
}

// StartEpisode creates a new active episode, makes it the current
// episode, and returns a copy of it.
func (s *Store) StartEpisode(goal string, metadata map[string]any) models.Episode {
	s.mu.Lock()
	defer s.mu.Unlock()

	ep := &models.Episode{
		ID:          s.generateEpisodeID(),
		Goal:        goal,
		Metadata:    maps.Clone(metadata),
		Transitions: []models.Transition{},
		Status:      models.StatusActive,
		StartTime:   s.now(),
	}
	if ep.Metadata == nil {
		ep.Metadata = map[string]any{}
	}

	s.episodes[ep.ID] = ep
	s.order = append(s.order, ep.ID)
	s.current = ep.ID

	s.logger.Debug("episode started", "episode_id", ep.ID, "goal", goal)
	return copyEpisode(ep)
}

// RecordModelCall appends a model-call transition to an active
// episode. A nil reward asks the estimator for a default. Returns the
// transition's 0-based index and the reward that was applied.
func (s *Store) RecordModelCall(episodeID, input, output, model string, reward *float64, metadata map[string]any) (int, float64, error) {
	t := models.Transition{
		Kind:     models.KindModelCall,
		Input:    input,
		Output:   output,
		Model:    model,
		Metadata: maps.Clone(metadata),
	}
	return s.appendTransition(episodeID, t, reward)
}

// RecordToolCall appends a tool-call transition to an active episode.
// A nil reward asks the estimator for a default. Returns the
// transition's 0-based index and the reward that was applied.
func (s *Store) RecordToolCall(episodeID, toolName string, input map[string]any, output any, reward *float64, metadata map[string]any) (int, float64, error) {
	t := models.Transition{
		Kind:       models.KindToolCall,
		ToolName:   toolName,
		ToolInput:  maps.Clone(input),
		ToolOutput: output,
		Metadata:   maps.Clone(metadata),
	}
	return s.appendTransition(episodeID, t, reward)
}

func (s *Store) appendTransition(episodeID string, t models.Transition, reward *float64) (int, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ep, ok := s.episodes[episodeID]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrNotFound, episodeID)
	}
	if ep.Status != models.StatusActive {
		return 0, 0, fmt.Errorf("%w: %s is %s", ErrInvalidState, episodeID, ep.Status)
	}

	if reward != nil {
		t.Reward = *reward
	} else {
		t.Reward = estimate(s.estimator, &t)
	}
	t.Timestamp = s.now()
	if t.Metadata == nil {
		t.Metadata = map[string]any{}
	}

	ep.Transitions = append(ep.Transitions, t)
	ep.TotalReward += t.Reward

	index := len(ep.Transitions) - 1
	s.logger.Debug("transition recorded",
		"episode_id", episodeID,
		"kind", t.Kind,
		"index", index,
		"reward", t.Reward,
	)
	return index, t.Reward, nil
}

// EndEpisode completes an episode: freezes its transitions, adds the
// optional final reward, runs credit assignment, clears the current
// pointer if it referenced this episode, and evaluates the batch
// trigger. A negative computed duration is a data-integrity fault and
// leaves the episode untouched.
func (s *Store) EndEpisode(episodeID string, success bool, finalReward *float64, summary string) (*models.EpisodeSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ep, ok := s.episodes[episodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, episodeID)
	}
	if ep.Status != models.StatusActive {
		return nil, fmt.Errorf("%w: %s is %s", ErrInvalidState, episodeID, ep.Status)
	}

	end := s.now()
	duration := end.Sub(ep.StartTime).Seconds()
	if duration < 0 {
		return nil, fmt.Errorf("%w: end time %s before start time %s",
			ErrInvalidInput, end.Format(time.RFC3339), ep.StartTime.Format(time.RFC3339))
	}

	ep.EndTime = &end
	ep.Status = models.StatusCompleted
	ep.Success = &success
	ep.DurationSeconds = duration
	if finalReward != nil {
		ep.TotalReward += *finalReward
	}
	if summary != "" {
		ep.Summary = &summary
	}

	assignCredit(ep.Transitions, s.cfg.DiscountFactor)

	if s.current == episodeID {
		s.current = ""
	}

	report := evaluateBatchTrigger(s.completedLocked(), s.cfg, end)
	if report.Triggered {
		// Synchronous handoff; the sink must not call back into the store.
		s.sink(*report.Batch)
	}

	s.logger.Info("episode ended",
		"episode_id", episodeID,
		"success", success,
		"total_reward", ep.TotalReward,
		"transitions", len(ep.Transitions),
		"batch_triggered", report.Triggered,
	)

	return &models.EpisodeSummary{
		EpisodeID:        episodeID,
		EpisodeSuccess:   success,
		TotalReward:      ep.TotalReward,
		DurationSeconds:  duration,
		TransitionsCount: len(ep.Transitions),
		Training:         &report,
	}, nil
}

// completedLocked returns completed episodes in store order. Caller
// must hold the lock.
func (s *Store) completedLocked() []*models.Episode {
	out := make([]*models.Episode, 0, len(s.order))
	for _, id := range s.order {
		if ep := s.episodes[id]; ep.Status == models.StatusCompleted {
			out = append(out, ep)
		}
	}
	return out
}

// GetEpisode returns a copy of an episode.
func (s *Store) GetEpisode(episodeID string) (*models.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ep, ok := s.episodes[episodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, episodeID)
	}
	cp := copyEpisode(ep)
	return &cp, nil
}

// Current returns the current episode ID, if any.
func (s *Store) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != ""
}

// Stats aggregates counts over all episodes. Every ratio is guarded
// against empty denominators.
func (s *Store) Stats() models.TrainingStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.TrainingStats{
		TotalEpisodes:  len(s.episodes),
		TrainingConfig: s.cfg,
	}

	rewardSum := 0.0
	for _, id := range s.order {
		ep := s.episodes[id]
		stats.TotalTransitions += len(ep.Transitions)
		if ep.Status != models.StatusCompleted {
			continue
		}
		stats.CompletedEpisodes++
		rewardSum += ep.TotalReward
		if ep.Success != nil && *ep.Success {
			stats.SuccessfulEpisodes++
		}
	}

	if stats.CompletedEpisodes > 0 {
		stats.SuccessRate = float64(stats.SuccessfulEpisodes) / float64(stats.CompletedEpisodes)
		stats.AvgReward = rewardSum / float64(stats.CompletedEpisodes)
	}
	if stats.TotalEpisodes > 0 {
		stats.AvgTransitionsPerEpisode = float64(stats.TotalTransitions) / float64(stats.TotalEpisodes)
	}

	return stats
}

// Clear discards all episodes and the current-episode pointer.
// Irreversible. Returns the number of episodes removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.episodes)
	s.episodes = make(map[string]*models.Episode)
	s.order = nil
	s.current = ""

	s.logger.Info("episodes cleared", "count", count)
	return count
}

// Configure applies a field-by-field patch to the training
// configuration. Nil fields keep prior values. Out-of-range values
// are rejected with ErrInvalidInput and leave the config unchanged.
func (s *Store) Configure(update models.ConfigUpdate) (models.TrainingConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	if update.RewardThreshold != nil {
		next.RewardThreshold = *update.RewardThreshold
	}
	if update.MaxEpisodesPerBatch != nil {
		if *update.MaxEpisodesPerBatch < 1 {
			return s.cfg, fmt.Errorf("%w: max_episodes_per_batch must be >= 1, got %d",
				ErrInvalidInput, *update.MaxEpisodesPerBatch)
		}
		next.MaxEpisodesPerBatch = *update.MaxEpisodesPerBatch
	}
	if update.LearningRate != nil {
		if *update.LearningRate <= 0 {
			return s.cfg, fmt.Errorf("%w: learning_rate must be > 0, got %g",
				ErrInvalidInput, *update.LearningRate)
		}
		next.LearningRate = *update.LearningRate
	}
	if update.DiscountFactor != nil {
		if *update.DiscountFactor <= 0 || *update.DiscountFactor > 1 {
			return s.cfg, fmt.Errorf("%w: discount_factor must be in (0,1], got %g",
				ErrInvalidInput, *update.DiscountFactor)
		}
		next.DiscountFactor = *update.DiscountFactor
	}
	if update.TrainingEnabled != nil {
		next.TrainingEnabled = *update.TrainingEnabled
	}

	s.cfg = next
	s.logger.Info("training config updated",
		"reward_threshold", next.RewardThreshold,
		"max_episodes_per_batch", next.MaxEpisodesPerBatch,
		"learning_rate", next.LearningRate,
		"discount_factor", next.DiscountFactor,
		"training_enabled", next.TrainingEnabled,
	)
	return next, nil
}

// Config returns the current training configuration.
func (s *Store) Config() models.TrainingConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// copyEpisode deep-copies an episode so readers are isolated from
// later store mutations.
func copyEpisode(ep *models.Episode) models.Episode {
	cp := *ep
	cp.Metadata = maps.Clone(ep.Metadata)
	cp.Transitions = make([]models.Transition, len(ep.Transitions))
	for i, t := range ep.Transitions {
		tc := t
		tc.Metadata = maps.Clone(t.Metadata)
		tc.ToolInput = maps.Clone(t.ToolInput)
		if t.AdjustedReward != nil {
			v := *t.AdjustedReward
			tc.AdjustedReward = &v
		}
		cp.Transitions[i] = tc
	}
	if ep.EndTime != nil {
		v := *ep.EndTime
		cp.EndTime = &v
	}
	if ep.Success != nil {
		v := *ep.Success
		cp.Success = &v
	}
	if ep.Summary != nil {
		v := *ep.Summary
		cp.Summary = &v
	}
	return cp
}
