package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ability-mcp.log", cfg.LogFile)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "ollama", cfg.EmbedProvider)
	assert.Equal(t, "default_user", cfg.DefaultUserID)
	assert.Empty(t, cfg.ArchiveURL, "archiving disabled by default")

	assert.InDelta(t, 0.99, cfg.Training.DiscountFactor, 1e-9)
	assert.Equal(t, 10, cfg.Training.MaxEpisodesPerBatch)
	assert.True(t, cfg.Training.TrainingEnabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ABILITY_LOG_LEVEL", "debug")
	t.Setenv("ABILITY_EMBED_PROVIDER", "bedrock")
	t.Setenv("ABILITY_ARCHIVE_URL", "ws://localhost:8000/rpc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "bedrock", cfg.EmbedProvider)
	assert.Equal(t, "ws://localhost:8000/rpc", cfg.ArchiveURL)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ability.yaml")
	content := []byte(`
log_level: warn
training:
  reward_threshold: 0.9
  max_episodes_per_batch: 5
  learning_rate: 0.01
  discount_factor: 0.95
  training_enabled: false
embedding:
  provider: bedrock
  bedrock_model: amazon.titan-embed-text-v1
`)
	require.NoError(t, os.WriteFile(path, content, 0644))
	t.Setenv("ABILITY_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, 5, cfg.Training.MaxEpisodesPerBatch)
	assert.InDelta(t, 0.95, cfg.Training.DiscountFactor, 1e-9)
	assert.False(t, cfg.Training.TrainingEnabled)
	assert.Equal(t, "bedrock", cfg.EmbedProvider)
	assert.Equal(t, "amazon.titan-embed-text-v1", cfg.BedrockModel)
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ability.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: error\n"), 0644))
	t.Setenv("ABILITY_CONFIG", path)
	t.Setenv("ABILITY_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadMissingFileFails(t *testing.T) {
	t.Setenv("ABILITY_CONFIG", "/nonexistent/ability.yaml")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"??", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.in), "input %q", tt.in)
	}
}
