// Package config loads configuration from the environment and an
// optional YAML file, and sets up logging.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bobagent/ability-mcp-go/internal/models"
)

// Config holds all configuration values shared by the servers and CLI.
type Config struct {
	// Logging
	LogFile  string
	LogLevel slog.Level

	// Initial training tunables; mutable at runtime via configure_training.
	Training models.TrainingConfig

	// Episode archive (SurrealDB). Archiving is disabled when URL is empty.
	ArchiveURL       string
	ArchiveNamespace string
	ArchiveDatabase  string
	ArchiveUser      string
	ArchivePass      string

	// Embedding backend for the memory server.
	EmbedProvider string // "ollama" or "bedrock"
	EmbedModel    string
	OllamaHost    string
	BedrockModel  string

	// Memory scoping
	DefaultUserID string
}

// fileConfig is the YAML shape of the optional config file.
type fileConfig struct {
	LogFile  string                 `yaml:"log_file"`
	LogLevel string                 `yaml:"log_level"`
	Training *models.TrainingConfig `yaml:"training"`
	Archive  struct {
		URL       string `yaml:"url"`
		Namespace string `yaml:"namespace"`
		Database  string `yaml:"database"`
		User      string `yaml:"user"`
		Pass      string `yaml:"pass"`
	} `yaml:"archive"`
	Embedding struct {
		Provider     string `yaml:"provider"`
		Model        string `yaml:"model"`
		OllamaHost   string `yaml:"ollama_host"`
		BedrockModel string `yaml:"bedrock_model"`
	} `yaml:"embedding"`
	DefaultUserID string `yaml:"default_user_id"`
}

// Load reads configuration from environment variables, with values
// from the YAML file named by ABILITY_CONFIG (if set) as defaults.
// Environment variables always win over file values.
func Load() (Config, error) {
	cfg := Config{
		LogFile:          "/tmp/ability-mcp.log",
		LogLevel:         slog.LevelInfo,
		Training:         models.DefaultTrainingConfig(),
		ArchiveNamespace: "ability",
		ArchiveDatabase:  "episodes",
		ArchiveUser:      "root",
		ArchivePass:      "root",
		EmbedProvider:    "ollama",
		EmbedModel:       "all-minilm:l6-v2",
		OllamaHost:       "http://localhost:11434",
		BedrockModel:     "amazon.titan-embed-text-v2:0",
		DefaultUserID:    "default_user",
	}

	if path := os.Getenv("ABILITY_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	setIfNonEmpty(&cfg.LogFile, fc.LogFile)
	if fc.LogLevel != "" {
		cfg.LogLevel = ParseLogLevel(fc.LogLevel)
	}
	if fc.Training != nil {
		cfg.Training = *fc.Training
	}
	setIfNonEmpty(&cfg.ArchiveURL, fc.Archive.URL)
	setIfNonEmpty(&cfg.ArchiveNamespace, fc.Archive.Namespace)
	setIfNonEmpty(&cfg.ArchiveDatabase, fc.Archive.Database)
	setIfNonEmpty(&cfg.ArchiveUser, fc.Archive.User)
	setIfNonEmpty(&cfg.ArchivePass, fc.Archive.Pass)
	setIfNonEmpty(&cfg.EmbedProvider, fc.Embedding.Provider)
	setIfNonEmpty(&cfg.EmbedModel, fc.Embedding.Model)
	setIfNonEmpty(&cfg.OllamaHost, fc.Embedding.OllamaHost)
	setIfNonEmpty(&cfg.BedrockModel, fc.Embedding.BedrockModel)
	setIfNonEmpty(&cfg.DefaultUserID, fc.DefaultUserID)
	return nil
}

func applyEnv(cfg *Config) {
	setIfNonEmpty(&cfg.LogFile, os.Getenv("ABILITY_LOG_FILE"))
	if v := os.Getenv("ABILITY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = ParseLogLevel(v)
	}
	setIfNonEmpty(&cfg.ArchiveURL, os.Getenv("ABILITY_ARCHIVE_URL"))
	setIfNonEmpty(&cfg.ArchiveNamespace, os.Getenv("ABILITY_ARCHIVE_NAMESPACE"))
	setIfNonEmpty(&cfg.ArchiveDatabase, os.Getenv("ABILITY_ARCHIVE_DATABASE"))
	setIfNonEmpty(&cfg.ArchiveUser, os.Getenv("ABILITY_ARCHIVE_USER"))
	setIfNonEmpty(&cfg.ArchivePass, os.Getenv("ABILITY_ARCHIVE_PASS"))
	setIfNonEmpty(&cfg.EmbedProvider, os.Getenv("ABILITY_EMBED_PROVIDER"))
	setIfNonEmpty(&cfg.EmbedModel, os.Getenv("ABILITY_EMBED_MODEL"))
	setIfNonEmpty(&cfg.OllamaHost, os.Getenv("OLLAMA_HOST"))
	setIfNonEmpty(&cfg.BedrockModel, os.Getenv("ABILITY_BEDROCK_MODEL"))
	setIfNonEmpty(&cfg.DefaultUserID, os.Getenv("ABILITY_DEFAULT_USER"))
}

func setIfNonEmpty(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

// ParseLogLevel maps a level name to a slog.Level, defaulting to INFO.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
