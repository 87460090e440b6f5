// Package main provides the entry point for the ability-mcp server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bobagent/ability-mcp-go/internal/ability"
	"github.com/bobagent/ability-mcp-go/internal/archive"
	"github.com/bobagent/ability-mcp-go/internal/config"
	"github.com/bobagent/ability-mcp-go/internal/models"
	"github.com/bobagent/ability-mcp-go/internal/server"
	"github.com/bobagent/ability-mcp-go/internal/tools"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Dual output: stderr text + file JSON. Stdout stays clean for MCP.
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("ability-mcp starting",
		"version", version,
		"archive_enabled", cfg.ArchiveURL != "",
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	store := ability.NewStore(nil, nil, logger)
	if _, err := store.Configure(models.ConfigUpdate{
		RewardThreshold:     &cfg.Training.RewardThreshold,
		MaxEpisodesPerBatch: &cfg.Training.MaxEpisodesPerBatch,
		LearningRate:        &cfg.Training.LearningRate,
		DiscountFactor:      &cfg.Training.DiscountFactor,
		TrainingEnabled:     &cfg.Training.TrainingEnabled,
	}); err != nil {
		logger.Error("invalid training config", "error", err)
		os.Exit(1)
	}

	deps := &tools.Dependencies{
		Store:  store,
		Logger: logger,
	}

	// The archive is optional; episodes stay purely in memory without it.
	if cfg.ArchiveURL != "" {
		archiveClient, err := archive.NewClient(ctx, archive.Config{
			URL:       cfg.ArchiveURL,
			Namespace: cfg.ArchiveNamespace,
			Database:  cfg.ArchiveDatabase,
			Username:  cfg.ArchiveUser,
			Password:  cfg.ArchivePass,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to episode archive", "error", err)
			os.Exit(1)
		}
		defer func() {
			_ = archiveClient.Close(ctx)
		}()

		if err := archiveClient.InitSchema(ctx); err != nil {
			logger.Error("failed to initialize archive schema", "error", err)
			os.Exit(1)
		}
		deps.Archiver = archiveClient
	}

	srv := server.New("ability-mcp", version, logger)
	srv.Setup()
	deps.Collector = srv.Collector()

	tools.RegisterAll(srv.MCPServer(), deps)

	logger.Info("server ready, awaiting connections")

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
