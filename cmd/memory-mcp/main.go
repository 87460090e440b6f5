// Package main provides the entry point for the memory-mcp server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bobagent/ability-mcp-go/internal/config"
	"github.com/bobagent/ability-mcp-go/internal/embedding"
	"github.com/bobagent/ability-mcp-go/internal/memory"
	"github.com/bobagent/ability-mcp-go/internal/server"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("memory-mcp starting",
		"version", version,
		"embed_provider", cfg.EmbedProvider,
		"embed_model", cfg.EmbedModel,
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

	embedder, err := embedding.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}
	logger.Info("embedder initialized", "model", embedder.Model(), "dimension", embedder.Dimension())

	srv := server.New("memory-mcp", version, logger)
	srv.Setup()

	deps := &memory.Dependencies{
		Store:       memory.NewStore(embedder, logger),
		Logger:      logger,
		DefaultUser: cfg.DefaultUserID,
	}
	memory.RegisterAll(srv.MCPServer(), deps)

	logger.Info("server ready, awaiting connections")

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
