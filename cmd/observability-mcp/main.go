// Package main provides the entry point for the observability-mcp server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bobagent/ability-mcp-go/internal/config"
	"github.com/bobagent/ability-mcp-go/internal/observability"
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

	logger.Info("observability-mcp starting", "version", version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	srv := server.New("observability-mcp", version, logger)
	srv.Setup()

	deps := &observability.Dependencies{
		Store:  observability.NewStore(logger),
		Logger: logger,
	}
	observability.RegisterAll(srv.MCPServer(), deps)

	logger.Info("server ready, awaiting connections")

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
