// Package cli provides the command-line interface for the ability server.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverCommand string
	verbose       bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ability",
	Short: "Inspect and control the agent episode tracker",
	Long: `Ability is the operator CLI for the episode tracking server.

It spawns the ability-mcp server as a subprocess, talks MCP over stdio,
and renders training stats, episodes, and configuration.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverCommand, "server", "ability-mcp",
		"command used to spawn the episode tracking server")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(episodeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(pingCmd)
}
