package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bobagent/ability-mcp-go/internal/metrics"
	"github.com/bobagent/ability-mcp-go/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show training statistics",
	Long: `Show aggregate episode statistics and the active training configuration.

Examples:
  ability stats
  ability stats --verbose`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, err := connect(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	var payload struct {
		Stats models.TrainingStats `json:"stats"`
	}
	if err := s.call(ctx, "get_training_stats", nil, &payload); err != nil {
		return err
	}
	stats := payload.Stats

	heading := defaultTheme.headingStyle()
	label := defaultTheme.labelStyle()

	fmt.Println(heading.Render("Training Stats"))
	fmt.Printf("%s %d\n", label.Render("Total episodes:"), stats.TotalEpisodes)
	fmt.Printf("%s %d\n", label.Render("Completed:"), stats.CompletedEpisodes)
	fmt.Printf("%s %d\n", label.Render("Successful:"), stats.SuccessfulEpisodes)
	fmt.Printf("%s %.1f%%\n", label.Render("Success rate:"), stats.SuccessRate*100)
	fmt.Printf("%s %d\n", label.Render("Transitions:"), stats.TotalTransitions)
	fmt.Printf("%s %.3f\n", label.Render("Avg reward:"), stats.AvgReward)
	fmt.Printf("%s %.1f\n", label.Render("Avg transitions/episode:"), stats.AvgTransitionsPerEpisode)

	fmt.Println()
	fmt.Println(heading.Render("Training Config"))
	printConfig(stats.TrainingConfig)

	if verbose {
		var snapshot metrics.Snapshot
		if err := s.call(ctx, "get_server_stats", nil, &snapshot); err != nil {
			return err
		}
		fmt.Println()
		printServerStats(snapshot)
	}

	return nil
}

func printConfig(cfg models.TrainingConfig) {
	label := defaultTheme.labelStyle()
	enabled := defaultTheme.errorStyle().Render("disabled")
	if cfg.TrainingEnabled {
		enabled = defaultTheme.successStyle().Render("enabled")
	}

	fmt.Printf("%s %s\n", label.Render("Training:"), enabled)
	fmt.Printf("%s %.2f\n", label.Render("Reward threshold:"), cfg.RewardThreshold)
	fmt.Printf("%s %d\n", label.Render("Batch size:"), cfg.MaxEpisodesPerBatch)
	fmt.Printf("%s %g\n", label.Render("Learning rate:"), cfg.LearningRate)
	fmt.Printf("%s %.2f\n", label.Render("Discount factor:"), cfg.DiscountFactor)
}

func printServerStats(snapshot metrics.Snapshot) {
	heading := defaultTheme.headingStyle()
	hint := defaultTheme.hintStyle()

	fmt.Println(heading.Render("Server Stats"))
	fmt.Printf("Uptime: %.0fs\n", snapshot.UptimeSeconds)

	if len(snapshot.Operations) == 0 {
		fmt.Println(hint.Render("no operations recorded yet"))
		return
	}

	names := make([]string, 0, len(snapshot.Operations))
	for name := range snapshot.Operations {
		names = append(names, name)
	}
	sort.Strings(names)

	width := terminalWidth()
	for _, name := range names {
		op := snapshot.Operations[name]
		line := fmt.Sprintf("%-24s calls=%-6d errors=%-4d avg=%.1fms", name, op.Count, op.Errors, op.AvgTimeMs)
		if len(line) > width {
			line = line[:width]
		}
		fmt.Println(line)
	}
}
