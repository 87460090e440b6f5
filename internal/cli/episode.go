package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobagent/ability-mcp-go/internal/models"
)

var episodeCmd = &cobra.Command{
	Use:   "episode",
	Short: "Inspect episodes",
}

var episodeGetCmd = &cobra.Command{
	Use:   "get <episode-id>",
	Short: "Show a single episode with its transitions",
	Args:  cobra.ExactArgs(1),
	RunE:  runEpisodeGet,
}

func init() {
	episodeCmd.AddCommand(episodeGetCmd)
}

func runEpisodeGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, err := connect(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	var payload struct {
		Episode models.Episode `json:"episode"`
	}
	if err := s.call(ctx, "get_episode", map[string]any{"episode_id": args[0]}, &payload); err != nil {
		return err
	}
	ep := payload.Episode

	heading := defaultTheme.headingStyle()
	label := defaultTheme.labelStyle()
	hint := defaultTheme.hintStyle()

	fmt.Println(heading.Render(ep.ID))
	fmt.Printf("%s %s\n", label.Render("Goal:"), ep.Goal)
	fmt.Printf("%s %s\n", label.Render("Status:"), string(ep.Status))
	if ep.Success != nil {
		outcome := defaultTheme.errorStyle().Render("failure")
		if *ep.Success {
			outcome = defaultTheme.successStyle().Render("success")
		}
		fmt.Printf("%s %s\n", label.Render("Outcome:"), outcome)
	}
	fmt.Printf("%s %.3f\n", label.Render("Total reward:"), ep.TotalReward)
	if ep.DurationSeconds > 0 {
		fmt.Printf("%s %.1fs\n", label.Render("Duration:"), ep.DurationSeconds)
	}
	if ep.Summary != nil && *ep.Summary != "" {
		fmt.Printf("%s %s\n", label.Render("Summary:"), *ep.Summary)
	}

	if len(ep.Transitions) == 0 {
		fmt.Println(hint.Render("no transitions recorded"))
		return nil
	}

	fmt.Println()
	fmt.Println(heading.Render(fmt.Sprintf("Transitions (%d)", len(ep.Transitions))))
	for i, tr := range ep.Transitions {
		desc := tr.Model
		if tr.Kind == models.KindToolCall {
			desc = tr.ToolName
		}
		line := fmt.Sprintf("%3d  %-9s %-20s reward=%.3f", i, string(tr.Kind), desc, tr.Reward)
		if tr.AdjustedReward != nil {
			line += fmt.Sprintf("  adjusted=%.3f", *tr.AdjustedReward)
		}
		if width := terminalWidth(); len(line) > width {
			line = line[:width]
		}
		fmt.Println(line)
	}

	return nil
}
