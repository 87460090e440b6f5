package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored episodes",
	Long: `Delete every episode from the server's in-memory store.

This is irreversible. Pass --force to skip the confirmation.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if !clearForce {
		fmt.Print("Delete all episodes? [y/N] ")
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println(defaultTheme.hintStyle().Render("aborted"))
			return nil
		}
	}

	s, err := connect(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	var payload struct {
		Cleared int    `json:"cleared"`
		Message string `json:"message"`
	}
	if err := s.call(ctx, "clear_episodes", nil, &payload); err != nil {
		return err
	}

	fmt.Println(defaultTheme.successStyle().Render(payload.Message))
	return nil
}
