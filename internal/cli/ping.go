package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the server responds",
	RunE:  runPing,
}

func runPing(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, err := connect(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	start := time.Now()
	text, err := s.callText(ctx, "ping", nil)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n",
		defaultTheme.successStyle().Render(text),
		defaultTheme.hintStyle().Render(fmt.Sprintf("(%.0fms)", float64(time.Since(start))/float64(time.Millisecond))))
	return nil
}
