package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobagent/ability-mcp-go/internal/models"
)

var (
	cfgRewardThreshold float64
	cfgBatchSize       int
	cfgLearningRate    float64
	cfgDiscount        float64
	cfgEnabled         bool
	cfgDisabled        bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update the training configuration",
	Long: `Show the active training configuration, or update the fields given
as flags. Fields not passed keep their current values.

Examples:
  ability config
  ability config --batch-size 5 --learning-rate 0.01
  ability config --disable`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().Float64Var(&cfgRewardThreshold, "reward-threshold", 0, "minimum reward threshold")
	configCmd.Flags().IntVar(&cfgBatchSize, "batch-size", 0, "episodes per training batch")
	configCmd.Flags().Float64Var(&cfgLearningRate, "learning-rate", 0, "learning rate")
	configCmd.Flags().Float64Var(&cfgDiscount, "discount", 0, "discount factor in (0,1]")
	configCmd.Flags().BoolVar(&cfgEnabled, "enable", false, "enable training")
	configCmd.Flags().BoolVar(&cfgDisabled, "disable", false, "disable training")
}

func runConfig(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if cfgEnabled && cfgDisabled {
		return fmt.Errorf("--enable and --disable are mutually exclusive")
	}

	s, err := connect(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	patch := map[string]any{}
	if cmd.Flags().Changed("reward-threshold") {
		patch["reward_threshold"] = cfgRewardThreshold
	}
	if cmd.Flags().Changed("batch-size") {
		patch["max_episodes_per_batch"] = cfgBatchSize
	}
	if cmd.Flags().Changed("learning-rate") {
		patch["learning_rate"] = cfgLearningRate
	}
	if cmd.Flags().Changed("discount") {
		patch["discount_factor"] = cfgDiscount
	}
	if cfgEnabled {
		patch["training_enabled"] = true
	}
	if cfgDisabled {
		patch["training_enabled"] = false
	}

	// No flags: just display the current configuration.
	if len(patch) == 0 {
		var payload struct {
			Stats models.TrainingStats `json:"stats"`
		}
		if err := s.call(ctx, "get_training_stats", nil, &payload); err != nil {
			return err
		}
		printConfig(payload.Stats.TrainingConfig)
		return nil
	}

	var payload struct {
		Config models.TrainingConfig `json:"config"`
	}
	if err := s.call(ctx, "configure_training", patch, &payload); err != nil {
		return err
	}

	fmt.Println(defaultTheme.successStyle().Render("Configuration updated"))
	printConfig(payload.Config)
	return nil
}
