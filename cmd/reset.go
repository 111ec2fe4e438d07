package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"samctl/internal/config"
	"samctl/pkg/logging"
)

func newResetCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Run the config's reset commands to wipe environment state",
		Long: `Runs the shell commands listed under reset: in the config, in order.
Use this to remove leftover volumes, data directories or other state
between runs. 'samctl run --reset-once' does the same before starting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return runResetCommands(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "sam.yaml", "Path to the environment config")
	return cmd
}

// runResetCommands executes each reset command through the shell,
// stopping at the first failure.
func runResetCommands(cfg config.Config) error {
	if len(cfg.Reset) == 0 {
		logging.Info("Reset", "No reset commands configured")
		return nil
	}
	for _, command := range cfg.Reset {
		logging.Info("Reset", "Running: %s", command)
		out, err := exec.Command("sh", "-c", command).CombinedOutput()
		if err != nil {
			return fmt.Errorf("reset command %q failed: %w: %s",
				command, err, strings.TrimSpace(string(out)))
		}
		if trimmed := strings.TrimSpace(string(out)); trimmed != "" {
			fmt.Fprintln(os.Stdout, trimmed)
		}
	}
	return nil
}
