package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"samctl/pkg/logging"
)

const exampleConfig = `name: example
components:
  - name: db
    type: container
    image: docker.io/library/postgres:16
    start_by_default: true
    environment:
      - POSTGRES_PASSWORD=secret
    ports:
      - host: 5432
        container: 5432
global:
  scripts:
    - smoke
`

// scaffolding created by 'samctl init', relative to the target directory.
var initLayout = []string{
	"tests/cases",
	"tests/modules",
	"tests/assets",
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a new samctl test project",
		Long: `Creates the standard test project layout (tests/cases, tests/modules,
tests/assets) plus an example sam.yaml in the given directory, or the
current directory when none is given. Existing files are left alone
unless --force is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return scaffold(dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return cmd
}

func scaffold(dir string, force bool) error {
	for _, sub := range initLayout {
		path := filepath.Join(dir, sub)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		logging.Debug("Init", "Created %s", path)
	}

	configPath := filepath.Join(dir, "sam.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	logging.Info("Init", "Project scaffolded in %s", dir)
	return nil
}
