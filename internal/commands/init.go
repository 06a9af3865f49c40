package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerstitch-dev/ledgerstitch/internal/config"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledgerstitch project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized ledgerstitch project at %s\n", absDir)
			return nil
		},
	}
	return cmd
}

func runInit(dir string) error {
	cfg := config.Default()

	// Create directory structure.
	dirs := []string{
		"statements",
		filepath.Dir(cfg.Paths.RulesFile),
		cfg.Paths.OutputDir,
		cfg.Paths.LogsDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write ledgerstitch.yaml.
	if err := config.Save(filepath.Join(dir, "ledgerstitch.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write empty categorisation rules.
	rulesContent := "rules: []\n"
	if err := os.WriteFile(filepath.Join(dir, cfg.Paths.RulesFile), []byte(rulesContent), 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	// Write .gitignore.
	gitignore := cfg.Paths.OutputDir + "/\n" + cfg.Paths.LogsDir + "/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	return nil
}
