package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerstitch-dev/ledgerstitch/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ledgerstitch",
		Short:   "Stitch bank statements into one reconciled ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newDetectCommand())
	rootCmd.AddCommand(newExtractorsCommand())
	rootCmd.AddCommand(newReconcileCommand())

	return rootCmd
}
