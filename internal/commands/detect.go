package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgerstitch-dev/ledgerstitch/internal/extract"
)

func newDetectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <statement.txt>...",
		Short: "Report which extractor claims each statement file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := extract.DefaultRegistry()
			for _, path := range args {
				doc, err := loadDocument(path)
				if err != nil {
					return err
				}
				e, err := registry.Select(doc)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, e.Version())
			}
			return nil
		},
	}
	return cmd
}

func newExtractorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extractors",
		Short: "List registered extractor versions in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, v := range extract.DefaultRegistry().Versions() {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
	return cmd
}

// loadDocument reads a statement text file. Pages are separated by form
// feeds, matching what text extraction tools emit for page breaks.
func loadDocument(path string) (extract.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return extract.Document{}, fmt.Errorf("reading statement %s: %w", path, err)
	}
	return extract.Document{
		Name:  path,
		Pages: strings.Split(string(data), "\f"),
	}, nil
}
