package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bank2ynab/bank2ynab/internal/config"
	"github.com/bank2ynab/bank2ynab/internal/formats"
	"github.com/bank2ynab/bank2ynab/internal/importer"
)

func newFormatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the configured bank formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			printFormats(cmd.OutOrStdout(), formats.FromConfig(cfg).All())
			return nil
		},
	}
}

func printFormats(out io.Writer, specs []config.FormatSpec) {
	fmt.Fprintf(out, "%-24s %-24s %s\n", "FORMAT", "FILES", "SOURCE")
	for _, f := range specs {
		files := f.FilenamePattern + "*" + f.Extension
		if f.Regex() {
			files = "/" + f.FilenamePattern + "/" + f.Extension
		}
		if f.Preprocessor != "" {
			files += " [" + f.Preprocessor + "]"
		}
		fmt.Fprintf(out, "%-24s %-24s %s\n", f.Name, files, importer.SourceDir(f))
	}
}
