package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bank2ynab/bank2ynab/internal/config"
	"github.com/bank2ynab/bank2ynab/internal/formats"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var force bool
	var sourcePath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the built-in bank formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), opts.configPath, sourcePath, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&sourcePath, "source", "", "directory bank exports are downloaded to (default ~/Downloads)")

	return cmd
}

func runInit(out io.Writer, path, sourcePath string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	cfg := config.Default()
	cfg.Defaults.SourcePath = sourcePath
	cfg.Formats = formats.DefaultCatalog()
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %s with %d bank formats\n", path, len(cfg.Formats))
	return nil
}
