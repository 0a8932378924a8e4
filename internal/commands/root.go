package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bank2ynab/bank2ynab/internal/buildinfo"
	"github.com/bank2ynab/bank2ynab/internal/config"
	"github.com/bank2ynab/bank2ynab/internal/logger"
)

// DefaultConfigPath is where the config file is looked for when --config is not given.
const DefaultConfigPath = "bank2ynab.yaml"

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "bank2ynab",
		Short:   "Convert bank transaction exports into YNAB-ready files",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", DefaultConfigPath, "config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides settings.log_level)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: console or json (overrides settings.log_format)")

	rootCmd.AddCommand(newInitCommand(opts))
	rootCmd.AddCommand(newConvertCommand(opts))
	rootCmd.AddCommand(newFormatsCommand(opts))
	rootCmd.AddCommand(newLogCommand(opts))

	return rootCmd
}

// load reads the config file and returns it with a context carrying the logger.
func (o *rootOptions) load(cmd *cobra.Command) (context.Context, *config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w (run `bank2ynab init` to create one)", err)
	}

	level, format := cfg.Settings.LogLevel, cfg.Settings.LogFormat
	if o.logLevel != "" {
		level = o.logLevel
	}
	if o.logFormat != "" {
		format = o.logFormat
	}
	log, err := logger.NewTo(cmd.ErrOrStderr(), level, format)
	if err != nil {
		return nil, nil, fmt.Errorf("configuring logger: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithContext(ctx, log), cfg, nil
}
