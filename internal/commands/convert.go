package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bank2ynab/bank2ynab/internal/config"
	"github.com/bank2ynab/bank2ynab/internal/export"
	"github.com/bank2ynab/bank2ynab/internal/formats"
	"github.com/bank2ynab/bank2ynab/internal/importer"
	"github.com/bank2ynab/bank2ynab/internal/logger"
	"github.com/bank2ynab/bank2ynab/internal/model"
)

type convertOptions struct {
	dryRun bool
	apiOut string
}

func newConvertCommand(opts *rootOptions) *cobra.Command {
	var co convertOptions

	cmd := &cobra.Command{
		Use:   "convert [format...]",
		Short: "Convert every matching bank export (all formats unless named)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runConvert(ctx, cmd.OutOrStdout(), cfg, args, co)
		},
	}

	cmd.Flags().BoolVar(&co.dryRun, "dry-run", false, "convert and report without writing or deleting files")
	cmd.Flags().StringVar(&co.apiOut, "api-out", "", "write API import records as JSON (overrides settings.api_output)")

	return cmd
}

func runConvert(ctx context.Context, out io.Writer, cfg *config.Config, names []string, co convertOptions) error {
	log := logger.FromContext(ctx)

	specs, err := formats.FromConfig(cfg).Select(names)
	if err != nil {
		return err
	}

	svc := importer.NewService(log, nil, importer.Options{
		DryRun: co.dryRun,
		RunLog: cfg.Settings.RunLog,
	})
	log.Debug().Str("run_id", svc.RunID()).Int("formats", len(specs)).Msg("starting conversion")

	var records []model.ImportRecord
	var failed []string
	converted := 0
	for _, spec := range specs {
		res := svc.RunFormat(spec)
		if res.Err != nil {
			fmt.Fprintf(out, "%s: %v\n", spec.Name, res.Err)
		}
		for _, f := range res.Files {
			name := filepath.Base(f.Source)
			switch {
			case f.Err != nil:
				fmt.Fprintf(out, "%s: %s failed: %v\n", spec.Name, name, f.Err)
			case f.Result.Empty():
				fmt.Fprintf(out, "%s: %s: no output data (%s)\n", spec.Name, name, f.Result.Summary)
			default:
				converted++
				fmt.Fprintf(out, "%s: %s -> %s (%s)\n", spec.Name, name, filepath.Base(f.Output), f.Result.Summary)
			}
		}
		records = append(records, res.Records()...)
		if res.Structural() {
			failed = append(failed, spec.Name)
		}
	}

	apiOut := co.apiOut
	if apiOut == "" {
		apiOut = cfg.Settings.APIOutput
	}
	if apiOut != "" && len(records) > 0 && !co.dryRun {
		if err := export.SaveRecords(apiOut, records); err != nil {
			return fmt.Errorf("writing api records: %w", err)
		}
		fmt.Fprintf(out, "Wrote %d import records to %s\n", len(records), apiOut)
	}

	verb := "Converted"
	if co.dryRun {
		verb = "Would convert"
	}
	fmt.Fprintf(out, "%s %d file(s), %d transaction(s)\n", verb, converted, len(records))

	if len(failed) > 0 {
		return fmt.Errorf("%d format(s) failed: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}
