package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bank2ynab/bank2ynab/internal/runlog"
)

func newLogCommand(opts *rootOptions) *cobra.Command {
	var all bool
	var runID string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the files touched by the last conversion run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			entries, err := runlog.Read(cfg.Settings.RunLog)
			if err != nil {
				return err
			}
			if !all {
				entries = selectRun(entries, runID)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "show every recorded run")
	cmd.Flags().StringVar(&runID, "run", "", "show the run with this id instead of the last one")

	return cmd
}

// selectRun keeps the entries of run id, or of the most recent run when id is empty.
func selectRun(entries []runlog.Entry, id string) []runlog.Entry {
	if id == "" {
		if len(entries) == 0 {
			return nil
		}
		id = entries[len(entries)-1].RunID
	}
	var out []runlog.Entry
	for _, e := range entries {
		if e.RunID == id {
			out = append(out, e)
		}
	}
	return out
}

func printEntries(out io.Writer, entries []runlog.Entry) {
	runID := ""
	for _, e := range entries {
		if e.RunID != runID {
			runID = e.RunID
			fmt.Fprintf(out, "Run %s (%s)\n", runID, e.Timestamp.Format("2006-01-02 15:04:05"))
		}
		line := fmt.Sprintf("  %-8s %s: %s", e.Status, e.Format, filepath.Base(e.Source))
		switch e.Status {
		case runlog.StatusOK:
			line += fmt.Sprintf(" -> %s (%d parsed, %d dropped)", filepath.Base(e.Output), e.Parsed, e.Dropped)
		case runlog.StatusFailed:
			line += ": " + e.Error
		}
		fmt.Fprintln(out, line)
	}
}
