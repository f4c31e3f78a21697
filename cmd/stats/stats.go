// Package stats implements the stats command for reporting how much has
// been written under each category.
package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/diary/internal/aggregate"
	"github.com/leefowlercu/diary/internal/cmdutil"
	"github.com/leefowlercu/diary/internal/config"
	"github.com/leefowlercu/diary/internal/report"
)

// Flag variables for the stats command.
var (
	statsFormat string
	statsDepth  int
	statsCheck  bool
)

// StatsCmd reports the aggregation index.
var StatsCmd = &cobra.Command{
	Use:   "stats [category path]",
	Short: "Show how much has been written under each category",
	Long: "Show how much has been written under each category.\n\n" +
		"Sizes count characters of content, summed over every entry, and include all " +
		"subcategories. A category path names nested categories joined by the configured " +
		"separator, e.g. \"Work;Release\". Without a path the whole diary is reported.",
	Example: `  # Report every category
  diary stats

  # Report one category two levels deep as YAML
  diary stats "Work" --depth 2 --format yaml

  # Verify the index totals
  diary stats --check`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: validateStats,
	RunE:    runStats,
}

func init() {
	StatsCmd.Flags().StringVarP(&statsFormat, "format", "f", "table", "Output format (table, json, yaml, toml)")
	StatsCmd.Flags().IntVarP(&statsDepth, "depth", "d", 0, "Number of category levels to show (0 = all)")
	StatsCmd.Flags().BoolVar(&statsCheck, "check", false, "Verify the index invariants before reporting")
}

func validateStats(cmd *cobra.Command, args []string) error {
	if _, err := report.Get(statsFormat); err != nil {
		return err
	}
	if statsDepth < 0 {
		return fmt.Errorf("--depth must not be negative")
	}

	cmd.SilenceUsage = true
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	formatter, err := report.Get(statsFormat)
	if err != nil {
		return err
	}

	d, err := cmdutil.OpenDiary(ctx, config.Get(), cmdutil.OpenOptions{Logger: slog.Default()})
	if err != nil {
		return err
	}
	defer d.Close()

	path := d.Separator()
	if len(args) > 0 {
		path = args[0]
	}

	var (
		r        *report.IndexReport
		checkErr error
		missing  bool
	)
	d.WithIndex(func(ix *aggregate.Index) {
		if statsCheck {
			checkErr = ix.CheckInvariants()
		}
		if !ix.Contains(path) {
			missing = true
			return
		}
		r = report.BuildIndex(ix.View(path), statsDepth)
	})
	if checkErr != nil {
		return checkErr
	}
	if missing {
		return fmt.Errorf("no category %q", path)
	}

	output, err := formatter.FormatIndex(r)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(output); err != nil {
		return err
	}
	if statsCheck {
		fmt.Fprintln(cmd.ErrOrStderr(), "Index check passed")
	}
	return nil
}
