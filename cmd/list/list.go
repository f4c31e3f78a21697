// Package list implements the list command for displaying stored entries.
package list

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

// Flag variables for the list command.
var (
	listFormat string
)

// ListCmd is the list command for displaying stored entries.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List diary entries",
	Long: "List every stored entry with its content size, the number of categories it " +
		"writes under and when it was last saved.",
	Example: `  # List entries
  diary list

  # List entries as JSON
  diary list --format json`,
	Args:    cobra.NoArgs,
	PreRunE: validateList,
	RunE:    runList,
}

func init() {
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format (table, json, yaml, toml)")
}

func validateList(cmd *cobra.Command, args []string) error {
	if _, err := report.Get(listFormat); err != nil {
		return err
	}

	// All validation passed - errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	formatter, err := report.Get(listFormat)
	if err != nil {
		return err
	}

	d, err := cmdutil.OpenDiary(ctx, config.Get(), cmdutil.OpenOptions{Logger: slog.Default()})
	if err != nil {
		return err
	}
	defer d.Close()

	entries, err := d.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list entries; %w", err)
	}

	rows := make([]report.EntryRow, 0, len(entries))
	d.WithIndex(func(ix *aggregate.Index) {
		for _, e := range entries {
			size, _ := ix.FileSize(e.Name)
			rows = append(rows, report.EntryRow{
				Name:       e.Name,
				Size:       size,
				Categories: len(ix.Contributions(e.Name)),
				UpdatedAt:  e.UpdatedAt,
			})
		}
	})

	output, err := formatter.FormatEntries(rows)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(output)
	return err
}
