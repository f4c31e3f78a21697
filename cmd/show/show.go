// Package show implements the show command for printing an entry.
package show

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/diary/internal/cmdutil"
	"github.com/leefowlercu/diary/internal/config"
	"github.com/leefowlercu/diary/internal/diary"
)

// ShowCmd prints an entry in the diary text format.
var ShowCmd = &cobra.Command{
	Use:   "show [today|yesterday|YYYY-MM-DD|name]",
	Short: "Print a diary entry",
	Long: "Print a diary entry in the diary text format.\n\n" +
		"Without an argument the entry for today is printed.",
	Example: `  # Print today's entry
  diary show

  # Print an older entry
  diary show 2024-03-15`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: validateShow,
	RunE:    runShow,
}

func validateShow(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var input string
	if len(args) > 0 {
		input = args[0]
	}
	name, err := diary.ResolveName(input, time.Now())
	if err != nil {
		return err
	}

	d, err := cmdutil.OpenDiary(ctx, config.Get(), cmdutil.OpenOptions{Logger: slog.Default()})
	if err != nil {
		return err
	}
	defer d.Close()

	text, err := d.LoadText(ctx, name)
	if errors.Is(err, diary.ErrEntryNotFound) {
		return fmt.Errorf("no entry named %s", name)
	}
	if err != nil {
		return fmt.Errorf("failed to load entry; %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
