// Package remove implements the remove command for deleting entries.
package remove

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/diary/internal/cmdutil"
	"github.com/leefowlercu/diary/internal/config"
	"github.com/leefowlercu/diary/internal/diary"
)

// RemoveCmd deletes an entry from the diary.
var RemoveCmd = &cobra.Command{
	Use:   "remove <today|yesterday|YYYY-MM-DD|name>",
	Short: "Delete a diary entry",
	Long: "Delete a diary entry.\n\n" +
		"The entry is removed from the database and its contribution is dropped from " +
		"the category index. A leftover workspace file for the entry is removed too.",
	Example: `  # Delete a named entry
  diary remove ideas`,
	Args:    cobra.ExactArgs(1),
	PreRunE: validateRemove,
	RunE:    runRemove,
}

func validateRemove(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	name, err := diary.ResolveName(args[0], time.Now())
	if err != nil {
		return err
	}

	d, err := cmdutil.OpenDiary(ctx, config.Get(), cmdutil.OpenOptions{Logger: slog.Default()})
	if err != nil {
		return err
	}
	defer d.Close()

	err = d.DeleteEntry(ctx, name)
	if errors.Is(err, diary.ErrEntryNotFound) {
		return fmt.Errorf("no entry named %s", name)
	}
	if err != nil {
		return fmt.Errorf("failed to remove entry; %w", err)
	}

	if err := os.Remove(d.TextPath(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to remove workspace file", "path", d.TextPath(name), "error", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
	return nil
}
