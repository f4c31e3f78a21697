// Package edit implements the edit command for writing diary entries.
package edit

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
	"github.com/leefowlercu/diary/internal/editor"
)

// Flag variables for the edit command.
var (
	editKeep bool
)

// EditCmd opens an entry in the editor and saves it when the editor exits.
var EditCmd = &cobra.Command{
	Use:   "edit [today|yesterday|YYYY-MM-DD|name]",
	Short: "Write or revise a diary entry",
	Long: "Write or revise a diary entry in your editor.\n\n" +
		"The entry is unpacked into the workspace as a text file, opened in the editor " +
		"configured by editor.command (falling back to $VISUAL, $EDITOR and common editors), " +
		"and saved back into the diary when the editor exits. Without an argument the " +
		"entry for today is opened. Leaving the file empty deletes the entry.",
	Example: `  # Write today's entry
  diary edit

  # Revise yesterday's entry
  diary edit yesterday

  # Open a named entry and keep the workspace file afterwards
  diary edit ideas --keep`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: validateEdit,
	RunE:    runEdit,
}

func init() {
	EditCmd.Flags().BoolVar(&editKeep, "keep", false, "Keep the workspace file after saving")
}

func validateEdit(cmd *cobra.Command, args []string) error {
	var input string
	if len(args) > 0 {
		input = args[0]
	}
	if _, err := diary.ResolveName(input, time.Now()); err != nil {
		return err
	}

	cmd.SilenceUsage = true
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()
	cfg := config.Get()

	var input string
	if len(args) > 0 {
		input = args[0]
	}
	name, err := diary.ResolveName(input, time.Now())
	if err != nil {
		return err
	}

	d, err := cmdutil.OpenDiary(ctx, cfg, cmdutil.OpenOptions{Logger: slog.Default()})
	if err != nil {
		return err
	}
	defer d.Close()

	path, err := d.Unpack(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to unpack entry; %w", err)
	}

	opener := editor.NewOpener(cfg.Editor.Command,
		editor.WithStdio(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()))
	if err := opener.OpenFile(ctx, path); err != nil {
		return fmt.Errorf("editor exited with error; %w (unsaved text remains in %s)", err, path)
	}

	if err := d.Pack(ctx, name, editKeep); err != nil {
		return fmt.Errorf("failed to save entry; %w (text remains in %s)", err, path)
	}

	_, err = d.LoadDocument(ctx, name)
	switch {
	case errors.Is(err, diary.ErrEntryNotFound):
		fmt.Fprintf(out, "Entry %s is empty; nothing stored\n", name)
	case err != nil:
		return fmt.Errorf("failed to verify entry; %w", err)
	default:
		fmt.Fprintf(out, "Saved entry %s\n", name)
	}

	return nil
}
