// Package importer implements the import command for storing text files as
// entries.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/diary/internal/cmdutil"
	"github.com/leefowlercu/diary/internal/config"
	"github.com/leefowlercu/diary/internal/diary"
)

// Flag variables for the import command.
var (
	importName string
)

// ImportCmd stores text files as diary entries.
var ImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import text files as diary entries",
	Long: "Import text files as diary entries.\n\n" +
		"Each file is parsed in the diary text format and stored under the entry name " +
		"taken from its filename without the extension. Use \"-\" together with --name " +
		"to read a single entry from standard input.",
	Example: `  # Import two days written elsewhere
  diary import 2024_03_15.txt 2024_03_16.txt

  # Import from standard input
  cat notes.txt | diary import - --name ideas`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: validateImport,
	RunE:    runImport,
}

func init() {
	ImportCmd.Flags().StringVarP(&importName, "name", "n", "", "Entry name for text read from standard input")
}

func validateImport(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		if arg == "-" {
			if len(args) > 1 {
				return fmt.Errorf("\"-\" cannot be combined with other files")
			}
			if importName == "" {
				return fmt.Errorf("--name is required when reading from standard input")
			}
		}
	}
	if importName != "" {
		if err := diary.ValidateName(importName); err != nil {
			return err
		}
	}

	cmd.SilenceUsage = true
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	d, err := cmdutil.OpenDiary(ctx, config.Get(), cmdutil.OpenOptions{Logger: slog.Default()})
	if err != nil {
		return err
	}
	defer d.Close()

	if args[0] == "-" {
		text, err := cmdutil.ReadInput(cmd.InOrStdin())
		if err != nil {
			return err
		}
		if err := d.SaveText(ctx, importName, text); err != nil {
			return fmt.Errorf("failed to import entry; %w", err)
		}
		fmt.Fprintf(out, "Imported %s\n", importName)
		return nil
	}

	for _, arg := range args {
		path, err := cmdutil.ResolvePath(arg)
		if err != nil {
			return fmt.Errorf("failed to resolve path; %w", err)
		}
		name, err := d.Ingest(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to import %s; %w", arg, err)
		}
		fmt.Fprintf(out, "Imported %s as %s\n", arg, name)
	}

	return nil
}
