// Package export implements the export command for writing an entry out
// as text or JSON.
package export

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

// Flag variables for the export command.
var (
	exportFormat string
	exportOutput string
)

// ExportCmd writes an entry out in text or JSON form.
var ExportCmd = &cobra.Command{
	Use:   "export <today|yesterday|YYYY-MM-DD|name>",
	Short: "Export a diary entry as text or JSON",
	Long: "Export a diary entry.\n\n" +
		"The text format is the one the edit command uses. The JSON format is the " +
		"flattened document stored in the diary: an object mapping category paths " +
		"such as \"Work;Release;\" to their content.",
	Example: `  # Print an entry as JSON
  diary export 2024-03-15 --format json

  # Write an entry to a file
  diary export today --output today.txt`,
	Args:    cobra.ExactArgs(1),
	PreRunE: validateExport,
	RunE:    runExport,
}

func init() {
	ExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "text", "Output format (text, json)")
	ExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func validateExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "text" && exportFormat != "json" {
		return fmt.Errorf("invalid format %q; must be one of: text, json", exportFormat)
	}

	cmd.SilenceUsage = true
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
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

	var output []byte
	switch exportFormat {
	case "json":
		output, err = d.LoadJSON(ctx, name)
	default:
		var text string
		text, err = d.LoadText(ctx, name)
		output = []byte(text)
	}
	if errors.Is(err, diary.ErrEntryNotFound) {
		return fmt.Errorf("no entry named %s", name)
	}
	if err != nil {
		return fmt.Errorf("failed to export entry; %w", err)
	}
	output = append(output, '\n')

	if exportOutput != "" {
		path, err := cmdutil.ResolvePath(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to resolve output path; %w", err)
		}
		if err := os.WriteFile(path, output, 0600); err != nil {
			return fmt.Errorf("failed to write output file; %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s (%d bytes)\n", name, path, len(output))
		return nil
	}

	_, err = cmd.OutOrStdout().Write(output)
	return err
}
