package subcommands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/diary/internal/config"
	"github.com/leefowlercu/diary/internal/editor"
)

// EditCmd opens the configuration file in an editor.
var EditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the configuration file in your editor",
	Long: "Edit the configuration file in your editor.\n\n" +
		"Opens the diary configuration file in the editor named by editor.command, " +
		"$VISUAL or $EDITOR, falling back to common editors. A missing file is first " +
		"created with the defaults. The edited file is validated when the editor exits.",
	Example: `  # Edit configuration
  diary config edit

  # Edit with a specific editor
  EDITOR=nano diary config edit`,
	PreRunE: validateEdit,
	RunE:    runEdit,
}

func validateEdit(cmd *cobra.Command, args []string) error {
	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configPath := config.GetConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := config.NewDefaultConfig()
		if err := config.Write(&cfg, configPath); err != nil {
			return fmt.Errorf("failed to create config file; %w", err)
		}
	}

	var command string
	if cfg := config.Get(); cfg != nil {
		command = cfg.Editor.Command
	}
	opener := editor.NewOpener(command, editor.WithStdio(cmd.InOrStdin(), out, cmd.ErrOrStderr()))
	if err := opener.OpenFile(context.Background(), configPath); err != nil {
		return fmt.Errorf("editor exited with error; %w", err)
	}

	if _, err := config.LoadFromPath(configPath); err != nil {
		return fmt.Errorf("edited configuration is invalid; %w", err)
	}

	fmt.Fprintln(out, "Configuration saved. Send SIGHUP to a running watch to apply log_level and editor changes.")
	return nil
}
