// Package config provides the config parent command and subcommands.
package config

import (
	"github.com/spf13/cobra"

	"github.com/leefowlercu/diary/cmd/config/subcommands"
)

// ConfigCmd is the parent command for all config-related subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage diary configuration",
	Long: "Manage diary configuration.\n\n" +
		"The config command allows you to create, view, edit and validate the diary " +
		"configuration. Configuration is stored in a YAML file located at " +
		"~/.config/diary/config.yaml by default, and every key can be overridden with " +
		"a DIARY_ environment variable (e.g. DIARY_FORMAT_SEPARATOR).",
}

func init() {
	ConfigCmd.AddCommand(subcommands.InitCmd)
	ConfigCmd.AddCommand(subcommands.ShowCmd)
	ConfigCmd.AddCommand(subcommands.EditCmd)
	ConfigCmd.AddCommand(subcommands.ValidateCmd)
}
