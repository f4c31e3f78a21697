package subcommands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/diary/internal/config"
)

var (
	initForce bool
)

// InitCmd writes a default configuration file.
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: "Write a configuration file populated with the default values.\n\n" +
		"An existing file is left alone unless --force is given, in which case it " +
		"is replaced with the defaults.",
	Example: `  # Create the config file
  diary config init

  # Reset the config file to defaults
  diary config init --force`,
	PreRunE: validateInit,
	RunE:    runInit,
}

func init() {
	InitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func validateInit(cmd *cobra.Command, args []string) error {
	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := config.DefaultConfigPath()

	if config.ConfigExistsAt(path) && !initForce {
		return fmt.Errorf("config file already exists at %s; use --force to overwrite", path)
	}

	cfg := config.NewDefaultConfig()
	if err := config.WriteDefault(&cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote default configuration to %s\n", path)
	return nil
}
