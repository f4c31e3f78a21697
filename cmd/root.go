package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/diary/cmd/config"
	"github.com/leefowlercu/diary/cmd/edit"
	"github.com/leefowlercu/diary/cmd/export"
	"github.com/leefowlercu/diary/cmd/importer"
	"github.com/leefowlercu/diary/cmd/list"
	"github.com/leefowlercu/diary/cmd/remove"
	"github.com/leefowlercu/diary/cmd/show"
	"github.com/leefowlercu/diary/cmd/stats"
	"github.com/leefowlercu/diary/cmd/version"
	"github.com/leefowlercu/diary/cmd/watch"
	internalconfig "github.com/leefowlercu/diary/internal/config"
	"github.com/leefowlercu/diary/internal/logging"
)

// logManager is the global logging manager, created in init() and upgraded after config loads
var logManager *logging.Manager

var diaryCmd = &cobra.Command{
	Use:   "diary",
	Short: "A plain-text diary with categorised entries",
	Long: "Diary keeps one entry per day (or per name) in an encrypted SQLite database.\n\n" +
		"Entries are edited as plain text in which bracketed markers open categories and " +
		"subcategories. Every save updates an index of how much has been written under each " +
		"category, which the stats command reports.",
	PersistentPreRunE: runInitialize,
}

func init() {
	logManager = logging.NewManager()
	slog.SetDefault(logManager.Logger())
	watch.SetLogLevel = logManager.SetLevel

	diaryCmd.AddCommand(edit.EditCmd)
	diaryCmd.AddCommand(show.ShowCmd)
	diaryCmd.AddCommand(importer.ImportCmd)
	diaryCmd.AddCommand(export.ExportCmd)
	diaryCmd.AddCommand(remove.RemoveCmd)
	diaryCmd.AddCommand(list.ListCmd)
	diaryCmd.AddCommand(stats.StatsCmd)
	diaryCmd.AddCommand(watch.WatchCmd)
	diaryCmd.AddCommand(config.ConfigCmd)
	diaryCmd.AddCommand(version.VersionCmd)
}

func runInitialize(cmd *cobra.Command, args []string) error {
	logger := logManager.Logger()

	if err := internalconfig.Init(); err != nil {
		return err
	}
	cfg := internalconfig.MustGet()

	level, ok := logging.ParseLevel(cfg.LogLevel)
	if !ok {
		level = logging.DefaultLevel
		if cfg.LogLevel != "" {
			logger.Warn("invalid log level configured, using default", "configured", cfg.LogLevel, "default", "info")
		}
	}

	if err := logManager.Upgrade(internalconfig.ExpandHome(cfg.LogFile), level); err != nil {
		logger.Warn("failed to enable file logging, continuing with stderr only", "error", err)
	}

	return nil
}

func Execute() error {
	diaryCmd.SilenceErrors = true
	diaryCmd.SilenceUsage = true

	defer func() { _ = logManager.Close() }()

	err := diaryCmd.Execute()

	if err != nil {
		cmd, _, _ := diaryCmd.Find(os.Args[1:])
		if cmd == nil {
			cmd = diaryCmd
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !cmd.SilenceUsage {
			fmt.Fprintf(os.Stderr, "\n")
			cmd.SetOut(os.Stderr)
			_ = cmd.Usage()
		}

		return err
	}

	return nil
}
