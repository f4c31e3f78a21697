// Package watch implements the watch command, which saves workspace files
// into the diary whenever they change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/diary/internal/cmdutil"
	"github.com/leefowlercu/diary/internal/config"
	"github.com/leefowlercu/diary/internal/diary"
	"github.com/leefowlercu/diary/internal/events"
	"github.com/leefowlercu/diary/internal/logging"
	"github.com/leefowlercu/diary/internal/metrics"
	"github.com/leefowlercu/diary/internal/watcher"
)

// SetLogLevel applies a reloaded log level. The root command wires it to
// the logging manager.
var SetLogLevel func(slog.Level)

// WatchCmd runs the workspace watcher until interrupted.
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Save workspace files into the diary as they change",
	Long: "Watch the workspace directory and save every changed entry file into the diary.\n\n" +
		"This lets any editor write entries: save YYYY_MM_DD.txt in the workspace and the " +
		"entry and category index are updated within the debounce window. When " +
		"metrics.listen is set, Prometheus metrics are served on /metrics. Sending SIGHUP " +
		"reloads the configuration; log_level and editor take effect immediately.",
	Example: `  # Watch the workspace
  diary watch

  # Watch and expose metrics
  DIARY_METRICS_LISTEN=127.0.0.1:9464 diary watch`,
	Args:    cobra.NoArgs,
	PreRunE: validateWatch,
	RunE:    runWatch,
}

func validateWatch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Run(ctx, config.Get(), cmd.OutOrStdout())
}

// Run watches the workspace of the diary described by cfg until ctx is
// cancelled or the watcher fails.
func Run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	logger := slog.Default().With("component", "watch")

	bus := events.NewBus(events.WithLogger(logger))
	config.SetEventBus(bus)
	defer config.SetEventBus(nil)

	d, err := cmdutil.OpenDiary(ctx, cfg, cmdutil.OpenOptions{Bus: bus, Logger: logger})
	if err != nil {
		bus.Close()
		return err
	}
	defer d.Close()
	// Queued saves finish before the diary closes.
	defer bus.Close()

	if err := os.MkdirAll(d.Workspace(), 0700); err != nil {
		return fmt.Errorf("failed to create workspace; %w", err)
	}

	subscribe(context.WithoutCancel(ctx), bus, d, logger)

	w, err := watcher.New(bus,
		watcher.WithDebounceWindow(time.Duration(cfg.Watch.DebounceMs)*time.Millisecond),
		watcher.WithDeleteGracePeriod(time.Duration(cfg.Watch.DeleteGraceMs)*time.Millisecond),
		watcher.WithExtension(diary.TextExtension),
		watcher.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Watch(d.Workspace()); err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}

	collector := metrics.NewCollector(time.Duration(cfg.Metrics.CollectionInterval) * time.Second)
	collector.Register("diary", d)
	go collector.Run(ctx)

	if cfg.Metrics.Listen != "" {
		shutdown, err := serveMetrics(cfg.Metrics.Listen, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	stopReload := config.HandleReloadSignals(ctx)
	defer stopReload()

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", d.Workspace())
	logger.Info("watching workspace", "dir", d.Workspace())

	select {
	case <-ctx.Done():
		logger.Info("watch stopped")
		return nil
	case err := <-w.Errors():
		return fmt.Errorf("watcher failed; %w", err)
	}
}

// subscribe wires workspace and config events to the diary. The
// subscriptions last until the bus is closed.
func subscribe(ctx context.Context, bus events.Bus, d *diary.Diary, logger *slog.Logger) {
	bus.Subscribe(events.WorkspaceFileChanged, func(e events.Event) {
		p, ok := e.Payload.(*events.WorkspaceFileEvent)
		if !ok {
			return
		}
		name, err := d.Ingest(ctx, p.Path)
		if err != nil {
			logger.Error("failed to save workspace file", "path", p.Path, "error", err)
			return
		}
		logger.Debug("workspace file saved", "name", name)
	})

	// Removal is how edit cleans up after saving, so the entry stays.
	bus.Subscribe(events.WorkspaceFileRemoved, func(e events.Event) {
		if p, ok := e.Payload.(*events.WorkspaceFileEvent); ok {
			logger.Debug("workspace file removed", "name", p.Name)
		}
	})

	bus.Subscribe(events.ConfigReloaded, func(e events.Event) {
		p, ok := e.Payload.(*events.ConfigReloadEvent)
		if !ok {
			return
		}
		if !p.Reloadable {
			logger.Warn("config changes require a restart to take effect", "sections", p.ChangedSections)
		}
		if SetLogLevel != nil {
			SetLogLevel(logging.ParseLevelOrDefault(config.MustGet().LogLevel))
		}
	})
}

// serveMetrics starts the /metrics endpoint and returns its shutdown
// function.
func serveMetrics(addr string, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s; %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	logger.Info("serving metrics", "addr", ln.Addr().String())
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
