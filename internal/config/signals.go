package config

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// reloadMu prevents concurrent reload attempts.
var reloadMu sync.Mutex

// HandleReloadSignals reloads the configuration on each SIGHUP until ctx is
// cancelled or the returned stop function is called. A SIGHUP that arrives
// while a reload is running is ignored. stop waits for the handler to exit.
func HandleReloadSignals(ctx context.Context) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer signal.Stop(sigCh)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigCh:
				triggerReload()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

// triggerReload runs Reload unless one is already in progress.
func triggerReload() bool {
	if !reloadMu.TryLock() {
		slog.Debug("SIGHUP received during reload; ignoring")
		return false
	}
	defer reloadMu.Unlock()

	slog.Info("received SIGHUP; reloading config")
	_ = Reload() // failure is logged and the previous config retained
	return true
}
