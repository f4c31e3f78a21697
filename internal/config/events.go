package config

import (
	"context"
	"log/slog"
	"reflect"
	"sync"

	"github.com/leefowlercu/diary/internal/events"
)

var (
	eventBusMu sync.RWMutex
	eventBus   events.Bus
)

// SetEventBus sets the bus that receives config reload events. A nil bus
// disables publishing.
func SetEventBus(bus events.Bus) {
	eventBusMu.Lock()
	defer eventBusMu.Unlock()
	eventBus = bus
}

func currentBus() events.Bus {
	eventBusMu.RLock()
	defer eventBusMu.RUnlock()
	return eventBus
}

// section is a top-level config key and whether a running watch process
// can apply a change to it without restarting.
type section struct {
	name       string
	reloadable bool
	value      func(*Config) any
}

// sections are listed in config file order.
var sections = []section{
	{"log_level", true, func(c *Config) any { return c.LogLevel }},
	{"log_file", true, func(c *Config) any { return c.LogFile }},
	{"diary", false, func(c *Config) any { return c.Diary }},
	{"format", false, func(c *Config) any { return c.Format }},
	{"encryption", false, func(c *Config) any { return c.Encryption }},
	{"editor", true, func(c *Config) any { return c.Editor }},
	{"watch", false, func(c *Config) any { return c.Watch }},
	{"metrics", false, func(c *Config) any { return c.Metrics }},
}

// detectChangedSections returns the names of the sections that differ.
func detectChangedSections(old, updated *Config) []string {
	var changed []string
	for _, s := range sections {
		if !reflect.DeepEqual(s.value(old), s.value(updated)) {
			changed = append(changed, s.name)
		}
	}
	return changed
}

// isReloadable reports whether every named section can be applied live.
func isReloadable(changed []string) bool {
	for _, name := range changed {
		for _, s := range sections {
			if s.name == name && !s.reloadable {
				return false
			}
		}
	}
	return true
}

func publishConfigReloaded(old, updated *Config) {
	bus := currentBus()
	if bus == nil {
		return
	}

	changed := detectChangedSections(old, updated)
	reloadable := isReloadable(changed)
	if !reloadable {
		slog.Warn("config reload includes sections that need a restart", "changed_sections", changed)
	}

	if err := bus.Publish(context.Background(), events.NewConfigReloaded(changed, reloadable)); err != nil {
		slog.Error("failed to publish config reload event", "error", err)
	}
}

func publishConfigReloadFailed(err error) {
	bus := currentBus()
	if bus == nil {
		return
	}

	if pubErr := bus.Publish(context.Background(), events.NewConfigReloadFailed(err)); pubErr != nil {
		slog.Error("failed to publish config reload failure event", "error", pubErr)
	}
}
