package metrics

import (
	"context"
	"net/http"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leefowlercu/diary/internal/version"
)

// MetricsProvider is implemented by components that refresh their own
// gauges on demand.
type MetricsProvider interface {
	CollectMetrics(ctx context.Context) error
}

type namedProvider struct {
	name     string
	provider MetricsProvider
}

// Collector refreshes gauges from its providers on a fixed interval.
type Collector struct {
	interval time.Duration

	mu        sync.Mutex
	providers []namedProvider
}

// NewCollector creates a collector that refreshes every interval.
func NewCollector(interval time.Duration) *Collector {
	return &Collector{interval: interval}
}

// Register adds a provider under name, replacing any provider already
// registered under that name.
func (c *Collector) Register(name string, provider MetricsProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.providers = slices.DeleteFunc(c.providers, func(p namedProvider) bool { return p.name == name })
	c.providers = append(c.providers, namedProvider{name: name, provider: provider})
}

// Unregister removes the provider registered under name.
func (c *Collector) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.providers = slices.DeleteFunc(c.providers, func(p namedProvider) bool { return p.name == name })
	ComponentStatus.DeleteLabelValues(name)
}

// Run records build information, refreshes once immediately and then on
// every tick until ctx is cancelled.
func (c *Collector) Run(ctx context.Context) {
	StartTime.Set(float64(time.Now().Unix()))
	BuildInfo.WithLabelValues(version.Get().Version, runtime.Version()).Set(1)

	c.Refresh(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Refresh(ctx)
		}
	}
}

// Refresh asks every provider to update its gauges and records whether it
// succeeded.
func (c *Collector) Refresh(ctx context.Context) {
	c.mu.Lock()
	providers := slices.Clone(c.providers)
	c.mu.Unlock()

	for _, p := range providers {
		status := 1.0
		if err := p.provider.CollectMetrics(ctx); err != nil {
			status = 0
		}
		ComponentStatus.WithLabelValues(p.name).Set(status)
	}
}

// Handler returns the Prometheus HTTP handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordOperation records the duration and outcome of a diary operation.
func RecordOperation(operation string, duration time.Duration, err error) {
	OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		OperationErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// RecordEntrySaved records a saved entry.
func RecordEntrySaved() {
	EntriesSavedTotal.Inc()
}

// RecordEntryDeleted records a deleted entry.
func RecordEntryDeleted() {
	EntriesDeletedTotal.Inc()
}

// RecordWorkspaceEvent records a published workspace change by kind.
func RecordWorkspaceEvent(kind string) {
	WorkspaceEventsTotal.WithLabelValues(kind).Inc()
}

// UpdateIndexMetrics updates the aggregation index gauges.
func UpdateIndexMetrics(totalSize, categories, files int) {
	IndexTotalSize.Set(float64(totalSize))
	IndexCategories.Set(float64(categories))
	IndexFiles.Set(float64(files))
}
