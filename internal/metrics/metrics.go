// Package metrics provides Prometheus metrics for the diary.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "diary"
)

// Index metrics mirror the aggregation index totals.
var (
	// IndexTotalSize is the size of all indexed content.
	IndexTotalSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "index_total_size",
		Help:      "Total content size tracked by the aggregation index, in characters",
	})

	// IndexCategories is the number of category paths in the index.
	IndexCategories = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "index_categories",
		Help:      "Number of category paths in the aggregation index",
	})

	// IndexFiles is the number of entries contributing to the index.
	IndexFiles = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "index_files",
		Help:      "Number of entries contributing to the aggregation index",
	})
)

// Entry metrics track persistence operations.
var (
	// EntriesSavedTotal counts entries written to storage.
	EntriesSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_saved_total",
		Help:      "Total number of entries saved",
	})

	// EntriesDeletedTotal counts entries removed from storage.
	EntriesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_deleted_total",
		Help:      "Total number of entries deleted",
	})

	// OperationDuration is a histogram of diary operation durations.
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Duration of diary operations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
	}, []string{"operation"})

	// OperationErrorsTotal counts failed diary operations.
	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operation_errors_total",
		Help:      "Total number of failed diary operations",
	}, []string{"operation"})
)

// Workspace metrics track the watcher and event bus.
var (
	// WorkspaceEventsTotal counts published workspace changes by kind.
	WorkspaceEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workspace_events_total",
		Help:      "Total number of workspace file changes published",
	}, []string{"kind"})

	// EventBusDroppedEvents counts events dropped because a subscriber
	// buffer was full.
	EventBusDroppedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_bus_dropped_events_total",
		Help:      "Total number of events dropped by the event bus",
	}, []string{"event_type"})
)

// Process metrics track health and uptime.
var (
	// BuildInfo provides version and build information.
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Version and build information",
	}, []string{"version", "go_version"})

	// StartTime is the unix timestamp when the process started collecting.
	StartTime = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "start_time_seconds",
		Help:      "Unix timestamp when metric collection started",
	})

	// ComponentStatus tracks the health status of components.
	ComponentStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "component_status",
		Help:      "Health status of components (1=healthy, 0=unhealthy)",
	}, []string{"component"})
)
