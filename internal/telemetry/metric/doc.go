// Package metric provides Prometheus metrics for reviewgate.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Registry, counters and the /metrics handler
//   - collector.go: Collector reading live gauges from the session store
//
// Registry implements the controller's observer interface, so the core
// reports events without importing Prometheus. Metrics are exposed at
// /metrics in Prometheus text format.
package metric
