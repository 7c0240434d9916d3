// Package metrics defines the backend-neutral Collector interface used to
// instrument registry and sink operations, along with adapters for
// Prometheus and OpenTelemetry and a runtime statistics snapshot helper.
package metrics
