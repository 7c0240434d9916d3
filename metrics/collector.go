package metrics

import (
	"runtime"
	"time"
)

// Collector receives operational metrics from lazyreg components.
// Implementations must be safe for concurrent use. The interface is
// dependency-free so any backend can be plugged in.
type Collector interface {
	// IncrementCounter adds one to the named counter.
	IncrementCounter(metric string, labels map[string]string)
	// RecordDuration records a latency observation.
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	// RecordValue records a point-in-time value.
	RecordValue(metric string, value float64, labels map[string]string)
}

// NopCollector discards all observations. It is the default for library
// types so instrumentation stays opt-in.
type NopCollector struct{}

// Compile-time check: NopCollector implements Collector.
var _ Collector = NopCollector{}

// NewNop returns a Collector that discards everything.
func NewNop() NopCollector { return NopCollector{} }

func (NopCollector) IncrementCounter(string, map[string]string)               {}
func (NopCollector) RecordDuration(string, time.Duration, map[string]string)  {}
func (NopCollector) RecordValue(string, float64, map[string]string)           {}

// Metric names emitted by the registry and sink packages.
const (
	MetricConstructions        = "lazyreg_constructions_total"
	MetricConstructionFailures = "lazyreg_construction_failures_total"
	MetricInstanceHits         = "lazyreg_instance_hits_total"
	MetricConstructionSeconds  = "lazyreg_construction_duration_seconds"
	MetricCPUPercent           = "lazyreg_cpu_percent"
	MetricMemPercent           = "lazyreg_mem_percent"
)

// RuntimeSnapshot holds a point-in-time reading of process-level runtime
// statistics, reported alongside stress results.
type RuntimeSnapshot struct {
	HeapAlloc  uint64 // bytes in use by the application
	Sys        uint64 // total bytes obtained from the OS
	NumGC      uint32 // completed GC cycles
	Goroutines int    // live goroutines
}

// CaptureRuntime reads the current runtime statistics.
func CaptureRuntime() RuntimeSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeSnapshot{
		HeapAlloc:  m.HeapAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}
