// Package sysmon provides system-wide CPU and memory usage sampling for
// the TUI dashboard and the metrics endpoint.
package sysmon

import (
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/agbru/lazyreg/metrics"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// Sampler collects samples into a bounded history and publishes each
// reading as a gauge. Safe for concurrent use.
type Sampler struct {
	mu      sync.Mutex
	history []Stats
	cap     int
	col     metrics.Collector
}

// NewSampler creates a sampler keeping at most capacity samples.
// The collector may be nil to disable gauge publication.
func NewSampler(capacity int, col metrics.Collector) *Sampler {
	if capacity < 1 {
		capacity = 1
	}
	if col == nil {
		col = metrics.NewNop()
	}
	return &Sampler{cap: capacity, col: col}
}

// Sample collects a snapshot, appends it to the history, and records the
// readings as gauges.
func (s *Sampler) Sample() Stats {
	snap := Sample()

	s.mu.Lock()
	s.history = append(s.history, snap)
	if len(s.history) > s.cap {
		s.history = s.history[len(s.history)-s.cap:]
	}
	s.mu.Unlock()

	s.col.RecordValue(metrics.MetricCPUPercent, snap.CPUPercent, nil)
	s.col.RecordValue(metrics.MetricMemPercent, snap.MemPercent, nil)
	return snap
}

// Last returns the most recent sample, or zero Stats when none exist.
func (s *Sampler) Last() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return Stats{}
	}
	return s.history[len(s.history)-1]
}

// History returns a copy of the retained samples, oldest first.
func (s *Sampler) History() []Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Stats, len(s.history))
	copy(out, s.history)
	return out
}
