package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelCollector implements Collector on top of an OpenTelemetry Meter.
// Instruments are created lazily and cached per metric name.
type OTelCollector struct {
	meter metric.Meter

	mu         sync.Mutex
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
	gauges     map[string]metric.Float64Gauge
}

// Compile-time check: *OTelCollector implements Collector.
var _ Collector = (*OTelCollector)(nil)

// NewOTelCollector creates a collector emitting through the given meter.
func NewOTelCollector(meter metric.Meter) *OTelCollector {
	return &OTelCollector{
		meter:      meter,
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
		gauges:     make(map[string]metric.Float64Gauge),
	}
}

// IncrementCounter adds one to the named counter.
func (c *OTelCollector) IncrementCounter(name string, labels map[string]string) {
	c.mu.Lock()
	counter, ok := c.counters[name]
	if !ok {
		var err error
		counter, err = c.meter.Int64Counter(name)
		if err != nil {
			c.mu.Unlock()
			return
		}
		c.counters[name] = counter
	}
	c.mu.Unlock()

	counter.Add(context.Background(), 1, metric.WithAttributes(toAttributes(labels)...))
}

// RecordDuration records a latency observation in seconds.
func (c *OTelCollector) RecordDuration(name string, duration time.Duration, labels map[string]string) {
	c.mu.Lock()
	hist, ok := c.histograms[name]
	if !ok {
		var err error
		hist, err = c.meter.Float64Histogram(name, metric.WithUnit("s"))
		if err != nil {
			c.mu.Unlock()
			return
		}
		c.histograms[name] = hist
	}
	c.mu.Unlock()

	hist.Record(context.Background(), duration.Seconds(), metric.WithAttributes(toAttributes(labels)...))
}

// RecordValue sets the named gauge.
func (c *OTelCollector) RecordValue(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	gauge, ok := c.gauges[name]
	if !ok {
		var err error
		gauge, err = c.meter.Float64Gauge(name)
		if err != nil {
			c.mu.Unlock()
			return
		}
		c.gauges[name] = gauge
	}
	c.mu.Unlock()

	gauge.Record(context.Background(), value, metric.WithAttributes(toAttributes(labels)...))
}

// toAttributes converts a label map to otel attributes.
func toAttributes(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	return attrs
}
