package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector on top of a prometheus
// Registerer. Metric vectors are created on first observation; the label
// key set seen first for a metric name fixes that metric's dimensions.
type PrometheusCollector struct {
	reg prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	gauges     map[string]*prometheus.GaugeVec
}

// Compile-time check: *PrometheusCollector implements Collector.
var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates a collector registering its metrics with
// reg. Passing nil uses the default registerer.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusCollector{
		reg:        reg,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}
}

// IncrementCounter adds one to the named counter.
func (c *PrometheusCollector) IncrementCounter(metric string, labels map[string]string) {
	keys, values := splitLabels(labels)

	c.mu.Lock()
	vec, ok := c.counters[metric]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metric,
			Help: metric,
		}, keys)
		c.reg.MustRegister(vec)
		c.counters[metric] = vec
	}
	c.mu.Unlock()

	vec.WithLabelValues(values...).Inc()
}

// RecordDuration records a latency observation in seconds.
func (c *PrometheusCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	keys, values := splitLabels(labels)

	c.mu.Lock()
	vec, ok := c.histograms[metric]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metric,
			Help:    metric,
			Buckets: prometheus.DefBuckets,
		}, keys)
		c.reg.MustRegister(vec)
		c.histograms[metric] = vec
	}
	c.mu.Unlock()

	vec.WithLabelValues(values...).Observe(duration.Seconds())
}

// RecordValue sets the named gauge.
func (c *PrometheusCollector) RecordValue(metric string, value float64, labels map[string]string) {
	keys, values := splitLabels(labels)

	c.mu.Lock()
	vec, ok := c.gauges[metric]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: metric,
			Help: metric,
		}, keys)
		c.reg.MustRegister(vec)
		c.gauges[metric] = vec
	}
	c.mu.Unlock()

	vec.WithLabelValues(values...).Set(value)
}

// splitLabels returns label keys in deterministic order with their values
// aligned by index.
func splitLabels(labels map[string]string) ([]string, []string) {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = labels[k]
	}
	return keys, values
}
