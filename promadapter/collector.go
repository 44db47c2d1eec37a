// Package promadapter implements catalog.MetricsCollector with Prometheus.
//
// Metric vectors are created on first use. The label names of a metric are fixed by its
// first observation; later observations of the same metric fill missing labels with "".
package promadapter

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records durations as histograms, counters as counters, and values as gauges.
type Collector struct {
	registerer prometheus.Registerer
	namespace  string

	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	labelNames map[string][]string
}

// NewCollector creates a Collector that registers its metrics with registerer under namespace.
func NewCollector(registerer prometheus.Registerer, namespace string) *Collector {
	return &Collector{
		registerer: registerer,
		namespace:  namespace,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		labelNames: make(map[string][]string),
	}
}

// RecordDuration observes duration in seconds.
func (c *Collector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vec, ok := c.histograms[metric]
	if !ok {
		vec = register(c.registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: c.namespace,
			Name:      metric,
			Help:      "Duration of " + metric,
			Buckets:   prometheus.DefBuckets,
		}, c.namesFor(metric, labels)))
		c.histograms[metric] = vec
	}

	vec.With(c.valuesFor(metric, labels)).Observe(duration.Seconds())
}

// IncrementCounter adds one to the counter.
func (c *Collector) IncrementCounter(metric string, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vec, ok := c.counters[metric]
	if !ok {
		vec = register(c.registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.namespace,
			Name:      metric,
			Help:      "Count of " + metric,
		}, c.namesFor(metric, labels)))
		c.counters[metric] = vec
	}

	vec.With(c.valuesFor(metric, labels)).Inc()
}

// RecordValue sets the gauge to value.
func (c *Collector) RecordValue(metric string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vec, ok := c.gauges[metric]
	if !ok {
		vec = register(c.registerer, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: c.namespace,
			Name:      metric,
			Help:      "Last value of " + metric,
		}, c.namesFor(metric, labels)))
		c.gauges[metric] = vec
	}

	vec.With(c.valuesFor(metric, labels)).Set(value)
}

// namesFor fixes the label names of metric on first use.
func (c *Collector) namesFor(metric string, labels map[string]string) []string {
	if names, ok := c.labelNames[metric]; ok {
		return names
	}

	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)

	c.labelNames[metric] = names

	return names
}

func (c *Collector) valuesFor(metric string, labels map[string]string) prometheus.Labels {
	names := c.labelNames[metric]
	values := make(prometheus.Labels, len(names))

	for _, name := range names {
		values[name] = labels[name]
	}

	return values
}

// register registers vec, or returns the already registered collector of the same description.
func register[V prometheus.Collector](registerer prometheus.Registerer, vec V) V {
	if registerer == nil {
		return vec
	}

	err := registerer.Register(vec)

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(V); ok {
			return existing
		}
	}

	return vec
}
