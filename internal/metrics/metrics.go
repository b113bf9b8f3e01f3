// Package metrics exposes extraction counters in Prometheus format. Metrics
// live in a private registry and are written to a node_exporter textfile at
// the end of a run when a path is configured.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "edfinfo"

// Collector records parse, fallback, and converter metrics. It satisfies
// eyefile.Observer.
type Collector struct {
	registry   *prometheus.Registry
	parses     *prometheus.CounterVec
	fallbacks  *prometheus.CounterVec
	conversion prometheus.Summary
}

// New constructs a Collector with its own registry.
func New() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}
	c.parses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "parses_total",
		Help:      "Recordings parsed by container kind and outcome",
	}, []string{"kind", "outcome"})
	c.fallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_total",
		Help:      "Fallback phase entries by transcript source",
	}, []string{"source"})
	c.conversion = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace:  namespace,
		Name:       "converter_duration_seconds",
		Help:       "Time spent running the EDF to ASC converter",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	})
	c.registry.MustRegister(c.parses, c.fallbacks, c.conversion)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) ObserveParse(kind, outcome string) {
	c.parses.WithLabelValues(kind, outcome).Inc()
}

func (c *Collector) ObserveFallback(source string) {
	c.fallbacks.WithLabelValues(source).Inc()
}

func (c *Collector) ObserveConversion(elapsed time.Duration) {
	c.conversion.Observe(elapsed.Seconds())
}

// WriteTextfile atomically writes the registry in text exposition format.
// An empty path is a no-op.
func (c *Collector) WriteTextfile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
