// Package metrics exports run statistics as Prometheus metrics.
//
// Metrics are declared as struct fields of type prometheus.Gauge, decorated with tags:
//
//	type Run struct {
//		Objects prometheus.Gauge `metric:"objects" description:"distinct content objects"`
//	}
//
// Registered metrics are typically written to a textfile for the node exporter to collect.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "chunkmap"

type settings struct {
	namespace string
	labels    prometheus.Labels
}

// Registry of metrics
type Registry struct {
	*settings
	registry *prometheus.Registry

	// a map of all registered modules
	modules   map[string]interface{}
	exclusive sync.Mutex
}

// New metrics registry
func New(opts ...Option) *Registry {
	s := &settings{
		namespace: defaultNamespace,
		labels:    make(prometheus.Labels),
	}
	for _, apply := range opts {
		apply(s)
	}

	return &Registry{
		settings: s,
		registry: prometheus.NewRegistry(),
		modules:  make(map[string]interface{}),
	}
}

// EnsureMetrics allows for lazy registration of metrics definitions.
//
// It may safely be called several times, and only the first registration
// for a given unique location is retained.
//
// When running several times, it ensures that all subsequent calls on the same location
// specify the same metrics type, otherwise it panics.
func (r *Registry) EnsureMetrics(location string, m interface{}) interface{} {
	r.exclusive.Lock()
	defer r.exclusive.Unlock()

	if existing, ok := r.modules[location]; ok {
		if !equalType(existing, m) {
			panic("trying to re-register existing metrics module with a different type")
		}
		return existing
	}

	scanStruct(location, r.addMetric, m)
	r.modules[location] = m
	return m
}

func (r *Registry) addMetric(metric, group string, tags map[string]string) prometheus.Gauge {
	name := metric
	if unit := tags["unit"]; unit != "" {
		name = joinName(metric, unit)
	}

	description := tags["description"]
	if description == "" {
		description = joinName(group, metric)
	}

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   r.namespace,
		Subsystem:   group,
		Name:        name,
		Help:        description,
		ConstLabels: r.labels,
	})
	r.registry.MustRegister(gauge)

	return gauge
}

// Gatherer exposes the registered metrics
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all registered metrics in the Prometheus text format.
//
// The file is written atomically, as expected by the node exporter textfile collector.
func (r *Registry) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, r.registry)
}
