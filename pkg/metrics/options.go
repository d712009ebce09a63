package metrics

// Option defines some options to the metrics registry
type Option func(*settings)

// WithNamespace defines the prefix of all registered metrics. The default is "chunkmap".
func WithNamespace(namespace string) Option {
	return func(m *settings) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithLabels adds constant labels to all registered metrics
func WithLabels(labels map[string]string) Option {
	return func(m *settings) {
		for k, v := range labels {
			m.labels[k] = v
		}
	}
}
