package metric

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Govcraft/emergent-primitives/errors"
)

// MetricsRegistrar defines the interface for registering primitive-specific metrics
type MetricsRegistrar interface {
	RegisterCounter(clientName, metricName string, counter prometheus.Counter) error
	RegisterGauge(clientName, metricName string, gauge prometheus.Gauge) error
	RegisterHistogram(clientName, metricName string, histogram prometheus.Histogram) error
	RegisterCounterVec(clientName, metricName string, counterVec *prometheus.CounterVec) error
	RegisterGaugeVec(clientName, metricName string, gaugeVec *prometheus.GaugeVec) error
	RegisterHistogramVec(clientName, metricName string, histogramVec *prometheus.HistogramVec) error
	Unregister(clientName, metricName string) bool
}

// MetricsRegistry manages the registration and lifecycle of metrics
type MetricsRegistry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
	registeredMetrics  map[string]prometheus.Collector
	mu                 sync.RWMutex
}

// NewMetricsRegistry creates a new metrics registry with core client metrics
func NewMetricsRegistry() *MetricsRegistry {
	prometheusRegistry := prometheus.NewRegistry()

	registry := &MetricsRegistry{
		prometheusRegistry: prometheusRegistry,
		registeredMetrics:  make(map[string]prometheus.Collector),
	}

	registry.Metrics = NewMetrics()
	registry.registerMetrics()

	// Add Go runtime metrics
	registry.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *MetricsRegistry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the core client metrics
func (r *MetricsRegistry) CoreMetrics() *Metrics {
	return r.Metrics
}

// register adds a collector under a client-scoped key, rejecting duplicates
// at both the registry and Prometheus level.
func (r *MetricsRegistry) register(clientName, metricName, method, kind string, c prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", clientName, metricName)

	if _, exists := r.registeredMetrics[key]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("metric %s already registered for client %s", metricName, clientName),
			"MetricsRegistry", method, "duplicate metric registration")
	}

	if err := r.prometheusRegistry.Register(c); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if stderrors.As(err, &alreadyRegErr) {
			return errors.WrapInvalid(err, "MetricsRegistry", method,
				fmt.Sprintf("prometheus conflict for metric %s", metricName))
		}
		return errors.WrapFatal(err, "MetricsRegistry", method,
			fmt.Sprintf("failed to register %s with prometheus", kind))
	}

	r.registeredMetrics[key] = c
	return nil
}

// RegisterCounter registers a counter metric for a client
func (r *MetricsRegistry) RegisterCounter(clientName, metricName string, counter prometheus.Counter) error {
	return r.register(clientName, metricName, "RegisterCounter", "counter", counter)
}

// RegisterGauge registers a gauge metric for a client
func (r *MetricsRegistry) RegisterGauge(clientName, metricName string, gauge prometheus.Gauge) error {
	return r.register(clientName, metricName, "RegisterGauge", "gauge", gauge)
}

// RegisterHistogram registers a histogram metric for a client
func (r *MetricsRegistry) RegisterHistogram(clientName, metricName string, histogram prometheus.Histogram) error {
	return r.register(clientName, metricName, "RegisterHistogram", "histogram", histogram)
}

// RegisterCounterVec registers a counter vector metric for a client
func (r *MetricsRegistry) RegisterCounterVec(clientName, metricName string, counterVec *prometheus.CounterVec) error {
	return r.register(clientName, metricName, "RegisterCounterVec", "counter vector", counterVec)
}

// RegisterGaugeVec registers a gauge vector metric for a client
func (r *MetricsRegistry) RegisterGaugeVec(clientName, metricName string, gaugeVec *prometheus.GaugeVec) error {
	return r.register(clientName, metricName, "RegisterGaugeVec", "gauge vector", gaugeVec)
}

// RegisterHistogramVec registers a histogram vector metric for a client
func (r *MetricsRegistry) RegisterHistogramVec(
	clientName, metricName string, histogramVec *prometheus.HistogramVec) error {
	return r.register(clientName, metricName, "RegisterHistogramVec", "histogram vector", histogramVec)
}

// Unregister removes a metric from the registry
func (r *MetricsRegistry) Unregister(clientName, metricName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", clientName, metricName)

	collector, exists := r.registeredMetrics[key]
	if !exists {
		return false
	}

	success := r.prometheusRegistry.Unregister(collector)
	if success {
		delete(r.registeredMetrics, key)
	}

	return success
}

// registerMetrics registers all core client metrics
func (r *MetricsRegistry) registerMetrics() {
	r.prometheusRegistry.MustRegister(
		r.Metrics.Connected,
		r.Metrics.Reconnects,
		r.Metrics.FramesSent,
		r.Metrics.FramesReceived,
		r.Metrics.ProtocolErrors,
		r.Metrics.RequestsInFlight,
		r.Metrics.RequestDuration,
		r.Metrics.RequestTimeouts,
		r.Metrics.PushesDelivered,
		r.Metrics.PushesDropped,
	)
}
