package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all client-level metrics (not application-specific)
type Metrics struct {
	// Connection metrics
	Connected  prometheus.Gauge
	Reconnects prometheus.Counter

	// Frame metrics
	FramesSent     *prometheus.CounterVec
	FramesReceived *prometheus.CounterVec
	ProtocolErrors prometheus.Counter

	// Request metrics
	RequestsInFlight prometheus.Gauge
	RequestDuration  *prometheus.HistogramVec
	RequestTimeouts  prometheus.Counter

	// Push metrics
	PushesDelivered *prometheus.CounterVec
	PushesDropped   prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all client metrics
func NewMetrics() *Metrics {
	return &Metrics{
		Connected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "emergent",
				Subsystem: "connection",
				Name:      "up",
				Help:      "Engine connection status (0=disconnected, 1=connected)",
			},
		),

		Reconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "emergent",
				Subsystem: "connection",
				Name:      "reconnects_total",
				Help:      "Total number of engine reconnections",
			},
		),

		FramesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "emergent",
				Subsystem: "frames",
				Name:      "sent_total",
				Help:      "Total number of frames written to the engine socket",
			},
			[]string{"type"},
		),

		FramesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "emergent",
				Subsystem: "frames",
				Name:      "received_total",
				Help:      "Total number of frames read from the engine socket",
			},
			[]string{"type"},
		),

		ProtocolErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "emergent",
				Subsystem: "frames",
				Name:      "protocol_errors_total",
				Help:      "Total number of malformed frames discarded from the read buffer",
			},
		),

		RequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "emergent",
				Subsystem: "requests",
				Name:      "in_flight",
				Help:      "Number of correlated requests awaiting a response",
			},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "emergent",
				Subsystem: "requests",
				Name:      "duration_seconds",
				Help:      "Round-trip time of correlated requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"target", "status"},
		),

		RequestTimeouts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "emergent",
				Subsystem: "requests",
				Name:      "timeouts_total",
				Help:      "Total number of correlated requests that timed out",
			},
		),

		PushesDelivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "emergent",
				Subsystem: "pushes",
				Name:      "delivered_total",
				Help:      "Total number of push notifications delivered to the stream",
			},
			[]string{"type"},
		),

		PushesDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "emergent",
				Subsystem: "pushes",
				Name:      "dropped_total",
				Help:      "Total number of push notifications dropped after stream close",
			},
		),
	}
}

// RecordConnected updates the connection status gauge
func (c *Metrics) RecordConnected(connected bool) {
	value := 0.0
	if connected {
		value = 1.0
	}
	c.Connected.Set(value)
}

// RecordReconnect increments the reconnection counter
func (c *Metrics) RecordReconnect() {
	c.Reconnects.Inc()
}

// RecordFrameSent increments the sent frame counter for a frame type
func (c *Metrics) RecordFrameSent(frameType string) {
	c.FramesSent.WithLabelValues(frameType).Inc()
}

// RecordFrameReceived increments the received frame counter for a frame type
func (c *Metrics) RecordFrameReceived(frameType string) {
	c.FramesReceived.WithLabelValues(frameType).Inc()
}

// RecordProtocolError increments the malformed-frame counter
func (c *Metrics) RecordProtocolError() {
	c.ProtocolErrors.Inc()
}

// RecordRequestStart increments the in-flight request gauge
func (c *Metrics) RecordRequestStart() {
	c.RequestsInFlight.Inc()
}

// RecordRequestEnd decrements the in-flight gauge and records the round trip
func (c *Metrics) RecordRequestEnd(target, status string, duration time.Duration) {
	c.RequestsInFlight.Dec()
	c.RequestDuration.WithLabelValues(target, status).Observe(duration.Seconds())
}

// RecordRequestTimeout increments the timeout counter
func (c *Metrics) RecordRequestTimeout() {
	c.RequestTimeouts.Inc()
}

// RecordPushDelivered increments the delivered push counter for a message type
func (c *Metrics) RecordPushDelivered(messageType string) {
	c.PushesDelivered.WithLabelValues(messageType).Inc()
}

// RecordPushDropped increments the dropped push counter
func (c *Metrics) RecordPushDropped() {
	c.PushesDropped.Inc()
}
