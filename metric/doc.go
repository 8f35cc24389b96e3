// Package metric provides Prometheus-based metrics collection and an HTTP
// server for observing primitive clients.
//
// The package offers a centralized metrics registry managing both core client
// metrics (connection status, frame counts, request round trips, push
// delivery) and custom primitive-specific metrics. It includes an HTTP server
// exposing metrics in Prometheus format.
//
// # Basic Usage
//
// Setting up metrics collection and the HTTP server:
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//
//	go func() {
//	    if err := server.Start(); err != nil {
//	        log.Printf("metrics server error: %v", err)
//	    }
//	}()
//	defer server.Stop()
//
// Pass the registry to a client with client.WithMetrics(registry); the client
// then records connection, frame, request, and push metrics automatically.
//
// # Core Metrics
//
// All core metrics use the namespace "emergent":
//
//   - emergent_connection_up, emergent_connection_reconnects_total
//   - emergent_frames_sent_total{type}, emergent_frames_received_total{type}
//   - emergent_frames_protocol_errors_total
//   - emergent_requests_in_flight, emergent_requests_duration_seconds{target,status}
//   - emergent_requests_timeouts_total
//   - emergent_pushes_delivered_total{type}, emergent_pushes_dropped_total
//
// # Primitive-Specific Metrics
//
// Primitives can register custom metrics through the MetricsRegistrar
// interface:
//
//	counter := prometheus.NewCounter(prometheus.CounterOpts{
//	    Name: "orders_processed_total",
//	    Help: "Total number of orders processed",
//	})
//	err := registry.RegisterCounter("order-handler", "orders_processed_total", counter)
//
// Registration is thread-safe and rejects duplicate names per client.
package metric
