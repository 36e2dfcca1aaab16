package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds. Fallback classification is fast but
	// real inference calls can run into multi-second territory.
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	HTTPRequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fedwatch_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fedwatch_http_latency_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"route"},
	)

	AnalysisTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fedwatch_analysis_total",
			Help: "Total number of media analyses performed",
		},
		[]string{"model", "anomaly_type", "outcome"},
	)

	AnalysisLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fedwatch_analysis_latency_ms",
			Help:    "Analysis latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"model"},
	)

	InferenceFallbackTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "fedwatch_inference_fallback_total",
			Help: "Analyses served by the local fallback classifier",
		},
	)

	TrainingRoundsTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "fedwatch_training_rounds_total",
			Help: "Completed federated training rounds",
		},
	)

	PrivacyBudgetRemaining = promauto.With(registerer).NewGauge(
		prometheus.GaugeOpts{
			Name: "fedwatch_privacy_budget_remaining",
			Help: "Remaining differential privacy budget (epsilon)",
		},
	)

	WebSocketConnections = promauto.With(registerer).NewGauge(
		prometheus.GaugeOpts{
			Name: "fedwatch_websocket_connections",
			Help: "Number of active dashboard WebSocket connections",
		},
	)

	DevicesByStatus = promauto.With(registerer).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fedwatch_devices",
			Help: "Edge devices grouped by status",
		},
		[]string{"status"},
	)
)

// Initialize registers process collectors and routes the default gatherer to
// the private registry so promhttp.Handler() serves our metrics.
func Initialize() {
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}
