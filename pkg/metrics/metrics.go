package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appointments_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "appointments_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appointments_operations_total",
		Help: "Count of scheduling operations by operation and result",
	}, []string{"operation", "result"})

	toolInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appointments_tool_invocations_total",
		Help: "Count of model-requested tool invocations by tool and result",
	}, []string{"tool", "result"})

	modelCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "appointments_model_call_duration_seconds",
		Help:    "Duration of outbound language model calls",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20},
	}, []string{"stage", "result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func ObserveOperation(operation, result string) {
	operationsTotal.WithLabelValues(operation, result).Inc()
}

func ObserveToolInvocation(tool, result string) {
	toolInvocations.WithLabelValues(tool, result).Inc()
}

// ObserveModelCall records one outbound model call; stage is "decide" or "synthesize".
func ObserveModelCall(stage, result string, duration time.Duration) {
	modelCallDuration.WithLabelValues(stage, result).Observe(duration.Seconds())
}
