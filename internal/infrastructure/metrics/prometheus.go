package metrics

import (
	"net/http"
	"time"

	"llm-workflow/internal/application/port/output"
	"llm-workflow/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ output.MetricsPort = (*Prometheus)(nil)

const namespace = "llm_workflow"

// Prometheus records metrics on its own registry so several instances can
// coexist in one process.
type Prometheus struct {
	registry     *prometheus.Registry
	llmCalls     *prometheus.CounterVec
	llmLatency   *prometheus.HistogramVec
	toolCalls    *prometheus.CounterVec
	toolLatency  *prometheus.HistogramVec
	roundTrips   *prometheus.CounterVec
	roundTripDur prometheus.Histogram
}

func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Prometheus{
		registry: registry,
		llmCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of LLM completion requests",
		}, []string{"phase", "status"}),
		llmLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_latency_seconds",
			Help:      "LLM completion latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"phase"}),
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of tool executions",
		}, []string{"tool", "status"}),
		toolLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_latency_seconds",
			Help:      "Tool execution latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"tool"}),
		roundTrips: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "round_trips_total",
			Help:      "Total number of tool-calling round trips by final state",
		}, []string{"state"}),
		roundTripDur: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_trip_duration_seconds",
			Help:      "Duration of tool-calling round trips in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
	}
}

// status is "ok" or the lower-cased error kind.
func status(err error) string {
	if err == nil {
		return "ok"
	}
	switch entity.KindOf(err) {
	case entity.KindBackendUnavailable:
		return "backend_unavailable"
	case entity.KindInvalidRequest:
		return "invalid_request"
	case entity.KindUnknownTool:
		return "unknown_tool"
	case entity.KindInvalidArguments:
		return "invalid_arguments"
	case entity.KindToolFailed:
		return "tool_failed"
	case entity.KindSchemaMismatch:
		return "schema_mismatch"
	}
	return "error"
}

func (p *Prometheus) ObserveLLMCall(phase string, duration time.Duration, err error) {
	p.llmCalls.WithLabelValues(phase, status(err)).Inc()
	p.llmLatency.WithLabelValues(phase).Observe(duration.Seconds())
}

func (p *Prometheus) ObserveToolCall(tool string, duration time.Duration, err error) {
	p.toolCalls.WithLabelValues(tool, status(err)).Inc()
	p.toolLatency.WithLabelValues(tool).Observe(duration.Seconds())
}

func (p *Prometheus) ObserveRoundTrip(state string, duration time.Duration) {
	p.roundTrips.WithLabelValues(state).Inc()
	p.roundTripDur.Observe(duration.Seconds())
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
