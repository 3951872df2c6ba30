// Package middleware provides cross-cutting concerns for multitool
// invocations: metrics, tracing, logging and throttling.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-multitool/internal/ports"
)

// Metric and operation names understood by PrometheusMetrics.
const (
	MetricInvocations   = "multitool_invocations_total"
	MetricToolSteps     = "multitool_tool_steps_total"
	MetricInFlight      = "multitool_in_flight"
	MetricOutputProps   = "multitool_output_props"
	OperationInvocation = "invocation"
	OperationToolStep   = "tool_step"
)

// PrometheusMetrics implements ports.MetricsCollector using Prometheus.
// It tracks invocation and per-tool step counts, latencies, in-flight
// invocations and output bag sizes.
type PrometheusMetrics struct {
	invocations        *prometheus.CounterVec
	toolSteps          *prometheus.CounterVec
	invocationDuration *prometheus.HistogramVec
	toolStepDuration   *prometheus.HistogramVec
	inFlight           *prometheus.GaugeVec
	outputProps        *prometheus.HistogramVec
	other              *prometheus.GaugeVec
}

// NewPrometheusMetrics creates the multitool metrics and registers them
// with reg. A nil reg registers with the global Prometheus registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricInvocations,
				Help: "Total number of multitool invocations.",
			},
			[]string{"multitool", "status"},
		),
		toolSteps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricToolSteps,
				Help: "Total number of tool steps applied.",
			},
			[]string{"multitool", "tool", "status"},
		),
		invocationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "multitool_invocation_duration_seconds",
				Help:    "Duration of complete multitool invocations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"multitool"},
		),
		toolStepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "multitool_tool_step_duration_seconds",
				Help:    "Duration of single tool steps.",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"multitool", "tool"},
		),
		inFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricInFlight,
				Help: "Number of multitool invocations currently running.",
			},
			[]string{"multitool"},
		),
		outputProps: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricOutputProps,
				Help:    "Number of properties in the bag an invocation returns.",
				Buckets: prometheus.LinearBuckets(0, 4, 8),
			},
			[]string{"multitool"},
		),
		other: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "multitool_state",
				Help: "Other multitool state values.",
			},
			[]string{"metric", "multitool"},
		),
	}
}

// RecordLatency implements ports.MetricsCollector. Unknown operations are
// recorded as invocation latency.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	multitool := labelOrUnknown(labels, "multitool")
	switch operation {
	case OperationToolStep:
		pm.toolStepDuration.WithLabelValues(multitool, labelOrUnknown(labels, "tool")).Observe(duration.Seconds())
	default:
		pm.invocationDuration.WithLabelValues(multitool).Observe(duration.Seconds())
	}
}

// RecordCounter implements ports.MetricsCollector.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	multitool := labelOrUnknown(labels, "multitool")
	status := labelOrUnknown(labels, "status")

	switch metric {
	case MetricToolSteps:
		pm.toolSteps.WithLabelValues(multitool, labelOrUnknown(labels, "tool"), status).Add(value)
	default:
		pm.invocations.WithLabelValues(multitool, status).Add(value)
	}
}

// RecordGauge implements ports.MetricsCollector. MetricInFlight values are
// added to the current gauge so concurrent invocations can report +1/-1;
// other metrics are set.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	multitool := labelOrUnknown(labels, "multitool")

	switch metric {
	case MetricInFlight:
		pm.inFlight.WithLabelValues(multitool).Add(value)
	default:
		pm.other.WithLabelValues(metric, multitool).Set(value)
	}
}

// RecordHistogram implements ports.MetricsCollector. Every histogram
// value other than latency is routed to the output props histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	pm.outputProps.WithLabelValues(labelOrUnknown(labels, "multitool")).Observe(value)
}

func labelOrUnknown(labels map[string]string, key string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return "unknown"
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
