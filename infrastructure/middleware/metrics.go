package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/ahrav/go-multitool/internal/domain"
	"github.com/ahrav/go-multitool/internal/ports"
)

// MetricsMiddleware records invocation counts, latency, in-flight
// invocations and output bag size. A nil collector disables it. The
// in-flight gauge is released even when a tool panics.
func MetricsMiddleware(collector ports.MetricsCollector) ports.Middleware {
	return func(next ports.InvokeFunc) ports.InvokeFunc {
		if collector == nil {
			return next
		}

		return func(ctx context.Context, props domain.Props) (domain.Props, error) {
			labels := map[string]string{"multitool": ports.MultitoolName(ctx)}

			collector.RecordGauge(MetricInFlight, 1, labels)
			defer collector.RecordGauge(MetricInFlight, -1, labels)

			start := time.Now()
			out, err := next(ctx, props)
			elapsed := time.Since(start)

			collector.RecordLatency(OperationInvocation, elapsed, labels)
			collector.RecordCounter(MetricInvocations, 1, withStatus(labels, err))
			if err == nil {
				collector.RecordHistogram(MetricOutputProps, float64(out.Len()), labels)
			}

			return out, err
		}
	}
}

// MetricsObserver is a ports.StepObserver recording per-tool step
// counts and latency.
type MetricsObserver struct {
	collector ports.MetricsCollector
}

var _ ports.StepObserver = (*MetricsObserver)(nil)

// NewMetricsObserver creates a step observer reporting to collector.
func NewMetricsObserver(collector ports.MetricsCollector) *MetricsObserver {
	return &MetricsObserver{collector: collector}
}

// BeforeStep implements ports.StepObserver.
func (o *MetricsObserver) BeforeStep(ctx context.Context, _ string, _ domain.Tool) context.Context {
	return ctx
}

// AfterStep implements ports.StepObserver.
func (o *MetricsObserver) AfterStep(
	_ context.Context,
	multitool string,
	tool domain.Tool,
	elapsed time.Duration,
	err error,
) {
	if o.collector == nil {
		return
	}
	labels := map[string]string{"multitool": multitool, "tool": tool.Name}
	o.collector.RecordLatency(OperationToolStep, elapsed, labels)
	o.collector.RecordCounter(MetricToolSteps, 1, withStatus(labels, err))
}

// withStatus returns a copy of labels with a status label derived from err.
func withStatus(labels map[string]string, err error) map[string]string {
	out := make(map[string]string, len(labels)+1)
	for k, v := range labels {
		out[k] = v
	}
	out["status"] = statusOf(err)
	return out
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ports.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
