package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-multitool/internal/domain"
	"github.com/ahrav/go-multitool/internal/ports"
)

// TracerName is the instrumentation name used when no tracer is given.
const TracerName = "github.com/ahrav/go-multitool"

// TracingMiddleware wraps every invocation in a "Multitool.Invoke" span.
// A nil tracer uses the global provider. Tool steps observed by a
// TracingObserver become children of this span.
func TracingMiddleware(tracer trace.Tracer) ports.Middleware {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}

	return func(next ports.InvokeFunc) ports.InvokeFunc {
		return func(ctx context.Context, props domain.Props) (domain.Props, error) {
			ctx, span := tracer.Start(ctx, "Multitool.Invoke",
				trace.WithAttributes(
					attribute.String("multitool.name", ports.MultitoolName(ctx)),
					attribute.Int("multitool.props.in", props.Len()),
				),
			)
			defer span.End()

			out, err := next(ctx, props)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return out, err
			}

			span.SetAttributes(attribute.Int("multitool.props.out", out.Len()))
			span.SetStatus(codes.Ok, "")
			return out, nil
		}
	}
}

// TracingObserver is a ports.StepObserver that records one span per tool
// step.
type TracingObserver struct {
	tracer trace.Tracer
}

var _ ports.StepObserver = (*TracingObserver)(nil)

// NewTracingObserver creates a step observer using tracer, or the global
// provider when tracer is nil.
func NewTracingObserver(tracer trace.Tracer) *TracingObserver {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &TracingObserver{tracer: tracer}
}

// BeforeStep starts the step span and returns a context carrying it.
func (o *TracingObserver) BeforeStep(ctx context.Context, multitool string, tool domain.Tool) context.Context {
	ctx, _ = o.tracer.Start(ctx, "Tool.Apply",
		trace.WithAttributes(
			attribute.String("multitool.name", multitool),
			attribute.String("tool.name", tool.Name),
			attribute.Int("tool.priority", tool.Priority),
			attribute.StringSlice("tool.in_props", tool.InProps),
			attribute.StringSlice("tool.out_props", tool.OutProps),
			attribute.StringSlice("tool.clean_props", tool.CleanProps),
		),
	)
	return ctx
}

// AfterStep ends the span started by BeforeStep.
func (o *TracingObserver) AfterStep(
	ctx context.Context,
	_ string,
	_ domain.Tool,
	elapsed time.Duration,
	err error,
) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.SetAttributes(attribute.Int64("tool.latency_us", elapsed.Microseconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
