package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ahrav/go-multitool/internal/domain"
	"github.com/ahrav/go-multitool/internal/ports"
)

// LoggingMiddleware logs every invocation. Each invocation gets a fresh
// UUID; a logger tagged with it is attached to the context, so
// zerolog.Ctx inside observers and nested middleware logs with the same
// invocation_id.
func LoggingMiddleware(logger zerolog.Logger) ports.Middleware {
	return func(next ports.InvokeFunc) ports.InvokeFunc {
		return func(ctx context.Context, props domain.Props) (domain.Props, error) {
			l := logger.With().
				Str("invocation_id", uuid.NewString()).
				Str("multitool", ports.MultitoolName(ctx)).
				Logger()
			ctx = l.WithContext(ctx)

			l.Debug().Strs("props", props.Keys()).Msg("multitool_invoke_start")

			start := time.Now()
			out, err := next(ctx, props)

			if err != nil {
				l.Error().Err(err).Dur("duration", time.Since(start)).Msg("multitool_invoke_failed")
				return out, err
			}
			l.Info().
				Dur("duration", time.Since(start)).
				Int("props_out", out.Len()).
				Msg("multitool_invoke")
			return out, nil
		}
	}
}

// LoggingObserver logs each tool step at debug level using the logger
// found in the step context, falling back to its own.
type LoggingObserver struct {
	logger zerolog.Logger
}

var _ ports.StepObserver = (*LoggingObserver)(nil)

// NewLoggingObserver creates a step observer with logger as fallback.
func NewLoggingObserver(logger zerolog.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// BeforeStep implements ports.StepObserver.
func (o *LoggingObserver) BeforeStep(ctx context.Context, _ string, _ domain.Tool) context.Context {
	return ctx
}

// AfterStep implements ports.StepObserver.
func (o *LoggingObserver) AfterStep(
	ctx context.Context,
	multitool string,
	tool domain.Tool,
	elapsed time.Duration,
	err error,
) {
	l, tagged := o.loggerFor(ctx)
	event := l.Debug()
	if err != nil {
		event = l.Warn().Err(err)
	}
	if !tagged {
		event = event.Str("multitool", multitool)
	}
	event.
		Str("tool", tool.Name).
		Int("priority", tool.Priority).
		Strs("out_props", tool.OutProps).
		Dur("duration", elapsed).
		Msg("tool_step")
}

// loggerFor prefers the invocation logger attached by LoggingMiddleware,
// which already carries the multitool name.
func (o *LoggingObserver) loggerFor(ctx context.Context) (*zerolog.Logger, bool) {
	if l := zerolog.Ctx(ctx); l != zerolog.DefaultContextLogger && l.GetLevel() != zerolog.Disabled {
		return l, true
	}
	return &o.logger, false
}
