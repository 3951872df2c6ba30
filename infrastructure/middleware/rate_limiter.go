package middleware

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ahrav/go-multitool/internal/domain"
	"github.com/ahrav/go-multitool/internal/ports"
)

// RateLimitMiddleware throttles invocations with a token bucket shared by
// every hook the middleware is applied to. The limit sets invocations
// per second, while burst allows temporary spikes above it.
//
// Invocations wait for a token; if ctx ends first, the error wraps both
// ports.ErrRateLimited and the context error, and no tool runs.
func RateLimitMiddleware(limit rate.Limit, burst int) ports.Middleware {
	limiter := rate.NewLimiter(limit, burst)

	return func(next ports.InvokeFunc) ports.InvokeFunc {
		return func(ctx context.Context, props domain.Props) (domain.Props, error) {
			if err := limiter.Wait(ctx); err != nil {
				return props, fmt.Errorf("%w: %w", ports.ErrRateLimited, err)
			}
			return next(ctx, props)
		}
	}
}
