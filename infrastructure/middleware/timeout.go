package middleware

import (
	"context"
	"time"

	"github.com/ahrav/go-multitool/internal/domain"
	"github.com/ahrav/go-multitool/internal/ports"
)

// TimeoutMiddleware bounds each invocation by timeout. Hooks are not
// interrupted mid-call; once the deadline passes, the invocation stops
// before the next tool and returns context.DeadlineExceeded with the bag
// built so far. A non-positive timeout disables it.
func TimeoutMiddleware(timeout time.Duration) ports.Middleware {
	return func(next ports.InvokeFunc) ports.InvokeFunc {
		if timeout <= 0 {
			return next
		}

		return func(ctx context.Context, props domain.Props) (domain.Props, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(ctx, props)
		}
	}
}
