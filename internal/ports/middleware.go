package ports

import (
	"context"

	"github.com/ahrav/go-multitool/internal/domain"
)

// InvokeFunc is the function form of a single invocation.
type InvokeFunc func(ctx context.Context, props domain.Props) (domain.Props, error)

// Middleware wraps an invocation to add cross-cutting behavior such as
// metrics, tracing, logging or throttling. Middleware listed first runs
// outermost.
type Middleware func(next InvokeFunc) InvokeFunc

// Chain composes middleware around final so that mws[0] runs first.
func Chain(final InvokeFunc, mws ...Middleware) InvokeFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			final = mws[i](final)
		}
	}
	return final
}

type multitoolNameKey struct{}

// WithMultitoolName returns a context carrying the name of the multitool
// being invoked, so middleware can label what it records.
func WithMultitoolName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, multitoolNameKey{}, name)
}

// MultitoolName returns the multitool name carried by ctx, or "" when
// none was set.
func MultitoolName(ctx context.Context) string {
	name, _ := ctx.Value(multitoolNameKey{}).(string)
	return name
}
