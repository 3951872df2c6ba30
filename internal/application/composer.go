// Package application provides the core composition logic for multitools:
// ordering tools, threading property bags through them, and loading
// declarative multitool definitions.
package application

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ahrav/go-multitool/internal/domain"
	"github.com/ahrav/go-multitool/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.Invoker = (*Hook)(nil)

// Hook is a reusable multitool invocation. It holds the tools sorted by
// descending priority and threads a property bag through them on every
// Invoke call.
// A Hook is immutable after construction and safe for concurrent use when
// its tools' hooks are.
type Hook struct {
	// name is the diagnostic name given at composition time.
	name string
	// tools is the priority-ordered tool list, sorted once.
	tools []domain.Tool
	// observers are notified around every tool step.
	observers []ports.StepObserver
	// invoke is the reduction wrapped in the configured middleware.
	invoke ports.InvokeFunc
}

// HookOption configures a Hook at composition time.
type HookOption func(*hookOptions)

type hookOptions struct {
	observers  []ports.StepObserver
	middleware []ports.Middleware
}

// WithObservers registers step observers, notified in the given order.
func WithObservers(observers ...ports.StepObserver) HookOption {
	return func(o *hookOptions) {
		for _, obs := range observers {
			if obs != nil {
				o.observers = append(o.observers, obs)
			}
		}
	}
}

// WithMiddleware wraps every invocation in the given middleware.
// Middleware listed first runs outermost.
func WithMiddleware(mws ...ports.Middleware) HookOption {
	return func(o *hookOptions) {
		o.middleware = append(o.middleware, mws...)
	}
}

// CreateMultitoolHook sorts tools by descending priority and returns a
// Hook that applies them in that order. The tools slice is copied; the
// caller's slice is never reordered. Tools with equal priority keep their
// relative order.
//
// Example:
//
//	hook := CreateMultitoolHook([]domain.Tool{sum, format}, "checkout")
//	out, err := hook.Invoke(ctx, props)
func CreateMultitoolHook(tools []domain.Tool, name string, opts ...HookOption) *Hook {
	var o hookOptions
	for _, opt := range opts {
		opt(&o)
	}

	h := &Hook{
		name:      name,
		tools:     sortTools(tools),
		observers: o.observers,
	}
	h.invoke = ports.Chain(h.reduce, o.middleware...)
	return h
}

// sortTools returns a copy of tools ordered by descending priority.
func sortTools(tools []domain.Tool) []domain.Tool {
	sorted := slices.Clone(tools)
	slices.SortStableFunc(sorted, func(a, b domain.Tool) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	return sorted
}

// Invoke threads props through every tool in priority order and returns
// the final bag. The input bag is not modified.
//
// An error returned by a tool's hook stops the invocation and is returned
// unchanged together with the bag as it was before that tool ran. Invoke
// also stops between tools once ctx is done. The multitool's name is
// available to middleware through ports.MultitoolName.
func (h *Hook) Invoke(ctx context.Context, props domain.Props) (domain.Props, error) {
	return h.invoke(ports.WithMultitoolName(ctx, h.name), props)
}

// reduce is the core fold over the sorted tools.
func (h *Hook) reduce(ctx context.Context, props domain.Props) (domain.Props, error) {
	current := props
	for _, tool := range h.tools {
		if err := ctx.Err(); err != nil {
			return current, err
		}

		next, err := h.step(ctx, current, tool)
		if err != nil {
			return current, err
		}
		current = next
	}
	return current, nil
}

// step applies one tool, notifying observers around it. Observers see
// AfterStep even when the hook panics; the panic is reported to them as
// an error and then re-raised unchanged.
func (h *Hook) step(ctx context.Context, props domain.Props, tool domain.Tool) (next domain.Props, err error) {
	if len(h.observers) == 0 {
		return processTool(props, tool)
	}

	stepCtxs := make([]context.Context, len(h.observers))
	for i, obs := range h.observers {
		stepCtxs[i] = obs.BeforeStep(ctx, h.name, tool)
	}

	start := time.Now()
	defer func() {
		r := recover()
		reported := err
		if r != nil {
			reported = fmt.Errorf("%w: %v", domain.ErrToolPanicked, r)
		}

		elapsed := time.Since(start)
		for i := len(h.observers) - 1; i >= 0; i-- {
			h.observers[i].AfterStep(stepCtxs[i], h.name, tool, elapsed, reported)
		}

		if r != nil {
			panic(r)
		}
	}()

	return processTool(props, tool)
}

// DisplayName returns the diagnostic name given at composition time.
func (h *Hook) DisplayName() string { return h.name }

// Tools returns the tools in execution order. The returned slice is a
// copy; the tools in it must be treated as read-only.
func (h *Hook) Tools() []domain.Tool {
	out := make([]domain.Tool, len(h.tools))
	for i, tool := range h.tools {
		out[i] = tool.Clone()
	}
	return out
}

// String implements fmt.Stringer for debugging output.
func (h *Hook) String() string {
	if h.name == "" {
		return "Multitool"
	}
	return "Multitool(" + h.name + ")"
}
