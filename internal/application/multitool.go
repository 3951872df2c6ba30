package application

import (
	"context"

	"github.com/ahrav/go-multitool/internal/domain"
)

// ChildrenFunc consumes the bag computed by a Multitool.
type ChildrenFunc func(props domain.Props) error

// Multitool is the renderable form of a Hook: it computes the final bag
// and hands it to a caller-supplied consumer.
type Multitool struct {
	hook *Hook
}

// CreateMultitool composes tools exactly like CreateMultitoolHook and
// wraps the result for rendering.
func CreateMultitool(tools []domain.Tool, name string, opts ...HookOption) *Multitool {
	return &Multitool{hook: CreateMultitoolHook(tools, name, opts...)}
}

// Render runs the multitool over props and passes the result to children.
// Errors from tools and from children are returned unchanged.
func (m *Multitool) Render(ctx context.Context, props domain.Props, children ChildrenFunc) error {
	if children == nil {
		return domain.ErrNilChildren
	}

	out, err := m.hook.Invoke(ctx, props)
	if err != nil {
		return err
	}
	return children(out)
}

// DisplayName returns the diagnostic name given at composition time.
func (m *Multitool) DisplayName() string { return m.hook.DisplayName() }

// Hook returns the underlying invocation hook.
func (m *Multitool) Hook() *Hook { return m.hook }
