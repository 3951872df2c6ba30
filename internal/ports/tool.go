// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-multitool/internal/domain"
)

// Invoker runs one end-to-end reduction of a property bag.
// Implementations are safe for concurrent use as long as the tools they
// run are.
type Invoker interface {
	// Invoke threads props through every tool and returns the final bag.
	// The input bag is never modified. Errors returned by a tool are
	// passed back unchanged.
	//
	// Example:
	//
	//	out, err := hook.Invoke(ctx, domain.PropsFrom(map[string]any{"a": 1}))
	//	if err != nil {
	//	    return err
	//	}
	Invoke(ctx context.Context, props domain.Props) (domain.Props, error)

	// DisplayName returns the diagnostic name given at composition time.
	// It may be empty.
	DisplayName() string
}

// StepObserver is notified around every tool step of an invocation.
// Observers must not modify the tool they are handed.
type StepObserver interface {
	// BeforeStep is called before the tool's hook runs. The returned
	// context is passed to AfterStep, which lets observers carry state
	// such as a trace span between the two calls.
	BeforeStep(ctx context.Context, multitool string, tool domain.Tool) context.Context

	// AfterStep is called once the step finished, successfully or not.
	AfterStep(ctx context.Context, multitool string, tool domain.Tool, elapsed time.Duration, err error)
}

// ToolFactory builds a configured tool. The name is the tool's
// diagnostic name and params its type-specific configuration.
type ToolFactory func(name string, params map[string]any) (domain.Tool, error)

// ToolRegistry creates tools by type name.
type ToolRegistry interface {
	// CreateTool builds a tool of the given type.
	// It returns an error wrapping domain.ErrUnknownToolType when no
	// factory is registered for toolType.
	CreateTool(toolType, name string, params map[string]any) (domain.Tool, error)

	// RegisterToolFactory adds or replaces the factory for toolType.
	RegisterToolFactory(toolType string, factory ToolFactory) error

	// SupportedTypes lists the registered tool types in sorted order.
	SupportedTypes() []string
}
