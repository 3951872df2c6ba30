package application

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ahrav/go-multitool/infrastructure/tools"
	"github.com/ahrav/go-multitool/internal/domain"
	"github.com/ahrav/go-multitool/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.ToolRegistry = (*DefaultToolRegistry)(nil)

// DefaultToolRegistry implements ports.ToolRegistry. It comes with the
// built-in tool types registered and accepts custom factories at runtime.
type DefaultToolRegistry struct {
	// factories maps tool type names to their factory functions.
	factories map[string]ports.ToolFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
}

// NewDefaultToolRegistry creates a registry with the built-in tool types
// (append, default, exact_match, fuzzy_match, arithmetic_mean, max_pool,
// median_pool, template) pre-registered.
func NewDefaultToolRegistry() *DefaultToolRegistry {
	return &DefaultToolRegistry{factories: tools.Builtins()}
}

// CreateTool builds a tool of the given type and validates it.
// Factories receive a non-nil params map they may keep.
func (r *DefaultToolRegistry) CreateTool(
	toolType string,
	name string,
	params map[string]any,
) (domain.Tool, error) {
	r.mu.RLock()
	factory, exists := r.factories[toolType]
	r.mu.RUnlock()

	if !exists {
		return domain.Tool{}, fmt.Errorf("%w: %s", domain.ErrUnknownToolType, toolType)
	}

	if name == "" {
		return domain.Tool{}, fmt.Errorf("%w: tool name cannot be empty", domain.ErrInvalidConfiguration)
	}

	if params == nil {
		params = make(map[string]any)
	}

	tool, err := factory(name, params)
	if err != nil {
		return domain.Tool{}, fmt.Errorf("failed to create tool %s of type %s: %w", name, toolType, err)
	}
	if err := tool.Validate(); err != nil {
		return domain.Tool{}, fmt.Errorf("tool %s of type %s is invalid: %w", name, toolType, err)
	}

	return tool, nil
}

// RegisterToolFactory registers a factory for toolType, replacing any
// existing one, built-ins included.
func (r *DefaultToolRegistry) RegisterToolFactory(
	toolType string,
	factory ports.ToolFactory,
) error {
	if toolType == "" {
		return fmt.Errorf("%w: tool type cannot be empty", domain.ErrInvalidConfiguration)
	}

	if factory == nil {
		return fmt.Errorf("%w: factory function cannot be nil", domain.ErrInvalidConfiguration)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[toolType] = factory
	return nil
}

// SupportedTypes returns all registered tool types in sorted order.
func (r *DefaultToolRegistry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for toolType := range r.factories {
		types = append(types, toolType)
	}
	slices.Sort(types)

	return types
}
