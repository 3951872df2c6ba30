package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned by tool construction and the layers
// built around the composer. Errors returned by a tool's hook are never
// replaced by these.
var (
	// ErrNilHook indicates that a tool has no Invoke function.
	ErrNilHook = errors.New("tool hook is nil")

	// ErrArityMismatch indicates that a tool's prop lists do not match
	// the arity declared in its Signature.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrInvalidConfiguration indicates that configuration is invalid or incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNilChildren indicates that a multitool was rendered without a
	// children consumer.
	ErrNilChildren = errors.New("children consumer is nil")

	// ErrUnknownToolType indicates that no factory is registered for a
	// requested tool type.
	ErrUnknownToolType = errors.New("unknown tool type")

	// ErrToolPanicked is reported to step observers when a tool's hook
	// panics. The panic itself still reaches the caller.
	ErrToolPanicked = errors.New("tool panicked")
)

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
