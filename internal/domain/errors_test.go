package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := NewValidationError("tool sum")
		err.AddError("tool hook is nil")

		assert.True(t, err.HasErrors())
		assert.Equal(t, "validation error for tool sum: tool hook is nil", err.Error())
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := NewValidationError("tool sum")
		err.AddError("first")
		err.AddError("second")

		assert.Equal(t, "validation errors for tool sum: [first second]", err.Error())
	})

	t.Run("no errors", func(t *testing.T) {
		err := NewValidationError("tool sum")
		assert.False(t, err.HasErrors())
		assert.Empty(t, err.Errors)
	})
}

func TestSentinelErrors(t *testing.T) {
	errs := []error{ErrNilHook, ErrArityMismatch, ErrInvalidConfiguration, ErrNilChildren, ErrUnknownToolType, ErrToolPanicked}
	seen := make(map[string]struct{}, len(errs))
	for _, err := range errs {
		_, dup := seen[err.Error()]
		assert.False(t, dup, "duplicate sentinel message %q", err.Error())
		seen[err.Error()] = struct{}{}
	}
}
