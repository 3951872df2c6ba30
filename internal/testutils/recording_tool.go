// Package testutils provides shared helpers for tests across the module.
package testutils

import (
	"slices"
	"sync"

	"github.com/ahrav/go-multitool/internal/domain"
)

// Call captures one invocation of a RecordingTool hook.
type Call struct {
	// Args are the positional arguments the hook received.
	Args []any
	// Params is the custom parameters map the hook received, by reference.
	Params domain.Params
	// Result is what the wrapped hook returned.
	Result []any
	// Err is the error the wrapped hook returned.
	Err error
}

// RecordingTool wraps a HookFunc and records every call made through it,
// so tests can assert on the arguments a tool received and the values it
// produced. It is safe for concurrent use.
type RecordingTool struct {
	fn    domain.HookFunc
	mu    sync.Mutex
	calls []Call
}

// NewRecordingTool wraps fn. A nil fn records calls and returns no output.
func NewRecordingTool(fn domain.HookFunc) *RecordingTool {
	return &RecordingTool{fn: fn}
}

// Hook returns the recording HookFunc to place in a domain.Tool.
func (r *RecordingTool) Hook() domain.HookFunc {
	return func(args []any, params domain.Params) ([]any, error) {
		var (
			out []any
			err error
		)
		if r.fn != nil {
			out, err = r.fn(args, params)
		}

		r.mu.Lock()
		r.calls = append(r.calls, Call{
			Args:   slices.Clone(args),
			Params: params,
			Result: out,
			Err:    err,
		})
		r.mu.Unlock()

		return out, err
	}
}

// Calls returns a copy of the recorded calls in call order.
func (r *RecordingTool) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// CallCount returns the number of recorded calls.
func (r *RecordingTool) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// LastCall returns the most recent call and false if none was recorded.
func (r *RecordingTool) LastCall() (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}

// Reset forgets all recorded calls.
func (r *RecordingTool) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// AppendMarker returns a hook that appends marker to the []string found
// in its first argument and returns the new slice as its only output.
// A missing or non-slice argument starts a new slice.
func AppendMarker(marker string) domain.HookFunc {
	return func(args []any, _ domain.Params) ([]any, error) {
		var list []string
		if len(args) > 0 {
			list, _ = args[0].([]string)
		}
		next := make([]string, 0, len(list)+1)
		next = append(next, list...)
		return []any{append(next, marker)}, nil
	}
}
