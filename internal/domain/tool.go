package domain

import (
	"fmt"
	"maps"
	"slices"
)

// Params carries the custom parameters a tool passes to its hook.
// Callers can override individual entries through CustomizeTool.
type Params map[string]any

// HookFunc is the transformation a tool performs. It receives the values
// read from the tool's InProps, in declared order, plus the tool's custom
// parameters, and returns values for the tool's OutProps, positionally.
// A nil result is treated as an empty result.
type HookFunc func(args []any, params Params) ([]any, error)

// Signature declares the positional arity a HookFunc expects.
type Signature struct {
	// In is the number of positional arguments the hook reads.
	In int
	// Out is the number of positional values the hook returns.
	Out int
}

// Tool is a single priority-ordered transformation step in a multitool.
// It consumes named properties, produces named properties, and removes
// named properties from the bag it is applied to.
//
// The composer performs no arity checking: a mismatch between InProps,
// OutProps and what Invoke actually reads or returns yields nil
// arguments or dropped outputs. Declare a Signature and call Validate to
// catch mismatches when a tool is built.
type Tool struct {
	// Name identifies the tool in diagnostics.
	Name string
	// Priority orders tools within a multitool; higher runs earlier.
	Priority int
	// InProps lists the property keys read as positional arguments.
	InProps []string
	// CleanProps lists keys removed before outputs are applied.
	CleanProps []string
	// OutProps lists the keys receiving positional outputs. An empty
	// string skips that output slot.
	OutProps []string
	// Invoke performs the transformation. A nil Invoke makes the tool
	// a pure cleaner.
	Invoke HookFunc
	// CustomParams is handed to Invoke on every call.
	CustomParams Params
	// Attributes holds ad hoc fields added through customization.
	Attributes map[string]any
	// Signature optionally declares the arity Invoke expects.
	Signature *Signature
}

// Plugin is the plugin-named spelling of Tool.
type Plugin = Tool

// Validate checks that the tool can run and, when a Signature is
// declared, that its prop lists match the declared arity.
func (t Tool) Validate() error {
	verr := NewValidationError(t.displayName())
	if t.Invoke == nil {
		verr.AddError(ErrNilHook.Error())
	}
	if t.Signature != nil {
		if len(t.InProps) != t.Signature.In {
			verr.AddError(fmt.Sprintf("%v: in_props has %d keys, hook expects %d",
				ErrArityMismatch, len(t.InProps), t.Signature.In))
		}
		if len(t.OutProps) != t.Signature.Out {
			verr.AddError(fmt.Sprintf("%v: out_props has %d keys, hook returns %d",
				ErrArityMismatch, len(t.OutProps), t.Signature.Out))
		}
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// Clone returns a copy of the tool that shares no slices or maps with t.
// CustomParams is copied too; use CustomizeTool when the original params
// map must be preserved by reference.
func (t Tool) Clone() Tool {
	c := t
	c.InProps = slices.Clone(t.InProps)
	c.CleanProps = slices.Clone(t.CleanProps)
	c.OutProps = slices.Clone(t.OutProps)
	c.CustomParams = maps.Clone(t.CustomParams)
	c.Attributes = maps.Clone(t.Attributes)
	if t.Signature != nil {
		sig := *t.Signature
		c.Signature = &sig
	}
	return c
}

// Attribute returns the ad hoc attribute stored under key.
func (t Tool) Attribute(key string) (any, bool) {
	v, ok := t.Attributes[key]
	return v, ok
}

func (t Tool) displayName() string {
	if t.Name == "" {
		return "tool"
	}
	return "tool " + t.Name
}
