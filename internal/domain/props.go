// Package domain contains pure, dependency-free domain models and types
// for the multitool composer.
package domain

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Key represents a type-safe generic key for accessing values in Props.
// The type parameter T lets callers read and write values without
// sprinkling type assertions through tool code.
type Key[T any] struct{ name string }

// NewKey creates a new Key with the specified name and type.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the property name the key addresses.
func (k Key[T]) Name() string { return k.name }

// Props is the property bag threaded through a multitool. It uses
// copy-on-write semantics: every modifying operation returns a new Props
// and leaves the receiver unchanged, so a Props value can be shared
// across goroutines.
//
// Values are stored as-is (shallow). Nothing stops a tool from mutating
// a slice or map it reads from the bag; tools that need isolation must
// copy what they modify.
type Props struct {
	// data holds the key-value pairs that make up the bag.
	// It is unexported to maintain copy-on-write guarantees.
	data map[string]any
}

// NewProps creates a new empty Props.
func NewProps() Props {
	return Props{data: make(map[string]any)}
}

// PropsFrom creates Props holding a shallow copy of m.
// A nil map yields empty Props.
func PropsFrom(m map[string]any) Props {
	if m == nil {
		return NewProps()
	}
	return Props{data: maps.Clone(m)}
}

// Get returns the value stored under key. Missing keys read as nil with
// ok set to false.
func (p Props) Get(key string) (any, bool) {
	v, ok := p.data[key]
	return v, ok
}

// Has reports whether key is present, even when it holds nil.
func (p Props) Has(key string) bool {
	_, ok := p.data[key]
	return ok
}

// GetAs retrieves a value with compile-time type safety. It returns false
// when the key is missing or holds a value of another type.
//
// Example:
//
//	order, ok := GetAs(props, NewKey[[]string]("order"))
func GetAs[T any](p Props, key Key[T]) (T, bool) {
	var zero T
	v, ok := p.data[key.name]
	if !ok {
		return zero, false
	}
	val, ok := v.(T)
	return val, ok
}

// WithKey returns new Props with the typed key set to value.
func WithKey[T any](p Props, key Key[T], value T) Props {
	return p.With(key.name, value)
}

// With returns new Props with key set to value.
func (p Props) With(key string, value any) Props {
	next := maps.Clone(p.data)
	if next == nil {
		next = make(map[string]any, 1)
	}
	next[key] = value
	return Props{data: next}
}

// WithMultiple returns new Props with every entry of updates applied.
// It performs a single clone, so prefer it over chained With calls.
func (p Props) WithMultiple(updates map[string]any) Props {
	next := make(map[string]any, len(p.data)+len(updates))
	maps.Copy(next, p.data)
	maps.Copy(next, updates)
	return Props{data: next}
}

// Omit returns new Props without the listed keys. Keys that are not
// present are ignored.
func (p Props) Omit(keys ...string) Props {
	next := maps.Clone(p.data)
	if next == nil {
		next = make(map[string]any)
	}
	for _, k := range keys {
		delete(next, k)
	}
	return Props{data: next}
}

// Keys returns all keys present in the bag in sorted order.
func (p Props) Keys() []string {
	return slices.Sorted(maps.Keys(p.data))
}

// Len returns the number of entries in the bag.
func (p Props) Len() int { return len(p.data) }

// ToMap returns a shallow copy of the bag as a plain map. The map is safe
// to modify without affecting p.
func (p Props) ToMap() map[string]any {
	m := maps.Clone(p.data)
	if m == nil {
		m = make(map[string]any)
	}
	return m
}

// Equal reports whether both bags hold the same keys with deeply equal
// values.
func (p Props) Equal(other Props) bool {
	if len(p.data) != len(other.data) {
		return false
	}
	for k, v := range p.data {
		ov, ok := other.data[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// String returns a string representation of the bag for debugging.
func (p Props) String() string {
	return fmt.Sprintf("Props%v", p.data)
}
