// Package nullable provides a JSON field wrapper that distinguishes a field
// that was omitted from one that was explicitly set, including to null.
// Update requests use it so that only the fields a client sends are merged
// into the stored entity.
package nullable

import (
	"bytes"
	"encoding/json"
)

// Value is a tri-state field: absent, null, or holding a value.
// The zero Value is absent.
type Value[T any] struct {
	set  bool
	null bool
	v    T
}

// Of returns a Value holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{set: true, v: v}
}

// Null returns a Value that was explicitly set to null.
func Null[T any]() Value[T] {
	return Value[T]{set: true, null: true}
}

// IsSet reports whether the field was present in the input.
func (n Value[T]) IsSet() bool { return n.set }

// IsNull reports whether the field was present and explicitly null.
func (n Value[T]) IsNull() bool { return n.set && n.null }

// Get returns the held value and true when the field was set to a non-null value.
func (n Value[T]) Get() (T, bool) {
	if !n.set || n.null {
		var zero T
		return zero, false
	}
	return n.v, true
}

// OrElse returns the held value, or def when absent or null.
func (n Value[T]) OrElse(def T) T {
	if v, ok := n.Get(); ok {
		return v
	}
	return def
}

// UnmarshalJSON marks the field as present. It is only invoked for keys that
// appear in the document, which is what makes absence detectable.
func (n *Value[T]) UnmarshalJSON(data []byte) error {
	n.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		n.null, n.v = true, zero
		return nil
	}
	n.null = false
	return json.Unmarshal(data, &n.v)
}

// MarshalJSON encodes absent and null values as null.
func (n Value[T]) MarshalJSON() ([]byte, error) {
	if !n.set || n.null {
		return []byte("null"), nil
	}
	return json.Marshal(n.v)
}

// Apply copies a non-null value into dst and reports whether it did.
func Apply[T any](n Value[T], dst *T) bool {
	v, ok := n.Get()
	if ok {
		*dst = v
	}
	return ok
}
