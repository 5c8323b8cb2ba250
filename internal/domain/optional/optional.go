// Package optional distinguishes "field absent" from "field set to null" in
// JSON request bodies used for partial updates.
package optional

import (
	"bytes"
	"encoding/json"
)

type Value[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Of[T any](v T) Value[T] {
	return Value[T]{Set: true, Value: v}
}

func Null[T any]() Value[T] {
	return Value[T]{Set: true, Null: true}
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.Null = true
		var zero T
		v.Value = zero
		return nil
	}
	v.Null = false
	return json.Unmarshal(data, &v.Value)
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.Set || v.Null {
		return []byte("null"), nil
	}
	return json.Marshal(v.Value)
}

// Ptr returns nil for an absent or null value.
func (v Value[T]) Ptr() *T {
	if !v.Set || v.Null {
		return nil
	}
	out := v.Value
	return &out
}

// Apply returns the patched pointer: current when absent, nil when null.
func (v Value[T]) Apply(current *T) *T {
	if !v.Set {
		return current
	}
	return v.Ptr()
}
