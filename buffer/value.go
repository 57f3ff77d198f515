// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package buffer

// Value is the typed counterpart of Buffer for the write path: an
// application value held either by reference (the caller keeps
// ownership, no copy is made) or by value (the pipeline owns it).
// Serializers only need to read the value, so write paths accept a
// Value to let callers hand over large structs without copying them.
type Value[V any] struct {
	ref *V
	val V
}

// Ref wraps a caller-owned value by reference. The caller must keep
// the pointee alive and unmodified until the write completes.
func Ref[V any](v *V) Value[V] {
	return Value[V]{ref: v}
}

// Own wraps a value the pipeline owns.
func Own[V any](v V) Value[V] {
	return Value[V]{val: v}
}

// IsRef reports whether the value is held by reference.
func (v Value[V]) IsRef() bool {
	return v.ref != nil
}

// Get returns the wrapped value.
func (v Value[V]) Get() V {
	if v.ref != nil {
		return *v.ref
	}
	return v.val
}
