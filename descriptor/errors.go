// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package descriptor

import (
	"errors"
	"fmt"
)

// ReservedBitsError reports a descriptor word with any of the six
// reserved high bits set. Retrieve it with errors.As.
type ReservedBitsError struct {
	// Word is the full 16-bit value that failed to decode.
	Word uint16
}

func (e *ReservedBitsError) Error() string {
	return fmt.Sprintf("descriptor word %#04x has reserved bits set (reserved mask %#04x)",
		e.Word, reservedMask)
}

// UnrecognizedLayerError reports a layer field outside the defined
// stage kinds.
type UnrecognizedLayerError struct {
	// Raw is the unrecognized layer value.
	Raw uint8
}

func (e *UnrecognizedLayerError) Error() string {
	return fmt.Sprintf("unrecognized layer %d (defined: 0-%d)", e.Raw, layerCount-1)
}

// UnrecognizedMethodError reports a method field outside the registry
// of its layer.
type UnrecognizedMethodError struct {
	// Layer is the layer whose registry was consulted.
	Layer Layer
	// Raw is the unrecognized method value.
	Raw uint8
}

func (e *UnrecognizedMethodError) Error() string {
	if uint8(e.Layer) >= layerCount {
		return fmt.Sprintf("unrecognized method %d for %s layer", e.Raw, e.Layer)
	}
	return fmt.Sprintf("unrecognized %s method %d (defined: 0-%d)",
		e.Layer, e.Raw, methodCounts[e.Layer]-1)
}

// UnrecognizedDirectionError reports a direction value outside the
// four defined directions. The two-bit descriptor field cannot hold
// such a value; this error guards wider inputs.
type UnrecognizedDirectionError struct {
	// Raw is the unrecognized direction value.
	Raw uint8
}

func (e *UnrecognizedDirectionError) Error() string {
	return fmt.Sprintf("unrecognized direction %d (defined: 0-%d)", e.Raw, directionCount-1)
}

// LayerMismatchError reports a tail descriptor naming a different
// stage kind than the reader expected at that position: configuration
// drift between writer and reader, or bytes damaged in a way that
// still decodes.
type LayerMismatchError struct {
	Expected Layer
	Found    Layer
}

func (e *LayerMismatchError) Error() string {
	return fmt.Sprintf("layer mismatch: expected %s descriptor, found %s", e.Expected, e.Found)
}

// MethodMismatchError reports a tail descriptor naming a different
// backend than the reader is configured with for that stage.
type MethodMismatchError struct {
	Layer    Layer
	Expected Method
	Found    Method
}

func (e *MethodMismatchError) Error() string {
	return fmt.Sprintf("%s method mismatch: configured %s, stored value uses %s",
		e.Layer, MethodName(e.Layer, e.Expected), MethodName(e.Layer, e.Found))
}

// IsCorruption reports whether err (or anything it wraps) is one of
// the descriptor decode errors that signal damaged or foreign bytes
// rather than a programming error.
func IsCorruption(err error) bool {
	var reserved *ReservedBitsError
	var layer *UnrecognizedLayerError
	var method *UnrecognizedMethodError
	var direction *UnrecognizedDirectionError
	return errors.As(err, &reserved) ||
		errors.As(err, &layer) ||
		errors.As(err, &method) ||
		errors.As(err, &direction)
}
