// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package descriptor

import "fmt"

// Field positions within a descriptor word. The layer occupies the
// low bits so that a descriptor for layer zero, method zero, direction
// none is the zero word.
const (
	layerMask     uint16 = 0b0000_0000_0000_0111
	methodMask    uint16 = 0b0000_0000_1111_1000
	directionMask uint16 = 0b0000_0011_0000_0000
	reservedMask  uint16 = 0b1111_1100_0000_0000

	methodShift    = 3
	directionShift = 8
)

// Size is the encoded size of a descriptor in bytes.
const Size = 2

// Descriptor identifies one applied stage instance: the stage kind,
// the backend that implemented it, and the direction it was configured
// with at write time.
type Descriptor struct {
	Layer     Layer
	Method    Method
	Direction Direction
}

// Encode packs a descriptor into its 16-bit wire form. The inputs are
// expected to be the package's protocol constants; values wider than
// their fields are masked.
func Encode(layer Layer, method Method, direction Direction) uint16 {
	return uint16(layer)&layerMask |
		uint16(method)<<methodShift&methodMask |
		uint16(direction)<<directionShift&directionMask
}

// Word returns the 16-bit wire form of the descriptor.
func (d Descriptor) Word() uint16 {
	return Encode(d.Layer, d.Method, d.Direction)
}

// String renders the descriptor for diagnostics, e.g.
// "compress/zstd/both".
func (d Descriptor) String() string {
	return fmt.Sprintf("%s/%s/%s", d.Layer, MethodName(d.Layer, d.Method), d.Direction)
}

// Decode unpacks and validates a 16-bit descriptor word. Every error
// it returns is a corruption signal: the word did not come from Encode
// with this library's protocol constants. Reserved bits are checked
// first so that random damage, which usually touches the six high
// bits, is reported as such rather than as an implausible layer or
// method.
func Decode(word uint16) (Descriptor, error) {
	if word&reservedMask != 0 {
		return Descriptor{}, &ReservedBitsError{Word: word}
	}

	layer, err := LayerFromRaw(uint8(word & layerMask))
	if err != nil {
		return Descriptor{}, err
	}

	method, err := MethodFromRaw(layer, uint8((word&methodMask)>>methodShift))
	if err != nil {
		return Descriptor{}, err
	}

	direction, err := DirectionFromRaw(uint8((word & directionMask) >> directionShift))
	if err != nil {
		return Descriptor{}, err
	}

	return Descriptor{Layer: layer, Method: method, Direction: direction}, nil
}
