// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/laminadb/lamina/descriptor"
)

// Key codecs: order-preserving encodings for the types commonly used
// as table keys. Unsigned integers encode big-endian; signed integers
// flip the sign bit first so negative values sort before positive
// ones; strings and byte slices keep their natural byte order.
//
// Floating-point keys are deliberately absent: NaN has no defensible
// position in a total order, so offering a float codec would turn a
// modeling problem into silent data-dependent behavior.

// Uint8Key is the order-preserving codec for uint8 keys.
type Uint8Key struct{}

func (Uint8Key) Method() descriptor.Method { return descriptor.MethodOrdered }

// OrderPreserving marks the codec as order-preserving.
func (Uint8Key) OrderPreserving() {}

func (Uint8Key) Encode(value uint8) ([]byte, error) {
	return []byte{value}, nil
}

func (Uint8Key) Decode(data []byte) (uint8, error) {
	if len(data) != 1 {
		return 0, fmt.Errorf("ordered uint8 key must be 1 byte, got %d", len(data))
	}
	return data[0], nil
}

// Uint16Key is the order-preserving codec for uint16 keys.
type Uint16Key struct{}

func (Uint16Key) Method() descriptor.Method { return descriptor.MethodOrdered }

// OrderPreserving marks the codec as order-preserving.
func (Uint16Key) OrderPreserving() {}

func (Uint16Key) Encode(value uint16) ([]byte, error) {
	encoded := make([]byte, 2)
	binary.BigEndian.PutUint16(encoded, value)
	return encoded, nil
}

func (Uint16Key) Decode(data []byte) (uint16, error) {
	if len(data) != 2 {
		return 0, fmt.Errorf("ordered uint16 key must be 2 bytes, got %d", len(data))
	}
	return binary.BigEndian.Uint16(data), nil
}

// Uint32Key is the order-preserving codec for uint32 keys.
type Uint32Key struct{}

func (Uint32Key) Method() descriptor.Method { return descriptor.MethodOrdered }

// OrderPreserving marks the codec as order-preserving.
func (Uint32Key) OrderPreserving() {}

func (Uint32Key) Encode(value uint32) ([]byte, error) {
	encoded := make([]byte, 4)
	binary.BigEndian.PutUint32(encoded, value)
	return encoded, nil
}

func (Uint32Key) Decode(data []byte) (uint32, error) {
	if len(data) != 4 {
		return 0, fmt.Errorf("ordered uint32 key must be 4 bytes, got %d", len(data))
	}
	return binary.BigEndian.Uint32(data), nil
}

// Uint64Key is the order-preserving codec for uint64 keys.
type Uint64Key struct{}

func (Uint64Key) Method() descriptor.Method { return descriptor.MethodOrdered }

// OrderPreserving marks the codec as order-preserving.
func (Uint64Key) OrderPreserving() {}

func (Uint64Key) Encode(value uint64) ([]byte, error) {
	encoded := make([]byte, 8)
	binary.BigEndian.PutUint64(encoded, value)
	return encoded, nil
}

func (Uint64Key) Decode(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("ordered uint64 key must be 8 bytes, got %d", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

// Int32Key is the order-preserving codec for int32 keys. The sign bit
// is flipped so that negative values sort below positive ones in the
// unsigned byte comparison the store performs.
type Int32Key struct{}

func (Int32Key) Method() descriptor.Method { return descriptor.MethodOrdered }

// OrderPreserving marks the codec as order-preserving.
func (Int32Key) OrderPreserving() {}

func (Int32Key) Encode(value int32) ([]byte, error) {
	encoded := make([]byte, 4)
	binary.BigEndian.PutUint32(encoded, uint32(value)^(1<<31))
	return encoded, nil
}

func (Int32Key) Decode(data []byte) (int32, error) {
	if len(data) != 4 {
		return 0, fmt.Errorf("ordered int32 key must be 4 bytes, got %d", len(data))
	}
	return int32(binary.BigEndian.Uint32(data) ^ (1 << 31)), nil
}

// Int64Key is the order-preserving codec for int64 keys, sign-flipped
// like Int32Key.
type Int64Key struct{}

func (Int64Key) Method() descriptor.Method { return descriptor.MethodOrdered }

// OrderPreserving marks the codec as order-preserving.
func (Int64Key) OrderPreserving() {}

func (Int64Key) Encode(value int64) ([]byte, error) {
	encoded := make([]byte, 8)
	binary.BigEndian.PutUint64(encoded, uint64(value)^(1<<63))
	return encoded, nil
}

func (Int64Key) Decode(data []byte) (int64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("ordered int64 key must be 8 bytes, got %d", len(data))
	}
	return int64(binary.BigEndian.Uint64(data) ^ (1 << 63)), nil
}

// StringKey is the order-preserving codec for string keys. Go string
// comparison and the store's key comparison are both byte-
// lexicographic, so the bytes pass through unchanged.
type StringKey struct{}

func (StringKey) Method() descriptor.Method { return descriptor.MethodOrdered }

// OrderPreserving marks the codec as order-preserving.
func (StringKey) OrderPreserving() {}

func (StringKey) Encode(value string) ([]byte, error) {
	return []byte(value), nil
}

func (StringKey) Decode(data []byte) (string, error) {
	return string(data), nil
}

// BytesKey is the order-preserving codec for raw byte-slice keys.
type BytesKey struct{}

func (BytesKey) Method() descriptor.Method { return descriptor.MethodOrdered }

// OrderPreserving marks the codec as order-preserving.
func (BytesKey) OrderPreserving() {}

func (BytesKey) Encode(value []byte) ([]byte, error) {
	return value, nil
}

func (BytesKey) Decode(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}
