// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"

	"github.com/laminadb/lamina/buffer"
	"github.com/laminadb/lamina/descriptor"
	"github.com/laminadb/lamina/tailbuf"
)

// Codec converts values of one type to bytes and back.
//
// Encode returns freshly allocated bytes the caller may own; the
// identity Raw codec is the one exception, returning the value itself
// so unchanged payloads are not copied. Decode must not retain or
// alias its input, because the bytes may view store memory that dies
// with the enclosing transaction; codecs that would otherwise return
// views (Raw) copy instead.
type Codec[V any] interface {
	// Method identifies the codec in stage descriptors. Protocol
	// constant.
	Method() descriptor.Method

	Encode(value V) ([]byte, error)
	Decode(data []byte) (V, error)
}

// OrderedCodec marks codecs whose encoded form preserves the natural
// order of the values: compare(a, b) == bytes.Compare(Encode(a),
// Encode(b)) for all a, b. Implementations promise this property;
// ordered tables rely on it for range scans.
type OrderedCodec[V any] interface {
	Codec[V]

	// OrderPreserving is a marker; it does nothing.
	OrderPreserving()
}

// Stage is the serialization stage bound to one codec and direction.
type Stage[V any] struct {
	codec     Codec[V]
	direction descriptor.Direction
}

// NewStage validates the codec/direction combination. Directions that
// skip encoding on write (none, on-read) store the caller's bytes
// verbatim, which is only possible for the identity Raw codec.
func NewStage[V any](c Codec[V], direction descriptor.Direction) (Stage[V], error) {
	if !direction.AppliesOnWrite() && c.Method() != descriptor.MethodRawBytes {
		return Stage[V]{}, fmt.Errorf(
			"serialize direction %s stores caller bytes verbatim and requires the raw codec, got %s",
			direction, descriptor.MethodName(descriptor.LayerSerialize, c.Method()))
	}
	return Stage[V]{codec: c, direction: direction}, nil
}

// Direction returns the stage's configured direction.
func (s Stage[V]) Direction() descriptor.Direction {
	return s.direction
}

// Apply encodes the value into a payload buffer. When the direction
// applies on write the stage appends its descriptor; otherwise the
// bytes pass through untagged.
func (s Stage[V]) Apply(value buffer.Value[V]) (buffer.Buffer, error) {
	encoded, err := s.codec.Encode(value.Get())
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("encoding value: %w", err)
	}

	// The identity codec returns the caller's own bytes; everything
	// else allocates.
	var buf buffer.Buffer
	if _, identity := any(s.codec).(Raw); identity {
		buf = buffer.Borrowed(encoded)
	} else {
		buf = buffer.Owned(encoded)
	}

	if !s.direction.AppliesOnWrite() {
		return buf, nil
	}
	word := descriptor.Encode(descriptor.LayerSerialize, s.codec.Method(), s.direction)
	return tailbuf.AppendUint16(buf, word), nil
}

// Reverse decodes a payload buffer back into a value. Every direction
// except none pops and validates the stage descriptor: either the
// local write path appended it (on-write, both) or the data was
// serialized and enveloped before it reached this store (on-read).
// A missing or foreign envelope is an error, never a guess.
func (s Stage[V]) Reverse(buf buffer.Buffer) (V, error) {
	var zero V

	if s.direction == descriptor.DirectionNone {
		return s.codec.Decode(buf.Bytes())
	}

	cursor := tailbuf.NewCursor(buf.Bytes())
	word, err := cursor.ReadUint16()
	if err != nil {
		return zero, fmt.Errorf("reading serialize descriptor: %w", err)
	}
	desc, err := descriptor.Decode(word)
	if err != nil {
		return zero, fmt.Errorf("decoding serialize descriptor: %w", err)
	}
	if desc.Layer != descriptor.LayerSerialize {
		return zero, &descriptor.LayerMismatchError{
			Expected: descriptor.LayerSerialize,
			Found:    desc.Layer,
		}
	}
	if desc.Method != s.codec.Method() {
		return zero, &descriptor.MethodMismatchError{
			Layer:    descriptor.LayerSerialize,
			Expected: s.codec.Method(),
			Found:    desc.Method,
		}
	}
	return s.codec.Decode(cursor.Remaining())
}
