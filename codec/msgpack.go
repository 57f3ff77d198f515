// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/laminadb/lamina/descriptor"
)

// MessagePack encodes values as MessagePack. Denser than JSON and
// faster to decode than CBOR for struct-heavy values; use it when the
// stored volume is dominated by many small records.
type MessagePack[V any] struct{}

// Method returns the MessagePack protocol constant.
func (MessagePack[V]) Method() descriptor.Method {
	return descriptor.MethodMessagePack
}

// Encode marshals the value to MessagePack.
func (MessagePack[V]) Encode(value V) ([]byte, error) {
	return msgpack.Marshal(value)
}

// Decode unmarshals MessagePack into a value.
func (MessagePack[V]) Decode(data []byte) (V, error) {
	var value V
	if err := msgpack.Unmarshal(data, &value); err != nil {
		return value, err
	}
	return value, nil
}
