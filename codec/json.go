// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/json"

	"github.com/laminadb/lamina/descriptor"
)

// JSON encodes values as JSON. The least compact option, but readable
// in store dumps and interoperable with everything; useful for
// configuration-like tables inspected by humans.
type JSON[V any] struct{}

// Method returns the JSON protocol constant.
func (JSON[V]) Method() descriptor.Method {
	return descriptor.MethodJSON
}

// Encode marshals the value to JSON.
func (JSON[V]) Encode(value V) ([]byte, error) {
	return json.Marshal(value)
}

// Decode unmarshals JSON into a value.
func (JSON[V]) Decode(data []byte) (V, error) {
	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		return value, err
	}
	return value, nil
}
