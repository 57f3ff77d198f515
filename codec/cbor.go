// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/laminadb/lamina/descriptor"
)

// cborEncMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items. Same logical value always
// produces identical bytes, which keeps stored encodings stable across
// process restarts.
var cborEncMode cbor.EncMode

// cborDecMode is the CBOR decoder configured to accept standard CBOR.
// Unknown fields are silently ignored for forward compatibility.
var cborDecMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Types implementing encoding.TextMarshaler serialize as CBOR text
	// strings via MarshalText. Without this, struct fields with
	// unexported data would serialize as empty CBOR maps, losing their
	// contents.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	cborEncMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	cborDecMode, err = cbor.DecOptions{
		// When the decoder's target is any, it must pick a concrete Go
		// map type. The CBOR default is map[interface{}]interface{}
		// (CBOR allows non-string keys), which is incompatible with
		// most Go code expecting map[string]any. Struct field decoding
		// is unaffected.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		// Mirror of the TextMarshaler setting above for round-trip
		// correctness.
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// CBOR encodes values as canonical CBOR (RFC 8949 core deterministic
// encoding). The default value codec: compact, schema-free, and
// deterministic.
type CBOR[V any] struct{}

// Method returns the CBOR protocol constant.
func (CBOR[V]) Method() descriptor.Method {
	return descriptor.MethodCBOR
}

// Encode marshals the value to canonical CBOR.
func (CBOR[V]) Encode(value V) ([]byte, error) {
	return cborEncMode.Marshal(value)
}

// Decode unmarshals canonical CBOR into a value.
func (CBOR[V]) Decode(data []byte) (V, error) {
	var value V
	if err := cborDecMode.Unmarshal(data, &value); err != nil {
		return value, err
	}
	return value, nil
}
