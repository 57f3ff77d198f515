// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package descriptor

import "fmt"

// Method identifies the concrete backend that produced a stage's
// bytes. Methods occupy bits 3-7 of a descriptor word (up to 32 per
// layer) and are scoped to their layer: compression method 1 and
// encryption method 1 are unrelated. These values are protocol
// constants; changing them breaks compatibility with stored values.
type Method uint8

// Serialization methods.
const (
	// MethodRawBytes is the identity codec over raw byte slices.
	MethodRawBytes Method = 0

	// MethodCBOR is canonical CBOR (RFC 8949 core deterministic
	// encoding).
	MethodCBOR Method = 1

	// MethodMessagePack is MessagePack encoding.
	MethodMessagePack Method = 2

	// MethodJSON is JSON encoding.
	MethodJSON Method = 3

	// MethodOrdered is the fixed-width order-preserving encoding used
	// for keys: big-endian unsigned integers, sign-flipped big-endian
	// signed integers, and raw string/byte forms.
	MethodOrdered Method = 4
)

// Compression methods.
const (
	// MethodStored marks a payload stored uncompressed. A compression
	// stage that finds its input incompressible records this method so
	// the reader skips decompression.
	MethodStored Method = 0

	MethodZstd  Method = 1
	MethodLZ4   Method = 2
	MethodGzip  Method = 3
	MethodZlib  Method = 4
	MethodFlate Method = 5
	MethodS2    Method = 6
)

// Encryption methods.
const (
	MethodAESGCM    Method = 0
	MethodChaCha20  Method = 1
	MethodXChaCha20 Method = 2
)

// Correction methods.
const (
	MethodReedSolomon Method = 0
)

// methodCounts maps each layer to the number of methods defined for
// it. Raw method values at or above the count fail to decode.
var methodCounts = [layerCount]uint8{
	LayerRaw:       1,
	LayerSerialize: 5,
	LayerCompress:  7,
	LayerEncrypt:   3,
	LayerProtect:   1,
}

var methodNames = [layerCount][]string{
	LayerRaw:       {"raw"},
	LayerSerialize: {"raw", "cbor", "msgpack", "json", "ordered"},
	LayerCompress:  {"stored", "zstd", "lz4", "gzip", "zlib", "flate", "s2"},
	LayerEncrypt:   {"aes-gcm", "chacha20poly1305", "xchacha20poly1305"},
	LayerProtect:   {"reedsolomon"},
}

// MethodFromRaw validates a raw method value against the registry of
// the given layer.
func MethodFromRaw(layer Layer, raw uint8) (Method, error) {
	if uint8(layer) >= layerCount || raw >= methodCounts[layer] {
		return 0, &UnrecognizedMethodError{Layer: layer, Raw: raw}
	}
	return Method(raw), nil
}

// MethodName returns the human-readable name of a method within its
// layer.
func MethodName(layer Layer, method Method) string {
	if uint8(layer) < layerCount && uint8(method) < methodCounts[layer] {
		return methodNames[layer][method]
	}
	return fmt.Sprintf("unknown(%d)", uint8(method))
}

// ParseMethod parses a method name within the given layer. Used by
// configuration loading.
func ParseMethod(layer Layer, name string) (Method, error) {
	if uint8(layer) < layerCount {
		for i, candidate := range methodNames[layer] {
			if candidate == name {
				return Method(i), nil
			}
		}
	}
	return 0, fmt.Errorf("unknown %s method: %q", layer, name)
}
