// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec implements the serialize stage of the encoding
// pipeline: turning typed values into bytes and back.
//
// Lamina separates the two halves of serialization:
//
//   - A Codec[V] knows one wire format for one Go type. CBOR is the
//     default for stored values (Core Deterministic Encoding, RFC 8949
//     §4.2, so the same logical value always produces identical
//     bytes). MessagePack and JSON exist for interoperability with
//     systems that already speak those formats, and Raw passes []byte
//     values through untouched for callers that manage their own
//     framing.
//   - A Stage[V] wraps a codec with a descriptor.Direction and speaks
//     the pipeline's tail protocol: on the write path it appends the
//     stage descriptor after the encoded value, and on the read path
//     it pops and validates that descriptor before decoding. A stage
//     whose direction excludes a side passes data through unchanged on
//     that side.
//
// Key encodings are a separate concern from value encodings. Ordered
// tables compare keys as raw bytes, so their key codecs must be
// order-preserving: encoded bytes must sort exactly like the values
// they encode. The *Key codecs in this package carry that guarantee
// and advertise it through the OrderedCodec interface; general-purpose
// formats like CBOR deliberately do not, which is what stops a caller
// from range-scanning a table whose key order is meaningless.
package codec
