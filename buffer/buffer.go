// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

// Package buffer provides the borrowed-or-owned byte buffers that flow
// through the value pipeline, and a typed equivalent for application
// values on the write path.
//
// A Buffer tracks where its bytes came from. Borrowed buffers view
// memory owned by someone else, typically a store read whose backing
// block dies with the enclosing transaction, and must not outlive
// their source. Owned buffers are private allocations. The distinction
// lets pipeline stages that have nothing to do pass bytes through
// without copying, while any operation that would mutate a borrowed
// buffer first promotes it to an owned copy.
package buffer

import "slices"

// Buffer is a byte payload plus the metadata the pipeline needs to
// handle it safely: whether the bytes are owned, and whether they were
// rebuilt from parity during a read. The zero value is an empty owned
// buffer.
//
// Buffer is a small value type; methods return new Buffer values
// rather than mutating in place.
type Buffer struct {
	data      []byte
	borrowed  bool
	recovered bool
}

// Borrowed wraps bytes owned by someone else. The returned buffer must
// not outlive the memory it views; convert with IntoOwned before
// crossing a transaction boundary.
func Borrowed(data []byte) Buffer {
	return Buffer{data: data, borrowed: true}
}

// Owned wraps bytes the buffer owns outright.
func Owned(data []byte) Buffer {
	return Buffer{data: data}
}

// Recovered wraps owned bytes that were rebuilt from parity. Callers
// seeing this flag should rewrite the value so the stored copy is
// clean again.
func Recovered(data []byte) Buffer {
	return Buffer{data: data, recovered: true}
}

// Bytes returns the underlying bytes. The slice aliases the buffer's
// backing memory; treat it as read-only when the buffer is borrowed.
func (b Buffer) Bytes() []byte {
	return b.data
}

// Len returns the payload length in bytes.
func (b Buffer) Len() int {
	return len(b.data)
}

// IsOwned reports whether the buffer owns its bytes.
func (b Buffer) IsOwned() bool {
	return !b.borrowed
}

// WasRecovered reports whether any stage rebuilt these bytes from
// parity while reading.
func (b Buffer) WasRecovered() bool {
	return b.recovered
}

// MarkRecovered returns the buffer with the recovered flag set,
// preserving ownership.
func (b Buffer) MarkRecovered() Buffer {
	b.recovered = true
	return b
}

// IntoOwned returns an owned buffer with the same contents, copying
// only if the buffer is borrowed.
func (b Buffer) IntoOwned() Buffer {
	if !b.borrowed {
		return b
	}
	return Buffer{data: slices.Clone(b.data), recovered: b.recovered}
}

// Truncate returns a buffer viewing the first n bytes. It never
// copies: a borrowed buffer stays borrowed, re-sliced over the same
// memory. Truncating beyond the length is a programming error and
// panics like a slice expression would.
func (b Buffer) Truncate(n int) Buffer {
	b.data = b.data[:n]
	return b
}

// Append returns the buffer extended with p. Borrowed buffers are
// promoted to owned copies before growing, so the borrowed source is
// never written through.
func (b Buffer) Append(p ...byte) Buffer {
	if b.borrowed {
		grown := make([]byte, len(b.data), len(b.data)+len(p))
		copy(grown, b.data)
		b.data = grown
		b.borrowed = false
	}
	b.data = append(b.data, p...)
	return b
}
