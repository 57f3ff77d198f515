// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

// Package tailbuf reads and writes the tail parameter blocks that
// pipeline stages attach to values.
//
// Stages append their parameters left-to-right, each block followed by
// the stage's descriptor, so the last bytes of a stored value belong
// to the outermost stage. Readers therefore consume the tail
// right-to-left: a Cursor starts at the end of the buffer and walks
// backwards, handing out the most recently appended bytes first. All
// multi-byte integers are little-endian.
package tailbuf

import (
	"encoding/binary"
	"fmt"
)

// Cursor consumes a byte buffer from its tail. Reads shrink the
// unconsumed window from the right; the window's bytes are never
// modified. A read past the remaining window fails with
// EndOfBufferError and leaves the cursor unchanged; the cursor never
// truncates silently and never panics on underflow.
type Cursor struct {
	data []byte
	// pos is the length of the unconsumed window; data[:pos] remains.
	pos int
}

// NewCursor returns a cursor over data, positioned at the end.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data, pos: len(data)}
}

// Len returns the number of unconsumed bytes.
func (c *Cursor) Len() int {
	return c.pos
}

// Remaining returns the unconsumed window. The slice aliases the
// cursor's underlying buffer.
func (c *Cursor) Remaining() []byte {
	return c.data[:c.pos]
}

// Read consumes and returns the last n unconsumed bytes. The returned
// slice aliases the underlying buffer.
func (c *Cursor) Read(n int) ([]byte, error) {
	if n < 0 || n > c.pos {
		return nil, &EndOfBufferError{BytesRead: n, BytesRemaining: c.pos}
	}
	c.pos -= n
	return c.data[c.pos : c.pos+n], nil
}

// ReadUint16 consumes a little-endian uint16 from the tail.
func (c *Cursor) ReadUint16() (uint16, error) {
	raw, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(raw), nil
}

// ReadUint32 consumes a little-endian uint32 from the tail.
func (c *Cursor) ReadUint32() (uint32, error) {
	raw, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(raw), nil
}

// ReadUint32s consumes count little-endian uint32 values from the
// tail. The values are returned in the order they were appended, i.e.
// the first element of the result is the leftmost of the consumed
// words.
func (c *Cursor) ReadUint32s(count int) ([]uint32, error) {
	if count < 0 {
		return nil, fmt.Errorf("tailbuf: negative count %d", count)
	}
	raw, err := c.Read(count * 4)
	if err != nil {
		return nil, err
	}
	values := make([]uint32, count)
	for i := range values {
		values[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return values, nil
}

// PeekUint16 returns the last two unconsumed bytes as a little-endian
// uint16 without consuming them.
func (c *Cursor) PeekUint16() (uint16, error) {
	if c.pos < 2 {
		return 0, &EndOfBufferError{BytesRead: 2, BytesRemaining: c.pos}
	}
	return binary.LittleEndian.Uint16(c.data[c.pos-2:]), nil
}

// EndOfBufferError reports a tail read that asked for more bytes than
// remain unconsumed.
type EndOfBufferError struct {
	// BytesRead is the size of the attempted read.
	BytesRead int
	// BytesRemaining is how many unconsumed bytes the cursor held.
	BytesRemaining int
}

func (e *EndOfBufferError) Error() string {
	return fmt.Sprintf("end of buffer: read of %d bytes with %d remaining",
		e.BytesRead, e.BytesRemaining)
}
