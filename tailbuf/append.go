// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package tailbuf

import (
	"encoding/binary"

	"github.com/laminadb/lamina/buffer"
)

// AppendUint16 appends v to the buffer's tail in little-endian order.
// Borrowed buffers are promoted to owned copies by Buffer.Append.
func AppendUint16(b buffer.Buffer, v uint16) buffer.Buffer {
	var raw [2]byte
	binary.LittleEndian.PutUint16(raw[:], v)
	return b.Append(raw[:]...)
}

// AppendUint32 appends v to the buffer's tail in little-endian order.
func AppendUint32(b buffer.Buffer, v uint32) buffer.Buffer {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], v)
	return b.Append(raw[:]...)
}

// AppendUint32s appends the values in slice order, so a cursor's
// ReadUint32s returns them in the same order.
func AppendUint32s(b buffer.Buffer, values []uint32) buffer.Buffer {
	raw := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(raw[i*4:], v)
	}
	return b.Append(raw...)
}
