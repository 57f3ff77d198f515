// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/flate"

	"github.com/laminadb/lamina/descriptor"
)

// Flate compresses with raw DEFLATE: no framing, no checksum, the
// smallest per-value overhead of the DEFLATE family. The absence of a
// checksum is also why this backend rejects external dictionaries: a
// mismatched dictionary could decode to wrong bytes without any
// detectable failure. Use zlib when a dictionary is needed.
type Flate struct{}

// Method returns the flate protocol constant.
func (Flate) Method() descriptor.Method {
	return descriptor.MethodFlate
}

// ValidateLevel accepts the named levels and exact codes 0-9.
func (Flate) ValidateLevel(level Level) error {
	return validateDeflateLevel(level)
}

// Compress compresses data at the given level.
func (Flate) Compress(data []byte, level Level) ([]byte, error) {
	var out bytes.Buffer
	writer, err := flate.NewWriter(&out, deflateLevel(level))
	if err != nil {
		return nil, fmt.Errorf("flate writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("flate compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("flate compress: %w", err)
	}
	if out.Len() >= len(data) {
		return nil, errIncompressible
	}
	return out.Bytes(), nil
}

// Decompress expands data back to exactly uncompressedSize bytes.
func (Flate) Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	reader := flate.NewReader(bytes.NewReader(data))
	defer reader.Close()
	return readExactly(reader, uncompressedSize, "flate")
}
