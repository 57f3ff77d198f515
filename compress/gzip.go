// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/laminadb/lamina/descriptor"
)

// Gzip compresses with the gzip framing. Pays ~18 bytes of header and
// checksum per value over raw DEFLATE; worth it only when stored
// values must interoperate with external gzip tooling.
type Gzip struct{}

// Method returns the gzip protocol constant.
func (Gzip) Method() descriptor.Method {
	return descriptor.MethodGzip
}

// ValidateLevel accepts the named levels and exact codes 0-9.
func (Gzip) ValidateLevel(level Level) error {
	return validateDeflateLevel(level)
}

// Compress compresses data at the given level.
func (Gzip) Compress(data []byte, level Level) ([]byte, error) {
	var out bytes.Buffer
	writer, err := gzip.NewWriterLevel(&out, deflateLevel(level))
	if err != nil {
		return nil, fmt.Errorf("gzip writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	if out.Len() >= len(data) {
		return nil, errIncompressible
	}
	return out.Bytes(), nil
}

// Decompress expands data back to exactly uncompressedSize bytes.
func (Gzip) Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	defer reader.Close()
	return readExactly(reader, uncompressedSize, "gzip")
}

// validateDeflateLevel is shared by the three DEFLATE-family backends
// (gzip, zlib, flate), which all use the 0-9 scale.
func validateDeflateLevel(level Level) error {
	if !level.IsExact() {
		return nil
	}
	if code := level.Code(); code > 9 {
		return fmt.Errorf("exact level %d out of range 0-9", code)
	}
	return nil
}

// deflateLevel maps a level to the DEFLATE 0-9 scale shared by gzip,
// zlib, and flate.
func deflateLevel(level Level) int {
	switch level {
	case LevelMinimum:
		return 1
	case LevelMedium:
		return 6
	case LevelMaximum:
		return 9
	}
	return level.Code()
}

// readExactly drains a decompression stream that must produce exactly
// size bytes: fewer or more is corruption.
func readExactly(reader io.Reader, size int, backend string) ([]byte, error) {
	out := make([]byte, size)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, fmt.Errorf("%s decompress: %w", backend, err)
	}
	var extra [1]byte
	for {
		n, err := reader.Read(extra[:])
		if n != 0 {
			return nil, fmt.Errorf("%s decompress: stream longer than the %d recorded bytes", backend, size)
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s decompress: %w", backend, err)
		}
	}
}
