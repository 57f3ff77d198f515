// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zlib"

	"github.com/laminadb/lamina/descriptor"
)

// Zlib compresses with the zlib framing: DEFLATE plus a 2-byte header
// and Adler-32 checksum. Supports external dictionaries, unlike gzip.
type Zlib struct{}

// Method returns the zlib protocol constant.
func (Zlib) Method() descriptor.Method {
	return descriptor.MethodZlib
}

// ValidateLevel accepts the named levels and exact codes 0-9.
func (Zlib) ValidateLevel(level Level) error {
	return validateDeflateLevel(level)
}

// Compress compresses data at the given level.
func (z Zlib) Compress(data []byte, level Level) ([]byte, error) {
	return z.compress(data, level, nil)
}

// Decompress expands data back to exactly uncompressedSize bytes.
func (z Zlib) Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	return z.decompress(data, uncompressedSize, nil)
}

// CompressDict compresses data against an external dictionary.
func (z Zlib) CompressDict(data []byte, level Level, dictionary []byte) ([]byte, error) {
	return z.compress(data, level, dictionary)
}

// DecompressDict expands dictionary-compressed data.
func (z Zlib) DecompressDict(data []byte, uncompressedSize int, dictionary []byte) ([]byte, error) {
	return z.decompress(data, uncompressedSize, dictionary)
}

func (Zlib) compress(data []byte, level Level, dictionary []byte) ([]byte, error) {
	var out bytes.Buffer
	writer, err := zlib.NewWriterLevelDict(&out, deflateLevel(level), dictionary)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if out.Len() >= len(data) {
		return nil, errIncompressible
	}
	return out.Bytes(), nil
}

func (Zlib) decompress(data []byte, uncompressedSize int, dictionary []byte) ([]byte, error) {
	reader, err := zlib.NewReaderDict(bytes.NewReader(data), dictionary)
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	defer reader.Close()
	return readExactly(reader, uncompressedSize, "zlib")
}
