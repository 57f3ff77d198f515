// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/laminadb/lamina/descriptor"
)

// LZ4 compresses with block-mode LZ4. The fastest decode of any
// backend (~4 GB/s); ratios around 1.5-2x. Good default when values
// are read far more often than written.
type LZ4 struct{}

// Method returns the lz4 protocol constant.
func (LZ4) Method() descriptor.Method {
	return descriptor.MethodLZ4
}

// ValidateLevel accepts the named levels and exact codes 0-9: 0 is
// the fast block compressor, 1-9 the high-compression depths.
func (LZ4) ValidateLevel(level Level) error {
	if !level.IsExact() {
		return nil
	}
	if code := level.Code(); code > 9 {
		return fmt.Errorf("exact level %d out of range 0-9", code)
	}
	return nil
}

// Compress compresses data at the given level.
func (LZ4) Compress(data []byte, level Level) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))

	var written int
	var err error
	if depth, ok := lz4Depth(level); ok {
		written, err = lz4.CompressBlockHC(data, destination, depth, nil, nil)
	} else {
		written, err = lz4.CompressBlock(data, destination, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	// CompressBlock returns 0 when it determines the data is
	// incompressible; a result at least as large as the input is not
	// worth storing either.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

// Decompress expands data back to exactly uncompressedSize bytes.
func (LZ4) Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	destination := make([]byte, uncompressedSize)
	read, err := lz4.UncompressBlock(data, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != uncompressedSize {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, uncompressedSize)
	}
	return destination, nil
}

// lz4Depth maps a level to a high-compression depth. The minimum
// level and exact code 0 use the fast block compressor instead.
func lz4Depth(level Level) (lz4.CompressionLevel, bool) {
	switch level {
	case LevelMinimum:
		return 0, false
	case LevelMedium:
		return lz4.Level4, true
	case LevelMaximum:
		return lz4.Level9, true
	}
	switch level.Code() {
	case 0:
		return 0, false
	case 1:
		return lz4.Level1, true
	case 2:
		return lz4.Level2, true
	case 3:
		return lz4.Level3, true
	case 4:
		return lz4.Level4, true
	case 5:
		return lz4.Level5, true
	case 6:
		return lz4.Level6, true
	case 7:
		return lz4.Level7, true
	case 8:
		return lz4.Level8, true
	default:
		return lz4.Level9, true
	}
}
