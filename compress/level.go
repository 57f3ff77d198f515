// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"fmt"
	"strconv"
)

// Level selects the speed/ratio tradeoff of a compression backend.
// The three named levels map onto whatever scale the backend exposes;
// an exact level (Exact) passes a backend-specific code through
// unmapped for callers that have tuned one.
type Level int

const (
	// LevelMinimum prioritizes speed over ratio.
	LevelMinimum Level = -1

	// LevelMedium balances speed and ratio. The default.
	LevelMedium Level = -2

	// LevelMaximum prioritizes ratio over speed.
	LevelMaximum Level = -3
)

// Exact wraps a backend-specific level code (zstd 1-22, gzip/zlib/
// flate 0-9, lz4 0-9). Codes are validated by the backend when the
// stage is built. Panics if code is negative, since negative values
// encode the named levels.
func Exact(code int) Level {
	if code < 0 {
		panic("compress: exact level code must be non-negative")
	}
	return Level(code)
}

// IsExact reports whether the level carries a backend-specific code.
func (l Level) IsExact() bool {
	return l >= 0
}

// Code returns the backend-specific code of an exact level. Only
// meaningful when IsExact reports true.
func (l Level) Code() int {
	return int(l)
}

// String returns the level's name, or its code in decimal for exact
// levels.
func (l Level) String() string {
	switch l {
	case LevelMinimum:
		return "minimum"
	case LevelMedium:
		return "medium"
	case LevelMaximum:
		return "maximum"
	}
	if l.IsExact() {
		return strconv.Itoa(l.Code())
	}
	return fmt.Sprintf("invalid(%d)", int(l))
}

// ParseLevel parses a level from its string representation: one of
// the named levels, or a non-negative integer for an exact code. Used
// by configuration loading.
func ParseLevel(name string) (Level, error) {
	switch name {
	case "minimum":
		return LevelMinimum, nil
	case "medium":
		return LevelMedium, nil
	case "maximum":
		return LevelMaximum, nil
	}
	code, err := strconv.Atoi(name)
	if err != nil || code < 0 {
		return 0, fmt.Errorf("unknown compression level: %q (valid: minimum, medium, maximum, or a non-negative backend code)", name)
	}
	return Exact(code), nil
}

// valid reports whether the level is one of the named levels or an
// exact code. Backends additionally restrict exact codes to their own
// ranges.
func (l Level) valid() bool {
	switch l {
	case LevelMinimum, LevelMedium, LevelMaximum:
		return true
	}
	return l.IsExact()
}
