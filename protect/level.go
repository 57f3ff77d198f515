// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package protect

import (
	"fmt"
	"strconv"
)

// Level selects how many parity shards protect a value: a named
// policy that scales with the payload, or an exact count.
type Level int

// Named policies occupy the negative range; values of one and above
// are exact parity counts.
const (
	// LevelBasic adds a single parity shard. Any one corrupted shard
	// is recoverable.
	LevelBasic Level = -1

	// LevelStandard adds one parity shard per four data shards, at
	// least one: 25% storage overhead.
	LevelStandard Level = -2

	// LevelMaximum adds one parity shard per two data shards, at
	// least one: 50% storage overhead.
	LevelMaximum Level = -3
)

// Exact pins the parity shard count regardless of payload size.
// Panics if count is less than one; zero parity protects nothing.
func Exact(count int) Level {
	if count < 1 {
		panic(fmt.Sprintf("protect: exact parity count %d is below the one-shard minimum", count))
	}
	return Level(count)
}

// IsExact reports whether the level pins an exact parity count.
func (l Level) IsExact() bool {
	return l >= 1
}

// Count returns the parity count of an exact level.
func (l Level) Count() int {
	return int(l)
}

// String returns the policy name or the exact count in decimal.
func (l Level) String() string {
	switch {
	case l == LevelBasic:
		return "basic"
	case l == LevelStandard:
		return "standard"
	case l == LevelMaximum:
		return "maximum"
	case l >= 1:
		return strconv.Itoa(int(l))
	default:
		return fmt.Sprintf("invalid(%d)", int(l))
	}
}

// ParseLevel parses a policy name or a positive parity count. Used by
// configuration loading.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "basic":
		return LevelBasic, nil
	case "standard":
		return LevelStandard, nil
	case "maximum":
		return LevelMaximum, nil
	}
	count, err := strconv.Atoi(s)
	if err != nil || count < 1 {
		return 0, fmt.Errorf("unknown protection level %q", s)
	}
	return Level(count), nil
}

func (l Level) valid() bool {
	return l == LevelBasic || l == LevelStandard || l == LevelMaximum || l >= 1
}

// parityShards returns the parity count for a payload spanning
// dataShards shards.
func (l Level) parityShards(dataShards int) int {
	switch l {
	case LevelBasic:
		return 1
	case LevelStandard:
		return max(dataShards/4, 1)
	case LevelMaximum:
		return max(dataShards/2, 1)
	default:
		return int(l)
	}
}
