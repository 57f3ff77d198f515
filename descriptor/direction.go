// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package descriptor

import "fmt"

// Direction records when a stage applies. It occupies bits 8-9 of a
// descriptor word: bit 0 set means the stage participates in reads,
// bit 1 set means it participates in writes. These values are protocol
// constants.
type Direction uint8

const (
	// DirectionNone disables the stage entirely. The stage never
	// transforms the payload and never appends to the tail.
	DirectionNone Direction = 0

	// DirectionOnRead marks data that arrives already transformed,
	// written by a peer whose matching stage ran on write. The local
	// writer stores it verbatim; the local reader pops the envelope
	// the peer appended and reverses the transformation.
	DirectionOnRead Direction = 1

	// DirectionOnWrite applies the transformation when writing. The
	// reader still reverses it (the envelope is in the stored bytes),
	// so a local write-then-read round-trips.
	DirectionOnWrite Direction = 2

	// DirectionBoth applies the transformation when writing and
	// requires reversing it when reading.
	DirectionBoth Direction = 3
)

// directionCount is the number of defined directions. The two-bit
// descriptor field can only hold defined values; DirectionFromRaw
// exists for wider untrusted inputs such as configuration integers.
const directionCount = 4

// AppliesOnRead reports whether the stage participates in the read
// path for this direction.
func (d Direction) AppliesOnRead() bool {
	return d&DirectionOnRead != 0
}

// AppliesOnWrite reports whether the stage transforms the payload on
// the write path for this direction.
func (d Direction) AppliesOnWrite() bool {
	return d&DirectionOnWrite != 0
}

// String returns the human-readable name of a direction.
func (d Direction) String() string {
	switch d {
	case DirectionNone:
		return "none"
	case DirectionOnRead:
		return "on-read"
	case DirectionOnWrite:
		return "on-write"
	case DirectionBoth:
		return "both"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(d))
	}
}

// ParseDirection parses a direction from its string representation.
// Used by configuration loading.
func ParseDirection(name string) (Direction, error) {
	switch name {
	case "none":
		return DirectionNone, nil
	case "on-read":
		return DirectionOnRead, nil
	case "on-write":
		return DirectionOnWrite, nil
	case "both":
		return DirectionBoth, nil
	default:
		return 0, fmt.Errorf("unknown direction: %q (valid: none, on-read, on-write, both)", name)
	}
}

// DirectionFromRaw validates a raw direction value from untrusted
// input.
func DirectionFromRaw(raw uint8) (Direction, error) {
	if raw >= directionCount {
		return 0, &UnrecognizedDirectionError{Raw: raw}
	}
	return Direction(raw), nil
}
