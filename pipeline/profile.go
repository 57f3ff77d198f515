// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"fmt"

	"github.com/laminadb/lamina/compress"
	"github.com/laminadb/lamina/descriptor"
	"github.com/laminadb/lamina/protect"
)

// Profile declares, for one value type, which stages run in which
// direction and at what level. Profiles are static configuration: the
// write path consults them to decide what to apply, while stored
// values carry descriptors recording what actually ran, so a profile
// change never breaks reads of existing data.
type Profile struct {
	// Serialize is the serialization direction. Directions that skip
	// encoding on write (none, on-read) require the raw byte codec.
	Serialize descriptor.Direction

	// Compress, Encrypt, and Protect gate their stage families.
	// DirectionNone leaves a stage out of the pipeline entirely.
	Compress descriptor.Direction
	Encrypt  descriptor.Direction
	Protect  descriptor.Direction

	// CompressLevel tunes the compression backend. The zero value
	// selects compress.LevelMedium.
	CompressLevel compress.Level

	// ProtectLevel sets the parity policy. The zero value selects
	// protect.LevelStandard.
	ProtectLevel protect.Level
}

// DefaultProfile serializes in both directions and leaves every other
// stage off. It is the minimum useful profile for typed values.
func DefaultProfile() Profile {
	return Profile{Serialize: descriptor.DirectionBoth}
}

// validateNesting rejects profiles whose read path cannot work. A
// stage running on read only never writes an envelope of its own, so
// on read it finds whatever the stages inside it left at the tail. If
// an inner stage envelopes values on write, the on-read stage would
// pop that inner envelope in place of its own and fail with a layer
// mismatch on every read.
func validateNesting(profile Profile) error {
	stages := [...]struct {
		layer     descriptor.Layer
		direction descriptor.Direction
	}{
		{descriptor.LayerSerialize, profile.Serialize},
		{descriptor.LayerCompress, profile.Compress},
		{descriptor.LayerEncrypt, profile.Encrypt},
		{descriptor.LayerProtect, profile.Protect},
	}
	for outer := 1; outer < len(stages); outer++ {
		if stages[outer].direction != descriptor.DirectionOnRead {
			continue
		}
		for inner := 0; inner < outer; inner++ {
			if stages[inner].direction.AppliesOnWrite() {
				return fmt.Errorf(
					"%s runs on read only, but the inner %s stage envelopes values on write, so reads would pop a %s envelope in its place",
					stages[outer].layer, stages[inner].layer, stages[inner].layer)
			}
		}
	}
	return nil
}
