// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package descriptor

import "fmt"

// Layer identifies a stage kind in the value pipeline. Layers occupy
// bits 0-2 of a descriptor word (up to 8 kinds). These values are
// protocol constants; changing them breaks compatibility with stored
// values.
type Layer uint8

const (
	// LayerRaw marks bytes that no stage has transformed. It never
	// appears in tails written by this library, but remains a valid
	// wire value so foreign writers can mark pass-through payloads.
	LayerRaw Layer = 0

	// LayerSerialize marks the serialization stage: typed value to
	// bytes and back. Always the innermost stage.
	LayerSerialize Layer = 1

	// LayerCompress marks the compression stage.
	LayerCompress Layer = 2

	// LayerEncrypt marks the encryption stage.
	LayerEncrypt Layer = 3

	// LayerProtect marks the error-correction stage: parity shards
	// and checksums. Always the outermost stage.
	LayerProtect Layer = 4
)

// layerCount is the number of defined layers. Raw values at or above
// this fail to decode.
const layerCount = 5

// String returns the human-readable name of a layer.
func (l Layer) String() string {
	switch l {
	case LayerRaw:
		return "raw"
	case LayerSerialize:
		return "serialize"
	case LayerCompress:
		return "compress"
	case LayerEncrypt:
		return "encrypt"
	case LayerProtect:
		return "protect"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(l))
	}
}

// ParseLayer parses a layer from its string representation.
func ParseLayer(name string) (Layer, error) {
	switch name {
	case "raw":
		return LayerRaw, nil
	case "serialize":
		return LayerSerialize, nil
	case "compress":
		return LayerCompress, nil
	case "encrypt":
		return LayerEncrypt, nil
	case "protect":
		return LayerProtect, nil
	default:
		return 0, fmt.Errorf("unknown layer: %q", name)
	}
}

// LayerFromRaw validates a raw layer value read from a descriptor
// word or other untrusted input.
func LayerFromRaw(raw uint8) (Layer, error) {
	if raw >= layerCount {
		return 0, &UnrecognizedLayerError{Raw: raw}
	}
	return Layer(raw), nil
}
