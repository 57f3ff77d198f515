// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"github.com/laminadb/lamina/compress"
	"github.com/laminadb/lamina/encrypt"
	"github.com/laminadb/lamina/protect"
)

// Suite selects the concrete backend for each optional stage family.
// One suite typically serves a whole store, with per-type profiles
// deciding which of its backends actually run. A nil field is fine as
// long as no profile activates that family.
type Suite struct {
	Compressor compress.Compressor
	Encryptor  encrypt.Encryptor
	Corrector  protect.Corrector
}

// DefaultSuite pairs zstd compression, XChaCha20-Poly1305 encryption,
// and Reed-Solomon error correction.
func DefaultSuite() Suite {
	return Suite{
		Compressor: compress.Zstd{},
		Encryptor:  encrypt.XChaCha20{},
		Corrector:  protect.ReedSolomon{},
	}
}
