// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package encrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/laminadb/lamina/descriptor"
	"github.com/laminadb/lamina/keyring"
)

// AESGCM is AES-256-GCM. The 32-byte key selects the 256-bit AES
// variant. Fastest backend where the CPU has AES instructions; on
// hardware without them, prefer ChaCha20, which stays constant time
// in software.
type AESGCM struct{}

func (AESGCM) Method() descriptor.Method { return descriptor.MethodAESGCM }

func (AESGCM) KeySize() int { return keyring.KeySize }

// NonceSize is the standard 12-byte GCM nonce.
func (AESGCM) NonceSize() int { return 12 }

func (AESGCM) AEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("AES block cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
