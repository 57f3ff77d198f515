// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package encrypt

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/laminadb/lamina/buffer"
	"github.com/laminadb/lamina/descriptor"
	"github.com/laminadb/lamina/keyring"
	"github.com/laminadb/lamina/tailbuf"
)

// Encryptor is one AEAD backend. Implementations are stateless values;
// the cipher itself is built per call from the key, which keeps key
// lifetime decisions (close, rotate) with the keyring rather than
// cached inside stages.
type Encryptor interface {
	// Method identifies the backend in stage descriptors. Protocol
	// constant.
	Method() descriptor.Method

	// KeySize is the key length in bytes the backend requires. Every
	// supported backend takes keyring.KeySize (32) bytes.
	KeySize() int

	// NonceSize is the nonce length in bytes, written to and read back
	// from the tail parameters.
	NonceSize() int

	// AEAD builds the cipher over the given key.
	AEAD(key []byte) (cipher.AEAD, error)
}

// Stage is the encryption stage bound to one backend, key, nonce
// source, and direction.
type Stage struct {
	backend     Encryptor
	key         *keyring.Key
	nonceSource io.Reader
	direction   descriptor.Direction
}

// NewStage validates the backend and key. nonceSource supplies nonce
// bytes on write; nil selects crypto/rand. Callers whose write volume
// exceeds the random-nonce ceiling documented on this package supply
// their own source (a counter, typically) and own its uniqueness
// guarantee.
func NewStage(backend Encryptor, key *keyring.Key, nonceSource io.Reader, direction descriptor.Direction) (Stage, error) {
	if backend == nil {
		return Stage{}, errors.New("encryption backend is nil")
	}
	if direction != descriptor.DirectionNone && key == nil {
		return Stage{}, fmt.Errorf("%s requires a key",
			descriptor.MethodName(descriptor.LayerEncrypt, backend.Method()))
	}
	if nonceSource == nil {
		nonceSource = rand.Reader
	}
	return Stage{backend: backend, key: key, nonceSource: nonceSource, direction: direction}, nil
}

// Direction returns the stage's configured direction.
func (s Stage) Direction() descriptor.Direction {
	return s.direction
}

// Apply seals the buffer and appends the nonce and the stage
// descriptor. The descriptor word is the AEAD associated data.
// Pass-through when the direction does not apply on write.
func (s Stage) Apply(buf buffer.Buffer) (buffer.Buffer, error) {
	if !s.direction.AppliesOnWrite() {
		return buf, nil
	}

	aead, err := s.backend.AEAD(s.key.Bytes())
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("building %s cipher: %w",
			descriptor.MethodName(descriptor.LayerEncrypt, s.backend.Method()), err)
	}

	nonce := make([]byte, s.backend.NonceSize())
	if _, err := io.ReadFull(s.nonceSource, nonce); err != nil {
		return buffer.Buffer{}, fmt.Errorf("drawing %d nonce bytes: %w", len(nonce), err)
	}

	word := descriptor.Encode(descriptor.LayerEncrypt, s.backend.Method(), s.direction)
	sealed := aead.Seal(make([]byte, 0, buf.Len()+aead.Overhead()), nonce, buf.Bytes(), descriptorAAD(word))

	out := buffer.Owned(sealed).Append(nonce...)
	return tailbuf.AppendUint16(out, word), nil
}

// Reverse pops and validates the stage descriptor, pops the nonce,
// and opens the ciphertext. Authentication covers the descriptor word
// as read from the tail, so any tampering between Seal and Open
// surfaces here. Pass-through when the direction is none.
func (s Stage) Reverse(buf buffer.Buffer) (buffer.Buffer, error) {
	if s.direction == descriptor.DirectionNone {
		return buf, nil
	}

	cursor := tailbuf.NewCursor(buf.Bytes())
	word, err := cursor.ReadUint16()
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("reading encryption descriptor: %w", err)
	}
	desc, err := descriptor.Decode(word)
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("decoding encryption descriptor: %w", err)
	}
	if desc.Layer != descriptor.LayerEncrypt {
		return buffer.Buffer{}, &descriptor.LayerMismatchError{
			Expected: descriptor.LayerEncrypt,
			Found:    desc.Layer,
		}
	}
	if desc.Method != s.backend.Method() {
		return buffer.Buffer{}, &descriptor.MethodMismatchError{
			Layer:    descriptor.LayerEncrypt,
			Expected: s.backend.Method(),
			Found:    desc.Method,
		}
	}

	nonce, err := cursor.Read(s.backend.NonceSize())
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("reading %d-byte nonce: %w", s.backend.NonceSize(), err)
	}

	aead, err := s.backend.AEAD(s.key.Bytes())
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("building %s cipher: %w",
			descriptor.MethodName(descriptor.LayerEncrypt, s.backend.Method()), err)
	}

	plaintext, err := aead.Open(nil, nonce, cursor.Remaining(), descriptorAAD(word))
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("authenticated decryption failed (wrong key or tampered value): %w", err)
	}
	return buffer.Owned(plaintext), nil
}

// descriptorAAD returns the descriptor word in its wire encoding for
// use as AEAD associated data.
func descriptorAAD(word uint16) []byte {
	aad := make([]byte, descriptor.Size)
	binary.LittleEndian.PutUint16(aad, word)
	return aad
}
