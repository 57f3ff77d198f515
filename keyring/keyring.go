// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

// Package keyring manages the symmetric keys the encryption stage
// consumes.
//
// A Key holds exactly 32 bytes of key material in memory allocated
// outside the Go heap via mmap(MAP_ANONYMOUS), locked into physical
// RAM with mlock (never swapped), and excluded from core dumps with
// madvise(MADV_DONTDUMP). The garbage collector never sees the region,
// so it cannot copy or relocate the material; Close zeroes and unmaps
// it deterministically.
//
// Keys come from three places: raw bytes the caller already holds
// (FromBytes), a passphrase stretched with BLAKE3's key derivation
// mode (FromPassphrase), or another key via HKDF-SHA256 subkey
// derivation (Derive). Derivation is cheap, roughly a microsecond,
// so callers derive per-table or per-purpose subkeys freely instead of
// caching them.
package keyring

import (
	"crypto/sha256"
	"fmt"
	"io"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/sys/unix"
)

// KeySize is the size in bytes of every key in the system. All
// supported AEAD backends take 32-byte keys.
const KeySize = 32

// passphraseContext is the BLAKE3 derive-key context string for
// passphrase-derived keys. Per the BLAKE3 spec it is globally unique
// and fixed forever: changing it invalidates every key derived from a
// passphrase.
const passphraseContext = "lamina 2026-08-22 passphrase root key v1"

// Key is 32 bytes of key material in locked, off-heap memory. A Key
// must not be copied. Close releases the material; using a closed key
// panics, matching the severity of silently encrypting with zeroed key
// bytes.
type Key struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

// newLockedKey allocates the protected region for one key.
func newLockedKey() (*Key, error) {
	data, err := unix.Mmap(-1, 0, KeySize,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("keyring: mmap failed: %w", err)
	}
	if err := unix.Mlock(data); err != nil {
		unix.Munmap(data)
		return nil, fmt.Errorf("keyring: mlock failed: %w", err)
	}
	if err := unix.Madvise(data, unix.MADV_DONTDUMP); err != nil {
		unix.Munlock(data)
		unix.Munmap(data)
		return nil, fmt.Errorf("keyring: madvise(MADV_DONTDUMP) failed: %w", err)
	}
	return &Key{data: data}, nil
}

// FromBytes creates a key from existing material, which must be
// exactly KeySize bytes. The material is copied into the protected
// region and the source slice is zeroed, so the caller's copy no
// longer holds the key.
func FromBytes(material []byte) (*Key, error) {
	if len(material) != KeySize {
		return nil, fmt.Errorf("keyring: key material must be %d bytes, got %d", KeySize, len(material))
	}
	key, err := newLockedKey()
	if err != nil {
		return nil, err
	}
	copy(key.data, material)
	Zero(material)
	return key, nil
}

// FromPassphrase derives a root key from a passphrase using BLAKE3 in
// key-derivation mode with the package's fixed context string. The
// same passphrase always produces the same key.
func FromPassphrase(passphrase string) (*Key, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("keyring: passphrase is empty")
	}
	key, err := newLockedKey()
	if err != nil {
		return nil, err
	}
	blake3.DeriveKey(passphraseContext, []byte(passphrase), key.data)
	return key, nil
}

// Derive produces a subkey bound to info via HKDF-SHA256. Distinct
// info strings yield independent keys; the parent key is only read.
// The salt is nil: parent keys are already uniformly random, so the
// extract step with a zero salt is appropriate per RFC 5869.
func (k *Key) Derive(info string) (*Key, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		panic("keyring: derive from closed key")
	}

	derived, err := newLockedKey()
	if err != nil {
		return nil, err
	}
	reader := hkdf.New(sha256.New, k.data, nil, []byte(info))
	if _, err := io.ReadFull(reader, derived.data); err != nil {
		derived.Close()
		return nil, fmt.Errorf("keyring: HKDF derivation failed: %w", err)
	}
	return derived, nil
}

// Bytes returns the key material. The slice points into the locked
// region: do not retain it past the key's lifetime and do not modify
// it. Panics if the key has been closed.
func (k *Key) Bytes() []byte {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		panic("keyring: read from closed key")
	}
	return k.data
}

// Close zeroes the key material and releases the locked region.
// Idempotent.
func (k *Key) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil
	}
	k.closed = true

	Zero(k.data)

	var firstError error
	if err := unix.Munlock(k.data); err != nil && firstError == nil {
		firstError = fmt.Errorf("keyring: munlock failed: %w", err)
	}
	if err := unix.Munmap(k.data); err != nil && firstError == nil {
		firstError = fmt.Errorf("keyring: munmap failed: %w", err)
	}
	k.data = nil
	return firstError
}

// Zero overwrites b with zeroes. Use it to wipe heap copies of key
// material as soon as they are no longer needed.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
