// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"
	"fmt"
	"io"

	"github.com/laminadb/lamina/buffer"
	"github.com/laminadb/lamina/codec"
	"github.com/laminadb/lamina/compress"
	"github.com/laminadb/lamina/descriptor"
	"github.com/laminadb/lamina/encrypt"
	"github.com/laminadb/lamina/keyring"
	"github.com/laminadb/lamina/protect"
)

// Options configures a pipeline beyond its value codec.
type Options struct {
	// Suite selects the concrete backend for each stage family. Only
	// the families the profile activates need a backend.
	Suite Suite

	// Profile declares which stages run, in which direction, and at
	// what level.
	Profile Profile

	// Key is the encryption key. Required when the profile's encrypt
	// direction is active, ignored otherwise. The pipeline borrows
	// the key; closing it invalidates the pipeline.
	Key *keyring.Key

	// Dictionary is a shared compression dictionary. It is never
	// stored with values, so reads must be configured with the same
	// bytes. Valid only when the profile compresses with a backend
	// that supports dictionaries.
	Dictionary []byte

	// Nonce supplies nonce bytes for encryption writes. Nil selects
	// crypto/rand.
	Nonce io.Reader
}

// Pipeline turns typed values into self-describing stored bytes and
// back. See the package documentation for the stage order. A pipeline
// is safe for concurrent use as long as its nonce source is; the
// default source is.
type Pipeline[V any] struct {
	serialize codec.Stage[V]
	compress  compress.Stage
	encrypt   encrypt.Stage
	protect   protect.Stage
}

// New builds a pipeline for one value type. Configuration problems
// surface here rather than on first use: an active direction with no
// backend in the suite, a missing encryption key, a dictionary the
// backend cannot apply, or direction nesting that could never read
// back what it writes.
func New[V any](valueCodec codec.Codec[V], opts Options) (*Pipeline[V], error) {
	if valueCodec == nil {
		return nil, errors.New("value codec is nil")
	}
	if err := validateNesting(opts.Profile); err != nil {
		return nil, err
	}

	serialize, err := codec.NewStage(valueCodec, opts.Profile.Serialize)
	if err != nil {
		return nil, fmt.Errorf("serialize stage: %w", err)
	}
	p := &Pipeline[V]{serialize: serialize}

	if opts.Profile.Compress != descriptor.DirectionNone {
		if opts.Suite.Compressor == nil {
			return nil, errors.New("profile compresses but the suite has no compressor")
		}
		level := opts.Profile.CompressLevel
		if level == 0 {
			level = compress.LevelMedium
		}
		p.compress, err = compress.NewStage(opts.Suite.Compressor, level, opts.Dictionary, opts.Profile.Compress)
		if err != nil {
			return nil, fmt.Errorf("compress stage: %w", err)
		}
	} else if opts.Dictionary != nil {
		return nil, errors.New("a compression dictionary is configured but the profile never compresses")
	}

	if opts.Profile.Encrypt != descriptor.DirectionNone {
		if opts.Suite.Encryptor == nil {
			return nil, errors.New("profile encrypts but the suite has no encryptor")
		}
		p.encrypt, err = encrypt.NewStage(opts.Suite.Encryptor, opts.Key, opts.Nonce, opts.Profile.Encrypt)
		if err != nil {
			return nil, fmt.Errorf("encrypt stage: %w", err)
		}
	}

	if opts.Profile.Protect != descriptor.DirectionNone {
		if opts.Suite.Corrector == nil {
			return nil, errors.New("profile protects but the suite has no corrector")
		}
		level := opts.Profile.ProtectLevel
		if level == 0 {
			level = protect.LevelStandard
		}
		p.protect, err = protect.NewStage(opts.Suite.Corrector, level, opts.Profile.Protect)
		if err != nil {
			return nil, fmt.Errorf("protect stage: %w", err)
		}
	}

	return p, nil
}

// Encode runs the write path: serialize, compress, encrypt, protect.
// Stages whose direction excludes writes pass the buffer through. The
// returned buffer may alias the value's bytes when every stage passed
// through and the codec is raw.
func (p *Pipeline[V]) Encode(value buffer.Value[V]) (buffer.Buffer, error) {
	buf, err := p.serialize.Apply(value)
	if err != nil {
		return buffer.Buffer{}, &StageError{Layer: descriptor.LayerSerialize, Err: err}
	}
	if buf, err = p.compress.Apply(buf); err != nil {
		return buffer.Buffer{}, &StageError{Layer: descriptor.LayerCompress, Err: err}
	}
	if buf, err = p.encrypt.Apply(buf); err != nil {
		return buffer.Buffer{}, &StageError{Layer: descriptor.LayerEncrypt, Err: err}
	}
	if buf, err = p.protect.Apply(buf); err != nil {
		return buffer.Buffer{}, &StageError{Layer: descriptor.LayerProtect, Err: err}
	}
	return buf, nil
}

// Decode runs the read path: the write stages in reverse order. The
// recovered result reports whether the protection stage had to rebuild
// corrupted bytes; callers should rewrite the value from the decoded
// result so the stored copy is clean again. On error, recovered is
// always false.
func (p *Pipeline[V]) Decode(buf buffer.Buffer) (V, bool, error) {
	var zero V

	buf, err := p.protect.Reverse(buf)
	if err != nil {
		return zero, false, &StageError{Layer: descriptor.LayerProtect, Err: err}
	}
	// Captured here because inner stages replace the buffer and the
	// flag with it.
	recovered := buf.WasRecovered()

	if buf, err = p.encrypt.Reverse(buf); err != nil {
		return zero, false, &StageError{Layer: descriptor.LayerEncrypt, Err: err}
	}
	if buf, err = p.compress.Reverse(buf); err != nil {
		return zero, false, &StageError{Layer: descriptor.LayerCompress, Err: err}
	}
	value, err := p.serialize.Reverse(buf)
	if err != nil {
		return zero, false, &StageError{Layer: descriptor.LayerSerialize, Err: err}
	}
	return value, recovered, nil
}
