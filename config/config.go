// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/laminadb/lamina/compress"
	"github.com/laminadb/lamina/descriptor"
	"github.com/laminadb/lamina/encrypt"
	"github.com/laminadb/lamina/pipeline"
	"github.com/laminadb/lamina/protect"
)

// Config is the root of a pipeline configuration document.
type Config struct {
	// Serialization configures the serialization stage. The codec
	// itself is a property of the table's value type and is chosen in
	// code; only the direction is configuration.
	Serialization SerializationConfig `yaml:"serialization"`

	// Compression configures the compression stage.
	Compression CompressionConfig `yaml:"compression"`

	// Encryption configures the encryption stage. The key is never
	// part of the file.
	Encryption EncryptionConfig `yaml:"encryption"`

	// Protection configures the error-correction stage.
	Protection ProtectionConfig `yaml:"protection"`
}

// SerializationConfig configures the serialization stage.
type SerializationConfig struct {
	// Direction is one of none, on-read, on-write, both. Empty means
	// none.
	Direction string `yaml:"direction"`
}

// CompressionConfig configures the compression stage.
type CompressionConfig struct {
	// Backend names the compressor: zstd, lz4, gzip, zlib, flate, s2.
	Backend string `yaml:"backend"`

	// Level is minimum, medium, maximum, or a backend-specific
	// numeric code. Empty selects medium.
	Level string `yaml:"level"`

	// Direction is one of none, on-read, on-write, both. Empty means
	// none.
	Direction string `yaml:"direction"`

	// Dictionary is the path of a shared dictionary file. Readers
	// must configure the same dictionary the writer used; it is never
	// stored with values.
	Dictionary string `yaml:"dictionary"`
}

// EncryptionConfig configures the encryption stage.
type EncryptionConfig struct {
	// Backend names the cipher: aes-gcm, chacha20poly1305,
	// xchacha20poly1305.
	Backend string `yaml:"backend"`

	// Direction is one of none, on-read, on-write, both. Empty means
	// none.
	Direction string `yaml:"direction"`
}

// ProtectionConfig configures the error-correction stage.
type ProtectionConfig struct {
	// Backend names the corrector. Only reedsolomon is defined.
	Backend string `yaml:"backend"`

	// Level is basic, standard, maximum, or an exact parity shard
	// count. Empty selects standard.
	Level string `yaml:"level"`

	// Direction is one of none, on-read, on-write, both. Empty means
	// none.
	Direction string `yaml:"direction"`
}

var compressors = map[string]compress.Compressor{
	"zstd":  compress.Zstd{},
	"lz4":   compress.LZ4{},
	"gzip":  compress.Gzip{},
	"zlib":  compress.Zlib{},
	"flate": compress.Flate{},
	"s2":    compress.S2{},
}

var encryptors = map[string]encrypt.Encryptor{
	"aes-gcm":           encrypt.AESGCM{},
	"chacha20poly1305":  encrypt.ChaCha20{},
	"xchacha20poly1305": encrypt.XChaCha20{},
}

var correctors = map[string]protect.Corrector{
	"reedsolomon": protect.ReedSolomon{},
}

// Default returns the default configuration: serialize and compress
// with zstd in both directions, encryption and protection off. The
// defaults are a base for [Parse]; a partial document overrides only
// the fields it names.
func Default() *Config {
	return &Config{
		Serialization: SerializationConfig{Direction: "both"},
		Compression: CompressionConfig{
			Backend:   "zstd",
			Level:     "medium",
			Direction: "both",
		},
		Encryption: EncryptionConfig{
			Backend:   "xchacha20poly1305",
			Direction: "none",
		},
		Protection: ProtectionConfig{
			Backend:   "reedsolomon",
			Level:     "standard",
			Direction: "none",
		},
	}
}

// Load reads and parses the configuration file at path. The file is
// the single source of truth; nothing else overrides it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration document over the defaults and
// validates it. Backend names, levels, and directions are all checked
// here so a bad document fails at startup, not on the first
// operation.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Profile(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Suite(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Suite resolves the configured backend names into a pipeline suite.
// A family whose direction is active must name a known backend; an
// unknown name is always an error, active or not.
func (c *Config) Suite() (pipeline.Suite, error) {
	var errs []error
	var suite pipeline.Suite

	profile, _ := c.Profile()

	if c.Compression.Backend != "" {
		backend, ok := compressors[c.Compression.Backend]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown compression backend %q (known: %s)",
				c.Compression.Backend, knownNames(compressors)))
		}
		suite.Compressor = backend
	} else if profile.Compress != descriptor.DirectionNone {
		errs = append(errs, errors.New("compression.backend is required when compression runs"))
	}

	if c.Encryption.Backend != "" {
		backend, ok := encryptors[c.Encryption.Backend]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown encryption backend %q (known: %s)",
				c.Encryption.Backend, knownNames(encryptors)))
		}
		suite.Encryptor = backend
	} else if profile.Encrypt != descriptor.DirectionNone {
		errs = append(errs, errors.New("encryption.backend is required when encryption runs"))
	}

	if c.Protection.Backend != "" {
		backend, ok := correctors[c.Protection.Backend]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown protection backend %q (known: %s)",
				c.Protection.Backend, knownNames(correctors)))
		}
		suite.Corrector = backend
	} else if profile.Protect != descriptor.DirectionNone {
		errs = append(errs, errors.New("protection.backend is required when protection runs"))
	}

	return suite, errors.Join(errs...)
}

// Profile parses the configured directions and levels into a pipeline
// profile.
func (c *Config) Profile() (pipeline.Profile, error) {
	var errs []error
	profile := pipeline.Profile{
		Serialize: parseDirection("serialization.direction", c.Serialization.Direction, &errs),
		Compress:  parseDirection("compression.direction", c.Compression.Direction, &errs),
		Encrypt:   parseDirection("encryption.direction", c.Encryption.Direction, &errs),
		Protect:   parseDirection("protection.direction", c.Protection.Direction, &errs),
	}

	if c.Compression.Level != "" {
		level, err := compress.ParseLevel(c.Compression.Level)
		if err != nil {
			errs = append(errs, fmt.Errorf("compression.level: %w", err))
		}
		profile.CompressLevel = level
	}
	if c.Protection.Level != "" {
		level, err := protect.ParseLevel(c.Protection.Level)
		if err != nil {
			errs = append(errs, fmt.Errorf("protection.level: %w", err))
		}
		profile.ProtectLevel = level
	}

	return profile, errors.Join(errs...)
}

// Dictionary reads the configured compression dictionary file, or
// returns nil when none is configured.
func (c *Config) Dictionary() ([]byte, error) {
	if c.Compression.Dictionary == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.Compression.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("reading compression dictionary: %w", err)
	}
	return data, nil
}

func parseDirection(field, name string, errs *[]error) descriptor.Direction {
	if name == "" {
		return descriptor.DirectionNone
	}
	direction, err := descriptor.ParseDirection(name)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", field, err))
		return descriptor.DirectionNone
	}
	return direction
}

func knownNames[B any](backends map[string]B) string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}
