// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for store
// pipelines.
//
// Configuration is loaded from a single file passed to [Load] (or a
// byte slice passed to [Parse]). There are no fallbacks, no home
// directory discovery, and no environment variable overrides. This
// keeps a store's transformation stack deterministic and auditable:
// what the file says is what runs.
//
// A document names, per stage family, the backend, the level, and the
// direction. A partial document overrides only the fields it names;
// everything else keeps the [Default] values, under which encryption
// and protection are off. Backend and level names are validated at
// load time, so a typo fails startup rather than the first read:
//
//	compression:
//	  backend: zstd
//	  level: medium
//	  direction: both
//	encryption:
//	  backend: xchacha20poly1305
//	  direction: both
//	protection:
//	  backend: reedsolomon
//	  level: standard
//	  direction: on-write
//
// Key exports:
//
//   - [Config] -- the document structure
//   - [Default] -- zstd compression in both directions, nothing else
//   - [Load] and [Parse] -- the two entry points
//   - [Config.Suite] and [Config.Profile] -- the bridge to package
//     pipeline
//
// Encryption keys never appear in configuration files; they are
// provided programmatically.
package config
