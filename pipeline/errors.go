// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"fmt"

	"github.com/laminadb/lamina/descriptor"
)

// StageError wraps a stage failure with the layer that produced it.
// The first failing stage aborts its pipeline run; nothing after it
// executes.
type StageError struct {
	// Layer names the stage that failed.
	Layer descriptor.Layer

	// Err is the stage's own error, reachable through errors.Is and
	// errors.As.
	Err error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Layer, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
