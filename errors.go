// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package lamina

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a closed database or a
// finished transaction.
var ErrClosed = errors.New("lamina: closed")

// NotFoundError reports a key absent from a table. It is distinct
// from every decode failure: found-but-corrupt bytes never surface as
// not found.
type NotFoundError struct {
	// Table is the table name.
	Table string

	// KeyBytes is the encoded key that was looked up. Nil for
	// operations without a specific key, such as First on an empty
	// table.
	KeyBytes []byte
}

func (e *NotFoundError) Error() string {
	if e.KeyBytes == nil {
		return fmt.Sprintf("lamina: table %q is empty", e.Table)
	}
	return fmt.Sprintf("lamina: key %x not found in table %q", e.KeyBytes, e.Table)
}

// IsNotFound reports whether err is a key absence, as opposed to a
// store or decode failure.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
