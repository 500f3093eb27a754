// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates an unknown book id or theme slug. Callers match it
// with errors.Is.
var ErrNotFound = errors.New("not found")

// ValidationError indicates a record that cannot be stored as given,
// e.g. a book without a title or a theme with a duplicate slug.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
