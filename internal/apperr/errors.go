// Package apperr defines sentinel errors shared across service layers.
package apperr

import "errors"

var (
	// ErrNotFound marks a lookup for a document that does not exist.
	ErrNotFound = errors.New("not found")
)
