// Package repository defines error types that are reused across multiple
// repositories. These sentinel values let callers tell a missing row apart
// from a query failure.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id or key matches no row.
var ErrNotFound = errors.New("not found")
