// Package store holds the Postgres repositories and the sentinel errors
// their callers branch on.
package store

import "errors"

// ErrNotFound is returned by every repository when a lookup matches no row.
var ErrNotFound = errors.New("record not found")
