package registry

import "errors"

// Sentinel errors for registry operations.
var (
	ErrEntityNotFound = errors.New("entity not found")
)
