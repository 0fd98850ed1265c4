package secondary

import (
	"errors"
	"fmt"
)

var (
	// ErrFeatureNotFound is returned when a feature ID does not exist.
	ErrFeatureNotFound = errors.New("feature not found")

	// ErrDuplicateFeature is returned when (module namespace, component
	// prefix) is already registered.
	ErrDuplicateFeature = errors.New("feature already exists")

	// ErrUnsupportedCombination is returned when a template group has no
	// templates for a slice. Callers skip the combination.
	ErrUnsupportedCombination = errors.New("unsupported template combination")
)

// FilesystemError wraps an I/O failure with the operation and path involved.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
