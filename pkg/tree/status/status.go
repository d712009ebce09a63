// Package status declares error constants returned by content trees.
package status

import "github.com/oneconcern/chunkmap/pkg/errors"

var (
	// ErrNotFound indicates that a path does not exist in the tree.
	// This is an expected condition, not a failure.
	ErrNotFound = errors.New("path not found in content tree")

	// ErrTooManyLinks indicates that resolving a path went through too many symbolic links, e.g. a loop.
	// Like ErrNotFound, this is not a failure.
	ErrTooManyLinks = errors.New("too many levels of symbolic links")

	// ErrTreeRead indicates an I/O or structural fault while reading the tree
	ErrTreeRead = errors.New("content tree read error")

	// ErrUnhandledType indicates a node which is neither a directory, a regular file nor a symbolic link
	ErrUnhandledType = errors.New("unhandled file type")
)
