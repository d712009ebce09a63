// Package status declares error constants returned by the normalize package.
package status

import "github.com/oneconcern/chunkmap/pkg/errors"

var (
	// ErrInvalidSpec indicates a malformed package set specification
	ErrInvalidSpec = errors.New("invalid package set specification")

	// ErrUnknownFormat indicates a specification file with an unsupported format
	ErrUnknownFormat = errors.New("unknown specification format")
)
