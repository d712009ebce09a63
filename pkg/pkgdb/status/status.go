// Package status declares error constants returned by package database backends.
package status

import "github.com/oneconcern/chunkmap/pkg/errors"

var (
	// ErrUnsupported indicates that the backend cannot provide the requested information, e.g. a changelog
	ErrUnsupported = errors.New("operation not supported by this package database")

	// ErrUnknownBackend indicates an unavailable package database backend
	ErrUnknownBackend = errors.New("unknown package database backend")

	// ErrQuery indicates that querying the package database failed
	ErrQuery = errors.New("package database query failed")

	// ErrUnexpectedOutput indicates that the package database returned some output we could not parse
	ErrUnexpectedOutput = errors.New("unexpected package database output")
)
