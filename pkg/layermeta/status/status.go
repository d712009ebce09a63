// Package status declares error constants returned by the layermeta package.
package status

import "github.com/oneconcern/chunkmap/pkg/errors"

var (
	// ErrNoPackages indicates that no package is available to compute the change time baseline
	ErrNoPackages = errors.New("no packages: cannot compute owner metadata")

	// ErrWrite indicates a failure to write content metadata
	ErrWrite = errors.New("failed to write content metadata")

	// ErrRead indicates a failure to read content metadata
	ErrRead = errors.New("failed to read content metadata")
)
