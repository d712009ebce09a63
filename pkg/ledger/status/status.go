// Package status declares error constants returned by the ledger package
// and its persistence implementations.
package status

import "github.com/oneconcern/chunkmap/pkg/errors"

var (
	// ErrIdentityMismatch indicates that a ledger update was attempted with a record for another package.
	// This is a programming error: records must be matched by package name.
	ErrIdentityMismatch = errors.New("package record does not match package name")

	// ErrNoPreviousIndex indicates that the changelog was requested from a previous index, but none is available
	ErrNoPreviousIndex = errors.New("no previous package index available")

	// ErrUnknownSource indicates an unsupported changelog source
	ErrUnknownSource = errors.New("unknown changelog source")

	// ErrUnknownResolution indicates an unsupported changelog resolution
	ErrUnknownResolution = errors.New("unknown changelog resolution")

	// ErrChangelog indicates a failure to retrieve the changelog of a package from the package database
	ErrChangelog = errors.New("failed to get package changelog")

	// ErrLoad indicates a failure to read persisted package records
	ErrLoad = errors.New("failed to load package records")

	// ErrSave indicates a failure to persist package records
	ErrSave = errors.New("failed to save package records")
)
