// Copyright © 2018 One Concern

// Package status declares error constants returned by
// implementations of the Store interface.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/storage and one
// of its implementions.
package status

import "github.com/oneconcern/chunkmap/pkg/errors"

var (
	// Sentinel errors returned by implementations of the interface defined by storage

	// ErrNotExists indicates that the fetched object does not exist on storage
	ErrNotExists = errors.New("object doesn't exist")

	// ErrInvalidKey indicates an empty key, or a key designating no object
	ErrInvalidKey = errors.New("invalid storage key")

	// ErrStorage indicates any other failure from the underlying file system
	ErrStorage = errors.New("storage error")
)
