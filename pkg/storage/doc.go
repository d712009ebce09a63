// Copyright © 2018 One Concern

// Package storage provides interface to handle backend storage objects.
//
// Objects are the documents produced or consumed by chunkmap: package dumps,
// persisted package records and content metadata for the layer packer.
//
// This package supports the following backends:
//   - local file system (see localfs), over any afero.Fs
package storage
