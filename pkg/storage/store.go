// Copyright © 2018 One Concern

package storage

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
)

// Store implementations know how to read and write objects to a K/V model.
//
// Typically this is something file system-like.
// Implementations of this interface are assumed to be fairly simple.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)

	// Put an object, replacing any existing one
	Put(context.Context, string, io.Reader) error
}

// ReadAll reads a whole object in memory
func ReadAll(ctx context.Context, store Store, key string) ([]byte, error) {
	reader, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = reader.Close()
	}()
	return ioutil.ReadAll(reader)
}

// WriteAll writes a whole object from memory, overwriting any existing object
func WriteAll(ctx context.Context, store Store, key string, data []byte) error {
	return store.Put(ctx, key, bytes.NewReader(data))
}
