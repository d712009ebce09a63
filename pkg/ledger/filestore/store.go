// Package filestore persists package records as a single JSON document
// on some storage.Store.
//
// The document is a JSON array of records, ordered as they were saved.
package filestore

import (
	"context"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/chunkmap/pkg/errors"
	"github.com/oneconcern/chunkmap/pkg/ledger"
	"github.com/oneconcern/chunkmap/pkg/ledger/status"
	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/oneconcern/chunkmap/pkg/storage"
	storagestatus "github.com/oneconcern/chunkmap/pkg/storage/status"
)

var _ ledger.Store = &Store{}

// Store holds package records in a JSON document
type Store struct {
	store storage.Store
	key   string
}

// New file store for package records, located at key on the storage
func New(store storage.Store, key string) *Store {
	return &Store{
		store: store,
		key:   key,
	}
}

func (s *Store) String() string {
	return s.store.String() + ":" + s.key
}

// Load the records. A missing document yields status.ErrNoPreviousIndex.
func (s *Store) Load(ctx context.Context) (model.PackageRecords, error) {
	data, err := storage.ReadAll(ctx, s.store, s.key)
	if err != nil {
		if errors.Is(err, storagestatus.ErrNotExists) {
			return nil, status.ErrNoPreviousIndex.Wrap(err)
		}
		return nil, status.ErrLoad.WrapMessage("%s", s).Wrap(err)
	}

	var records model.PackageRecords
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &records); err != nil {
		return nil, status.ErrLoad.WrapMessage("%s", s).Wrap(err)
	}
	return records, nil
}

// Save replaces the document with these records, sorted by package name
func (s *Store) Save(ctx context.Context, records model.PackageRecords) error {
	sorted := make(model.PackageRecords, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Package.Name < sorted[j].Package.Name
	})

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(sorted)
	if err != nil {
		return status.ErrSave.Wrap(err)
	}
	if err := storage.WriteAll(ctx, s.store, s.key, data); err != nil {
		return status.ErrSave.WrapMessage("%s", s).Wrap(err)
	}
	return nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}
