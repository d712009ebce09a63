// Package kvstore persists package records in an embedded key-value store.
//
// Each record is stored as a JSON value under the key "<name>\x00<identifier>",
// so that records sharing a package name (e.g. multilib builds) are all retained
// and iterate grouped by name.
package kvstore

import (
	"context"
	"fmt"
	"sort"

	units "github.com/docker/go-units"
	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/chunkmap/pkg/ledger"
	"github.com/oneconcern/chunkmap/pkg/ledger/status"
	"github.com/oneconcern/chunkmap/pkg/model"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var _ ledger.Store = &Store{}

// Backend selects the key-value engine
type Backend string

// Supported key-value engines
const (
	BackendBadger Backend = "badger"
	BackendPebble Backend = "pebble"
)

// Backends lists the supported key-value engines
func Backends() []string {
	return []string{string(BackendBadger), string(BackendPebble)}
}

const keySeparator = "\x00"

// Store holds package records in a key-value DB
type Store struct {
	kv      kvStore
	backend Backend
	path    string
	l       *zap.Logger
}

// Option for the key-value store
type Option func(*Store)

// Logger for the key-value store
func Logger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.l = l
		}
	}
}

// New opens (or creates) a key-value store for package records at path
func New(backend Backend, path string, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		path:    path,
		l:       zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}

	var err error
	switch backend {
	case BackendBadger:
		s.kv, err = makeKVBadger(path)
	case BackendPebble:
		s.kv, err = makeKVPebble(path)
	default:
		return nil, status.ErrLoad.WrapMessage("unsupported key-value backend %q", backend)
	}
	if err != nil {
		return nil, status.ErrLoad.WrapMessage("%s", s).Wrap(err)
	}

	return s, nil
}

func (s *Store) String() string {
	return fmt.Sprintf("%s:%s", s.backend, s.path)
}

func recordKey(record model.PackageRecord) []byte {
	return []byte(record.Package.Name + keySeparator + record.Package.Identifier)
}

// Load all records, ordered by key. An empty store yields status.ErrNoPreviousIndex.
//
// Iteration errors surface when the iterator is closed: they are reported along with decoding errors.
func (s *Store) Load(_ context.Context) (model.PackageRecords, error) {
	iterator, err := s.kv.AllKeys()
	if err != nil {
		return nil, status.ErrLoad.WrapMessage("%s", s).Wrap(err)
	}

	var (
		records model.PackageRecords
		readErr error
	)
	for iterator.Next() {
		key, value, e := iterator.Item()
		if e != nil {
			readErr = e
			break
		}

		var record model.PackageRecord
		if e := jsoniter.ConfigFastest.Unmarshal(value, &record); e != nil {
			readErr = fmt.Errorf("key %q: %w", key, e)
			break
		}
		records = append(records, record)
	}

	if err := multierr.Append(readErr, iterator.Close()); err != nil {
		return nil, status.ErrLoad.WrapMessage("%s", s).Wrap(err)
	}

	if len(records) == 0 {
		return nil, status.ErrNoPreviousIndex.WrapMessage("%s is empty", s)
	}

	s.l.Debug("loaded package records",
		zap.Stringer("store", s),
		zap.Int("records", len(records)),
		zap.String("size", units.HumanSize(float64(s.kv.Size()))),
	)

	return records, nil
}

// Save replaces all records in the store
func (s *Store) Save(_ context.Context, records model.PackageRecords) error {
	pairs := make([]kvPair, 0, len(records))
	for _, record := range records {
		value, err := jsoniter.ConfigFastest.Marshal(record)
		if err != nil {
			return status.ErrSave.Wrap(err)
		}
		pairs = append(pairs, kvPair{key: recordKey(record), value: value})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return string(pairs[i].key) < string(pairs[j].key)
	})

	if err := s.kv.Replace(pairs); err != nil {
		return status.ErrSave.WrapMessage("%s", s).Wrap(err)
	}

	s.l.Debug("saved package records",
		zap.Stringer("store", s),
		zap.Int("records", len(pairs)),
	)

	return nil
}

// Close the underlying DB
func (s *Store) Close() error {
	if s.kv == nil {
		return nil
	}

	return s.kv.Close()
}
