package kvstore

import (
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
)

type (
	// kvPebble provides a KV store implementation based on cockroachdb/pebble
	kvPebble struct {
		*pebble.DB
	}

	kvPebbleIterator struct {
		isFirst  bool
		iterator *pebble.Iterator
	}
)

// bounds yields the range [start, end) covering all keys in the DB
func (kv *kvPebble) bounds() ([]byte, []byte, bool, error) {
	iterator, err := kv.DB.NewIter(nil)
	if err != nil {
		return nil, nil, false, err
	}
	defer func() {
		_ = iterator.Close()
	}()

	if !iterator.First() {
		return nil, nil, false, nil
	}
	start := append([]byte(nil), iterator.Key()...)

	_ = iterator.Last()
	// DeleteRange excludes the upper bound
	end := append(append([]byte(nil), iterator.Key()...), 0)

	return start, end, true, nil
}

func (kv *kvPebble) Size() uint64 {
	m := kv.DB.Metrics()

	return m.DiskSpaceUsage()
}

func (kv *kvPebble) AllKeys() (kvIterator, error) {
	iterator, err := kv.DB.NewIter(nil)
	if err != nil {
		return nil, err
	}

	return &kvPebbleIterator{
		isFirst:  true,
		iterator: iterator,
	}, nil
}

// Replace drops all keys and writes the new pairs in a single atomic batch
func (kv *kvPebble) Replace(pairs []kvPair) error {
	start, end, ok, err := kv.bounds()
	if err != nil {
		return err
	}

	batch := kv.DB.NewBatch()
	defer func() {
		_ = batch.Close()
	}()

	if ok {
		if err := batch.DeleteRange(start, end, nil); err != nil {
			return err
		}
	}
	for _, pair := range pairs {
		if err := batch.Set(pair.key, pair.value, nil); err != nil {
			return err
		}
	}

	return batch.Commit(pebble.Sync)
}

func (i *kvPebbleIterator) Next() bool {
	if i.isFirst {
		i.isFirst = false

		return i.iterator.First()
	}

	return i.iterator.Next()
}

func (i *kvPebbleIterator) Item() ([]byte, []byte, error) {
	k, v := i.iterator.Key(), i.iterator.Value()

	key := make([]byte, len(k))
	copy(key, k)
	value := make([]byte, len(v))
	copy(value, v)

	return key, value, nil
}

func (i *kvPebbleIterator) Close() error {
	return i.iterator.Close()
}

func makeKVPebble(pth string) (*kvPebble, error) {
	err := os.MkdirAll(pth, 0700)
	if err != nil {
		return nil, fmt.Errorf("makeKV: mkdir: %w", err)
	}

	options := new(pebble.Options)
	options.EnsureDefaults()

	db, err := pebble.Open(pth, options)
	if err != nil {
		return nil, fmt.Errorf("open KV: %w", err)
	}

	return &kvPebble{DB: db}, nil
}
