package kvstore

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dgraph-io/badger/v3"
)

type (
	// kvBadger provides a KV store implementation based on dgraph-io/badger/v3
	kvBadger struct {
		*badger.DB
	}

	kvBadgerIterator struct {
		isFirst  bool
		txn      *badger.Txn
		iterator *badger.Iterator
	}
)

func (kv *kvBadger) Size() uint64 {
	lsmSize, logSize := kv.DB.Size()
	dbSize := lsmSize + logSize

	return uint64(dbSize)
}

func (kv *kvBadger) AllKeys() (kvIterator, error) {
	txn := kv.DB.NewTransaction(false)
	iterator := txn.NewIterator(badger.IteratorOptions{
		PrefetchSize:   256,
		PrefetchValues: true,
	})

	return &kvBadgerIterator{
		isFirst:  true,
		txn:      txn,
		iterator: iterator,
	}, nil
}

// Replace deletes stale keys and writes the new pairs in a single transaction.
//
// Write conflicts are retried. A ledger too large for one transaction
// is rewritten with DropAll and a write batch, which is not atomic.
func (kv *kvBadger) Replace(pairs []kvPair) error {
	err := backoff.Retry(func() error {
		e := kv.replaceTxn(pairs)
		if e == nil || errors.Is(e, badger.ErrConflict) {
			return e // done or retry
		}

		return backoff.Permanent(e)
	},
		backoff.WithMaxRetries(backoff.NewConstantBackOff(10*time.Millisecond), 10),
	)
	if errors.Is(err, badger.ErrTxnTooBig) {
		return kv.replaceBatch(pairs)
	}

	return err
}

func (kv *kvBadger) replaceTxn(pairs []kvPair) error {
	txn := kv.DB.NewTransaction(true)
	defer txn.Discard()

	wanted := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		wanted[string(pair.key)] = struct{}{}
	}

	var stale [][]byte
	iterator := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
	for iterator.Rewind(); iterator.Valid(); iterator.Next() {
		key := iterator.Item().KeyCopy(nil)
		if _, ok := wanted[string(key)]; !ok {
			stale = append(stale, key)
		}
	}
	iterator.Close()

	for _, key := range stale {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	for _, pair := range pairs {
		if err := txn.Set(pair.key, pair.value); err != nil {
			return err
		}
	}

	return txn.Commit()
}

func (kv *kvBadger) replaceBatch(pairs []kvPair) error {
	if err := kv.DB.DropAll(); err != nil {
		return err
	}

	wb := kv.DB.NewWriteBatch()
	defer wb.Cancel()

	for _, pair := range pairs {
		if err := wb.Set(pair.key, pair.value); err != nil {
			return err
		}
	}

	return wb.Flush()
}

func (i *kvBadgerIterator) Next() bool {
	if i.isFirst {
		i.iterator.Rewind()
		i.isFirst = false

		return i.iterator.Valid()
	}

	i.iterator.Next()

	return i.iterator.Valid()
}

func (i *kvBadgerIterator) Item() ([]byte, []byte, error) {
	key := i.iterator.Item().KeyCopy(nil)
	val, err := i.iterator.Item().ValueCopy(nil)

	return key, val, err
}

func (i *kvBadgerIterator) Close() error {
	i.iterator.Close()
	i.txn.Discard()

	return nil
}

func makeKVBadger(pth string) (*kvBadger, error) {
	err := os.MkdirAll(pth, 0700)
	if err != nil {
		return nil, fmt.Errorf("makeKV: mkdir: %w", err)
	}

	db, err := badger.Open(
		badger.DefaultOptions(pth).
			WithLoggingLevel(badger.WARNING).
			WithNumVersionsToKeep(1),
	)
	if err != nil {
		return nil, fmt.Errorf("open KV: %w", err)
	}

	return &kvBadger{DB: db}, nil
}
