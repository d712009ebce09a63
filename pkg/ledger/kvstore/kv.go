package kvstore

type (
	// kvStore provides an abstraction of what the ledger expects
	// from some underlying KV store implementation.
	kvStore interface {
		// Size reports about the size in bytes of the DB
		Size() uint64
		// Close the DB
		Close() error
		// Replace all keys in the DB by these key/value pairs.
		// A failed Replace leaves the previous keys in place.
		Replace([]kvPair) error
		// AllKeys returns a iterator over all keys in the DB
		AllKeys() (kvIterator, error)
	}

	// kvIterator provides a simplified abstraction for some KV iterator
	kvIterator interface {
		Next() bool
		Item() ([]byte, []byte, error)
		Close() error
	}

	kvPair struct {
		key   []byte
		value []byte
	}
)
