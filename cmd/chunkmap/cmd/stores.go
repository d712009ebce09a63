package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/oneconcern/chunkmap/pkg/ledger"
	"github.com/oneconcern/chunkmap/pkg/ledger/filestore"
	"github.com/oneconcern/chunkmap/pkg/ledger/kvstore"
	"github.com/oneconcern/chunkmap/pkg/storage"
	"github.com/oneconcern/chunkmap/pkg/storage/localfs"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// fileStorage exposes a single local file as a key on a storage rooted at its parent directory,
// so staged writes are renamed within the same directory.
func fileStorage(pth string) (storage.Store, string) {
	abs, err := filepath.Abs(pth)
	if err != nil {
		abs = filepath.Clean(pth)
	}
	return localfs.New(afero.NewBasePathFs(afero.NewOsFs(), filepath.Dir(abs))), filepath.Base(abs)
}

// openLedgers opens the ledger to load previous records from (possibly nil),
// and the ledger to save new records to.
func openLedgers(l *zap.Logger) (previous ledger.Store, output ledger.Store, err error) {
	switch chunkmapFlags.ledger.store {
	case ledgerStoreFile:
		if chunkmapFlags.index.outputIndex == "" {
			return nil, nil, fmt.Errorf("--output-index is required with the %q ledger store", ledgerStoreFile)
		}
		output = filestore.New(fileStorage(chunkmapFlags.index.outputIndex))
		if chunkmapFlags.index.previousIndex != "" {
			previous = filestore.New(fileStorage(chunkmapFlags.index.previousIndex))
		}
		return previous, output, nil

	default:
		kv, err := openKVLedger(l)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	}
}

// openLedger opens the ledger holding the records of the latest build
func openLedger(indexFile string, l *zap.Logger) (ledger.Store, error) {
	if chunkmapFlags.ledger.store == ledgerStoreFile {
		if indexFile == "" {
			return nil, fmt.Errorf("--index is required with the %q ledger store", ledgerStoreFile)
		}
		return filestore.New(fileStorage(indexFile)), nil
	}
	return openKVLedger(l)
}

func openKVLedger(l *zap.Logger) (*kvstore.Store, error) {
	if chunkmapFlags.ledger.path == "" {
		return nil, fmt.Errorf("--%s is required with the %q ledger store", ledgerPathFlag, chunkmapFlags.ledger.store)
	}
	return kvstore.New(kvstore.Backend(chunkmapFlags.ledger.store), chunkmapFlags.ledger.path, kvstore.Logger(l))
}

func parseBuildTime() (time.Time, error) {
	if chunkmapFlags.core.buildTime == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, chunkmapFlags.core.buildTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid build time %q: %w", chunkmapFlags.core.buildTime, err)
	}
	return t, nil
}
