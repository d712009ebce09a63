package ledger

import (
	"context"

	"github.com/oneconcern/chunkmap/pkg/model"
)

// Store persists package records from one run to the next, keyed by package name.
//
// Save replaces the whole persisted set: the records of the current run are the new authoritative ledger.
type Store interface {
	String() string
	Load(context.Context) (model.PackageRecords, error)
	Save(context.Context, model.PackageRecords) error
	Close() error
}
