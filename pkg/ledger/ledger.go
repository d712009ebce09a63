package ledger

import (
	"math"
	"sort"

	"github.com/oneconcern/chunkmap/pkg/ledger/status"
	"github.com/oneconcern/chunkmap/pkg/model"
)

// MaximumChanges is the number of most recent changes retained in a record
const MaximumChanges = 100

// Initialize creates the record for a package observed for the first time
func Initialize(pkg model.Package, now uint64) model.PackageRecord {
	return model.PackageRecord{
		Package:      pkg,
		Changes:      []uint64{now},
		TotalUpdates: 1,
	}
}

// UpdateFromPrevious carries the history of a previous record forward to the current package.
//
// The observed time is appended to the history only when the package identity has changed
// (version or identifier) and the observed time is later than the last recorded change.
// The update counter is incremented whenever the observed time is later than the last recorded change.
// An observed time at or before the last change is the same build: the history stays non-decreasing.
func UpdateFromPrevious(pkg model.Package, previous model.PackageRecord, now uint64) (model.PackageRecord, error) {
	if pkg.Name != previous.Package.Name {
		return model.PackageRecord{}, status.ErrIdentityMismatch.WrapMessage(
			"expected %q, got record for %q", pkg.Name, previous.Package.Name,
		)
	}

	isNewVersion := pkg.Version != previous.Package.Version || pkg.Identifier != previous.Package.Identifier
	last, hasChanges := previous.LastChange()
	isNewBuild := !hasChanges || now > last

	changes := make([]uint64, len(previous.Changes), len(previous.Changes)+1)
	copy(changes, previous.Changes)

	if isNewVersion && isNewBuild {
		changes = append(changes, now)
	}

	total := previous.TotalUpdates
	if isNewBuild {
		total = saturatingIncrement(total)
	}

	return model.PackageRecord{
		Package:      pkg,
		Changes:      truncate(changes),
		TotalUpdates: total,
	}, nil
}

// FromChangelog builds a record from a changelog provided by the package database.
//
// The lifetime count of updates is the length of the full changelog.
func FromChangelog(pkg model.Package, changelog []uint64) model.PackageRecord {
	changes := make([]uint64, len(changelog))
	copy(changes, changelog)
	sort.Slice(changes, func(i, j int) bool { return changes[i] < changes[j] })

	total := uint32(math.MaxUint32)
	if uint64(len(changes)) < math.MaxUint32 {
		total = uint32(len(changes))
	}

	return model.PackageRecord{
		Package:      pkg,
		Changes:      truncate(changes),
		TotalUpdates: total,
	}
}

// migrate brings a record read from an older snapshot up to date.
//
// Records without any history cannot be updated and must be initialized again.
func migrate(record model.PackageRecord) (model.PackageRecord, bool) {
	if len(record.Changes) == 0 {
		return record, false
	}
	if uint64(record.TotalUpdates) < uint64(len(record.Changes)) {
		record.TotalUpdates = uint32(len(record.Changes))
	}
	record.Changes = truncate(record.Changes)
	return record, true
}

func truncate(changes []uint64) []uint64 {
	if len(changes) <= MaximumChanges {
		return changes
	}
	return changes[len(changes)-MaximumChanges:]
}

func saturatingIncrement(n uint32) uint32 {
	if n == math.MaxUint32 {
		return n
	}
	return n + 1
}
