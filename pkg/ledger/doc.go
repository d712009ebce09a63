// Package ledger tracks the change history of packages from one build to the next.
//
// Each package is wrapped into a model.PackageRecord, holding the timestamps of its most recent
// changes and a lifetime count of updates. These are the volatility signals used to
// rank owners for layering.
//
// Records are persisted by implementations of the Store interface
// (see subpackages filestore and kvstore).
package ledger
