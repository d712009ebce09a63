package model

// PackageRecord is the ledger entry for a package: the package itself
// and its history of changes.
//
// Changes are unix timestamps in seconds, in ascending order, bounded to the most recent ones.
// TotalUpdates counts every new build ever observed and is not bounded by the history truncation.
type PackageRecord struct {
	Package      Package  `json:"package" yaml:"package"`
	Changes      []uint64 `json:"changes" yaml:"changes"`
	TotalUpdates uint32   `json:"total_updates" yaml:"total_updates"`
	_            struct{}
}

// LastChange yields the most recent recorded change, if any
func (r PackageRecord) LastChange() (uint64, bool) {
	if len(r.Changes) == 0 {
		return 0, false
	}
	return r.Changes[len(r.Changes)-1], true
}

// LastChangeOr yields the most recent recorded change, or the provided default
func (r PackageRecord) LastChangeOr(now uint64) uint64 {
	if last, ok := r.LastChange(); ok {
		return last
	}
	return now
}

// PackageRecords is a collection of ledger entries
type PackageRecords []PackageRecord

// ByName indexes records by package name. The last record wins on duplicate names.
func (records PackageRecords) ByName() map[string]PackageRecord {
	index := make(map[string]PackageRecord, len(records))
	for _, record := range records {
		index[record.Package.Name] = record
	}
	return index
}

// Packages yields the packages of these records
func (records PackageRecords) Packages() Packages {
	pkgs := make(Packages, 0, len(records))
	for _, record := range records {
		pkgs = append(pkgs, record.Package)
	}
	return pkgs
}
