package metrics

import (
	"time"

	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
)

// Mapping statistics of a mapping build
type Mapping struct {
	Objects        prometheus.Gauge `metric:"objects" description:"distinct content objects"`
	Owners         prometheus.Gauge `metric:"owners" description:"owners of content objects, including synthetic ones"`
	SourceGroups   prometheus.Gauge `metric:"source_groups" description:"distinct source groups of owners"`
	PackageSize    prometheus.Gauge `metric:"package_size" unit:"bytes" description:"total size of packages, as reported by the package database"`
	EarliestChange prometheus.Gauge `metric:"earliest_change" unit:"timestamp_seconds" description:"earliest last change across packages"`
	Duplicates     prometheus.Gauge `metric:"duplicate_objects" description:"content objects reached through several paths"`
	MultipleOwners prometheus.Gauge `metric:"multiple_owner_paths" description:"paths claimed by several owners"`
	Unresolved     prometheus.Gauge `metric:"unresolved_paths" description:"package paths not found in the content tree"`
	Unpackaged     prometheus.Gauge `metric:"unpackaged_objects" description:"content objects not claimed by any package"`
	Duration       prometheus.Gauge `metric:"duration" unit:"seconds" description:"duration of the mapping build"`
}

// MappingMetrics registers the statistics of a mapping build
func (r *Registry) MappingMetrics() *Mapping {
	return r.EnsureMetrics("mapping", &Mapping{}).(*Mapping)
}

// Observe the diagnostics of a mapping build
func (m *Mapping) Observe(diagnostics model.Diagnostics, elapsed time.Duration) {
	m.Objects.Set(float64(diagnostics.Objects))
	m.Owners.Set(float64(diagnostics.Owners))
	m.SourceGroups.Set(float64(diagnostics.SourceGroups))
	m.PackageSize.Set(float64(diagnostics.PackageSize))
	m.EarliestChange.Set(float64(diagnostics.EarliestChange))
	m.Duplicates.Set(float64(len(diagnostics.Duplicates)))
	m.MultipleOwners.Set(float64(len(diagnostics.MultipleOwners)))
	m.Unresolved.Set(float64(diagnostics.Unresolved))
	m.Unpackaged.Set(float64(diagnostics.Unpackaged))
	m.Duration.Set(elapsed.Seconds())
}

// Ledger statistics of a package index build
type Ledger struct {
	Packages     prometheus.Gauge `metric:"packages" description:"packages in the index"`
	Updated      prometheus.Gauge `metric:"updated_packages" description:"packages with a new change in this build"`
	TotalUpdates prometheus.Gauge `metric:"total_updates" description:"sum of lifetime updates across packages"`
}

// LedgerMetrics registers the statistics of a package index build
func (r *Registry) LedgerMetrics() *Ledger {
	return r.EnsureMetrics("ledger", &Ledger{}).(*Ledger)
}

// Observe package records, where updated counts the records with a change at the build time
func (m *Ledger) Observe(records model.PackageRecords, updated int) {
	var total uint64
	for _, record := range records {
		total += uint64(record.TotalUpdates)
	}

	m.Packages.Set(float64(len(records)))
	m.Updated.Set(float64(updated))
	m.TotalUpdates.Set(float64(total))
}
