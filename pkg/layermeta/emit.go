// Package layermeta computes the metadata of content owners consumed by the layer packer.
//
// Owners that changed long ago get a low change time offset. Synthetic owners
// are marked as always volatile.
package layermeta

import (
	"math"
	"sort"
	"time"

	"github.com/oneconcern/chunkmap/pkg/layermeta/status"
	"github.com/oneconcern/chunkmap/pkg/model"
)

const secondsPerHour = 60 * 60

// Emission is the metadata of all owners
type Emission struct {
	// Set holds exactly one entry per owner, sorted by identifier
	Set []model.OwnerMetadata

	// EarliestPackage is the package with the earliest last change, which defines the baseline
	EarliestPackage string

	// Baseline is the earliest last change across all packages, as unix seconds
	Baseline uint64
}

// Option for Emit
type Option func(*options)

type options struct {
	now uint64
}

// WithBuildTime sets the time of the current build, used as the last change of packages without history
func WithBuildTime(t time.Time) Option {
	return func(o *options) {
		o.now = uint64(t.Unix())
	}
}

// Emit owner metadata for package records and synthetic owners.
//
// The unpackaged bucket is always part of the set. An owner identifier is emitted once, the first occurrence wins.
func Emit(records model.PackageRecords, synthetic []model.OwnerMetadata, opts ...Option) (Emission, error) {
	o := &options{now: uint64(time.Now().Unix())}
	for _, apply := range opts {
		apply(o)
	}

	if len(records) == 0 {
		return Emission{}, status.ErrNoPackages
	}

	var emission Emission
	for i, record := range records {
		last := record.LastChangeOr(o.now)
		if i == 0 || last < emission.Baseline {
			emission.Baseline = last
			emission.EarliestPackage = record.Package.Identifier
		}
	}

	seen := make(map[string]struct{}, len(records)+len(synthetic)+1)
	set := make([]model.OwnerMetadata, 0, len(records)+len(synthetic)+1)
	add := func(meta model.OwnerMetadata) {
		if _, found := seen[meta.Identifier]; found {
			return
		}
		seen[meta.Identifier] = struct{}{}
		set = append(set, meta)
	}

	add(model.SyntheticOwner(model.UnpackagedID, model.UnpackagedID))

	for _, record := range records {
		add(model.OwnerMetadata{
			Identifier:       record.Package.Identifier,
			Name:             record.Package.Name,
			SrcID:            record.Package.Source,
			ChangeTimeOffset: ChangeTimeOffset(record.LastChangeOr(o.now), emission.Baseline),
			ChangeFrequency:  record.TotalUpdates,
		})
	}

	for _, meta := range synthetic {
		add(meta)
	}

	sort.Slice(set, func(i, j int) bool {
		return set[i].Identifier < set[j].Identifier
	})
	emission.Set = set

	return emission, nil
}

// ChangeTimeOffset is the number of whole hours from the baseline to the last change, saturating
func ChangeTimeOffset(last, baseline uint64) uint32 {
	if last <= baseline {
		return 0
	}

	hours := (last - baseline) / secondsPerHour
	if hours > math.MaxUint32 {
		return math.MaxUint32
	}

	return uint32(hours)
}

// ContentMeta combines a checksum to owner mapping with the emitted owner metadata
func (e Emission) ContentMeta(mapping map[string]string) model.ContentMeta {
	if mapping == nil {
		mapping = map[string]string{}
	}
	return model.ContentMeta{Map: mapping, Set: e.Set}
}
