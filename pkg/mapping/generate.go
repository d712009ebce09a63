package mapping

import (
	"context"
	"time"

	units "github.com/docker/go-units"
	"github.com/oneconcern/chunkmap/pkg/layermeta"
	layermetastatus "github.com/oneconcern/chunkmap/pkg/layermeta/status"
	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/oneconcern/chunkmap/pkg/tree"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// Generate builds the content metadata for the layer packer: the mapping of every content
// object to its owner, and the metadata of every owner.
//
// It fails early when there is no package.
func Generate(ctx context.Context, records model.PackageRecords, t tree.Tree, opts ...Option) (model.ContentMeta, model.Diagnostics, error) {
	if len(records) == 0 {
		return model.ContentMeta{}, model.Diagnostics{}, layermetastatus.ErrNoPackages
	}

	o := defaultOptions(opts)
	runID := o.runID
	if runID == "" {
		runID = ksuid.New().String()
	}
	l := o.l.With(zap.String("run", runID))

	started := time.Now()
	result, err := Build(ctx, records, t, append(opts, WithRunID(runID))...)
	if err != nil {
		return model.ContentMeta{}, model.Diagnostics{}, err
	}

	emission, err := layermeta.Emit(records, result.Synthetic, layermeta.WithBuildTime(o.buildTime))
	if err != nil {
		return model.ContentMeta{}, model.Diagnostics{}, err
	}

	diagnostics := Diagnose(records, result, emission)

	l.Info("content mapped",
		zap.Int("objects", diagnostics.Objects),
		zap.Int("owners", diagnostics.Owners),
		zap.Int("source_groups", diagnostics.SourceGroups),
		zap.String("package_size", units.HumanSize(float64(diagnostics.PackageSize))),
		zap.String("earliest_package", diagnostics.EarliestPackage),
		zap.Time("earliest_change", time.Unix(int64(diagnostics.EarliestChange), 0).UTC()),
		zap.Int("duplicates", len(diagnostics.Duplicates)),
		zap.Int("multiple_owners", len(diagnostics.MultipleOwners)),
		zap.Uint64("unresolved", diagnostics.Unresolved),
		zap.Int("unpackaged", diagnostics.Unpackaged),
		zap.Duration("elapsed", time.Since(started)),
	)

	return emission.ContentMeta(result.Map), diagnostics, nil
}

// Diagnose a mapping build
func Diagnose(records model.PackageRecords, result *Result, emission layermeta.Emission) model.Diagnostics {
	sources := make(set, len(emission.Set))
	for _, meta := range emission.Set {
		sources.add(meta.SrcID)
	}

	return model.Diagnostics{
		Objects:         result.Objects,
		Owners:          len(emission.Set),
		SourceGroups:    len(sources),
		PackageSize:     records.Packages().TotalSize(),
		EarliestPackage: emission.EarliestPackage,
		EarliestChange:  emission.Baseline,
		Duplicates:      result.Duplicates,
		MultipleOwners:  result.MultipleOwners,
		Unresolved:      result.Unresolved,
		Unpackaged:      result.Unpackaged,
	}
}
