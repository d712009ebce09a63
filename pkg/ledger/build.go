package ledger

import (
	"context"

	"github.com/oneconcern/chunkmap/pkg/errors"
	"github.com/oneconcern/chunkmap/pkg/ledger/status"
	"github.com/oneconcern/chunkmap/pkg/model"
	pkgdbstatus "github.com/oneconcern/chunkmap/pkg/pkgdb/status"
	"go.uber.org/zap"
)

// Source tells where the changelog of packages comes from
type Source string

// Supported changelog sources
const (
	SourcePackageDatabase Source = "package-database"
	SourcePreviousIndex   Source = "previous-index"
	SourceInitialize      Source = "initialize"
)

// Sources lists all supported changelog sources
func Sources() []string {
	return []string{string(SourcePackageDatabase), string(SourcePreviousIndex), string(SourceInitialize)}
}

// ParseSource validates a changelog source name
func ParseSource(s string) (Source, error) {
	switch src := Source(s); src {
	case SourcePackageDatabase, SourcePreviousIndex, SourceInitialize:
		return src, nil
	default:
		return "", status.ErrUnknownSource.WrapMessage("%q", s)
	}
}

// ChangeSource knows the changelog of a package.
//
// Implementations that cannot provide a changelog return an error matching pkgdb/status.ErrUnsupported.
type ChangeSource interface {
	Changes(context.Context, model.Package) ([]uint64, error)
}

// Build combines the current packages with the ledger state into package records.
//
// The returned records are the new authoritative ledger, to be persisted for the next run.
func Build(ctx context.Context, packages model.Packages, opts ...BuildOption) (model.PackageRecords, error) {
	o := defaultBuildOptions(opts)
	now := o.resolution.Quantize(o.buildTime)
	logger := o.l.With(
		zap.String("changelog_source", string(o.source)),
		zap.String("changelog_resolution", string(o.resolution)),
		zap.Uint64("build_time", now),
	)

	switch o.source {
	case SourceInitialize:
		return initializeAll(packages, now), nil

	case SourcePreviousIndex:
		if !o.hasPrevious {
			return nil, status.ErrNoPreviousIndex
		}
		return updateAll(packages, o.previous, now, logger)

	case SourcePackageDatabase:
		if o.changes == nil {
			return nil, status.ErrChangelog.WrapMessage("no package database provided")
		}
		records, err := fromDatabase(ctx, packages, o.changes)
		if err == nil {
			return records, nil
		}
		if !errors.Is(err, pkgdbstatus.ErrUnsupported) {
			return nil, err
		}

		if o.hasPrevious {
			logger.Warn("package database provides no changelog: falling back to previous index", zap.Error(err))
			return updateAll(packages, o.previous, now, logger)
		}
		logger.Warn("package database provides no changelog: initializing ledger", zap.Error(err))
		return initializeAll(packages, now), nil

	default:
		return nil, status.ErrUnknownSource.WrapMessage("%q", o.source)
	}
}

func initializeAll(packages model.Packages, now uint64) model.PackageRecords {
	records := make(model.PackageRecords, 0, len(packages))
	for _, pkg := range packages {
		records = append(records, Initialize(pkg, now))
	}
	return records
}

func updateAll(packages model.Packages, previous model.PackageRecords, now uint64, logger *zap.Logger) (model.PackageRecords, error) {
	index := previous.ByName()
	records := make(model.PackageRecords, 0, len(packages))
	var initialized, updated int

	for _, pkg := range packages {
		prev, found := index[pkg.Name]
		if !found {
			records = append(records, Initialize(pkg, now))
			initialized++
			continue
		}
		// a previous record is consumed only once, e.g. for multilib packages sharing a name
		delete(index, pkg.Name)

		prev, valid := migrate(prev)
		if !valid {
			logger.Debug("previous record has no history: initializing", zap.String("package", pkg.Name))
			records = append(records, Initialize(pkg, now))
			initialized++
			continue
		}

		record, err := UpdateFromPrevious(pkg, prev, now)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
		updated++
	}

	logger.Info("package records built from previous index",
		zap.Int("updated", updated),
		zap.Int("initialized", initialized),
		zap.Int("dropped", len(index)),
	)

	return records, nil
}

func fromDatabase(ctx context.Context, packages model.Packages, cs ChangeSource) (model.PackageRecords, error) {
	records := make(model.PackageRecords, 0, len(packages))
	for _, pkg := range packages {
		changelog, err := cs.Changes(ctx, pkg)
		if err != nil {
			if errors.Is(err, pkgdbstatus.ErrUnsupported) {
				return nil, err
			}
			return nil, status.ErrChangelog.WrapMessage("package %q", pkg.Identifier).Wrap(err)
		}
		records = append(records, FromChangelog(pkg, changelog))
	}
	return records, nil
}
