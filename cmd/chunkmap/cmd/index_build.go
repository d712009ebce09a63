// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/oneconcern/chunkmap/pkg/errors"
	"github.com/oneconcern/chunkmap/pkg/ledger"
	ledgerstatus "github.com/oneconcern/chunkmap/pkg/ledger/status"
	"github.com/oneconcern/chunkmap/pkg/metrics"
	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/oneconcern/chunkmap/pkg/normalize"
	"github.com/oneconcern/chunkmap/pkg/pkgdb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the package index of an image",
	Long: `Build the package index of an image.

Installed packages are read from the package database found in the sysroot,
optionally normalized, then combined with the history of their changes.
The history comes from the package changelog, the index of the previous build,
or starts afresh.

Example:
  chunkmap index build --sysroot /mnt/image --previous-index old.json --output-index new.json
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := getLogger()

		source, err := ledger.ParseSource(chunkmapFlags.index.changelogSource)
		if err != nil {
			wrapFatalln("invalid changelog source", err)
			return
		}
		resolution, err := ledger.ParseResolution(chunkmapFlags.index.changelogResolution)
		if err != nil {
			wrapFatalln("invalid changelog resolution", err)
			return
		}
		buildTime, err := parseBuildTime()
		if err != nil {
			wrapFatalln("invalid build time", err)
			return
		}

		db, err := openDatabase(logger)
		if err != nil {
			wrapFatalln("open package database", err)
			return
		}

		packages, err := db.Packages(ctx)
		if err != nil {
			wrapFatalln("read package database", err)
			return
		}

		if pth := chunkmapFlags.index.postprocessing; pth != "" {
			store, key := fileStorage(pth)
			spec, e := normalize.Load(ctx, store, key)
			if e != nil {
				wrapFatalln("load package set normalization", e)
				return
			}
			packages = spec.Apply(packages, normalize.Logger(logger))
		}

		previousStore, outputStore, err := openLedgers(logger)
		if err != nil {
			wrapFatalln("open package index", err)
			return
		}
		defer func() {
			if previousStore != nil && previousStore != outputStore {
				_ = previousStore.Close()
			}
			if e := outputStore.Close(); e != nil {
				logger.Warn("closing package index", zap.Error(e))
			}
		}()

		opts := []ledger.BuildOption{
			ledger.WithSource(source),
			ledger.WithResolution(resolution),
			ledger.WithBuildTime(buildTime),
			ledger.WithChangeSource(db),
			ledger.Logger(logger),
		}

		if previousStore != nil {
			previous, e := previousStore.Load(ctx)
			switch {
			case e == nil:
				opts = append(opts, ledger.WithPrevious(previous))
			case errors.Is(e, ledgerstatus.ErrNoPreviousIndex):
				logger.Info("no previous index", zap.Stringer("index", previousStore))
				if source == ledger.SourcePreviousIndex {
					// first build
					opts = append(opts, ledger.WithSource(ledger.SourceInitialize))
				}
			default:
				wrapFatalln("load previous index", e)
				return
			}
		}

		records, err := ledger.Build(ctx, packages, opts...)
		if err != nil {
			wrapFatalln("build package index", err)
			return
		}

		if err = outputStore.Save(ctx, records); err != nil {
			wrapFatalln("save package index", err)
			return
		}

		if pth := chunkmapFlags.core.metricsTextfile; pth != "" {
			registry := metrics.New()
			registry.LedgerMetrics().Observe(records, countUpdated(records, resolution.Quantize(buildTime)))
			if err = registry.WriteTextfile(pth); err != nil {
				wrapFatalln("write metrics", err)
				return
			}
		}

		infoLogger.Printf("indexed %d packages into %v", len(records), outputStore)
	},
}

func openDatabase(l *zap.Logger) (pkgdb.Database, error) {
	backend := pkgdb.Backend(chunkmapFlags.index.backend)
	opts := []pkgdb.Option{
		pkgdb.WithSysroot(chunkmapFlags.index.sysroot),
		pkgdb.WithPath(chunkmapFlags.index.pkgdbPath),
		pkgdb.WithRPMBinary(chunkmapFlags.index.rpmBinary),
		pkgdb.Concurrency(chunkmapFlags.root.concurrency),
		pkgdb.Logger(l),
	}
	if chunkmapFlags.index.packagesFile != "" {
		backend = pkgdb.BackendJSON
		opts = append(opts, pkgdb.WithSysroot(""), pkgdb.WithPath(chunkmapFlags.index.packagesFile))
	}
	return pkgdb.Open(backend, opts...)
}

// countUpdated counts the records last changed at this build
func countUpdated(records model.PackageRecords, now uint64) int {
	var updated int
	for _, record := range records {
		if last, ok := record.LastChange(); ok && last == now {
			updated++
		}
	}
	return updated
}

func init() {
	addBackendFlag(indexBuildCmd)
	addSysrootFlag(indexBuildCmd)
	addPkgdbPathFlag(indexBuildCmd)
	addPackagesFileFlag(indexBuildCmd)
	addRPMBinaryFlag(indexBuildCmd)
	addChangelogSourceFlag(indexBuildCmd)
	addChangelogResolutionFlag(indexBuildCmd)
	addPreviousIndexFlag(indexBuildCmd)
	addOutputIndexFlag(indexBuildCmd)
	addPostprocessingFlag(indexBuildCmd)
	addLedgerStoreFlag(indexBuildCmd)
	addLedgerPathFlag(indexBuildCmd)
	addBuildTimeFlag(indexBuildCmd)
	addMetricsTextfileFlag(indexBuildCmd)

	indexCmd.AddCommand(indexBuildCmd)
}
