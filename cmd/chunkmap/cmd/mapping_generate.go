// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"time"

	"github.com/oneconcern/chunkmap/pkg/layermeta"
	"github.com/oneconcern/chunkmap/pkg/mapping"
	"github.com/oneconcern/chunkmap/pkg/metrics"
	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/oneconcern/chunkmap/pkg/tree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mappingGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the content metadata of an image",
	Long: `Generate the content metadata of an image, for the layer packer.

The output maps the checksum of every content object of the root filesystem to its owner,
and describes how recently and how often each owner changes.

Example:
  chunkmap mapping generate --index new.json --rootfs /mnt/image --output contentmeta.json
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := getLogger()

		started := time.Now()
		meta, diagnostics, err := generateMapping(ctx, logger)
		if err != nil {
			wrapFatalln("generate content mapping", err)
			return
		}

		store, key := fileStorage(chunkmapFlags.mapping.output)
		if err = layermeta.Write(ctx, store, key, meta); err != nil {
			wrapFatalln("write content metadata", err)
			return
		}

		if pth := chunkmapFlags.core.metricsTextfile; pth != "" {
			registry := metrics.New()
			registry.MappingMetrics().Observe(diagnostics, time.Since(started))
			if err = registry.WriteTextfile(pth); err != nil {
				wrapFatalln("write metrics", err)
				return
			}
		}

		infoLogger.Printf("mapped %d objects to %d owners into %s", diagnostics.Objects, diagnostics.Owners, chunkmapFlags.mapping.output)
	},
}

// generateMapping loads the package index and maps the root filesystem
func generateMapping(ctx context.Context, logger *zap.Logger) (model.ContentMeta, model.Diagnostics, error) {
	buildTime, err := parseBuildTime()
	if err != nil {
		return model.ContentMeta{}, model.Diagnostics{}, err
	}

	store, err := openLedger(chunkmapFlags.mapping.index, logger)
	if err != nil {
		return model.ContentMeta{}, model.Diagnostics{}, err
	}
	defer func() {
		_ = store.Close()
	}()

	records, err := store.Load(ctx)
	if err != nil {
		return model.ContentMeta{}, model.Diagnostics{}, err
	}

	rootfs, err := tree.NewDir(chunkmapFlags.mapping.rootfs, tree.Logger(logger))
	if err != nil {
		return model.ContentMeta{}, model.Diagnostics{}, err
	}

	return mapping.Generate(ctx, records, rootfs,
		mapping.Concurrency(chunkmapFlags.root.concurrency),
		mapping.Exclude(chunkmapFlags.mapping.excludes...),
		mapping.WithBuildTime(buildTime),
		mapping.Logger(logger),
	)
}

func init() {
	requireFlags(mappingGenerateCmd,
		addRootfsFlag(mappingGenerateCmd),
		addOutputFlag(mappingGenerateCmd),
	)
	addIndexFlag(mappingGenerateCmd)
	addLedgerStoreFlag(mappingGenerateCmd)
	addLedgerPathFlag(mappingGenerateCmd)
	addExcludeFlag(mappingGenerateCmd)
	addBuildTimeFlag(mappingGenerateCmd)
	addMetricsTextfileFlag(mappingGenerateCmd)

	mappingCmd.AddCommand(mappingGenerateCmd)
}
