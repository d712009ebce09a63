// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/oneconcern/chunkmap/pkg/dlogger"
	"github.com/oneconcern/chunkmap/pkg/ledger"
	"github.com/oneconcern/chunkmap/pkg/ledger/kvstore"
	"github.com/oneconcern/chunkmap/pkg/mapping"
	"github.com/oneconcern/chunkmap/pkg/pkgdb"
	"github.com/spf13/cobra"
)

const ledgerStoreFile = "file"

type flagsT struct {
	root struct {
		logLevel    string
		concurrency int
	}
	index struct {
		backend             string
		sysroot             string
		pkgdbPath           string
		packagesFile        string
		rpmBinary           string
		changelogSource     string
		changelogResolution string
		previousIndex       string
		outputIndex         string
		postprocessing      string
	}
	ledger struct {
		store string
		path  string
	}
	mapping struct {
		index    string
		rootfs   string
		output   string
		excludes []string
	}
	core struct {
		buildTime       string
		metricsTextfile string
		format          string
	}
}

var chunkmapFlags = flagsT{}

const (
	logLevelFlag    = "loglevel"
	concurrencyFlag = "concurrency"
	backendFlag     = "backend"
	ledgerStoreFlag = "ledger-store"
	ledgerPathFlag  = "ledger-path"
)

func addLogLevel(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&chunkmapFlags.root.logLevel, logLevelFlag, dlogger.LogLevelInfo,
		fmt.Sprintf("The logging level. Levels by increasing order of verbosity: %s, warn, info, debug", dlogger.LogLevelNone))
	return logLevelFlag
}

func addConcurrencyFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().IntVar(&chunkmapFlags.root.concurrency, concurrencyFlag, runtime.NumCPU(),
		"The maximum number of packages resolved in parallel")
	return concurrencyFlag
}

func addBackendFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&chunkmapFlags.index.backend, backendFlag, string(pkgdb.BackendRPM),
		fmt.Sprintf("The package database backend, one of: %s", strings.Join(pkgdb.Backends(), ", ")))
	return backendFlag
}

func addSysrootFlag(cmd *cobra.Command) string {
	const c = "sysroot"
	cmd.Flags().StringVar(&chunkmapFlags.index.sysroot, c, "/", "The root filesystem of the image to index")
	return c
}

func addPkgdbPathFlag(cmd *cobra.Command) string {
	const c = "pkgdb-path"
	cmd.Flags().StringVar(&chunkmapFlags.index.pkgdbPath, c, "",
		fmt.Sprintf("The location of the package database, relative to the sysroot (rpm defaults to %s)", pkgdb.DefaultRPMPath))
	return c
}

func addPackagesFileFlag(cmd *cobra.Command) string {
	const c = "packages-file"
	cmd.Flags().StringVar(&chunkmapFlags.index.packagesFile, c, "",
		"A JSON dump of packages to index instead of querying the package database. Implies --backend json")
	return c
}

func addRPMBinaryFlag(cmd *cobra.Command) string {
	const c = "rpm-binary"
	cmd.Flags().StringVar(&chunkmapFlags.index.rpmBinary, c, pkgdb.DefaultRPMBinary, "The rpm executable")
	return c
}

func addChangelogSourceFlag(cmd *cobra.Command) string {
	const c = "changelog-source"
	cmd.Flags().StringVar(&chunkmapFlags.index.changelogSource, c, string(ledger.SourcePreviousIndex),
		fmt.Sprintf("Where the history of package changes comes from, one of: %s", strings.Join(ledger.Sources(), ", ")))
	return c
}

func addChangelogResolutionFlag(cmd *cobra.Command) string {
	const c = "changelog-resolution"
	cmd.Flags().StringVar(&chunkmapFlags.index.changelogResolution, c, string(ledger.ResolutionWeekly),
		fmt.Sprintf("The granularity of recorded changes, one of: %s", strings.Join(ledger.Resolutions(), ", ")))
	return c
}

func addPreviousIndexFlag(cmd *cobra.Command) string {
	const c = "previous-index"
	cmd.Flags().StringVar(&chunkmapFlags.index.previousIndex, c, "",
		"The index file of the previous build (file ledger store only)")
	return c
}

func addOutputIndexFlag(cmd *cobra.Command) string {
	const c = "output-index"
	cmd.Flags().StringVar(&chunkmapFlags.index.outputIndex, c, "",
		"The index file to write (file ledger store only)")
	return c
}

func addPostprocessingFlag(cmd *cobra.Command) string {
	const c = "postprocessing"
	cmd.Flags().StringVar(&chunkmapFlags.index.postprocessing, c, "",
		"A package set normalization file (.toml, .yaml or .json)")
	return c
}

func addLedgerStoreFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&chunkmapFlags.ledger.store, ledgerStoreFlag, ledgerStoreFile,
		fmt.Sprintf("Where package records are kept, one of: %s, %s", ledgerStoreFile, strings.Join(kvstore.Backends(), ", ")))
	return ledgerStoreFlag
}

func addLedgerPathFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&chunkmapFlags.ledger.path, ledgerPathFlag, "",
		"The directory of the key-value ledger store (badger or pebble only)")
	return ledgerPathFlag
}

func addIndexFlag(cmd *cobra.Command) string {
	const c = "index"
	cmd.Flags().StringVar(&chunkmapFlags.mapping.index, c, "",
		"The index file produced by 'index build' (file ledger store only)")
	return c
}

func addRootfsFlag(cmd *cobra.Command) string {
	const c = "rootfs"
	cmd.Flags().StringVar(&chunkmapFlags.mapping.rootfs, c, "", "The root filesystem of the image to map")
	return c
}

func addOutputFlag(cmd *cobra.Command) string {
	const c = "output"
	cmd.Flags().StringVar(&chunkmapFlags.mapping.output, c, "", "The content metadata file to write")
	return c
}

func addExcludeFlag(cmd *cobra.Command) string {
	const c = "exclude"
	cmd.Flags().StringSliceVar(&chunkmapFlags.mapping.excludes, c, mapping.DefaultExcludes,
		"Subtrees of the root filesystem left out of the mapping")
	return c
}

func addBuildTimeFlag(cmd *cobra.Command) string {
	const c = "build-time"
	cmd.Flags().StringVar(&chunkmapFlags.core.buildTime, c, "",
		"The time of this build, as RFC3339 (defaults to now)")
	return c
}

func addMetricsTextfileFlag(cmd *cobra.Command) string {
	const c = "metrics-textfile"
	cmd.Flags().StringVar(&chunkmapFlags.core.metricsTextfile, c, "",
		"Write run metrics to this file, in the prometheus text format")
	return c
}

func addFormatFlag(cmd *cobra.Command) string {
	const c = "format"
	cmd.Flags().StringVar(&chunkmapFlags.core.format, c, formatTable,
		fmt.Sprintf("The output format, one of: %s", strings.Join(formatNames(), ", ")))
	return c
}

func requireFlags(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		err := cmd.MarkFlagRequired(flag)
		if err != nil {
			logFatalln(err)
		}
	}
}
