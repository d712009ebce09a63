// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"sort"
	"strings"

	units "github.com/docker/go-units"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/spf13/cobra"
)

var mappingDiagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Report on the content mapping of an image",
	Long: `Report on the content mapping of an image, without writing it.

Lists content objects found at several paths and paths claimed by several packages.
Both are expected in a regular image: the report is informational.

Example:
  chunkmap mapping diagnose --index new.json --rootfs /mnt/image
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := getLogger()

		_, diagnostics, err := generateMapping(ctx, logger)
		if err != nil {
			wrapFatalln("generate content mapping", err)
			return
		}

		if err = formatter().Format(stdout(), mappingReport(diagnostics)); err != nil {
			wrapFatalln("print diagnostics", err)
			return
		}
	},
}

type mappingReport model.Diagnostics

func (r mappingReport) table() *uitable.Table {
	t := newTable("KIND", "KEY", "VALUES")
	addEntries := func(kind string, entries map[string][]string) {
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.AddRow(kind, k, strings.Join(entries[k], ", "))
		}
	}
	addEntries("duplicate", r.Duplicates)
	addEntries("multiple owners", r.MultipleOwners)

	t.AddRow("", "", "")
	t.AddRow("objects", r.Objects, "")
	t.AddRow("owners", r.Owners, "")
	t.AddRow("source groups", r.SourceGroups, "")
	t.AddRow("package size", units.HumanSize(float64(r.PackageSize)), "")
	t.AddRow("earliest package", r.EarliestPackage, "")
	t.AddRow("unresolved paths", r.Unresolved, "")
	t.AddRow("unpackaged objects", r.Unpackaged, "")
	return t
}

func init() {
	requireFlags(mappingDiagnoseCmd, addRootfsFlag(mappingDiagnoseCmd))
	addIndexFlag(mappingDiagnoseCmd)
	addLedgerStoreFlag(mappingDiagnoseCmd)
	addLedgerPathFlag(mappingDiagnoseCmd)
	addExcludeFlag(mappingDiagnoseCmd)
	addBuildTimeFlag(mappingDiagnoseCmd)
	addFormatFlag(mappingDiagnoseCmd)

	mappingCmd.AddCommand(mappingDiagnoseCmd)
}
