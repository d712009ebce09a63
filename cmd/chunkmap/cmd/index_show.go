// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"sort"
	"time"

	units "github.com/docker/go-units"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/spf13/cobra"
)

var indexShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the records of a package index",
	Long: `Show the records of a package index, one package per line.

Example:
  chunkmap index show --index new.json --format yaml
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := getLogger()

		store, err := openLedger(chunkmapFlags.mapping.index, logger)
		if err != nil {
			wrapFatalln("open package index", err)
			return
		}
		defer func() {
			_ = store.Close()
		}()

		records, err := store.Load(ctx)
		if err != nil {
			wrapFatalln("load package index", err)
			return
		}

		if err = formatter().Format(stdout(), indexRecords(records)); err != nil {
			wrapFatalln("print package index", err)
			return
		}
	},
}

type indexRecords model.PackageRecords

func (r indexRecords) table() *uitable.Table {
	sorted := make(model.PackageRecords, len(r))
	copy(sorted, r)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Package.Name < sorted[j].Package.Name
	})

	t := newTable("NAME", "IDENTIFIER", "SIZE", "LAST CHANGE", "CHANGES", "UPDATES")
	for _, record := range sorted {
		lastChange := "-"
		if last, ok := record.LastChange(); ok {
			lastChange = time.Unix(int64(last), 0).UTC().Format(time.RFC3339)
		}
		t.AddRow(
			record.Package.Name,
			record.Package.Identifier,
			units.HumanSize(float64(record.Package.Size)),
			lastChange,
			len(record.Changes),
			record.TotalUpdates,
		)
	}
	return t
}

func init() {
	addIndexFlag(indexShowCmd)
	addLedgerStoreFlag(indexShowCmd)
	addLedgerPathFlag(indexShowCmd)
	addFormatFlag(indexShowCmd)

	indexCmd.AddCommand(indexShowCmd)
}
