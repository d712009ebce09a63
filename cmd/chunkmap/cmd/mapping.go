// Copyright © 2018 One Concern

package cmd

import (
	"github.com/spf13/cobra"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Commands to map the content of an image to its owners",
	Long: `Commands to map the content of an image to its owners.

Every content object of the root filesystem is assigned to exactly one owner:
a package, the initramfs of some kernel, or the bucket of unpackaged content.
`,
}

func init() {
	rootCmd.AddCommand(mappingCmd)
}
