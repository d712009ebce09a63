// Copyright © 2018 One Concern

package cmd

import (
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Commands to manage the package index",
	Long: `Commands to manage the package index.

The index records every installed package along with the history of its changes
across builds. It is carried over from one build to the next.
`,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
