// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/chunkmap/cmd/chunkmap/cmd"
)

func main() {
	cmd.Execute()
}
