package model

import (
	"fmt"

	units "github.com/docker/go-units"
)

// Package describes one installed unit, as reported by a package database.
//
// A Package is immutable once read from a given database snapshot.
type Package struct {
	// Identifier is unique per build, e.g. a NEVRA for rpm
	Identifier string `json:"identifier" yaml:"identifier" toml:"identifier"`

	// Name stays stable across updates
	Name string `json:"name" yaml:"name" toml:"name"`

	Version string `json:"version" yaml:"version" toml:"version"`

	// Source groups packages built from a single source unit (e.g. a source rpm)
	Source string `json:"source" yaml:"source" toml:"source"`

	// Size in bytes
	Size uint64 `json:"size" yaml:"size" toml:"size"`

	// Files claimed by this package, as absolute paths
	Files []string `json:"files" yaml:"files" toml:"files"`
}

func (p Package) String() string {
	return fmt.Sprintf("%s (%s, %s)", p.Identifier, p.Name, units.HumanSize(float64(p.Size)))
}

// Packages is a list of packages
type Packages []Package

// TotalSize sums up the size of all packages
func (pkgs Packages) TotalSize() uint64 {
	var total uint64
	for _, pkg := range pkgs {
		total += pkg.Size
	}
	return total
}
