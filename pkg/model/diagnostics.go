package model

// Diagnostics report about a mapping build.
//
// Duplicate objects and paths with multiple owners are expected: they are informational only.
type Diagnostics struct {
	Objects         int                 `json:"objects" yaml:"objects"`
	Owners          int                 `json:"owners" yaml:"owners"`
	SourceGroups    int                 `json:"source_groups" yaml:"source_groups"`
	PackageSize     uint64              `json:"package_size" yaml:"package_size"`
	EarliestPackage string              `json:"earliest_package,omitempty" yaml:"earliest_package,omitempty"`
	EarliestChange  uint64              `json:"earliest_change,omitempty" yaml:"earliest_change,omitempty"`
	Duplicates      map[string][]string `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	MultipleOwners  map[string][]string `json:"multiple_owners,omitempty" yaml:"multiple_owners,omitempty"`
	Unresolved      uint64              `json:"unresolved" yaml:"unresolved"`
	Unpackaged      int                 `json:"unpackaged" yaml:"unpackaged"`
}
