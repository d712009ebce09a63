package normalize

import (
	"sort"
	"strings"

	"github.com/oneconcern/chunkmap/pkg/model"
	"go.uber.org/zap"
)

const joinSeparator = ","

// Option for Apply
type Option func(*options)

type options struct {
	l *zap.Logger
}

// Logger for the normalizer
func Logger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.l = l
		}
	}
}

// Apply the specification to a list of packages.
//
// New packages are appended first, then merge groups are applied in ascending order of their new name.
// A merge group matching no package is skipped with a warning.
//
// The input is not modified.
func (s Spec) Apply(packages model.Packages, opts ...Option) model.Packages {
	o := &options{l: zap.NewNop()}
	for _, apply := range opts {
		apply(o)
	}

	result := make(model.Packages, 0, len(packages)+len(s.NewPackages))
	result = append(result, packages...)
	result = append(result, s.NewPackages...)

	names := make([]string, 0, len(s.MergePackages))
	for name := range s.MergePackages {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		kept, replacement, merged := mergeGroup(result, name, s.MergePackages[name])
		if !merged {
			o.l.Warn("merge group matches no package: skipped",
				zap.String("package", name),
				zap.Strings("sources", s.MergePackages[name]),
			)
			continue
		}
		result = append(kept, replacement)
		o.l.Debug("packages merged", zap.String("package", name), zap.String("identifier", replacement.Identifier))
	}

	return result
}

// mergeGroup removes the packages named in sources and yields the replacement package
func mergeGroup(packages model.Packages, name string, sources []string) (model.Packages, model.Package, bool) {
	wanted := make(map[string]struct{}, len(sources))
	for _, source := range sources {
		wanted[source] = struct{}{}
	}

	var (
		identifiers, srcs, versions []string
		size                        uint64
		files                       []string
	)
	seen := make(map[string]struct{})
	kept := make(model.Packages, 0, len(packages))

	for _, pkg := range packages {
		if _, ok := wanted[pkg.Name]; !ok {
			kept = append(kept, pkg)
			continue
		}

		identifiers = append(identifiers, pkg.Identifier)
		srcs = append(srcs, pkg.Source)
		versions = append(versions, pkg.Version)
		size += pkg.Size
		for _, file := range pkg.Files {
			if _, dup := seen[file]; dup {
				continue
			}
			seen[file] = struct{}{}
			files = append(files, file)
		}
	}

	if len(identifiers) == 0 {
		return packages, model.Package{}, false
	}

	if files == nil {
		files = []string{}
	}

	return kept, model.Package{
		Identifier: strings.Join(identifiers, joinSeparator),
		Name:       name,
		Version:    strings.Join(versions, joinSeparator),
		Source:     strings.Join(srcs, joinSeparator),
		Size:       size,
		Files:      files,
	}, true
}
