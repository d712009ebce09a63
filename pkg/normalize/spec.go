// Package normalize rewrites a list of packages before indexing:
// synthetic packages may be injected, and several packages may be merged into one.
//
// Specifications are read from TOML, YAML or JSON documents, e.g.:
//
//	[[new_package]]
//	identifier = "initramfs"
//	name = "initramfs"
//	version = "1"
//	source = "initramfs"
//	size = 209715200
//	files = ["/usr/lib/modules/6.15.9-arch1-1/initramfs.img"]
//
//	[merge_packages]
//	"basepkg" = ["base", "filesystem"]
package normalize

import (
	"context"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/chunkmap/pkg/errors"
	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/oneconcern/chunkmap/pkg/normalize/status"
	"github.com/oneconcern/chunkmap/pkg/storage"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v2"
)

// Format of a specification document
type Format string

// Supported formats
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Spec declares the transformations of a package set.
//
// NewPackages are appended verbatim. MergePackages maps the name of a new package
// to the names of the packages it replaces.
type Spec struct {
	NewPackages   []model.Package     `json:"new_package,omitempty" yaml:"new_package,omitempty" toml:"new_package"`
	MergePackages map[string][]string `json:"merge_packages,omitempty" yaml:"merge_packages,omitempty" toml:"merge_packages"`
}

// IsEmpty tells if this spec has no effect
func (s Spec) IsEmpty() bool {
	return len(s.NewPackages) == 0 && len(s.MergePackages) == 0
}

// FormatFromPath guesses the format of a specification from its file extension
func FormatFromPath(pth string) (Format, error) {
	switch strings.ToLower(filepath.Ext(pth)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", status.ErrUnknownFormat.WrapMessage("%q", pth)
	}
}

// Parse a specification document
func Parse(data []byte, format Format) (Spec, error) {
	var (
		spec Spec
		err  error
	)

	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &spec)
	case FormatYAML:
		err = yaml.UnmarshalStrict(data, &spec)
	case FormatJSON:
		err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &spec)
	default:
		return Spec{}, status.ErrUnknownFormat.WrapMessage("%q", format)
	}
	if err != nil {
		return Spec{}, status.ErrInvalidSpec.WrapMessage("%s", format).Wrap(err)
	}

	return spec, nil
}

// Load a specification from some storage, guessing the format from the key
func Load(ctx context.Context, store storage.Store, key string) (Spec, error) {
	format, err := FormatFromPath(key)
	if err != nil {
		return Spec{}, err
	}

	data, err := storage.ReadAll(ctx, store, key)
	if err != nil {
		return Spec{}, status.ErrInvalidSpec.WrapMessage("reading %s", key).Wrap(err)
	}

	spec, err := Parse(data, format)
	if err != nil {
		var e *errors.Error
		if errors.As(err, &e) {
			return Spec{}, e.WrapMessage("%s", key)
		}
		return Spec{}, err
	}
	return spec, nil
}
