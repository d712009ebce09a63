package pkgdb

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/oneconcern/chunkmap/pkg/pkgdb/status"
	"github.com/spf13/afero"
)

var _ Database = &JSON{}

// JSON package database, read from a JSON array of packages
type JSON struct {
	fs   afero.Fs
	path string
}

// NewJSON builds a package database from a JSON dump
func NewJSON(fs afero.Fs, pth string) *JSON {
	return &JSON{fs: fs, path: pth}
}

// Packages reads the dump
func (j *JSON) Packages(_ context.Context) (model.Packages, error) {
	data, err := afero.ReadFile(j.fs, j.path)
	if err != nil {
		return nil, status.ErrQuery.WrapMessage("reading %s", j.path).Wrap(err)
	}

	var pkgs model.Packages
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &pkgs); err != nil {
		return nil, status.ErrUnexpectedOutput.WrapMessage("decoding %s", j.path).Wrap(err)
	}
	return pkgs, nil
}

// Changes is not supported: a dump carries no changelog
func (j *JSON) Changes(_ context.Context, _ model.Package) ([]uint64, error) {
	return nil, status.ErrUnsupported.WrapMessage("json package dump has no changelog")
}
