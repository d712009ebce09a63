package pkgdb

import (
	"context"
	"path/filepath"

	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/oneconcern/chunkmap/pkg/pkgdb/status"
)

// Database knows about installed packages
type Database interface {
	// Packages lists all installed packages, with the files they claim
	Packages(context.Context) (model.Packages, error)

	// Changes yields the changelog of a package as unix timestamps in seconds, in any order
	Changes(context.Context, model.Package) ([]uint64, error)
}

// Backend is the kind of package database
type Backend string

// Known backends
const (
	BackendRPM  Backend = "rpm"
	BackendJSON Backend = "json"
	BackendALPM Backend = "alpm"
)

// Backends lists the available backends
func Backends() []string {
	return []string{string(BackendRPM), string(BackendJSON)}
}

// Open a package database.
//
// For rpm, the database is located at the configured path under the sysroot.
// For json, the path designates the dump file on the configured filesystem.
func Open(backend Backend, opts ...Option) (Database, error) {
	o := defaultOptions(opts)

	switch backend {
	case BackendRPM:
		pth := o.path
		if pth == "" {
			pth = DefaultRPMPath
		}
		return NewRPM(filepath.Join(o.sysroot, pth), opts...), nil

	case BackendJSON:
		if o.path == "" {
			return nil, status.ErrQuery.WrapMessage("a path to the package dump is required")
		}
		return NewJSON(o.fs, filepath.Join(o.sysroot, o.path)), nil

	case BackendALPM:
		return nil, status.ErrUnknownBackend.WrapMessage("%q is not available in this build", backend)

	default:
		return nil, status.ErrUnknownBackend.WrapMessage("%q", backend)
	}
}
