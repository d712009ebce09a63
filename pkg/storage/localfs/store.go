// Copyright © 2018 One Concern

package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oneconcern/chunkmap/pkg/storage"
	"github.com/oneconcern/chunkmap/pkg/storage/status"
	"github.com/spf13/afero"
)

/* staged Put()s are written to a temporary file next to the target then Rename()d into place,
 * so that readers never observe a partially written object.
 */
const putStageSuffix = ".put-stage-"

// New creates a new local file system backed storage model.
//
// When fs is nil, objects are stored relative to the current directory.
func New(fs afero.Fs) storage.Store {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), ".")
	}
	return &localFS{
		fs: fs,
	}
}

type localFS struct {
	fs afero.Fs
}

func maybeInvalidKey(key string) error {
	const pathSepString = string(os.PathSeparator)
	if strings.Trim(key, pathSepString) == "" {
		return status.ErrInvalidKey.WrapMessage("empty key %q", key)
	}
	if strings.HasSuffix(key, pathSepString) {
		return status.ErrInvalidKey.WrapMessage("key %q designates a directory", key)
	}
	return nil
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	if err := maybeInvalidKey(key); err != nil {
		return false, err
	}
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, status.ErrStorage.Wrap(err)
	}

	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, status.ErrNotExists.WrapMessage("%q", key)
	}
	f, err := l.fs.Open(key)
	if err != nil {
		return nil, status.ErrStorage.Wrap(err)
	}
	return f, nil
}

func (l *localFS) Put(ctx context.Context, key string, source io.Reader) error {
	if err := maybeInvalidKey(key); err != nil {
		return err
	}

	/* Rename() doesn't create directories automatically */
	dir := filepath.Dir(key)
	if err := l.fs.MkdirAll(dir, 0700); err != nil {
		return status.ErrStorage.WrapMessage("ensuring directories for %q", key).Wrap(err)
	}

	target, err := afero.TempFile(l.fs, dir, "."+filepath.Base(key)+putStageSuffix)
	if err != nil {
		return status.ErrStorage.WrapMessage("create record for %q", key).Wrap(err)
	}
	staged := target.Name()
	discard := func() {
		_ = l.fs.Remove(staged)
	}

	if _, err = io.Copy(target, source); err != nil {
		_ = target.Close()
		discard()
		return status.ErrStorage.WrapMessage("write record for %q", key).Wrap(err)
	}
	if err = target.Close(); err != nil {
		discard()
		return status.ErrStorage.Wrap(err)
	}

	if err := l.fs.Rename(staged, key); err != nil {
		discard()
		return status.ErrStorage.WrapMessage("moving record for %q into place", key).Wrap(err)
	}
	return nil
}

func (l *localFS) String() string {
	const localfs = "localfs"
	switch fs := l.fs.(type) {
	case *afero.BasePathFs:
		pp, err := fs.RealPath("")
		if err != nil {
			return localfs
		}
		return localfs + "@" + pp
	default:
		return localfs
	}
}
