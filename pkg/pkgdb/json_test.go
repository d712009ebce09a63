package pkgdb

import (
	"context"
	"testing"

	"github.com/oneconcern/chunkmap/pkg/errors"
	"github.com/oneconcern/chunkmap/pkg/pkgdb/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONDatabase(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dump/pkg.json", []byte(`[
  {"identifier":"A-1.0","name":"A","version":"1.0","source":"A-src","size":100,"files":["/bin/a"]},
  {"identifier":"B-2.0","name":"B","version":"2.0","source":"B-src","size":50,"files":[]}
]`), 0o644))

	db, err := Open(BackendJSON, WithFs(fs), WithPath("/dump/pkg.json"))
	require.NoError(t, err)

	pkgs, err := db.Packages(context.Background())
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, []string{"/bin/a"}, pkgs[0].Files)
	assert.Equal(t, uint64(150), pkgs.TotalSize())

	_, err = db.Changes(context.Background(), pkgs[0])
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnsupported))

	_, err = NewJSON(fs, "/dump/missing.json").Packages(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrQuery))

	require.NoError(t, afero.WriteFile(fs, "/dump/bad.json", []byte(`{`), 0o644))
	_, err = NewJSON(fs, "/dump/bad.json").Packages(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnexpectedOutput))
}
