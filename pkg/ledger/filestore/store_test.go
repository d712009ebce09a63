package filestore

import (
	"context"
	"testing"

	"github.com/oneconcern/chunkmap/pkg/errors"
	"github.com/oneconcern/chunkmap/pkg/ledger/status"
	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/oneconcern/chunkmap/pkg/storage"
	"github.com/oneconcern/chunkmap/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := New(localfs.New(afero.NewMemMapFs()), "index/packages.json")
	defer func() { _ = st.Close() }()

	_, err := st.Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNoPreviousIndex))

	records := model.PackageRecords{
		{Package: model.Package{Identifier: "zsh-5.9", Name: "zsh", Files: []string{"/usr/bin/zsh"}}, Changes: []uint64{3}, TotalUpdates: 1},
		{Package: model.Package{Identifier: "bash-5.2", Name: "bash", Size: 42}, Changes: []uint64{1, 2}, TotalUpdates: 7},
	}
	require.NoError(t, st.Save(ctx, records))

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "bash", loaded[0].Package.Name)
	assert.Equal(t, records[1], loaded[0])
	assert.Equal(t, records[0], loaded[1])
	assert.Equal(t, "zsh", records[0].Package.Name, "saving must not reorder the input")
}

func TestLoadOlderSnapshot(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store := localfs.New(fs)
	// a snapshot without total_updates
	require.NoError(t, storage.WriteAll(ctx, store, "prev.json",
		[]byte(`[{"package":{"identifier":"bash-5.1","name":"bash","version":"5.1","source":"bash","size":1,"files":[]},"changes":[10]}]`)))

	loaded, err := New(store, "prev.json").Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, uint32(0), loaded[0].TotalUpdates)
	assert.Equal(t, []uint64{10}, loaded[0].Changes)
}

func TestLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	store := localfs.New(afero.NewMemMapFs())
	require.NoError(t, storage.WriteAll(ctx, store, "prev.json", []byte(`{not json`)))

	_, err := New(store, "prev.json").Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrLoad))
}
