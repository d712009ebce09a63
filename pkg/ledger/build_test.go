package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/oneconcern/chunkmap/pkg/errors"
	"github.com/oneconcern/chunkmap/pkg/ledger/status"
	"github.com/oneconcern/chunkmap/pkg/model"
	pkgdbstatus "github.com/oneconcern/chunkmap/pkg/pkgdb/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChanges struct {
	changes map[string][]uint64
	err     error
}

func (f fakeChanges) Changes(_ context.Context, pkg model.Package) ([]uint64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.changes[pkg.Name], nil
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	buildTime := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)
	now := uint64(buildTime.Unix())

	current := model.Packages{
		{Identifier: "bash-5.2", Name: "bash", Version: "5.2"},
		{Identifier: "zsh-5.9", Name: "zsh", Version: "5.9"},
		{Identifier: "glibc-2.39.i686", Name: "glibc", Version: "2.39"},
		{Identifier: "glibc-2.39.x86_64", Name: "glibc", Version: "2.39"},
	}
	previous := model.PackageRecords{
		{Package: model.Package{Identifier: "bash-5.1", Name: "bash", Version: "5.1"}, Changes: []uint64{100}, TotalUpdates: 4},
		{Package: model.Package{Identifier: "glibc-2.38.x86_64", Name: "glibc", Version: "2.38"}, Changes: []uint64{200}, TotalUpdates: 1},
		{Package: model.Package{Identifier: "vim-9", Name: "vim", Version: "9"}, Changes: []uint64{50}, TotalUpdates: 1},
	}

	t.Run("initialize", func(t *testing.T) {
		records, err := Build(ctx, current, WithSource(SourceInitialize), WithResolution(ResolutionNone), WithBuildTime(buildTime))
		require.NoError(t, err)
		require.Len(t, records, len(current))
		for _, r := range records {
			assert.Equal(t, []uint64{now}, r.Changes)
			assert.Equal(t, uint32(1), r.TotalUpdates)
		}
	})

	t.Run("previous index", func(t *testing.T) {
		records, err := Build(ctx, current,
			WithSource(SourcePreviousIndex),
			WithResolution(ResolutionNone),
			WithBuildTime(buildTime),
			WithPrevious(previous),
		)
		require.NoError(t, err)
		require.Len(t, records, len(current))

		assert.Equal(t, []uint64{100, now}, records[0].Changes)
		assert.Equal(t, uint32(5), records[0].TotalUpdates)

		assert.Equal(t, []uint64{now}, records[1].Changes, "zsh is new")
		assert.Equal(t, uint32(1), records[1].TotalUpdates)

		assert.Equal(t, []uint64{200, now}, records[2].Changes, "first glibc consumes the previous record")
		assert.Equal(t, []uint64{now}, records[3].Changes, "second glibc is initialized")
	})

	t.Run("previous index required", func(t *testing.T) {
		_, err := Build(ctx, current, WithSource(SourcePreviousIndex))
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrNoPreviousIndex))
	})

	t.Run("package database", func(t *testing.T) {
		records, err := Build(ctx, current,
			WithSource(SourcePackageDatabase),
			WithChangeSource(fakeChanges{changes: map[string][]uint64{"bash": {30, 10, 20}}}),
		)
		require.NoError(t, err)
		assert.Equal(t, []uint64{10, 20, 30}, records[0].Changes)
		assert.Equal(t, uint32(3), records[0].TotalUpdates)
		assert.Empty(t, records[1].Changes)
	})

	t.Run("package database unsupported, fallback to previous", func(t *testing.T) {
		records, err := Build(ctx, current,
			WithSource(SourcePackageDatabase),
			WithResolution(ResolutionNone),
			WithBuildTime(buildTime),
			WithPrevious(previous),
			WithChangeSource(fakeChanges{err: pkgdbstatus.ErrUnsupported}),
		)
		require.NoError(t, err)
		assert.Equal(t, []uint64{100, now}, records[0].Changes)
	})

	t.Run("package database unsupported, fallback to initialize", func(t *testing.T) {
		records, err := Build(ctx, current,
			WithSource(SourcePackageDatabase),
			WithResolution(ResolutionNone),
			WithBuildTime(buildTime),
			WithChangeSource(fakeChanges{err: pkgdbstatus.ErrUnsupported.WrapMessage("json")}),
		)
		require.NoError(t, err)
		assert.Equal(t, []uint64{now}, records[0].Changes)
	})

	t.Run("package database failure", func(t *testing.T) {
		_, err := Build(ctx, current,
			WithSource(SourcePackageDatabase),
			WithChangeSource(fakeChanges{err: pkgdbstatus.ErrQuery}),
		)
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrChangelog))
		assert.True(t, errors.Is(err, pkgdbstatus.ErrQuery))
	})

	t.Run("unknown source", func(t *testing.T) {
		_, err := Build(ctx, current, WithSource(Source("magic")))
		assert.True(t, errors.Is(err, status.ErrUnknownSource))
	})
}

func TestParse(t *testing.T) {
	for _, s := range Sources() {
		src, err := ParseSource(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(src))
	}
	_, err := ParseSource("yesterday")
	assert.True(t, errors.Is(err, status.ErrUnknownSource))

	for _, s := range Resolutions() {
		r, err := ParseResolution(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(r))
	}
	_, err = ParseResolution("hourly")
	assert.True(t, errors.Is(err, status.ErrUnknownResolution))
}

func TestQuantize(t *testing.T) {
	// a thursday
	ts := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)

	assert.Equal(t, uint64(ts.Unix()), ResolutionNone.Quantize(ts))
	assert.Equal(t, uint64(time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC).Unix()), ResolutionDaily.Quantize(ts))
	assert.Equal(t, uint64(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC).Unix()), ResolutionWeekly.Quantize(ts))
	assert.Equal(t, uint64(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Unix()), ResolutionMonthly.Quantize(ts))

	// a sunday belongs to the week started on the previous monday
	sunday := time.Date(2024, 3, 17, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, uint64(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC).Unix()), ResolutionWeekly.Quantize(sunday))

	// quantization happens in UTC
	paris := time.FixedZone("CET", 3600)
	early := time.Date(2024, 3, 1, 0, 30, 0, 0, paris)
	assert.Equal(t, uint64(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).Unix()), ResolutionMonthly.Quantize(early))
}
