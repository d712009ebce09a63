package ledger

import (
	"testing"

	"github.com/oneconcern/chunkmap/pkg/errors"
	"github.com/oneconcern/chunkmap/pkg/ledger/status"
	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPackage(version string) model.Package {
	return model.Package{
		Identifier: "bash-" + version + ".x86_64",
		Name:       "bash",
		Version:    version,
		Source:     "bash-" + version + ".src.rpm",
		Size:       1024,
		Files:      []string{"/usr/bin/bash"},
	}
}

func TestInitialize(t *testing.T) {
	r := Initialize(testPackage("5.2"), 1000)
	assert.Equal(t, []uint64{1000}, r.Changes)
	assert.Equal(t, uint32(1), r.TotalUpdates)
	assert.Equal(t, "bash", r.Package.Name)
}

func TestUpdateFromPrevious(t *testing.T) {
	previous := Initialize(testPackage("5.1"), 1000)

	for _, toPin := range []struct {
		Name            string
		Package         model.Package
		Now             uint64
		ExpectedChanges []uint64
		ExpectedTotal   uint32
	}{
		{
			Name:            "new version, new build",
			Package:         testPackage("5.2"),
			Now:             2000,
			ExpectedChanges: []uint64{1000, 2000},
			ExpectedTotal:   2,
		},
		{
			Name:            "new version, same build time",
			Package:         testPackage("5.2"),
			Now:             1000,
			ExpectedChanges: []uint64{1000},
			ExpectedTotal:   1,
		},
		{
			Name:            "same version, new build: counter only",
			Package:         testPackage("5.1"),
			Now:             2000,
			ExpectedChanges: []uint64{1000},
			ExpectedTotal:   2,
		},
		{
			Name:            "same version, same build",
			Package:         testPackage("5.1"),
			Now:             1000,
			ExpectedChanges: []uint64{1000},
			ExpectedTotal:   1,
		},
		{
			Name: "same version, new identifier",
			Package: func() model.Package {
				p := testPackage("5.1")
				p.Identifier = "bash-5.1-2.x86_64"
				return p
			}(),
			Now:             3000,
			ExpectedChanges: []uint64{1000, 3000},
			ExpectedTotal:   2,
		},
		{
			Name:            "new version, build time before the last change",
			Package:         testPackage("5.2"),
			Now:             500,
			ExpectedChanges: []uint64{1000},
			ExpectedTotal:   1,
		},
		{
			Name:            "same version, build time before the last change",
			Package:         testPackage("5.1"),
			Now:             500,
			ExpectedChanges: []uint64{1000},
			ExpectedTotal:   1,
		},
	} {
		fixture := toPin
		t.Run(fixture.Name, func(t *testing.T) {
			r, err := UpdateFromPrevious(fixture.Package, previous, fixture.Now)
			require.NoError(t, err)
			assert.Equal(t, fixture.ExpectedChanges, r.Changes)
			assert.Equal(t, fixture.ExpectedTotal, r.TotalUpdates)
			assert.Equal(t, fixture.Package, r.Package)
		})
	}

	// the previous record is left untouched
	assert.Equal(t, []uint64{1000}, previous.Changes)
}

func TestUpdateFromPreviousClockSkew(t *testing.T) {
	record := Initialize(testPackage("1"), 5000)

	for i, now := range []uint64{4000, 6000, 5500, 7000} {
		var err error
		record, err = UpdateFromPrevious(testPackage(string(rune('a'+i))), record, now)
		require.NoError(t, err)
	}

	assert.Equal(t, []uint64{5000, 6000, 7000}, record.Changes)
	assert.Equal(t, uint32(3), record.TotalUpdates)
}

func TestUpdateFromPreviousEmptyHistory(t *testing.T) {
	previous := model.PackageRecord{Package: testPackage("5.1")}
	r, err := UpdateFromPrevious(testPackage("5.2"), previous, 500)
	require.NoError(t, err)
	assert.Equal(t, []uint64{500}, r.Changes)
	assert.Equal(t, uint32(1), r.TotalUpdates)
}

func TestUpdateFromPreviousIdentityMismatch(t *testing.T) {
	previous := Initialize(model.Package{Name: "zsh"}, 1000)
	_, err := UpdateFromPrevious(testPackage("5.2"), previous, 2000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrIdentityMismatch))
	assert.Contains(t, err.Error(), `"zsh"`)
}

func TestLedgerMonotonicity(t *testing.T) {
	record := Initialize(testPackage("0"), 1)
	previousTotal := record.TotalUpdates

	for i := uint64(2); i < 500; i++ {
		version := "1"
		if i%3 == 0 {
			version = string(rune('a' + i%26))
		}
		var err error
		record, err = UpdateFromPrevious(testPackage(version), record, i)
		require.NoError(t, err)

		require.GreaterOrEqual(t, record.TotalUpdates, previousTotal)
		previousTotal = record.TotalUpdates
		require.LessOrEqual(t, len(record.Changes), MaximumChanges)
		require.GreaterOrEqual(t, uint64(record.TotalUpdates), uint64(len(record.Changes)))
		for j := 1; j < len(record.Changes); j++ {
			require.Less(t, record.Changes[j-1], record.Changes[j])
		}
	}
}

func TestBoundedHistory(t *testing.T) {
	record := Initialize(testPackage("v0"), 0)
	var appended []uint64
	appended = append(appended, 0)

	for i := uint64(1); i <= 250; i++ {
		var err error
		record, err = UpdateFromPrevious(testPackage("v"+string(rune('0'+i%10))), record, i)
		require.NoError(t, err)
		appended = append(appended, i)
	}

	require.Len(t, record.Changes, MaximumChanges)
	assert.Equal(t, appended[len(appended)-MaximumChanges:], record.Changes)
	assert.Equal(t, uint32(251), record.TotalUpdates)
}

func TestFromChangelog(t *testing.T) {
	changelog := make([]uint64, 0, 150)
	for i := uint64(150); i > 0; i-- {
		changelog = append(changelog, i*10)
	}

	r := FromChangelog(testPackage("5.2"), changelog)
	require.Len(t, r.Changes, MaximumChanges)
	assert.Equal(t, uint32(150), r.TotalUpdates)
	assert.Equal(t, uint64(1500), r.Changes[len(r.Changes)-1])
	assert.Equal(t, uint64(510), r.Changes[0])
	assert.Equal(t, uint64(1500), changelog[0], "input changelog must not be reordered")

	empty := FromChangelog(testPackage("5.2"), nil)
	assert.Empty(t, empty.Changes)
	assert.Equal(t, uint32(0), empty.TotalUpdates)
}

func TestMigrate(t *testing.T) {
	_, ok := migrate(model.PackageRecord{Package: testPackage("1")})
	assert.False(t, ok)

	r, ok := migrate(model.PackageRecord{Package: testPackage("1"), Changes: []uint64{1, 2, 3}})
	require.True(t, ok)
	assert.Equal(t, uint32(3), r.TotalUpdates)
}
