package model

import (
	"math"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitramfsID(t *testing.T) {
	assert.Equal(t, "initramfs (kernel 6.15.9-arch1-1)", InitramfsID("6.15.9-arch1-1"))
}

func TestSyntheticOwner(t *testing.T) {
	o := SyntheticOwner(UnpackagedID, UnpackagedID)
	assert.Equal(t, uint32(math.MaxUint32), o.ChangeTimeOffset)
	assert.Equal(t, uint32(math.MaxUint32), o.ChangeFrequency)
	assert.Equal(t, UnpackagedID, o.SrcID)
	assert.True(t, o.IsSynthetic())

	pkg := OwnerMetadata{Identifier: "bash-5.2", ChangeFrequency: 3}
	assert.False(t, pkg.IsSynthetic())
}

func TestContentMetaJSON(t *testing.T) {
	meta := ContentMeta{
		Map: map[string]string{"c1": "A-1.0"},
		Set: []OwnerMetadata{{Identifier: "A-1.0", Name: "A", SrcID: "A.src", ChangeTimeOffset: 2, ChangeFrequency: 5}},
	}
	data, err := jsoniter.Marshal(meta)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"map":{"c1":"A-1.0"},"set":[{"identifier":"A-1.0","name":"A","srcid":"A.src","change_time_offset":2,"change_frequency":5}]}`,
		string(data))

	owner, ok := meta.Owner("A-1.0")
	require.True(t, ok)
	assert.Equal(t, "A", owner.Name)
	_, ok = meta.Owner("B")
	assert.False(t, ok)
}

func TestRecordLastChange(t *testing.T) {
	r := PackageRecord{}
	_, ok := r.LastChange()
	assert.False(t, ok)
	assert.Equal(t, uint64(42), r.LastChangeOr(42))

	r.Changes = []uint64{10, 20}
	last, ok := r.LastChange()
	require.True(t, ok)
	assert.Equal(t, uint64(20), last)
	assert.Equal(t, uint64(20), r.LastChangeOr(42))
}

func TestRecordsByName(t *testing.T) {
	records := PackageRecords{
		{Package: Package{Name: "bash", Identifier: "bash-1", Size: 10}},
		{Package: Package{Name: "zsh", Identifier: "zsh-1", Size: 5}},
	}
	index := records.ByName()
	require.Len(t, index, 2)
	assert.Equal(t, "zsh-1", index["zsh"].Package.Identifier)
	assert.Equal(t, uint64(15), records.Packages().TotalSize())
}
