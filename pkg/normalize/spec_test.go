package normalize

import (
	"context"
	"testing"

	"github.com/oneconcern/chunkmap/pkg/errors"
	"github.com/oneconcern/chunkmap/pkg/normalize/status"
	"github.com/oneconcern/chunkmap/pkg/storage"
	"github.com/oneconcern/chunkmap/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlSpec = `
[[new_package]]
identifier = "initramfs"
name = "initramfs"
version = "1"
source = "initramfs"
size = 209715200
files = [
    "/usr/lib/modules/6.15.9-arch1-1/initramfs.img"
]

[merge_packages]
"basepkg" = ["base", "filesystem"]
"certificates" = ["ca-certificates", "ca-certificates-mozilla", "ca-certificates-utils"]
"dbuspkg" = ["dbus", "dbus-broker", "dbus-units"]
`

const yamlSpec = `
new_package:
  - identifier: initramfs
    name: initramfs
    version: "1"
    source: initramfs
    size: 209715200
    files:
      - /usr/lib/modules/6.15.9-arch1-1/initramfs.img
merge_packages:
  basepkg: [base, filesystem]
  certificates: [ca-certificates, ca-certificates-mozilla, ca-certificates-utils]
  dbuspkg: [dbus, dbus-broker, dbus-units]
`

const jsonSpec = `{
  "new_package": [{
    "identifier": "initramfs", "name": "initramfs", "version": "1", "source": "initramfs",
    "size": 209715200, "files": ["/usr/lib/modules/6.15.9-arch1-1/initramfs.img"]
  }],
  "merge_packages": {
    "basepkg": ["base", "filesystem"],
    "certificates": ["ca-certificates", "ca-certificates-mozilla", "ca-certificates-utils"],
    "dbuspkg": ["dbus", "dbus-broker", "dbus-units"]
  }
}`

func TestParse(t *testing.T) {
	for _, toPin := range []struct {
		Name   string
		Format Format
		Data   string
	}{
		{Name: "toml", Format: FormatTOML, Data: tomlSpec},
		{Name: "yaml", Format: FormatYAML, Data: yamlSpec},
		{Name: "json", Format: FormatJSON, Data: jsonSpec},
	} {
		testCase := toPin

		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			spec, err := Parse([]byte(testCase.Data), testCase.Format)
			require.NoError(t, err)

			require.Len(t, spec.NewPackages, 1)
			pkg := spec.NewPackages[0]
			assert.Equal(t, "initramfs", pkg.Identifier)
			assert.Equal(t, "initramfs", pkg.Name)
			assert.Equal(t, "1", pkg.Version)
			assert.Equal(t, "initramfs", pkg.Source)
			assert.Equal(t, uint64(209715200), pkg.Size)
			assert.Equal(t, []string{"/usr/lib/modules/6.15.9-arch1-1/initramfs.img"}, pkg.Files)

			require.Len(t, spec.MergePackages, 3)
			assert.Equal(t, []string{"base", "filesystem"}, spec.MergePackages["basepkg"])
			assert.Equal(t, []string{"ca-certificates", "ca-certificates-mozilla", "ca-certificates-utils"}, spec.MergePackages["certificates"])
			assert.False(t, spec.IsEmpty())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`[[new_package]`), FormatTOML)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidSpec))

	_, err = Parse([]byte("merge_packages: [a, b]"), FormatYAML)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidSpec))

	_, err = Parse([]byte(`{}`), Format("ini"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnknownFormat))

	spec, err := Parse([]byte(``), FormatTOML)
	require.NoError(t, err)
	assert.True(t, spec.IsEmpty())
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	store := localfs.New(afero.NewMemMapFs())
	require.NoError(t, storage.WriteAll(ctx, store, "postprocessing.toml", []byte(tomlSpec)))
	require.NoError(t, storage.WriteAll(ctx, store, "postprocessing.yml", []byte(yamlSpec)))
	require.NoError(t, storage.WriteAll(ctx, store, "postprocessing.txt", []byte(yamlSpec)))

	spec, err := Load(ctx, store, "postprocessing.toml")
	require.NoError(t, err)
	assert.Len(t, spec.MergePackages, 3)

	spec, err = Load(ctx, store, "postprocessing.yml")
	require.NoError(t, err)
	assert.Len(t, spec.NewPackages, 1)

	_, err = Load(ctx, store, "postprocessing.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnknownFormat))

	_, err = Load(ctx, store, "missing.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidSpec))
}
