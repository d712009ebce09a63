package pkgdb

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/oneconcern/chunkmap/pkg/errors"
	"github.com/oneconcern/chunkmap/pkg/model"
	"github.com/oneconcern/chunkmap/pkg/pkgdb/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRPM struct {
	mx      sync.Mutex
	calls   [][]string
	qa      string
	files   map[string]string
	changes map[string]string
	fail    string
}

func (f *fakeRPM) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mx.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mx.Unlock()

	if len(args) < 3 || args[0] != "--dbpath" {
		return nil, fmt.Errorf("unexpected args: %v", args)
	}
	args = args[2:]
	last := args[len(args)-1]
	if last == f.fail {
		return nil, fmt.Errorf("exit status 1")
	}

	switch {
	case args[0] == "-ql":
		return []byte(f.files[last]), nil
	case last == "-a":
		return []byte(f.qa), nil
	case strings.Contains(args[2], "CHANGELOGTIME"):
		return []byte(f.changes[last]), nil
	default:
		return nil, fmt.Errorf("unexpected query: %v", args)
	}
}

func newFakeRPM() *fakeRPM {
	return &fakeRPM{
		qa: "bash-5.2.26-3.fc40.x86_64,bash,5.2.26,bash-5.2.26-3.fc40.src.rpm,8212345\n" +
			"gpg-pubkey-a15b79cc-63d04c2c,gpg-pubkey,a15b79cc,(none),0\n",
		files: map[string]string{
			"bash-5.2.26-3.fc40.x86_64":     "/usr/bin/bash\n/usr/bin/sh\n",
			"gpg-pubkey-a15b79cc-63d04c2c": "(contains no files)\n",
		},
		changes: map[string]string{
			"bash-5.2.26-3.fc40.x86_64": "1706529600\n1690000000\n",
		},
	}
}

func TestRPMPackages(t *testing.T) {
	fake := newFakeRPM()
	db, err := Open(BackendRPM, WithSysroot("/sysroot"), WithRunner(fake.run), Concurrency(2))
	require.NoError(t, err)

	pkgs, err := db.Packages(context.Background())
	require.NoError(t, err)
	require.Len(t, pkgs, 2)

	assert.Equal(t, model.Package{
		Identifier: "bash-5.2.26-3.fc40.x86_64",
		Name:       "bash",
		Version:    "5.2.26",
		Source:     "bash-5.2.26-3.fc40.src.rpm",
		Size:       8212345,
		Files:      []string{"/usr/bin/bash", "/usr/bin/sh"},
	}, pkgs[0])
	assert.Equal(t, "(none)", pkgs[1].Source)
	assert.Empty(t, pkgs[1].Files)

	require.NotEmpty(t, fake.calls)
	assert.Equal(t, []string{DefaultRPMBinary, "--dbpath", "/sysroot/usr/share/rpm"}, fake.calls[0][:3])
}

func TestRPMChanges(t *testing.T) {
	fake := newFakeRPM()
	db := NewRPM("/var/lib/rpm", WithRunner(fake.run))

	changes, err := db.Changes(context.Background(), model.Package{Identifier: "bash-5.2.26-3.fc40.x86_64"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1706529600, 1690000000}, changes)

	changes, err = db.Changes(context.Background(), model.Package{Identifier: "gpg-pubkey-a15b79cc-63d04c2c"})
	require.NoError(t, err)
	assert.Empty(t, changes)

	fake.changes["broken"] = "yesterday\n"
	_, err = db.Changes(context.Background(), model.Package{Identifier: "broken"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnexpectedOutput))
}

func TestRPMErrors(t *testing.T) {
	t.Run("malformed line", func(t *testing.T) {
		fake := newFakeRPM()
		fake.qa = "bash,5.2\n"
		_, err := NewRPM("/db", WithRunner(fake.run)).Packages(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrUnexpectedOutput))
	})

	t.Run("malformed size", func(t *testing.T) {
		fake := newFakeRPM()
		fake.qa = "bash-1,bash,1,bash-1.src.rpm,big\n"
		_, err := NewRPM("/db", WithRunner(fake.run)).Packages(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrUnexpectedOutput))
	})

	t.Run("file query fails", func(t *testing.T) {
		fake := newFakeRPM()
		fake.fail = "bash-5.2.26-3.fc40.x86_64"
		_, err := NewRPM("/db", WithRunner(fake.run)).Packages(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrQuery))
		assert.Contains(t, err.Error(), "-ql bash-5.2.26-3.fc40.x86_64")
	})
}

func TestOpenBackends(t *testing.T) {
	_, err := Open(BackendALPM)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnknownBackend))

	_, err = Open(Backend("dpkg"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnknownBackend))

	_, err = Open(BackendJSON)
	require.Error(t, err)
}
