package errors

import (
	stderr "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestError(t *testing.T) {
	e1 := New("cause1")
	e2 := New("cause2").Wrap(e1)
	e := New("dummy").Wrap(e2)
	e3 := e.Unwrap()
	assert.True(t, Is(e, e1))
	assert.True(t, Is(e, e2))
	assert.True(t, e3 == e2)
	assert.Equal(t, "dummy: cause2: cause1", e.Error())
}

func TestWrapKeepsSentinel(t *testing.T) {
	sentinel := New("tree read failure")
	cause := stderr.New("permission denied")

	wrapped := sentinel.Wrap(cause)
	require.True(t, Is(wrapped, sentinel))
	require.True(t, Is(wrapped, cause))
	assert.Equal(t, "tree read failure", sentinel.Error(), "sentinel must not be mutated")

	detailed := sentinel.WrapMessage("path %q", "/usr/bin").Wrap(cause)
	require.True(t, Is(detailed, sentinel))
	assert.Equal(t, `tree read failure: path "/usr/bin": permission denied`, detailed.Error())

	other := New("tree read failure")
	assert.False(t, Is(wrapped, other))
}

func TestWrapWithLog(t *testing.T) {
	sentinel := New("save failed")
	err := sentinel.WrapWithLog(zap.NewNop(), stderr.New("disk full"), zap.String("key", "ledger"))
	require.True(t, Is(err, sentinel))

	var target *Error
	require.True(t, As(err, &target))
	assert.Equal(t, "save failed: disk full", target.Error())
}
