package wasapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryInitDeinit(t *testing.T) {
	f := NewFactory()
	require.NoError(t, f.Init())
	f.Deinit()
}

func TestFactoryQuerySupportAlwaysTrue(t *testing.T) {
	f := NewFactory()
	require.NoError(t, f.Init())
	defer f.Deinit()

	assert.True(t, f.QuerySupport(FlowPlayback))
	assert.True(t, f.QuerySupport(FlowCapture))
}

func TestFactoryProbeReturnsDoubleNulTerminatedList(t *testing.T) {
	f := NewFactory()
	require.NoError(t, f.Init())
	defer f.Deinit()

	names, err := f.Probe(FlowPlayback)
	require.NoError(t, err)
	// enumerateDevices on this platform/stub returns no entries, so the
	// list degenerates to a single terminating NUL.
	assert.Equal(t, []byte{0}, names)
}

func TestFactoryCreateBackendsBindToProxy(t *testing.T) {
	f := NewFactory()
	require.NoError(t, f.Init())
	defer f.Deinit()

	pb := f.CreatePlaybackBackend(nil, nil, nil)
	require.NotNil(t, pb)
	assert.Same(t, f.proxy, pb.proxy)

	cb := f.CreateCaptureBackend(nil, nil, nil, nil, nil)
	require.NotNil(t, cb)
	assert.Same(t, f.proxy, cb.proxy)
}
