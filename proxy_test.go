package wasapi

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTarget is a proxyTarget test double recording which proxy-side
// methods fired, so tests can assert the worker's dispatch without any
// real COM/OS dependency (exercised the same way on every platform via
// proxy_stub.go's no-op comEnter/comLeave/enumerateDevices).
type fakeTarget struct {
	openErr  error
	resetErr error
	startErr error

	opened, reset, started, stopped, closed int
}

func (f *fakeTarget) openProxy() error  { f.opened++; return f.openErr }
func (f *fakeTarget) resetProxy() error { f.reset++; return f.resetErr }
func (f *fakeTarget) startProxy() error { f.started++; return f.startErr }
func (f *fakeTarget) stopProxy()        { f.stopped++ }
func (f *fakeTarget) closeProxy()       { f.closed++ }

func newTestProxy(t *testing.T) *Proxy {
	t.Helper()
	p, err := NewProxy()
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestProxyOpenEnterApartmentOnce(t *testing.T) {
	p := newTestProxy(t)

	target := &fakeTarget{}
	require.NoError(t, p.post(newRequest(opOpen, target)))
	assert.Equal(t, 1, target.opened)
	assert.Equal(t, 1, p.liveDevices)

	req := newRequest(opClose, target)
	require.NoError(t, p.post(req))
	assert.Equal(t, 1, target.closed)
	assert.Equal(t, 0, p.liveDevices)
}

func TestProxyOpenFailureReleasesApartmentReference(t *testing.T) {
	p := newTestProxy(t)

	failing := errors.New("activate failed")
	target := &fakeTarget{openErr: failing}
	err := p.post(newRequest(opOpen, target))
	assert.ErrorIs(t, err, failing)

	// A subsequent successful open on a fresh target must still work,
	// proving the failed open didn't leak a phantom apartment reference.
	ok := &fakeTarget{}
	require.NoError(t, p.post(newRequest(opOpen, ok)))
	require.NoError(t, p.post(newRequest(opClose, ok)))
}

func TestProxyStopAlwaysReportsSuccess(t *testing.T) {
	p := newTestProxy(t)
	target := &fakeTarget{}
	require.NoError(t, p.post(newRequest(opStop, target)))
	assert.Equal(t, 1, target.stopped)
}

func TestProxyEveryRequestGetsExactlyOneReply(t *testing.T) {
	p := newTestProxy(t)
	target := &fakeTarget{}

	for i := 0; i < 50; i++ {
		req := newRequest(opReset, target)
		p.queue <- req
		select {
		case err := <-req.reply:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("worker should reply to every accepted request")
		}
	}
	assert.Equal(t, 50, target.reset)
}

func TestProxyCloseClearsRegistries(t *testing.T) {
	p, err := NewProxy()
	require.NoError(t, err)

	p.playback.replace([]DeviceEntry{{DisplayName: "x"}})
	p.capture.replace([]DeviceEntry{{DisplayName: "y"}})

	p.Close()

	assert.Empty(t, p.playback.snapshot())
	assert.Empty(t, p.capture.snapshot())
}

func TestProxyLiveDevicesNeverNegative(t *testing.T) {
	p := newTestProxy(t)
	// Closing a device that was never opened must not drive the counter
	// negative.
	require.NoError(t, p.post(newRequest(opClose, &fakeTarget{})))
	assert.GreaterOrEqual(t, p.liveDevices, 0)
}
