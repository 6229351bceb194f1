package wasapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCaptureBackend(t *testing.T) *CaptureBackend {
	t.Helper()
	p := newTestProxy(t)
	return NewCaptureBackend(p, nil, nil, nil, nil, nil)
}

func TestCaptureSamplesWithoutRingReturnsNotOpen(t *testing.T) {
	cb := newTestCaptureBackend(t)
	err := cb.CaptureSamples(make([]byte, 16), 4)
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestCaptureAvailableSamplesWithoutRingIsZero(t *testing.T) {
	cb := newTestCaptureBackend(t)
	assert.Equal(t, uint32(0), cb.AvailableSamples())
}

func TestCaptureOpenUnknownNameFails(t *testing.T) {
	cb := newTestCaptureBackend(t)
	err := cb.Open("does not exist")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestCaptureDestroyWithoutOpenDoesNotPanic(t *testing.T) {
	cb := newTestCaptureBackend(t)
	require.NotPanics(t, func() { cb.Destroy() })
}

func TestCaptureStopWithoutStartIsNoOp(t *testing.T) {
	cb := newTestCaptureBackend(t)
	assert.NotPanics(t, func() { cb.Stop() })
}

// fakeRing is a minimal wasapi.RingBuffer double for exercising
// CaptureSamples/AvailableSamples against a populated ring without any
// platform dependency.
type fakeRing struct {
	data []byte
}

func (f *fakeRing) WriteVector() (seg1, seg2 []byte) { return nil, nil }
func (f *fakeRing) WriteAdvance(frames int)           {}
func (f *fakeRing) ReadSpace() int                    { return len(f.data) }
func (f *fakeRing) Free() int                         { return 0 }
func (f *fakeRing) Read(dst []byte, frames int) (int, error) {
	n := copy(dst, f.data[:frames])
	f.data = f.data[frames:]
	return n, nil
}

func TestCaptureSamplesReadsFromRing(t *testing.T) {
	cb := newTestCaptureBackend(t)
	cb.ring = &fakeRing{data: []byte{1, 2, 3, 4}}

	out := make([]byte, 4)
	require.NoError(t, cb.CaptureSamples(out, 4))
	assert.Equal(t, []byte{1, 2, 3, 4}, out)
	assert.Equal(t, uint32(0), cb.AvailableSamples())
}
