package wasapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlaybackBackend(t *testing.T) *PlaybackBackend {
	t.Helper()
	p := newTestProxy(t)
	return NewPlaybackBackend(p, nil, nil, nil)
}

func TestPlaybackCaptureSamplesAndAvailableSamplesAreNoOps(t *testing.T) {
	pb := newTestPlaybackBackend(t)
	assert.NoError(t, pb.CaptureSamples(make([]byte, 16), 4))
	assert.Equal(t, uint32(0), pb.AvailableSamples())
}

func TestPlaybackGetClockLatencyWithNilClockIsZero(t *testing.T) {
	pb := newTestPlaybackBackend(t)
	clockNS, latencyNS := pb.GetClockLatency()
	assert.Equal(t, int64(0), clockNS)
	assert.Equal(t, int64(0), latencyNS)
}

func TestPlaybackStopWithoutStartIsNoOp(t *testing.T) {
	pb := newTestPlaybackBackend(t)
	assert.NotPanics(t, func() { pb.Stop() })
	assert.NotPanics(t, func() { pb.Stop() })
}

func TestPlaybackOpenUnknownNameFails(t *testing.T) {
	pb := newTestPlaybackBackend(t)
	err := pb.Open("does not exist")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestPlaybackDestroyWithoutOpenDoesNotPanic(t *testing.T) {
	pb := newTestPlaybackBackend(t)
	require.NotPanics(t, func() { pb.Destroy() })
}

func TestPlaybackLockUnlockSerializes(t *testing.T) {
	pb := newTestPlaybackBackend(t)
	pb.Lock()
	unlocked := make(chan struct{})
	go func() {
		pb.Lock()
		pb.Unlock()
		close(unlocked)
	}()
	select {
	case <-unlocked:
		t.Fatal("second Lock should have blocked while the first was held")
	default:
	}
	pb.Unlock()
	<-unlocked
}
