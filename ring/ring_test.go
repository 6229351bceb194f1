package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingWriteReadRoundTrip(t *testing.T) {
	r := New(16, 2) // 16 frames of 2 bytes (mono 16-bit)

	seg1, seg2 := r.WriteVector()
	require.NotEmpty(t, seg1)
	n := copy(seg1, []byte{1, 0, 2, 0, 3, 0})
	_ = seg2
	r.WriteAdvance(3)

	assert.Equal(t, 3, r.ReadSpace())
	assert.Equal(t, n, 6)

	out := make([]byte, 6)
	got, err := r.Read(out, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, []byte{1, 0, 2, 0, 3, 0}, out)
	assert.Equal(t, 0, r.ReadSpace())
}

func TestRingReadInsufficientFrames(t *testing.T) {
	r := New(8, 4)
	_, err := r.Read(make([]byte, 16), 4)
	assert.Error(t, err)
}

func TestRingFreeShrinksAsWriteAdvances(t *testing.T) {
	r := New(4, 1) // rounds up to power of two already
	assert.Equal(t, 4, r.Free())

	r.WriteAdvance(4)
	assert.Equal(t, 0, r.Free())
	assert.Equal(t, 4, r.ReadSpace())
}

func TestRingWrapsAcrossTwoSegments(t *testing.T) {
	r := New(4, 1)

	// Write two frames and drain one, so the free region runs from the
	// write cursor past the end of the underlying buffer and wraps.
	buf := make([]byte, 4)
	seg1, _ := r.WriteVector()
	copy(seg1, []byte{1, 2})
	r.WriteAdvance(2)

	_, err := r.Read(buf[:1], 1)
	require.NoError(t, err)

	seg1, seg2 := r.WriteVector()
	total := len(seg1) + len(seg2)
	assert.Equal(t, 3, total)
	assert.NotEmpty(t, seg2)
	if len(seg1) > 0 {
		seg1[0] = 9
	}
	if len(seg2) > 0 {
		seg2[0] = 9
	}
	r.WriteAdvance(total)
	assert.Equal(t, 4, r.ReadSpace())
}
