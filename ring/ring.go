// Package ring provides a lock-free single-producer/single-consumer
// circular buffer in fixed-size frame units, satisfying the
// wasapi.RingBuffer contract: one writer (a capture backend's recorder
// thread) and one reader (a caller's CaptureSamples), no further
// synchronization needed between them.
package ring

import (
	"fmt"
	"sync/atomic"
)

// Ring is a byte-granular SPSC ring buffer addressed in whole frames.
// Capacity is rounded up to the next power of two so wraparound reduces
// to a mask, keeping both Read and the recorder's writes wait-free.
type Ring struct {
	buf        []byte
	frameBytes int
	mask       uint64 // capacityFrames-1; capacity is always a power of two

	writeCursor atomic.Uint64 // frames written, ever-increasing
	readCursor  atomic.Uint64 // frames read, ever-increasing
}

// New allocates a ring able to hold at least capacityFrames frames of
// frameBytes bytes each.
func New(capacityFrames, frameBytes int) *Ring {
	if capacityFrames <= 0 {
		capacityFrames = 1
	}
	if frameBytes <= 0 {
		frameBytes = 1
	}
	cap := nextPow2(uint64(capacityFrames))
	return &Ring{
		buf:        make([]byte, cap*uint64(frameBytes)),
		frameBytes: frameBytes,
		mask:       cap - 1,
	}
}

func nextPow2(n uint64) uint64 {
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

func (r *Ring) capacityFrames() uint64 {
	return r.mask + 1
}

// ReadSpace reports the number of frames currently readable.
func (r *Ring) ReadSpace() int {
	w := r.writeCursor.Load()
	rd := r.readCursor.Load()
	return int(w - rd)
}

// Free reports the number of frames currently writable.
func (r *Ring) Free() int {
	return int(r.capacityFrames()) - r.ReadSpace()
}

// WriteVector returns up to two contiguous byte segments available for
// writing, wrapping at the end of the underlying buffer. The writer
// must call WriteAdvance with however many frames it actually filled.
func (r *Ring) WriteVector() (seg1, seg2 []byte) {
	free := r.Free()
	if free <= 0 {
		return nil, nil
	}
	w := r.writeCursor.Load()
	start := (w & r.mask) * uint64(r.frameBytes)
	total := uint64(free) * uint64(r.frameBytes)

	toEnd := uint64(len(r.buf)) - start
	if total <= toEnd {
		return r.buf[start : start+total], nil
	}
	return r.buf[start:], r.buf[:total-toEnd]
}

// WriteAdvance commits frames worth of bytes written via WriteVector's
// most recent segments.
func (r *Ring) WriteAdvance(frames int) {
	if frames <= 0 {
		return
	}
	r.writeCursor.Add(uint64(frames))
}

// Read copies frames frames into dst, returning an error if fewer than
// frames frames are available. dst must be at least frames*frameBytes
// long.
func (r *Ring) Read(dst []byte, frames int) (int, error) {
	if frames <= 0 {
		return 0, nil
	}
	avail := r.ReadSpace()
	if avail < frames {
		return 0, fmt.Errorf("ring: requested %d frames, only %d available", frames, avail)
	}

	rd := r.readCursor.Load()
	start := (rd & r.mask) * uint64(r.frameBytes)
	total := uint64(frames) * uint64(r.frameBytes)
	toEnd := uint64(len(r.buf)) - start

	if total <= toEnd {
		copy(dst, r.buf[start:start+total])
	} else {
		n := copy(dst, r.buf[start:])
		copy(dst[n:], r.buf[:total-toEnd])
	}

	r.readCursor.Add(uint64(frames))
	return frames, nil
}
