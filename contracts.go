package wasapi

// This file declares the narrow contracts a host library implements:
// the mixer, the disconnect signal, the device clock, and the channel/
// sample converters. The backend only ever calls through these interfaces
// and never assumes anything about the implementation behind them.

// Mixer pulls frameCount frames of already-mixed audio from the library's
// internal mixer into out, which is sized for the negotiated device
// format. Mix is always invoked while the backend's device lock is held.
type Mixer interface {
	Mix(device *PlaybackBackend, out []byte, frameCount int)
}

// DisconnectHandler is notified when a fatal runtime failure tears a
// device down after the stream went live. It is called at
// most once per mixer/recorder run; the loop exits after signaling.
type DisconnectHandler interface {
	HandleDisconnect(device Backend, reason error)
}

// DeviceClock reports the device's own running clock, in nanoseconds, for
// GetClockLatency's clock_time component.
type DeviceClock interface {
	DeviceClockNS(device Backend) int64
}

// ChannelConverter widens or mixes down between mono and stereo, always
// emitting float32 samples. Input converts frames of src
// (in the converter's configured source sample type) into dst, returning
// the number of destination floats written (frames * dst channel count).
type ChannelConverter interface {
	Input(src []byte, dst []float32, frames int) int
}

// SampleConverter performs sample-rate and/or sample-type conversion.
// Input consumes from *src, advancing *src and *srcFrames by the number
// of source frames it consumed, and returns the number of frames written
// into dst (capacity dstCapacityFrames).
type SampleConverter interface {
	Input(src *[]byte, srcFrames *int, dst []byte, dstCapacityFrames int) int
}

// RingBuffer is a lock-free SPSC ring: one writer (the recorder thread),
// one reader (CaptureSamples), no further synchronization required
// between them.
type RingBuffer interface {
	// WriteVector returns up to two contiguous byte segments available
	// for writing, wrapping at the end of the underlying buffer.
	WriteVector() (seg1, seg2 []byte)
	// WriteAdvance commits frames worth of bytes written via WriteVector.
	WriteAdvance(frames int)
	// Read copies frames frames into dst, returning an error if fewer
	// than frames frames are available.
	Read(dst []byte, frames int) (int, error)
	// ReadSpace reports the number of frames currently readable.
	ReadSpace() int
	// Free reports the number of frames currently writable.
	Free() int
}
