package wasapi

import "sync"

// SampleType mirrors the library's internal (channels, sample-type, rate)
// triple for the sample component.
type SampleType int

const (
	SampleInt8 SampleType = iota
	SampleUInt8
	SampleInt16
	SampleUInt16
	SampleInt32
	SampleUInt32
	SampleFloat32
)

// ChannelConfig is the library's requested channel layout, including the
// Ambi3D layout that downgrades to stereo on playback and is rejected on
// capture.
type ChannelConfig int

const (
	ChannelMono ChannelConfig = iota
	ChannelStereo
	ChannelQuad
	Channel51
	Channel51Rear
	Channel61
	Channel71
	ChannelAmbi3D
)

func (c ChannelConfig) count() int {
	switch c {
	case ChannelMono:
		return 1
	case ChannelStereo, ChannelAmbi3D:
		return 2
	case ChannelQuad:
		return 4
	case Channel51, Channel51Rear:
		return 6
	case Channel61:
		return 7
	case Channel71:
		return 8
	default:
		return 2
	}
}

// Flow identifies which endpoint direction a device entry or request
// belongs to.
type Flow int

const (
	FlowPlayback Flow = iota
	FlowCapture
)

// Format is the negotiated stream format recorded on a backend after
// reset_proxy completes.
type Format struct {
	SampleRate      int
	Channels        ChannelConfig
	SampleType      SampleType
	FrameSize       int // bytes per frame across all channels
	BufferLenFrames int // total buffer length, in frames (endpoint buffer on playback, ring capacity on capture)
	UpdateSizeFrames int // period size requested/negotiated, in frames
	NumUpdates      int
	IsHeadphones    bool

	// FrequencyLocked/ChannelsLocked: when true, resetProxy must not
	// override SampleRate/Channels from the endpoint's own mix format.
	FrequencyLocked bool
	ChannelsLocked  bool
}

// Backend is the small capability set implemented by both
// PlaybackBackend and CaptureBackend.
type Backend interface {
	Open(name string) error
	Reset() bool
	Start() bool
	Stop()
	CaptureSamples(out []byte, frames int) error
	AvailableSamples() uint32
	GetClockLatency() (clockNS int64, latencyNS int64)
	Lock()
	Unlock()
	Destroy()
}

// base holds the fields common to playback and capture backends: the
// device lock the mixer/converters must be called under, the owning
// proxy, identity, and the negotiated format.
type base struct {
	mu sync.Mutex

	proxy       *Proxy
	deviceID    string // empty selects the system default endpoint
	displayName string // friendly name, resolved at Open time
	flow        Flow
	format      Format
}

func (b *base) Lock()   { b.mu.Lock() }
func (b *base) Unlock() { b.mu.Unlock() }
