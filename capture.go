package wasapi

import "sync/atomic"

// ChannelConverterFactory builds a ChannelConverter for a mono↔stereo
// widen/mix-down.
type ChannelConverterFactory func(srcType SampleType, srcChannels, dstChannels ChannelConfig) ChannelConverter

// SampleConverterFactory builds a SampleConverter for a rate/type change.
type SampleConverterFactory func(srcType, dstType SampleType, channels, srcRate, dstRate int) SampleConverter

// CaptureBackend is a per-device capture state machine.
// Lifecycle matches PlaybackBackend, except Open transparently performs
// an initial Reset before returning to the caller.
type CaptureBackend struct {
	base

	registry *deviceRegistry
	disc     DisconnectHandler
	clock    DeviceClock

	newRing        func(capacityFrames, frameBytes int) RingBuffer
	newChannelConv ChannelConverterFactory
	newSampleConv  SampleConverterFactory

	notify  osEvent
	killNow atomic.Bool
	running atomic.Bool

	recorderDone chan struct{}

	ring        RingBuffer
	channelConv ChannelConverter
	sampleConv  SampleConverter

	// convSrcType/convSrcFrameBytes describe the endpoint's own offered
	// format: the raw frames GetBuffer hands the recorder thread, before
	// any channelConv/sampleConv stage.
	convSrcType      SampleType
	convSrcFrameBytes int

	plat platformCapture
}

// NewCaptureBackend constructs a capture backend bound to proxy.
// newRing builds the production ring buffer (see the ring package);
// newChannelConv/newSampleConv build the external conversion helpers
// (either may be nil if the host never needs that conversion path).
// disc/clock may be nil.
func NewCaptureBackend(proxy *Proxy, newRing func(capacityFrames, frameBytes int) RingBuffer, newChannelConv ChannelConverterFactory, newSampleConv SampleConverterFactory, disc DisconnectHandler, clock DeviceClock) *CaptureBackend {
	return &CaptureBackend{
		base:           base{proxy: proxy, flow: FlowCapture},
		registry:       &proxy.capture,
		disc:           disc,
		clock:          clock,
		newRing:        newRing,
		newChannelConv: newChannelConv,
		newSampleConv:  newSampleConv,
	}
}

// Open resolves name, creates the notify event, posts Open, and then
// transparently posts Reset before returning.
func (c *CaptureBackend) Open(name string) error {
	deviceID := ""
	displayName := ""
	if name != "" {
		entry, ok := c.registry.lookup(name)
		if !ok {
			return ErrDeviceNotFound
		}
		deviceID = entry.DeviceID
		displayName = entry.DisplayName
	}

	notify, err := newAutoResetEvent()
	if err != nil {
		return ErrInvalidValue
	}

	c.mu.Lock()
	c.deviceID = deviceID
	c.displayName = displayName
	c.notify = notify
	c.mu.Unlock()

	req := newRequest(opOpen, c)
	if err := c.proxy.post(req); err != nil {
		closeEvent(&notify)
		c.mu.Lock()
		c.notify = invalidEvent
		c.mu.Unlock()
		return ErrInvalidValue
	}

	if err := c.proxy.post(newRequest(opReset, c)); err != nil {
		c.proxy.post(newRequest(opClose, c))
		return classifyOpenErr(err)
	}
	return nil
}

func (c *CaptureBackend) Reset() bool {
	return c.proxy.post(newRequest(opReset, c)) == nil
}

func (c *CaptureBackend) Start() bool {
	return c.proxy.post(newRequest(opStart, c)) == nil
}

func (c *CaptureBackend) Stop() {
	c.proxy.post(newRequest(opStop, c))
}

// AvailableSamples reads the ring's readable frame count, in frames of
// the negotiated device frame size.
func (c *CaptureBackend) AvailableSamples() uint32 {
	c.Lock()
	defer c.Unlock()
	if c.ring == nil {
		return 0
	}
	return uint32(c.ring.ReadSpace())
}

// CaptureSamples reads exactly frames frames from the ring into out
//; out must be sized frames*FrameSize bytes.
func (c *CaptureBackend) CaptureSamples(out []byte, frames int) error {
	c.Lock()
	defer c.Unlock()
	if c.ring == nil {
		return ErrNotOpen
	}
	n, err := c.ring.Read(out, frames)
	if err != nil || n != frames {
		return ErrInsufficientSamples
	}
	return nil
}

// GetClockLatency mirrors playback's accessor; capture has no padding
// concept, so latency reflects only the device clock.
func (c *CaptureBackend) GetClockLatency() (clockNS int64, latencyNS int64) {
	c.Lock()
	defer c.Unlock()
	if c.clock != nil {
		clockNS = c.clock.DeviceClockNS(c)
	}
	return clockNS, 0
}

func (c *CaptureBackend) Destroy() {
	c.proxy.post(newRequest(opClose, c))

	c.mu.Lock()
	closeEvent(&c.notify)
	c.mu.Unlock()
}

// DeviceName mirrors PlaybackBackend.DeviceName: the resolved friendly
// name when Open matched a registry entry, or the default endpoint's
// name once openProxy resolves one, falling back to the device-ID
// string otherwise.
func (c *CaptureBackend) DeviceName() string {
	c.Lock()
	defer c.Unlock()
	if c.displayName != "" {
		return c.displayName
	}
	return c.deviceID
}
