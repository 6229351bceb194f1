package wasapi

// Factory owns the proxy worker's lifecycle and is the entry point a
// host library constructs once per process, wrapping the worker's
// lifetime in a plain service object instead of package-level globals.
type Factory struct {
	proxy *Proxy
}

// NewFactory returns an unstarted Factory; call Init before using it.
func NewFactory() *Factory {
	return &Factory{}
}

// Init spawns the proxy worker.
func (f *Factory) Init() error {
	p, err := NewProxy()
	if err != nil {
		return err
	}
	f.proxy = p
	return nil
}

// Deinit tears down the proxy worker and clears both registries.
func (f *Factory) Deinit() {
	if f.proxy == nil {
		return
	}
	f.proxy.Close()
	f.proxy = nil
}

// QuerySupport reports whether flow is supported; this backend always
// supports both directions.
func (f *Factory) QuerySupport(flow Flow) bool {
	return true
}

// Probe enumerates flow's endpoints and returns the flat NUL-separated
// display-name list, double-NUL terminated.
func (f *Factory) Probe(flow Flow) ([]byte, error) {
	if err := f.proxy.Enumerate(flow); err != nil {
		return nil, err
	}
	return f.proxy.registryFor(flow).probeNames(), nil
}

// CreatePlaybackBackend builds a playback backend bound to this
// factory's proxy.
func (f *Factory) CreatePlaybackBackend(mixer Mixer, disc DisconnectHandler, clock DeviceClock) *PlaybackBackend {
	return NewPlaybackBackend(f.proxy, mixer, disc, clock)
}

// CreateCaptureBackend builds a capture backend bound to this factory's
// proxy.
func (f *Factory) CreateCaptureBackend(
	newRing func(capacityFrames, frameBytes int) RingBuffer,
	newChannelConv ChannelConverterFactory,
	newSampleConv SampleConverterFactory,
	disc DisconnectHandler,
	clock DeviceClock,
) *CaptureBackend {
	return NewCaptureBackend(f.proxy, newRing, newChannelConv, newSampleConv, disc, clock)
}
