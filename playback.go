package wasapi

import (
	"sync/atomic"
	"time"
)

// PlaybackBackend is a per-device playback state machine.
// Construct → Open → Reset → Start ⇄ Stop → Destroy; it may be reset
// between stops but never while started.
type PlaybackBackend struct {
	base

	registry *deviceRegistry
	mixer    Mixer
	disc     DisconnectHandler
	clock    DeviceClock

	notify osEvent
	killNow atomic.Bool
	padding atomic.Uint32
	running atomic.Bool

	mixerDone chan struct{}

	// platform-owned handles; opaque to this file, populated/torn down by
	// openProxy/closeProxy in playback_windows.go (or never, on stubs).
	plat platformPlayback
}

// NewPlaybackBackend constructs a playback backend bound to proxy, ready
// for Open. mixer/disc/clock are external collaborators outside this
// backend's scope; disc and clock may be nil (a nil clock reports a zero
// clock time, a nil disc logs and drops the signal).
func NewPlaybackBackend(proxy *Proxy, mixer Mixer, disc DisconnectHandler, clock DeviceClock) *PlaybackBackend {
	return &PlaybackBackend{
		base:     base{proxy: proxy, flow: FlowPlayback},
		registry: &proxy.playback,
		mixer:    mixer,
		disc:     disc,
		clock:    clock,
	}
}

// Open resolves name against the playback registry (display name,
// endpoint GUID, or device-ID string, in that order), creates the
// notify event, and posts Open to the proxy.
func (p *PlaybackBackend) Open(name string) error {
	deviceID := ""
	displayName := ""
	if name != "" {
		entry, ok := p.registry.lookup(name)
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

	p.mu.Lock()
	p.deviceID = deviceID
	p.displayName = displayName
	p.notify = notify
	p.mu.Unlock()

	req := newRequest(opOpen, p)
	if err := p.proxy.post(req); err != nil {
		closeEvent(&notify)
		p.mu.Lock()
		p.notify = invalidEvent
		p.mu.Unlock()
		return ErrInvalidValue
	}
	return nil
}

// Reset posts Reset to the proxy.
func (p *PlaybackBackend) Reset() bool {
	req := newRequest(opReset, p)
	return p.proxy.post(req) == nil
}

// Start posts Start to the proxy. A failed start leaves the backend
// stopped.
func (p *PlaybackBackend) Start() bool {
	req := newRequest(opStart, p)
	return p.proxy.post(req) == nil
}

// Stop posts Stop to the proxy; always succeeds, including when called
// on a never-started or already-stopped backend.
func (p *PlaybackBackend) Stop() {
	req := newRequest(opStop, p)
	p.proxy.post(req)
}

// CaptureSamples is a no-op on playback.
func (p *PlaybackBackend) CaptureSamples(out []byte, frames int) error { return nil }

// AvailableSamples is a no-op on playback.
func (p *PlaybackBackend) AvailableSamples() uint32 { return 0 }

// GetClockLatency reads the device clock and the padding atomic under
// the device lock, converting queued frames to nanoseconds.
func (p *PlaybackBackend) GetClockLatency() (clockNS int64, latencyNS int64) {
	p.Lock()
	defer p.Unlock()

	if p.clock != nil {
		clockNS = p.clock.DeviceClockNS(p)
	}
	rate := p.format.SampleRate
	if rate <= 0 {
		return clockNS, 0
	}
	frames := int64(p.padding.Load())
	latencyNS = frames * int64(time.Second) / int64(rate)
	return clockNS, latencyNS
}

// Destroy posts Close to the proxy and releases the notify event.
func (p *PlaybackBackend) Destroy() {
	req := newRequest(opClose, p)
	p.proxy.post(req)

	p.mu.Lock()
	closeEvent(&p.notify)
	p.mu.Unlock()
}

// DeviceName exposes the resolved device identity for tests and callers
// that need to compare it against a registry entry's display name. It
// falls back to the opaque device-ID string if openProxy hasn't yet
// resolved a friendly name for the default endpoint.
func (p *PlaybackBackend) DeviceName() string {
	p.Lock()
	defer p.Unlock()
	if p.displayName != "" {
		return p.displayName
	}
	return p.deviceID
}
