//go:build !windows

package wasapi

// platformPlayback/platformCapture carry no state on non-Windows builds;
// every error-returning proxyTarget method below reports the platform as
// unsupported (stopProxy/closeProxy are no-ops), so the module still
// builds and links on non-Windows targets. Factory.Init and Probe still
// succeed there (Probe lists no devices); Open fails with ErrInvalidValue
// because newAutoResetEvent reports ErrUnsupportedPlatform.
type platformPlayback struct{}

type platformCapture struct{}

func (p *PlaybackBackend) openProxy() error  { return ErrUnsupportedPlatform }
func (p *PlaybackBackend) resetProxy() error { return ErrUnsupportedPlatform }
func (p *PlaybackBackend) startProxy() error { return ErrUnsupportedPlatform }
func (p *PlaybackBackend) stopProxy()        {}
func (p *PlaybackBackend) closeProxy()       {}

func (c *CaptureBackend) openProxy() error  { return ErrUnsupportedPlatform }
func (c *CaptureBackend) resetProxy() error { return ErrUnsupportedPlatform }
func (c *CaptureBackend) startProxy() error { return ErrUnsupportedPlatform }
func (c *CaptureBackend) stopProxy()        {}
func (c *CaptureBackend) closeProxy()       {}

func setCurrentThreadRealtimePriority() {}

func ptrToBytes(p *byte, length int) []byte { return nil }

func float32SliceToBytes(f []float32) []byte { return nil }
