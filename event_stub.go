//go:build !windows

package wasapi

import "time"

// osEvent stands in for a Win32 event handle on non-Windows builds; no
// real OS object backs it, since enumerateDevices/comEnter never
// actually touch the platform here (see proxy_stub.go).
type osEvent = uintptr

const invalidEvent osEvent = 0

const notifyWaitTimeout = 2 * time.Second

func newAutoResetEvent() (osEvent, error) {
	return invalidEvent, ErrUnsupportedPlatform
}

func closeEvent(ev *osEvent) {
	if ev != nil {
		*ev = invalidEvent
	}
}

func waitEvent(ev osEvent) bool { return false }

func resetEvent(ev osEvent) {}
