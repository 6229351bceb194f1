//go:build windows

package wasapi

import (
	"time"

	"golang.org/x/sys/windows"
)

// osEvent is an auto-reset Win32 event handle, used as the OS
// notification event bound to the audio/capture client.
type osEvent = windows.Handle

const invalidEvent osEvent = 0

// notifyWaitTimeout is the bound every real-time loop's event wait is
// subject to.
const notifyWaitTimeout = 2 * time.Second

func newAutoResetEvent() (osEvent, error) {
	h, err := windows.CreateEvent(nil, 0, 0, nil)
	if err != nil {
		return invalidEvent, err
	}
	return h, nil
}

// closeEvent closes ev exactly once, guarding against the double-close
// a naive destroy path could otherwise trigger if Destroy runs twice.
func closeEvent(ev *osEvent) {
	if ev == nil || *ev == invalidEvent {
		return
	}
	windows.CloseHandle(*ev)
	*ev = invalidEvent
}

// waitEvent blocks on ev for up to notifyWaitTimeout and reports whether
// it was signaled; a timeout is non-fatal and just lets the caller loop
// back around to check its exit condition.
func waitEvent(ev osEvent) bool {
	ms := uint32(notifyWaitTimeout / time.Millisecond)
	r, err := windows.WaitForSingleObject(windows.Handle(ev), ms)
	if err != nil {
		return false
	}
	if r != windows.WAIT_OBJECT_0 {
		logWarnf("notify event not signaled within %v", notifyWaitTimeout)
		return false
	}
	return true
}

func resetEvent(ev osEvent) {
	windows.ResetEvent(windows.Handle(ev))
}
