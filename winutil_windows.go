//go:build windows

package wasapi

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32Dll = windows.NewLazySystemDLL("kernel32.dll")

	procSetThreadPriority = kernel32Dll.NewProc("SetThreadPriority")
	procGetCurrentThread  = kernel32Dll.NewProc("GetCurrentThread")
)

const threadPriorityTimeCritical = 15

// setCurrentThreadRealtimePriority raises the calling thread's priority
// for the mixer/recorder real-time loops. Failure is non-fatal: the loop
// still runs, just not at elevated priority.
func setCurrentThreadRealtimePriority() {
	h, _, _ := procGetCurrentThread.Call()
	procSetThreadPriority.Call(h, uintptr(threadPriorityTimeCritical))
}

// ptrToBytes views a COM-owned buffer of length bytes as a Go slice
// without copying. The buffer's lifetime is the render/capture client's,
// not Go's GC, so callers must not retain the slice past ReleaseBuffer.
func ptrToBytes(p *byte, length int) []byte {
	if p == nil || length <= 0 {
		return nil
	}
	return unsafe.Slice(p, length)
}

// float32SliceToBytes reinterprets a []float32 as its underlying bytes,
// used when a ChannelConverter's float output feeds either the ring
// directly or a SampleConverter.
func float32SliceToBytes(f []float32) []byte {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), len(f)*4)
}
