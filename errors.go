package wasapi

import (
	"errors"
	"fmt"
)

// Public sentinel errors returned across the backend's upward contract.
// Internally, HRESULTs are preserved for diagnostics and wrapped with %w
// so callers can still errors.Is against the Windows-level cause.
var (
	ErrInvalidValue        = errors.New("wasapi: invalid value")
	ErrOutOfMemory         = errors.New("wasapi: out of memory")
	ErrDeviceNotFound      = errors.New("wasapi: device not found")
	ErrFormatNotSupported  = errors.New("wasapi: format not supported")
	ErrUnsupportedPlatform = errors.New("wasapi: backend not supported on this platform")
	ErrNotOpen             = errors.New("wasapi: device not open")
	ErrAlreadyStarted      = errors.New("wasapi: device already started")
	ErrInsufficientSamples = errors.New("wasapi: insufficient captured samples")
)

// hresult wraps a raw Windows HRESULT value so it can be compared with
// errors.Is against the facility-specific sentinels below, mirroring the
// oto WASAPI driver's _AUDCLNT_ERR/_WIN32_ERR wrapping.
type hresult uint32

const (
	sOK    hresult = 0x00000000
	sFalse hresult = 0x00000001
)

func (h hresult) ok() bool {
	return h == sOK
}

func (h hresult) Error() string {
	return fmt.Sprintf("HRESULT(0x%08X)", uint32(h))
}

// facility bits, per the Windows HRESULT layout: bit 31 set, bits 16-30
// carry the facility code.
const (
	facilityWin32   = 7
	facilityAudCLNT = 0x889
)

func isFacility(h hresult, facility uint32) bool {
	return uint32(h)&0xffff0000 == (1<<31)|(facility<<16)
}

// audclntErr classifies the well-known AUDCLNT_E_* codes this backend
// reacts to directly; anything else is surfaced as an opaque hresult.
type audclntErr hresult

const (
	audclntErrNotInitialized       audclntErr = 0x88890001
	audclntErrDeviceInvalidated    audclntErr = 0x88890004
	audclntErrBufferTooLarge       audclntErr = 0x88890005
	audclntErrBufferError          audclntErr = 0x88890006
	audclntErrResourcesInvalidated audclntErr = 0x88890026
	audclntErrDeviceInUse          audclntErr = 0x8889000A
)

func (e audclntErr) Error() string {
	switch e {
	case audclntErrDeviceInvalidated:
		return "AUDCLNT_E_DEVICE_INVALIDATED"
	case audclntErrResourcesInvalidated:
		return "AUDCLNT_E_RESOURCES_INVALIDATED"
	case audclntErrNotInitialized:
		return "AUDCLNT_E_NOT_INITIALIZED"
	case audclntErrBufferTooLarge:
		return "AUDCLNT_E_BUFFER_TOO_LARGE"
	case audclntErrBufferError:
		return "AUDCLNT_E_BUFFER_ERROR"
	case audclntErrDeviceInUse:
		return "AUDCLNT_E_DEVICE_IN_USE"
	default:
		return fmt.Sprintf("AUDCLNT_ERR(0x%08X)", uint32(e))
	}
}

// classifyOpenErr turns a raw HRESULT failure from an open/reset call
// into one of the library's public sentinels. A failure that already
// carries one of those sentinels (ring allocation's ErrOutOfMemory) is
// passed through unchanged instead of being re-wrapped as a generic
// invalid-value error.
func classifyOpenErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrOutOfMemory) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidValue, err)
}
