//go:build windows

package wasapi

// Raw COM vtable bindings for the classic (non-WinRT) WASAPI surface:
// IMMDeviceEnumerator, IMMDeviceCollection, IMMDevice, IPropertyStore,
// IAudioClient, IAudioRenderClient, IAudioCaptureClient. The calling
// convention (windows.NewLazySystemDLL + syscall.Syscall/SyscallN against
// a *_Vtbl struct) follows the oto WASAPI driver's api_wasapi_windows.go
// almost exactly; this file extends it with the interfaces a playback-only
// driver never needed (device collection enumeration, property store
// reads, capture).

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	ole32Dll = windows.NewLazySystemDLL("ole32.dll")

	procCoCreateInstance = ole32Dll.NewProc("CoCreateInstance")
	procPropVariantClear = ole32Dll.NewProc("PropVariantClear")
)

// Well-known CLSIDs/IIDs for the classic WASAPI object model.
var (
	clsidMMDeviceEnumerator = windows.GUID{Data1: 0xbcde0395, Data2: 0xe52f, Data3: 0x467c, Data4: [8]byte{0x8e, 0x3d, 0xc4, 0x57, 0x92, 0x91, 0x69, 0x2e}}
	iidIMMDeviceEnumerator  = windows.GUID{Data1: 0xa95664d2, Data2: 0x9614, Data3: 0x4f35, Data4: [8]byte{0xa7, 0x46, 0xde, 0x8d, 0xb6, 0x36, 0x17, 0xe6}}
	iidIAudioClient         = windows.GUID{Data1: 0x1cb9ad4c, Data2: 0xdbfa, Data3: 0x4c32, Data4: [8]byte{0xb1, 0x78, 0xc2, 0xf5, 0x68, 0xa7, 0x03, 0xb2}}
	iidIAudioRenderClient   = windows.GUID{Data1: 0xf294acfc, Data2: 0x3146, Data3: 0x4483, Data4: [8]byte{0xa7, 0xbf, 0xad, 0xdc, 0xa7, 0xc2, 0x60, 0xe2}}
	iidIAudioCaptureClient  = windows.GUID{Data1: 0xc8adbd64, Data2: 0xe71e, Data3: 0x48a0, Data4: [8]byte{0xa4, 0xde, 0x18, 0x5c, 0x39, 0x5c, 0xd3, 0x17}}

	subtypePCM       = windows.GUID{Data1: 0x00000001, Data2: 0x0000, Data3: 0x0010, Data4: [8]byte{0x80, 0x00, 0x00, 0xaa, 0x00, 0x38, 0x9b, 0x71}}
	subtypeIEEEFloat = windows.GUID{Data1: 0x00000003, Data2: 0x0000, Data3: 0x0010, Data4: [8]byte{0x80, 0x00, 0x00, 0xaa, 0x00, 0x38, 0x9b, 0x71}}
)

// PROPERTYKEYs read off a device's property store.
var (
	pkeyDeviceFriendlyName = propertyKey{fmtid: windows.GUID{Data1: 0xa45c254e, Data2: 0xdf1c, Data3: 0x4efd, Data4: [8]byte{0x80, 0x20, 0x67, 0xd1, 0x46, 0xa8, 0x50, 0xe0}}, pid: 14}
	pkeyAudioEndpointGUID  = propertyKey{fmtid: windows.GUID{Data1: 0x1da5d803, Data2: 0xd492, Data3: 0x4edd, Data4: [8]byte{0x8c, 0x23, 0xe0, 0xc0, 0xff, 0xee, 0x7f, 0x0e}}, pid: 4}
	pkeyFormFactor         = propertyKey{fmtid: windows.GUID{Data1: 0x1da5d803, Data2: 0xd492, Data3: 0x4edd, Data4: [8]byte{0x8c, 0x23, 0xe0, 0xc0, 0xff, 0xee, 0x7f, 0x0e}}, pid: 0}
)

type propertyKey struct {
	fmtid windows.GUID
	pid   uint32
}

const (
	eRender  int32 = 0
	eCapture int32 = 1
	eConsole int32 = 0

	deviceStateActive uint32 = 0x1

	storeAccessRead uint32 = 0x0 // STGM_READ

	clsctxAll uint32 = 23 // INPROC_SERVER|INPROC_HANDLER|LOCAL_SERVER|REMOTE_SERVER

	shareModeShared int32 = 0

	streamFlagsEventCallback uint32 = 0x00040000

	waveFormatPCM           uint16 = 1
	waveFormatIEEEFloat     uint16 = 3
	waveFormatTagExtensible uint16 = 0xfffe

	// endpoint form factors this backend checks for IsHeadphones.
	formFactorHeadphones uint32 = 4
	formFactorHeadset    uint32 = 8

	// PROPVARIANT VARTYPE tags this backend reads (VT_LPWSTR, VT_CLSID,
	// VT_UI4). Anything else falls back to the library's sentinels.
	vtLPWSTR uint16 = 31
	vtCLSID  uint16 = 72
	vtUI4    uint16 = 19
)

func coCreateInstance(clsid, iid *windows.GUID) (unsafe.Pointer, error) {
	var v unsafe.Pointer
	r, _, _ := procCoCreateInstance.Call(
		uintptr(unsafe.Pointer(clsid)), 0, uintptr(clsctxAll), uintptr(unsafe.Pointer(iid)), uintptr(unsafe.Pointer(&v)))
	runtime.KeepAlive(clsid)
	runtime.KeepAlive(iid)
	if hresult(r) != sOK {
		return nil, fmt.Errorf("wasapi: CoCreateInstance failed: %w", hresult(r))
	}
	return v, nil
}

func newDeviceEnumerator() (*iMMDeviceEnumerator, error) {
	v, err := coCreateInstance(&clsidMMDeviceEnumerator, &iidIMMDeviceEnumerator)
	if err != nil {
		return nil, err
	}
	return (*iMMDeviceEnumerator)(v), nil
}

// --- IMMDeviceEnumerator ---

type iMMDeviceEnumerator struct {
	vtbl *iMMDeviceEnumeratorVtbl
}

type iMMDeviceEnumeratorVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	EnumAudioEndpoints                     uintptr
	GetDefaultAudioEndpoint                uintptr
	GetDevice                              uintptr
	RegisterEndpointNotificationCallback   uintptr
	UnregisterEndpointNotificationCallback uintptr
}

func (i *iMMDeviceEnumerator) Release() {
	syscall.Syscall(i.vtbl.Release, 1, uintptr(unsafe.Pointer(i)), 0, 0)
}

func (i *iMMDeviceEnumerator) EnumAudioEndpoints(dataFlow int32, stateMask uint32) (*iMMDeviceCollection, error) {
	var out *iMMDeviceCollection
	r, _, _ := syscall.Syscall6(i.vtbl.EnumAudioEndpoints, 4,
		uintptr(unsafe.Pointer(i)), uintptr(dataFlow), uintptr(stateMask), uintptr(unsafe.Pointer(&out)), 0, 0)
	if hresult(r) != sOK {
		return nil, fmt.Errorf("wasapi: IMMDeviceEnumerator::EnumAudioEndpoints failed: %w", hresult(r))
	}
	return out, nil
}

func (i *iMMDeviceEnumerator) GetDefaultAudioEndpoint(dataFlow, role int32) (*iMMDevice, error) {
	var out *iMMDevice
	r, _, _ := syscall.Syscall6(i.vtbl.GetDefaultAudioEndpoint, 4,
		uintptr(unsafe.Pointer(i)), uintptr(dataFlow), uintptr(role), uintptr(unsafe.Pointer(&out)), 0, 0)
	if hresult(r) != sOK {
		if isFacility(hresult(r), facilityWin32) {
			return nil, fmt.Errorf("%w: %v", ErrDeviceNotFound, hresult(r))
		}
		return nil, fmt.Errorf("wasapi: IMMDeviceEnumerator::GetDefaultAudioEndpoint failed: %w", hresult(r))
	}
	return out, nil
}

func (i *iMMDeviceEnumerator) GetDevice(id string) (*iMMDevice, error) {
	idPtr, err := windows.UTF16PtrFromString(id)
	if err != nil {
		return nil, err
	}
	var out *iMMDevice
	r, _, _ := syscall.Syscall(i.vtbl.GetDevice, 3,
		uintptr(unsafe.Pointer(i)), uintptr(unsafe.Pointer(idPtr)), uintptr(unsafe.Pointer(&out)))
	runtime.KeepAlive(idPtr)
	if hresult(r) != sOK {
		return nil, fmt.Errorf("wasapi: IMMDeviceEnumerator::GetDevice failed: %w", hresult(r))
	}
	return out, nil
}

// --- IMMDeviceCollection ---

type iMMDeviceCollection struct {
	vtbl *iMMDeviceCollectionVtbl
}

type iMMDeviceCollectionVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	GetCount uintptr
	Item     uintptr
}

func (i *iMMDeviceCollection) Release() {
	syscall.Syscall(i.vtbl.Release, 1, uintptr(unsafe.Pointer(i)), 0, 0)
}

func (i *iMMDeviceCollection) GetCount() (uint32, error) {
	var n uint32
	r, _, _ := syscall.Syscall(i.vtbl.GetCount, 2, uintptr(unsafe.Pointer(i)), uintptr(unsafe.Pointer(&n)), 0)
	if hresult(r) != sOK {
		return 0, fmt.Errorf("wasapi: IMMDeviceCollection::GetCount failed: %w", hresult(r))
	}
	return n, nil
}

func (i *iMMDeviceCollection) Item(index uint32) (*iMMDevice, error) {
	var out *iMMDevice
	r, _, _ := syscall.Syscall(i.vtbl.Item, 3, uintptr(unsafe.Pointer(i)), uintptr(index), uintptr(unsafe.Pointer(&out)))
	if hresult(r) != sOK {
		return nil, fmt.Errorf("wasapi: IMMDeviceCollection::Item failed: %w", hresult(r))
	}
	return out, nil
}

// --- IMMDevice ---

type iMMDevice struct {
	vtbl *iMMDeviceVtbl
}

type iMMDeviceVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	Activate          uintptr
	OpenPropertyStore uintptr
	GetId             uintptr
	GetState          uintptr
}

func (i *iMMDevice) Release() {
	syscall.Syscall(i.vtbl.Release, 1, uintptr(unsafe.Pointer(i)), 0, 0)
}

func (i *iMMDevice) Activate(iid *windows.GUID) (unsafe.Pointer, error) {
	var v unsafe.Pointer
	r, _, _ := syscall.Syscall6(i.vtbl.Activate, 5,
		uintptr(unsafe.Pointer(i)), uintptr(unsafe.Pointer(iid)), uintptr(clsctxAll), 0, uintptr(unsafe.Pointer(&v)), 0)
	runtime.KeepAlive(iid)
	if hresult(r) != sOK {
		return nil, fmt.Errorf("wasapi: IMMDevice::Activate failed: %w", hresult(r))
	}
	return v, nil
}

func (i *iMMDevice) OpenPropertyStore(access uint32) (*iPropertyStore, error) {
	var out *iPropertyStore
	r, _, _ := syscall.Syscall(i.vtbl.OpenPropertyStore, 3,
		uintptr(unsafe.Pointer(i)), uintptr(access), uintptr(unsafe.Pointer(&out)))
	if hresult(r) != sOK {
		return nil, fmt.Errorf("wasapi: IMMDevice::OpenPropertyStore failed: %w", hresult(r))
	}
	return out, nil
}

func (i *iMMDevice) GetID() (string, error) {
	var ptr *uint16
	r, _, _ := syscall.Syscall(i.vtbl.GetId, 2, uintptr(unsafe.Pointer(i)), uintptr(unsafe.Pointer(&ptr)), 0)
	if hresult(r) != sOK {
		return "", fmt.Errorf("wasapi: IMMDevice::GetId failed: %w", hresult(r))
	}
	defer windows.CoTaskMemFree(unsafe.Pointer(ptr))
	return windows.UTF16PtrToString(ptr), nil
}

// --- IPropertyStore ---

type iPropertyStore struct {
	vtbl *iPropertyStoreVtbl
}

type iPropertyStoreVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	GetCount uintptr
	GetAt    uintptr
	GetValue uintptr
	SetValue uintptr
	Commit   uintptr
}

func (i *iPropertyStore) Release() {
	syscall.Syscall(i.vtbl.Release, 1, uintptr(unsafe.Pointer(i)), 0, 0)
}

// propVariant mirrors the head of a PROPVARIANT: a 16-bit VARTYPE
// discriminator followed by reserved fields and a union whose first
// pointer-sized slot we read as either a UTF-16 string pointer, a GUID
// pointer, or a uint32, depending on vt.
type propVariant struct {
	vt       uint16
	_        uint16
	_        uint16
	_        uint16
	val      uintptr
	_        [8]byte // padding to the documented PROPVARIANT size
}

func (i *iPropertyStore) getValue(key propertyKey) (propVariant, error) {
	var pv propVariant
	r, _, _ := syscall.Syscall(i.vtbl.GetValue, 3,
		uintptr(unsafe.Pointer(i)), uintptr(unsafe.Pointer(&key)), uintptr(unsafe.Pointer(&pv)))
	if hresult(r) != sOK {
		return propVariant{}, fmt.Errorf("wasapi: IPropertyStore::GetValue failed: %w", hresult(r))
	}
	return pv, nil
}

// getString reads a property expected to carry a string or GUID: any
// PROPVARIANT type other than the expected one is treated as "absent"
// rather than an error, so a caller falls back to its own sentinel.
func (s *iPropertyStore) getString(key propertyKey) (string, bool) {
	pv, err := s.getValue(key)
	if err != nil {
		return "", false
	}
	defer procPropVariantClear.Call(uintptr(unsafe.Pointer(&pv)))

	switch pv.vt {
	case vtLPWSTR:
		ptr := (*uint16)(unsafe.Pointer(pv.val))
		if ptr == nil {
			return "", false
		}
		return windows.UTF16PtrToString(ptr), true
	case vtCLSID:
		guid := (*windows.GUID)(unsafe.Pointer(pv.val))
		if guid == nil {
			return "", false
		}
		return guid.String(), true
	default:
		return "", false
	}
}

func (s *iPropertyStore) getFormFactor() (uint32, bool) {
	pv, err := s.getValue(pkeyFormFactor)
	if err != nil {
		return 0, false
	}
	defer procPropVariantClear.Call(uintptr(unsafe.Pointer(&pv)))
	if pv.vt != vtUI4 {
		return 0, false
	}
	return uint32(pv.val), true
}

// --- IAudioClient ---

type iAudioClient struct {
	vtbl *iAudioClientVtbl
}

type iAudioClientVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	Initialize        uintptr
	GetBufferSize     uintptr
	GetStreamLatency  uintptr
	GetCurrentPadding uintptr
	IsFormatSupported uintptr
	GetMixFormat      uintptr
	GetDevicePeriod   uintptr
	Start             uintptr
	Stop              uintptr
	Reset             uintptr
	SetEventHandle    uintptr
	GetService        uintptr
}

func (i *iAudioClient) Release() {
	syscall.Syscall(i.vtbl.Release, 1, uintptr(unsafe.Pointer(i)), 0, 0)
}

func (i *iAudioClient) Initialize(shareMode int32, streamFlags uint32, bufferDuration, periodicity refTime, format *waveFormatExtensible) error {
	var r uintptr
	if unsafe.Sizeof(uintptr(0)) == 8 {
		r, _, _ = syscall.Syscall9(i.vtbl.Initialize, 7,
			uintptr(unsafe.Pointer(i)), uintptr(shareMode), uintptr(streamFlags),
			uintptr(bufferDuration), uintptr(periodicity), uintptr(unsafe.Pointer(format)), 0, 0, 0)
	} else {
		r, _, _ = syscall.Syscall9(i.vtbl.Initialize, 9,
			uintptr(unsafe.Pointer(i)), uintptr(shareMode), uintptr(streamFlags),
			uintptr(bufferDuration), uintptr(bufferDuration>>32),
			uintptr(periodicity), uintptr(periodicity>>32),
			uintptr(unsafe.Pointer(format)), 0)
	}
	runtime.KeepAlive(format)
	if hresult(r) != sOK {
		return fmt.Errorf("wasapi: IAudioClient::Initialize failed: %w", wrapAudclntErr(r))
	}
	return nil
}

func (i *iAudioClient) GetBufferSize() (uint32, error) {
	var n uint32
	r, _, _ := syscall.Syscall(i.vtbl.GetBufferSize, 2, uintptr(unsafe.Pointer(i)), uintptr(unsafe.Pointer(&n)), 0)
	if hresult(r) != sOK {
		return 0, fmt.Errorf("wasapi: IAudioClient::GetBufferSize failed: %w", wrapAudclntErr(r))
	}
	return n, nil
}

func (i *iAudioClient) GetCurrentPadding() (uint32, error) {
	var n uint32
	r, _, _ := syscall.Syscall(i.vtbl.GetCurrentPadding, 2, uintptr(unsafe.Pointer(i)), uintptr(unsafe.Pointer(&n)), 0)
	if hresult(r) != sOK {
		return 0, fmt.Errorf("wasapi: IAudioClient::GetCurrentPadding failed: %w", wrapAudclntErr(r))
	}
	return n, nil
}

// IsFormatSupported returns (nil, nil) when the format is accepted
// as-is, (closest, nil) when a closest match is offered (S_FALSE),
// or (nil, err) on outright rejection.
func (i *iAudioClient) IsFormatSupported(shareMode int32, format *waveFormatExtensible) (*waveFormatExtensible, error) {
	var closest *waveFormatExtensible
	r, _, _ := syscall.Syscall6(i.vtbl.IsFormatSupported, 4,
		uintptr(unsafe.Pointer(i)), uintptr(shareMode), uintptr(unsafe.Pointer(format)), uintptr(unsafe.Pointer(&closest)), 0, 0)
	runtime.KeepAlive(format)
	switch hresult(r) {
	case sOK:
		return nil, nil
	case sFalse:
		if closest == nil {
			return nil, nil
		}
		out := *closest
		windows.CoTaskMemFree(unsafe.Pointer(closest))
		return &out, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrFormatNotSupported, wrapAudclntErr(r))
	}
}

func (i *iAudioClient) GetMixFormat() (*waveFormatExtensible, error) {
	var f *waveFormatEx
	r, _, _ := syscall.Syscall(i.vtbl.GetMixFormat, 2, uintptr(unsafe.Pointer(i)), uintptr(unsafe.Pointer(&f)), 0)
	if hresult(r) != sOK {
		return nil, fmt.Errorf("wasapi: IAudioClient::GetMixFormat failed: %w", wrapAudclntErr(r))
	}
	defer windows.CoTaskMemFree(unsafe.Pointer(f))
	return extensibleFromWaveFormatEx(f), nil
}

func (i *iAudioClient) GetDevicePeriod() (defaultPeriod, minPeriod refTime, err error) {
	r, _, _ := syscall.Syscall(i.vtbl.GetDevicePeriod, 3,
		uintptr(unsafe.Pointer(i)), uintptr(unsafe.Pointer(&defaultPeriod)), uintptr(unsafe.Pointer(&minPeriod)))
	if hresult(r) != sOK {
		return 0, 0, fmt.Errorf("wasapi: IAudioClient::GetDevicePeriod failed: %w", wrapAudclntErr(r))
	}
	return defaultPeriod, minPeriod, nil
}

func (i *iAudioClient) Start() error {
	r, _, _ := syscall.Syscall(i.vtbl.Start, 1, uintptr(unsafe.Pointer(i)), 0, 0)
	if hresult(r) != sOK {
		return fmt.Errorf("wasapi: IAudioClient::Start failed: %w", wrapAudclntErr(r))
	}
	return nil
}

func (i *iAudioClient) Stop() error {
	r, _, _ := syscall.Syscall(i.vtbl.Stop, 1, uintptr(unsafe.Pointer(i)), 0, 0)
	if hresult(r) != sOK && hresult(r) != sFalse {
		return fmt.Errorf("wasapi: IAudioClient::Stop failed: %w", wrapAudclntErr(r))
	}
	return nil
}

func (i *iAudioClient) SetEventHandle(ev windows.Handle) error {
	r, _, _ := syscall.Syscall(i.vtbl.SetEventHandle, 2, uintptr(unsafe.Pointer(i)), uintptr(ev), 0)
	if hresult(r) != sOK {
		return fmt.Errorf("wasapi: IAudioClient::SetEventHandle failed: %w", wrapAudclntErr(r))
	}
	return nil
}

func (i *iAudioClient) GetService(iid *windows.GUID) (unsafe.Pointer, error) {
	var v unsafe.Pointer
	r, _, _ := syscall.Syscall(i.vtbl.GetService, 3, uintptr(unsafe.Pointer(i)), uintptr(unsafe.Pointer(iid)), uintptr(unsafe.Pointer(&v)))
	runtime.KeepAlive(iid)
	if hresult(r) != sOK {
		return nil, fmt.Errorf("wasapi: IAudioClient::GetService failed: %w", wrapAudclntErr(r))
	}
	return v, nil
}

func wrapAudclntErr(r uintptr) error {
	h := hresult(r)
	if isFacility(h, facilityAudCLNT) {
		return audclntErr(h)
	}
	return h
}

// --- IAudioRenderClient ---

type iAudioRenderClient struct {
	vtbl *iAudioRenderClientVtbl
}

type iAudioRenderClientVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	GetBuffer     uintptr
	ReleaseBuffer uintptr
}

func (i *iAudioRenderClient) Release() {
	syscall.Syscall(i.vtbl.Release, 1, uintptr(unsafe.Pointer(i)), 0, 0)
}

func (i *iAudioRenderClient) GetBuffer(frames uint32) (*byte, error) {
	var data *byte
	r, _, _ := syscall.Syscall(i.vtbl.GetBuffer, 3, uintptr(unsafe.Pointer(i)), uintptr(frames), uintptr(unsafe.Pointer(&data)))
	if hresult(r) != sOK {
		return nil, fmt.Errorf("wasapi: IAudioRenderClient::GetBuffer failed: %w", wrapAudclntErr(r))
	}
	return data, nil
}

func (i *iAudioRenderClient) ReleaseBuffer(frames, flags uint32) error {
	r, _, _ := syscall.Syscall(i.vtbl.ReleaseBuffer, 3, uintptr(unsafe.Pointer(i)), uintptr(frames), uintptr(flags))
	if hresult(r) != sOK {
		return fmt.Errorf("wasapi: IAudioRenderClient::ReleaseBuffer failed: %w", wrapAudclntErr(r))
	}
	return nil
}

// --- IAudioCaptureClient ---

type iAudioCaptureClient struct {
	vtbl *iAudioCaptureClientVtbl
}

type iAudioCaptureClientVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	GetBuffer         uintptr
	ReleaseBuffer     uintptr
	GetNextPacketSize uintptr
}

func (i *iAudioCaptureClient) Release() {
	syscall.Syscall(i.vtbl.Release, 1, uintptr(unsafe.Pointer(i)), 0, 0)
}

func (i *iAudioCaptureClient) GetNextPacketSize() (uint32, error) {
	var n uint32
	r, _, _ := syscall.Syscall(i.vtbl.GetNextPacketSize, 2, uintptr(unsafe.Pointer(i)), uintptr(unsafe.Pointer(&n)), 0)
	if hresult(r) != sOK {
		return 0, fmt.Errorf("wasapi: IAudioCaptureClient::GetNextPacketSize failed: %w", wrapAudclntErr(r))
	}
	return n, nil
}

func (i *iAudioCaptureClient) GetBuffer() (data *byte, numFrames uint32, flags uint32, err error) {
	r, _, _ := syscall.Syscall6(i.vtbl.GetBuffer, 5,
		uintptr(unsafe.Pointer(i)), uintptr(unsafe.Pointer(&data)), uintptr(unsafe.Pointer(&numFrames)), uintptr(unsafe.Pointer(&flags)), 0, 0)
	if hresult(r) != sOK {
		return nil, 0, 0, fmt.Errorf("wasapi: IAudioCaptureClient::GetBuffer failed: %w", wrapAudclntErr(r))
	}
	return data, numFrames, flags, nil
}

func (i *iAudioCaptureClient) ReleaseBuffer(numFrames uint32) error {
	r, _, _ := syscall.Syscall(i.vtbl.ReleaseBuffer, 2, uintptr(unsafe.Pointer(i)), uintptr(numFrames), 0)
	if hresult(r) != sOK {
		return fmt.Errorf("wasapi: IAudioCaptureClient::ReleaseBuffer failed: %w", wrapAudclntErr(r))
	}
	return nil
}

// refTime is a REFERENCE_TIME: a signed 64-bit count of 100ns units.
type refTime int64

// waveFormatEx mirrors WAVEFORMATEX, the format GetMixFormat returns
// before this backend widens it to extensible.
type waveFormatEx struct {
	formatTag      uint16
	channels       uint16
	samplesPerSec  uint32
	avgBytesPerSec uint32
	blockAlign     uint16
	bitsPerSample  uint16
	cbSize         uint16
}

// waveFormatExtensible mirrors WAVEFORMATEXTENSIBLE, the richer
// descriptor this backend always negotiates in.
type waveFormatExtensible struct {
	formatTag      uint16
	channels       uint16
	samplesPerSec  uint32
	avgBytesPerSec uint32
	blockAlign     uint16
	bitsPerSample  uint16
	cbSize         uint16
	validBits      uint16
	channelMask    uint32
	subFormat      windows.GUID
}

// extensibleFromWaveFormatEx widens a raw WAVEFORMATEX into the shape
// makeExtensible expects. When the endpoint already returned a
// WAVE_FORMAT_EXTENSIBLE descriptor (wFormatTag == 0xfffe), COM laid the
// validBits/channelMask/subFormat fields out directly after cbSize in
// the same allocation, so f is reinterpreted in place instead of being
// rebuilt with those fields zeroed.
func extensibleFromWaveFormatEx(f *waveFormatEx) *waveFormatExtensible {
	if f.formatTag == waveFormatTagExtensible {
		ext := *(*waveFormatExtensible)(unsafe.Pointer(f))
		return &ext
	}
	return &waveFormatExtensible{
		formatTag:      f.formatTag,
		channels:       f.channels,
		samplesPerSec:  f.samplesPerSec,
		avgBytesPerSec: f.avgBytesPerSec,
		blockAlign:     f.blockAlign,
		bitsPerSample:  f.bitsPerSample,
		cbSize:         0,
	}
}
