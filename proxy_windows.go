//go:build windows

package wasapi

import (
	"errors"
	"syscall"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

// comEnter enters the multi-threaded COM apartment on the calling OS
// thread (the proxy worker's, or a mixer/recorder loop's).
func comEnter() error {
	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		// S_FALSE means COM was already initialized on this thread by a
		// nested call; that is a successful case.
		var oleErr *ole.OleError
		if errors.As(err, &oleErr) && oleErr.Code() == uintptr(syscall.Errno(windows.S_FALSE)) {
			return nil
		}
		return err
	}
	return nil
}

func comLeave() {
	ole.CoUninitialize()
}

// enumerateDevices walks the OS endpoint list for flow and returns it as
// DeviceEntry values, applying the "OpenAL Soft on <friendly name>"
// naming convention.
func enumerateDevices(flow Flow) ([]DeviceEntry, error) {
	enumerator, err := newDeviceEnumerator()
	if err != nil {
		return nil, err
	}
	defer enumerator.Release()

	dataFlow := eRender
	if flow == FlowCapture {
		dataFlow = eCapture
	}

	devices, err := enumerator.EnumAudioEndpoints(dataFlow, deviceStateActive)
	if err != nil {
		return nil, err
	}
	defer devices.Release()

	count, err := devices.GetCount()
	if err != nil {
		return nil, err
	}

	entries := make([]DeviceEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		device, err := devices.Item(i)
		if err != nil {
			logWarnf("enumerate %d: IMMDeviceCollection::Item failed: %v", i, err)
			continue
		}
		entry, err := probeDevice(device)
		device.Release()
		if err != nil {
			logWarnf("enumerate %d: probeDevice failed: %v", i, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// probeDevice reads the friendly name, endpoint GUID, and device-ID string
// off a single endpoint.
func probeDevice(device *iMMDevice) (DeviceEntry, error) {
	id, err := device.GetID()
	if err != nil {
		return DeviceEntry{}, err
	}

	store, err := device.OpenPropertyStore(storeAccessRead)
	if err != nil {
		return DeviceEntry{}, err
	}
	defer store.Release()

	friendly := "Unknown Device Name"
	if name, ok := store.getString(pkeyDeviceFriendlyName); ok {
		friendly = name
	}

	guid := unknownDeviceGUID
	if g, ok := store.getString(pkeyAudioEndpointGUID); ok {
		guid = g
	}

	return DeviceEntry{
		DisplayName:  displayNameFor(friendly),
		EndpointGUID: guid,
		DeviceID:     id,
	}, nil
}
