//go:build !windows

package wasapi

// On non-Windows hosts the proxy worker still runs (so Factory.init
// succeeds and tests of the channel/registry plumbing can run on any
// platform), but nothing ever calls into COM: enumerateDevices always
// returns an empty list, and comEnter/comLeave are no-ops.

func comEnter() error { return nil }

func comLeave() {}

func enumerateDevices(flow Flow) ([]DeviceEntry, error) {
	return nil, nil
}
