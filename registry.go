package wasapi

import (
	"fmt"
	"strings"
	"sync"
)

// unknownDeviceGUID is the sentinel used when PKEY_AudioEndpoint_GUID is
// unavailable or carries an unexpected PROPVARIANT type.
const unknownDeviceGUID = "Unknown Device GUID"

// DeviceEntry is one enumerated playback or capture endpoint.
type DeviceEntry struct {
	DisplayName  string
	EndpointGUID string
	DeviceID     string // opaque; reopens the endpoint, never interpreted
}

// deviceRegistry holds one flow's enumerated endpoints. It is mutated only
// by the proxy worker during Enumerate; the RWMutex lets
// library-internal readers (lookup, probeNames) observe a stable snapshot
// without waiting on the proxy for every read.
type deviceRegistry struct {
	mu      sync.RWMutex
	entries []DeviceEntry
}

// replace atomically swaps in a freshly enumerated set of entries,
// de-duplicating display names as entries are added so DisplayName stays
// unique within the list.
func (r *deviceRegistry) replace(raw []DeviceEntry) {
	seen := make(map[string]int, len(raw))
	deduped := make([]DeviceEntry, 0, len(raw))
	for _, e := range raw {
		base := e.DisplayName
		n := seen[base]
		seen[base] = n + 1
		if n > 0 {
			e.DisplayName = fmt.Sprintf("%s #%d", base, n+1)
		}
		deduped = append(deduped, e)
	}

	r.mu.Lock()
	r.entries = deduped
	r.mu.Unlock()
}

func (r *deviceRegistry) clear() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}

func (r *deviceRegistry) snapshot() []DeviceEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DeviceEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// lookup resolves name against display name, endpoint GUID, or device-ID
// string, in that order.
// An empty name never matches; callers treat that as "use the default".
func (r *deviceRegistry) lookup(name string) (DeviceEntry, bool) {
	if name == "" {
		return DeviceEntry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.DisplayName == name {
			return e, true
		}
	}
	for _, e := range r.entries {
		if e.EndpointGUID == name {
			return e, true
		}
	}
	for _, e := range r.entries {
		if e.DeviceID == name {
			return e, true
		}
	}
	return DeviceEntry{}, false
}

// probeNames renders the registry as a flat NUL-separated UTF-8 list for
// Factory.Probe: each display name followed by a NUL, with the whole
// list terminated by an extra NUL (so the final name ends in a double
// NUL, the MULTI_SZ convention the underlying API already follows).
func (r *deviceRegistry) probeNames() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var b strings.Builder
	for _, e := range r.entries {
		b.WriteString(e.DisplayName)
		b.WriteByte(0)
	}
	b.WriteByte(0)
	return []byte(b.String())
}

func displayNameFor(friendly string) string {
	return "OpenAL Soft on " + friendly
}
