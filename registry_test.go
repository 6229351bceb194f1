package wasapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceRegistryReplaceDeduplicatesNames(t *testing.T) {
	var r deviceRegistry
	r.replace([]DeviceEntry{
		{DisplayName: "OpenAL Soft on Speakers", EndpointGUID: "g1", DeviceID: "d1"},
		{DisplayName: "OpenAL Soft on Speakers", EndpointGUID: "g2", DeviceID: "d2"},
		{DisplayName: "OpenAL Soft on Speakers", EndpointGUID: "g3", DeviceID: "d3"},
	})

	snap := r.snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "OpenAL Soft on Speakers", snap[0].DisplayName)
	assert.Equal(t, "OpenAL Soft on Speakers #2", snap[1].DisplayName)
	assert.Equal(t, "OpenAL Soft on Speakers #3", snap[2].DisplayName)
}

func TestDeviceRegistryLookupOrder(t *testing.T) {
	var r deviceRegistry
	entry := DeviceEntry{DisplayName: "OpenAL Soft on Mic", EndpointGUID: "{guid}", DeviceID: "\\\\?\\device-id"}
	r.replace([]DeviceEntry{entry})

	byName, ok := r.lookup(entry.DisplayName)
	require.True(t, ok)
	assert.Equal(t, entry, byName)

	byGUID, ok := r.lookup(entry.EndpointGUID)
	require.True(t, ok)
	assert.Equal(t, entry, byGUID)

	byID, ok := r.lookup(entry.DeviceID)
	require.True(t, ok)
	assert.Equal(t, entry, byID)

	_, ok = r.lookup("")
	assert.False(t, ok, "empty name must never match")

	_, ok = r.lookup("nonexistent")
	assert.False(t, ok)
}

func TestDeviceRegistryClear(t *testing.T) {
	var r deviceRegistry
	r.replace([]DeviceEntry{{DisplayName: "x"}})
	require.Len(t, r.snapshot(), 1)

	r.clear()
	assert.Empty(t, r.snapshot())
}

func TestDeviceRegistryProbeNamesDoubleNulTerminated(t *testing.T) {
	var r deviceRegistry
	r.replace([]DeviceEntry{
		{DisplayName: "A"},
		{DisplayName: "B"},
	})

	got := r.probeNames()
	want := []byte("A\x00B\x00\x00")
	assert.Equal(t, want, got)
}

func TestDisplayNameFor(t *testing.T) {
	assert.Equal(t, "OpenAL Soft on Speakers", displayNameFor("Speakers"))
}
