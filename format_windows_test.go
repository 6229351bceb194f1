//go:build windows

package wasapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func pcmFormat(channels uint16, bits uint16) *waveFormatExtensible {
	return &waveFormatExtensible{
		formatTag:     waveFormatPCM,
		channels:      channels,
		samplesPerSec: 48000,
		bitsPerSample: bits,
		blockAlign:    channels * (bits / 8),
	}
}

func TestMakeExtensibleSetsKnownMasks(t *testing.T) {
	mono, err := makeExtensible(pcmFormat(1, 16))
	require.NoError(t, err)
	assert.Equal(t, maskMono, mono.channelMask)
	assert.Equal(t, waveFormatTagExtensible, mono.formatTag)
	assert.Equal(t, subtypePCM, mono.subFormat)

	stereo, err := makeExtensible(pcmFormat(2, 16))
	require.NoError(t, err)
	assert.Equal(t, maskStereo, stereo.channelMask)
}

func TestMakeExtensibleUnknownChannelCountLeavesMaskUnset(t *testing.T) {
	out, err := makeExtensible(pcmFormat(6, 16))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), out.channelMask)
}

func TestMakeExtensibleRejectsUnknownFormatTag(t *testing.T) {
	bad := pcmFormat(2, 16)
	bad.formatTag = 0x9999
	_, err := makeExtensible(bad)
	assert.ErrorIs(t, err, ErrFormatNotSupported)
}

func TestMakeExtensibleIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		channels := rapid.SampledFrom([]uint16{1, 2}).Draw(t, "channels")
		bits := rapid.SampledFrom([]uint16{8, 16, 32}).Draw(t, "bits")
		tag := rapid.SampledFrom([]uint16{waveFormatPCM, waveFormatIEEEFloat}).Draw(t, "tag")

		in := pcmFormat(channels, bits)
		in.formatTag = tag

		once, err := makeExtensible(in)
		require.NoError(t, err)

		twice, err := makeExtensible(once)
		require.NoError(t, err)

		assert.Equal(t, once.channelMask, twice.channelMask)
		assert.Equal(t, once.subFormat, twice.subFormat)
		assert.Equal(t, once.bitsPerSample, twice.bitsPerSample)
		assert.Equal(t, once.channels, twice.channels)
		assert.Equal(t, once.formatTag, twice.formatTag)
	})
}

func TestChannelMaskTableSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := rapid.SampledFrom([]ChannelConfig{
			ChannelMono, ChannelStereo, ChannelQuad, Channel51, Channel51Rear, Channel61, Channel71,
		}).Draw(t, "cfg")

		mask := channelConfigToMask(cfg)
		back, ok := channelMaskToConfig(mask, uint16(cfg.count()))
		require.True(t, ok)

		// 7.1 and 7.1-wide share no mask collision with this round trip
		// since channelConfigToMask never emits mask71Wide; every other
		// config round-trips to itself exactly.
		assert.Equal(t, cfg, back)
	})
}

func TestChannelMaskUnknownFallsBackToStereo(t *testing.T) {
	cfg, ok := channelMaskToConfig(0xDEADBEEF, 3)
	assert.False(t, ok)
	assert.Equal(t, ChannelStereo, cfg)
}

func TestFoldSampleType(t *testing.T) {
	assert.Equal(t, SampleUInt8, foldSampleType(SampleInt8))
	assert.Equal(t, SampleUInt8, foldSampleType(SampleUInt8))
	assert.Equal(t, SampleInt16, foldSampleType(SampleUInt16))
	assert.Equal(t, SampleInt32, foldSampleType(SampleUInt32))
	assert.Equal(t, SampleFloat32, foldSampleType(SampleFloat32))
}

func TestBuildRequestedFormatDowngradesAmbi3DToStereo(t *testing.T) {
	f := buildRequestedFormat(ChannelAmbi3D, SampleInt16, 48000)
	assert.Equal(t, uint16(2), f.channels)
	assert.Equal(t, maskStereo, f.channelMask)
}
