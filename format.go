//go:build windows

package wasapi

import "golang.org/x/sys/windows"

// Channel-mask bitfields for the mono/stereo/quad/5.1/5.1-rear/6.1/7.1/
// 7.1-wide layouts, built from the SPEAKER_* constants in the Windows SDK.
const (
	speakerFrontLeft          uint32 = 0x1
	speakerFrontRight         uint32 = 0x2
	speakerFrontCenter        uint32 = 0x4
	speakerLowFrequency       uint32 = 0x8
	speakerBackLeft           uint32 = 0x10
	speakerBackRight          uint32 = 0x20
	speakerFrontLeftOfCenter  uint32 = 0x40
	speakerFrontRightOfCenter uint32 = 0x80
	speakerBackCenter         uint32 = 0x100
	speakerSideLeft           uint32 = 0x200
	speakerSideRight          uint32 = 0x400

	maskMono       uint32 = speakerFrontCenter
	maskStereo     uint32 = speakerFrontLeft | speakerFrontRight
	maskQuad       uint32 = speakerFrontLeft | speakerFrontRight | speakerBackLeft | speakerBackRight
	mask51         uint32 = speakerFrontLeft | speakerFrontRight | speakerFrontCenter | speakerLowFrequency | speakerSideLeft | speakerSideRight
	mask51Rear     uint32 = speakerFrontLeft | speakerFrontRight | speakerFrontCenter | speakerLowFrequency | speakerBackLeft | speakerBackRight
	mask61         uint32 = speakerFrontLeft | speakerFrontRight | speakerFrontCenter | speakerLowFrequency | speakerBackCenter | speakerSideLeft | speakerSideRight
	mask71         uint32 = speakerFrontLeft | speakerFrontRight | speakerFrontCenter | speakerLowFrequency | speakerBackLeft | speakerBackRight | speakerSideLeft | speakerSideRight
	mask71Wide     uint32 = speakerFrontLeft | speakerFrontRight | speakerFrontCenter | speakerLowFrequency | speakerBackLeft | speakerBackRight | speakerFrontLeftOfCenter | speakerFrontRightOfCenter
)

// channelMaskToConfig maps a channel mask to a ChannelConfig. Unknown
// combinations fall back to stereo.
func channelMaskToConfig(mask uint32, channels uint16) (ChannelConfig, bool) {
	switch mask {
	case maskMono:
		return ChannelMono, true
	case maskStereo:
		return ChannelStereo, true
	case maskQuad:
		return ChannelQuad, true
	case mask51:
		return Channel51, true
	case mask51Rear:
		return Channel51Rear, true
	case mask61:
		return Channel61, true
	case mask71:
		return Channel71, true
	case mask71Wide:
		return Channel71, true
	}
	return ChannelStereo, false
}

// channelConfigToMask is the inverse table used when this backend builds
// its own extensible descriptor from a requested ChannelConfig.
func channelConfigToMask(cfg ChannelConfig) uint32 {
	switch cfg {
	case ChannelMono:
		return maskMono
	case ChannelStereo:
		return maskStereo
	case ChannelQuad:
		return maskQuad
	case Channel51:
		return mask51
	case Channel51Rear:
		return mask51Rear
	case Channel61:
		return mask61
	case Channel71:
		return mask71
	default:
		return maskStereo
	}
}

// maskByChannelCount derives a default mask purely from a channel count:
// 1 maps to mono, 2 to stereo, and higher counts leave the mask unset.
// It returns (mask, ok); ok is false for counts the backend has no
// default mask for.
func maskByChannelCount(channels uint16) (uint32, bool) {
	switch channels {
	case 1:
		return maskMono, true
	case 2:
		return maskStereo, true
	default:
		return 0, false
	}
}

// subFormatFor returns the sub-format GUID for a WAVE_FORMAT_PCM or
// WAVE_FORMAT_IEEE_FLOAT tag.
func subFormatFor(formatTag uint16) (windows.GUID, bool) {
	switch formatTag {
	case waveFormatPCM:
		return subtypePCM, true
	case waveFormatIEEEFloat:
		return subtypeIEEEFloat, true
	}
	return windows.GUID{}, false
}

// makeExtensible takes an endpoint-supplied waveform descriptor whose
// wFormatTag is PCM, IEEE_FLOAT, or already EXTENSIBLE, and produces a
// canonical extensible descriptor. It is idempotent: calling it again
// on its own output reproduces the same fields.
func makeExtensible(in *waveFormatExtensible) (*waveFormatExtensible, error) {
	out := &waveFormatExtensible{
		channels:       in.channels,
		samplesPerSec:  in.samplesPerSec,
		avgBytesPerSec: in.avgBytesPerSec,
		blockAlign:     in.blockAlign,
		bitsPerSample:  in.bitsPerSample,
		validBits:      in.bitsPerSample,
		formatTag:      waveFormatTagExtensible,
		cbSize:         22,
	}

	switch in.formatTag {
	case waveFormatTagExtensible:
		out.subFormat = in.subFormat
		out.channelMask = in.channelMask
		out.validBits = in.validBits
		if out.validBits == 0 {
			out.validBits = in.bitsPerSample
		}
		return out, nil
	case waveFormatPCM:
		out.subFormat = subtypePCM
	case waveFormatIEEEFloat:
		out.subFormat = subtypeIEEEFloat
	default:
		return nil, ErrFormatNotSupported
	}

	if mask, ok := maskByChannelCount(in.channels); ok {
		out.channelMask = mask
	} else {
		logWarnf("makeExtensible: no default channel mask for %d channels; leaving mask unset", in.channels)
		out.channelMask = 0
	}
	return out, nil
}

// foldSampleType applies the library's fold rule: 8-bit variants fold
// to unsigned, 16/32-bit variants fold to signed. Float is left alone.
func foldSampleType(t SampleType) SampleType {
	switch t {
	case SampleInt8, SampleUInt8:
		return SampleUInt8
	case SampleInt16, SampleUInt16:
		return SampleInt16
	case SampleInt32, SampleUInt32:
		return SampleInt32
	default:
		return t
	}
}

// bitsAndTagFor returns the bit depth and WAVEFORMATEX tag for a folded
// sample type: 8-bit maps to PCM 8, 16-bit to PCM 16, 32-bit to PCM 32,
// and float to IEEE_FLOAT 32.
func bitsAndTagFor(t SampleType) (bits uint16, tag uint16) {
	switch foldSampleType(t) {
	case SampleUInt8:
		return 8, waveFormatPCM
	case SampleInt16:
		return 16, waveFormatPCM
	case SampleInt32:
		return 32, waveFormatPCM
	case SampleFloat32:
		return 32, waveFormatIEEEFloat
	default:
		return 16, waveFormatPCM
	}
}

// buildRequestedFormat translates the library's (channels, sample type,
// rate) triple into an extensible descriptor this backend will offer to
// IsFormatSupported. Ambi3D downgrades to stereo for playback; callers
// that must reject Ambi3D instead (capture) check before calling this.
func buildRequestedFormat(channels ChannelConfig, sampleType SampleType, rate uint32) *waveFormatExtensible {
	if channels == ChannelAmbi3D {
		channels = ChannelStereo
	}
	bits, tag := bitsAndTagFor(sampleType)
	numChannels := uint16(channels.count())
	blockAlign := numChannels * (bits / 8)

	sub := subtypePCM
	if tag == waveFormatIEEEFloat {
		sub = subtypeIEEEFloat
	}

	return &waveFormatExtensible{
		formatTag:      waveFormatTagExtensible,
		channels:       numChannels,
		samplesPerSec:  rate,
		avgBytesPerSec: rate * uint32(blockAlign),
		blockAlign:     blockAlign,
		bitsPerSample:  bits,
		cbSize:         22,
		validBits:      bits,
		channelMask:    channelConfigToMask(channels),
		subFormat:      sub,
	}
}

// reparseClosestMatch re-derives (channels, sample type) from a format
// IsFormatSupported offered as a closest match:
// unknown channel masks fall back to stereo; unsupported bit depths
// fall back to 16-bit PCM.
func reparseClosestMatch(f *waveFormatExtensible) (ChannelConfig, SampleType) {
	cfg, ok := channelMaskToConfig(f.channelMask, f.channels)
	if !ok {
		cfg = ChannelStereo
	}

	isFloat := f.subFormat == subtypeIEEEFloat
	switch {
	case isFloat && f.bitsPerSample == 32:
		return cfg, SampleFloat32
	case !isFloat && f.bitsPerSample == 8:
		return cfg, SampleUInt8
	case !isFloat && f.bitsPerSample == 16:
		return cfg, SampleInt16
	case !isFloat && f.bitsPerSample == 32:
		return cfg, SampleInt32
	default:
		return cfg, SampleInt16
	}
}
