//go:build windows

package wasapi

import (
	"runtime"

	"golang.org/x/sys/windows"
)

// platformPlayback holds the COM objects an open playback backend owns
// on Windows.
type platformPlayback struct {
	device *iMMDevice
	client *iAudioClient
	render *iAudioRenderClient
}

// openProxy activates an endpoint enumerator, picks either the default
// render endpoint or the one matching deviceID, and activates an audio
// client.
func (p *PlaybackBackend) openProxy() error {
	enumerator, err := newDeviceEnumerator()
	if err != nil {
		return classifyOpenErr(err)
	}
	defer enumerator.Release()

	var device *iMMDevice
	if p.deviceID == "" {
		device, err = enumerator.GetDefaultAudioEndpoint(eRender, eConsole)
	} else {
		device, err = enumerator.GetDevice(p.deviceID)
	}
	if err != nil {
		return classifyOpenErr(err)
	}

	v, err := device.Activate(&iidIAudioClient)
	if err != nil {
		device.Release()
		return classifyOpenErr(err)
	}

	p.mu.Lock()
	if p.displayName == "" {
		if entry, perr := probeDevice(device); perr == nil {
			p.displayName = entry.DisplayName
		}
	}
	p.mu.Unlock()

	p.plat.device = device
	p.plat.client = (*iAudioClient)(v)
	return nil
}

// resetProxy negotiates the render format against the endpoint and
// (re)initializes the audio client for it.
func (p *PlaybackBackend) resetProxy() error {
	client := p.plat.client
	if client == nil {
		return ErrInvalidValue
	}

	rawMix, err := client.GetMixFormat()
	if err != nil {
		return ErrInvalidValue
	}
	mix, err := makeExtensible(rawMix)
	if err != nil {
		logWarnf("playback reset: mix format not widenable: %v; keeping requested layout", err)
		mix = rawMix
	}

	rate := p.format.SampleRate
	channels := p.format.Channels
	if !p.format.FrequencyLocked || !p.format.ChannelsLocked {
		if cfg, ok := channelMaskToConfig(mix.channelMask, mix.channels); ok {
			if !p.format.ChannelsLocked {
				channels = cfg
			}
		} else {
			logWarnf("playback reset: unknown mix-format channel mask 0x%x; keeping requested layout", mix.channelMask)
		}
		if !p.format.FrequencyLocked {
			rate = int(mix.samplesPerSec)
		}
	}

	updateSize := p.format.UpdateSizeFrames
	numUpdates := p.format.NumUpdates
	if numUpdates < 2 {
		numUpdates = 2
	}
	bufferTime := requestedBufferTime(updateSize, numUpdates, rate)

	sampleType := p.format.SampleType
	requested := buildRequestedFormat(channels, sampleType, uint32(rate))

	closest, err := client.IsFormatSupported(shareModeShared, requested)
	if err != nil {
		return err
	}
	final := requested
	if closest != nil {
		cfg, st := reparseClosestMatch(closest)
		channels, sampleType = cfg, st
		final = closest
	}

	formFactor, haveFormFactor := uint32(0), false
	if store, serr := p.plat.device.OpenPropertyStore(storeAccessRead); serr == nil {
		formFactor, haveFormFactor = store.getFormFactor()
		store.Release()
	}
	isHeadphones := channels == ChannelStereo && haveFormFactor &&
		(formFactor == formFactorHeadphones || formFactor == formFactorHeadset)

	if err := client.Initialize(shareModeShared, streamFlagsEventCallback, bufferTime, 0, final); err != nil {
		return err
	}

	_, minPeriod, err := client.GetDevicePeriod()
	if err == nil {
		periodFrames := int(int64(minPeriod) * int64(rate) / 10_000_000)
		if periodFrames > 0 && periodFrames < updateSize {
			updateSize = roundToMultiple(updateSize, periodFrames)
		}
	}

	bufSize, err := client.GetBufferSize()
	if err != nil {
		return err
	}
	if updateSize <= 0 {
		updateSize = int(bufSize)
	}
	numUpdates = int(bufSize) / updateSize
	if numUpdates <= 1 {
		numUpdates = 2
	}

	if err := client.SetEventHandle(windows.Handle(p.notify)); err != nil {
		return err
	}

	p.mu.Lock()
	p.format.SampleRate = rate
	p.format.Channels = channels
	p.format.SampleType = sampleType
	bits, _ := bitsAndTagFor(sampleType)
	p.format.FrameSize = int(channels.count()) * int(bits) / 8
	p.format.BufferLenFrames = int(bufSize)
	p.format.UpdateSizeFrames = updateSize
	p.format.NumUpdates = numUpdates
	p.format.IsHeadphones = isHeadphones
	p.mu.Unlock()
	return nil
}

// requestedBufferTime computes ceil(updateSize * numUpdates *
// 10,000,000 / rate), in 100ns units, for IAudioClient.Initialize.
func requestedBufferTime(updateSize, numUpdates, rate int) refTime {
	if rate <= 0 {
		rate = 1
	}
	num := int64(updateSize) * int64(numUpdates) * 10_000_000
	return refTime((num + int64(rate) - 1) / int64(rate))
}

func roundToMultiple(value, multiple int) int {
	if multiple <= 0 {
		return value
	}
	n := (value + multiple/2) / multiple
	if n < 1 {
		n = 1
	}
	return n * multiple
}

// startProxy resets the notify event, starts the audio client, obtains
// the render client service, and launches the mixer thread.
func (p *PlaybackBackend) startProxy() error {
	resetEvent(p.notify)

	if err := p.plat.client.Start(); err != nil {
		return err
	}

	v, err := p.plat.client.GetService(&iidIAudioRenderClient)
	if err != nil {
		p.plat.client.Stop()
		return err
	}
	p.plat.render = (*iAudioRenderClient)(v)

	p.killNow.Store(false)
	p.running.Store(true)
	p.mixerDone = make(chan struct{})
	go p.mixerProc()
	return nil
}

// stopProxy signals the mixer thread and joins it, then releases the
// render client and stops the audio client.
func (p *PlaybackBackend) stopProxy() {
	if !p.running.Load() {
		return
	}
	p.killNow.Store(true)
	<-p.mixerDone
	p.running.Store(false)

	if p.plat.render != nil {
		p.plat.render.Release()
		p.plat.render = nil
	}
	if p.plat.client != nil {
		p.plat.client.Stop()
	}
}

// closeProxy releases the audio client and device objects.
func (p *PlaybackBackend) closeProxy() {
	if p.plat.client != nil {
		p.plat.client.Release()
		p.plat.client = nil
	}
	if p.plat.device != nil {
		p.plat.device.Release()
		p.plat.device = nil
	}
}

// mixerProc is the render loop.
func (p *PlaybackBackend) mixerProc() {
	defer close(p.mixerDone)

	if err := comEnter(); err != nil {
		p.signalDisconnect(err)
		return
	}
	defer comLeave()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	setCurrentThreadRealtimePriority()

	p.mu.Lock()
	updateSize := p.format.UpdateSizeFrames
	bufferFrames := updateSize * p.format.NumUpdates
	p.mu.Unlock()

	for !p.killNow.Load() {
		padding, err := p.plat.client.GetCurrentPadding()
		if err != nil {
			p.signalDisconnect(err)
			break
		}
		p.padding.Store(padding)

		free := bufferFrames - int(padding)
		if free < updateSize {
			waitEvent(p.notify)
			continue
		}

		length := free - (free % updateSize)
		data, err := p.plat.render.GetBuffer(uint32(length))
		if err != nil {
			p.signalDisconnect(err)
			break
		}

		out := ptrToBytes(data, length*p.format.FrameSize)
		if p.mixer != nil {
			p.Lock()
			p.mixer.Mix(p, out, length)
			p.Unlock()
		}

		if err := p.plat.render.ReleaseBuffer(uint32(length), 0); err != nil {
			p.signalDisconnect(err)
			break
		}
		p.padding.Store(padding + uint32(length))
	}

	p.padding.Store(0)
}

func (p *PlaybackBackend) signalDisconnect(reason error) {
	logErrorf("playback mixer: %v", reason)
	if p.disc != nil {
		p.disc.HandleDisconnect(p, reason)
	}
}
