//go:build windows

package wasapi

import (
	"runtime"

	"golang.org/x/sys/windows"
)

// platformCapture holds the COM objects an open capture backend owns on
// Windows.
type platformCapture struct {
	device  *iMMDevice
	client  *iAudioClient
	capture *iAudioCaptureClient
}

// openProxy mirrors the playback version but activates the default
// capture endpoint instead of a render one.
func (c *CaptureBackend) openProxy() error {
	enumerator, err := newDeviceEnumerator()
	if err != nil {
		return classifyOpenErr(err)
	}
	defer enumerator.Release()

	var device *iMMDevice
	if c.deviceID == "" {
		device, err = enumerator.GetDefaultAudioEndpoint(eCapture, eConsole)
	} else {
		device, err = enumerator.GetDevice(c.deviceID)
	}
	if err != nil {
		return classifyOpenErr(err)
	}

	v, err := device.Activate(&iidIAudioClient)
	if err != nil {
		device.Release()
		return classifyOpenErr(err)
	}

	c.mu.Lock()
	if c.displayName == "" {
		if entry, perr := probeDevice(device); perr == nil {
			c.displayName = entry.DisplayName
		}
	}
	c.mu.Unlock()

	c.plat.device = device
	c.plat.client = (*iAudioClient)(v)
	return nil
}

const minCaptureBufferTime refTime = 1_000_000 // 100ms floor on requested buffer duration

// resetProxy negotiates the capture format and builds whatever
// channel/sample conversion chain is needed to bridge it to the
// requested output format.
func (c *CaptureBackend) resetProxy() error {
	if c.plat.client != nil {
		c.plat.client.Release()
	}
	v, err := c.plat.device.Activate(&iidIAudioClient)
	if err != nil {
		return classifyOpenErr(err)
	}
	client := (*iAudioClient)(v)
	c.plat.client = client

	c.mu.Lock()
	updateSize := c.format.UpdateSizeFrames
	numUpdates := c.format.NumUpdates
	rate := c.format.SampleRate
	channels := c.format.Channels
	sampleType := c.format.SampleType
	c.mu.Unlock()
	if numUpdates < 1 {
		numUpdates = 1
	}
	if updateSize < 1 {
		updateSize = 1
	}

	bufferTime := requestedBufferTime(updateSize, numUpdates, rate)
	if bufferTime < minCaptureBufferTime {
		bufferTime = minCaptureBufferTime
	}
	updateSize = int(int64(bufferTime) * int64(rate) / 10_000_000 / int64(numUpdates))
	if updateSize < 1 {
		updateSize = 1
	}

	if channels == ChannelAmbi3D {
		return ErrFormatNotSupported
	}
	requested := buildRequestedFormat(channels, sampleType, uint32(rate))

	closest, err := client.IsFormatSupported(shareModeShared, requested)
	if err != nil {
		return err
	}
	offered := requested
	if closest != nil {
		offered = closest
	}

	offeredChannels := channelConfigFromCount(offered.channels)
	monoStereoSwap := (channels == ChannelMono && offeredChannels == ChannelStereo) ||
		(channels == ChannelStereo && offeredChannels == ChannelMono)
	if offeredChannels != channels && !monoStereoSwap {
		return ErrFormatNotSupported
	}

	c.channelConv = nil
	c.sampleConv = nil

	srcType, ok := sourceTypeFromFormat(offered)
	if !ok {
		return ErrFormatNotSupported
	}

	effectiveType := srcType
	effectiveChannels := offeredChannels
	if monoStereoSwap {
		if c.newChannelConv == nil {
			return ErrFormatNotSupported
		}
		c.channelConv = c.newChannelConv(srcType, offeredChannels, channels)
		effectiveType = SampleFloat32
		effectiveChannels = channels
	}

	if int(offered.samplesPerSec) != rate || effectiveType != sampleType {
		if c.newSampleConv == nil {
			return ErrFormatNotSupported
		}
		c.sampleConv = c.newSampleConv(effectiveType, sampleType, effectiveChannels.count(), int(offered.samplesPerSec), rate)
	}

	// srcFrameBytes describes the bytes GetBuffer actually hands the
	// recorder thread: the endpoint's own offered format, independent of
	// whatever the requested output format turns out to be.
	c.convSrcType = srcType
	srcFrameBytes := int(offered.channels) * int(offered.bitsPerSample) / 8
	c.convSrcFrameBytes = srcFrameBytes

	targetBits, _ := bitsAndTagFor(sampleType)
	frameBytes := channels.count() * int(targetBits) / 8

	if err := client.Initialize(shareModeShared, streamFlagsEventCallback, bufferTime, 0, offered); err != nil {
		return err
	}

	bufSize, err := client.GetBufferSize()
	if err != nil {
		return err
	}
	ringCapacity := int(bufSize)
	if want := updateSize * numUpdates; want > ringCapacity {
		ringCapacity = want
	}

	if c.newRing == nil {
		return ErrOutOfMemory
	}
	ring := c.newRing(ringCapacity, frameBytes)
	if ring == nil {
		return ErrOutOfMemory
	}

	if err := client.SetEventHandle(windows.Handle(c.notify)); err != nil {
		return err
	}

	c.mu.Lock()
	c.ring = ring
	c.format.SampleRate = rate
	c.format.Channels = channels
	c.format.SampleType = sampleType
	c.format.FrameSize = frameBytes
	c.format.BufferLenFrames = ringCapacity
	c.format.UpdateSizeFrames = updateSize
	c.format.NumUpdates = numUpdates
	c.mu.Unlock()
	return nil
}

// channelConfigFromCount maps a raw channel count to the two layouts
// the mono/stereo conversion path cares about: 1 resolves to Mono and
// every other count resolves to Stereo, which the caller then rejects
// as a mismatch unless it happens to equal the request.
func channelConfigFromCount(channels uint16) ChannelConfig {
	if channels == 1 {
		return ChannelMono
	}
	return ChannelStereo
}

// sourceTypeFromFormat derives a SampleType from an extensible
// descriptor's sub-format and bit depth.
func sourceTypeFromFormat(f *waveFormatExtensible) (SampleType, bool) {
	isFloat := f.subFormat == subtypeIEEEFloat
	switch {
	case isFloat && f.bitsPerSample == 32:
		return SampleFloat32, true
	case !isFloat && f.bitsPerSample == 8:
		return SampleUInt8, true
	case !isFloat && f.bitsPerSample == 16:
		return SampleInt16, true
	case !isFloat && f.bitsPerSample == 32:
		return SampleInt32, true
	default:
		return 0, false
	}
}

func (c *CaptureBackend) startProxy() error {
	resetEvent(c.notify)

	if err := c.plat.client.Start(); err != nil {
		return err
	}

	v, err := c.plat.client.GetService(&iidIAudioCaptureClient)
	if err != nil {
		c.plat.client.Stop()
		return err
	}
	c.plat.capture = (*iAudioCaptureClient)(v)

	c.killNow.Store(false)
	c.running.Store(true)
	c.recorderDone = make(chan struct{})
	go c.recordProc()
	return nil
}

func (c *CaptureBackend) stopProxy() {
	if !c.running.Load() {
		return
	}
	c.killNow.Store(true)
	<-c.recorderDone
	c.running.Store(false)

	if c.plat.capture != nil {
		c.plat.capture.Release()
		c.plat.capture = nil
	}
	if c.plat.client != nil {
		c.plat.client.Stop()
	}
}

func (c *CaptureBackend) closeProxy() {
	if c.plat.client != nil {
		c.plat.client.Release()
		c.plat.client = nil
	}
	if c.plat.device != nil {
		c.plat.device.Release()
		c.plat.device = nil
	}
}

// recordProc is the capture loop.
func (c *CaptureBackend) recordProc() {
	defer close(c.recorderDone)

	if err := comEnter(); err != nil {
		c.signalDisconnect(err)
		return
	}
	defer comLeave()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	setCurrentThreadRealtimePriority()

	c.mu.Lock()
	srcFrameBytes := c.convSrcFrameBytes
	c.mu.Unlock()

	// scratch holds channel-converter output: at most 2 channels of
	// float32 per source frame.
	var scratch []float32

	for !c.killNow.Load() {
		avail, err := c.plat.capture.GetNextPacketSize()
		if err != nil {
			c.signalDisconnect(err)
			break
		}
		if avail == 0 {
			waitEvent(c.notify)
			continue
		}

		rdata, numFrames, _, err := c.plat.capture.GetBuffer()
		if err != nil {
			c.signalDisconnect(err)
			break
		}

		srcBytes := ptrToBytes(rdata, int(numFrames)*srcFrameBytes)
		if c.channelConv != nil {
			need := int(numFrames) * 2
			if cap(scratch) < need {
				scratch = make([]float32, need)
			}
			n := c.channelConv.Input(srcBytes, scratch[:need], int(numFrames))
			srcBytes = float32SliceToBytes(scratch[:n])
		}

		if err := c.writeToRing(srcBytes, int(numFrames)); err != nil {
			c.plat.capture.ReleaseBuffer(numFrames)
			c.signalDisconnect(err)
			break
		}

		if err := c.plat.capture.ReleaseBuffer(numFrames); err != nil {
			c.signalDisconnect(err)
			break
		}

		waitEvent(c.notify)
	}
}

// writeToRing drains src (numFrames frames, already past any channel
// conversion) into the ring, running it through the sample converter
// first if one is configured.
func (c *CaptureBackend) writeToRing(src []byte, numFrames int) error {
	c.Lock()
	ring := c.ring
	sampleConv := c.sampleConv
	frameSize := c.format.FrameSize
	c.Unlock()
	if ring == nil {
		return ErrNotOpen
	}
	if frameSize <= 0 {
		return ErrNotOpen
	}

	if sampleConv == nil {
		seg1, seg2 := ring.WriteVector()
		writtenBytes := copyFrames(src, seg1, seg2)
		ring.WriteAdvance(writtenBytes / frameSize)
		return nil
	}

	seg1, seg2 := ring.WriteVector()
	srcFrames := numFrames
	total := 0
	if len(seg1) > 0 {
		n := sampleConv.Input(&src, &srcFrames, seg1, len(seg1)/frameSize)
		total += n
	}
	if srcFrames > 0 && len(seg2) > 0 {
		n := sampleConv.Input(&src, &srcFrames, seg2, len(seg2)/frameSize)
		total += n
	}
	ring.WriteAdvance(total)
	return nil
}

// copyFrames copies as much of src as fits across seg1 then seg2,
// returning the number of bytes copied.
func copyFrames(src, seg1, seg2 []byte) int {
	n := copy(seg1, src)
	src = src[n:]
	n2 := copy(seg2, src)
	return n + n2
}

func (c *CaptureBackend) signalDisconnect(reason error) {
	logErrorf("capture recorder: %v", reason)
	if c.disc != nil {
		c.disc.HandleDisconnect(c, reason)
	}
}
