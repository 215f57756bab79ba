// =================================================================================
//
//			fox-audio - https://www.foxhollow.cc/projects/fox-audio/
//
//		 Fox Audio is a simple CLI utility for recording audio straight to
//	  disk while drawing a live waveform of the take as it is captured
//
//		 Copyright (c) 2024 Steve Cross <flip@foxhollow.cc>
//
//			Licensed under the Apache License, Version 2.0 (the "License");
//			you may not use this file except in compliance with the License.
//			You may obtain a copy of the License at
//
//			     http://www.apache.org/licenses/LICENSE-2.0
//
//			Unless required by applicable law or agreed to in writing, software
//			distributed under the License is distributed on an "AS IS" BASIS,
//			WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//			See the License for the specific language governing permissions and
//			limitations under the License.
//
// =================================================================================
package audio

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

// Callback receives audio from a Device. Process is called on the device's
// own thread with one non-interleaved slice per channel.
type Callback interface {
	AboutToStart(sampleRate float64, channelCount int)
	Process(input [][]float32, output [][]float32, frames int)
	Stopped()
}

type Device interface {
	Start(cb Callback) error
	Stop() error
	Close() error
}

type DeviceConfig struct {
	SampleRate      int
	InputChannels   int
	OutputChannels  int
	FramesPerPeriod int
}

const (
	// per channel buffers never hold less than this many frames
	minBufferFrames = 4096

	bytesPerSample = 4
)

// MalgoDevice is a full duplex miniaudio device delivering float32 samples.
type MalgoDevice struct {
	config DeviceConfig
	logger *slog.Logger

	ctx    *malgo.AllocatedContext
	device *malgo.Device

	lock     sync.Mutex
	callback Callback
	stopped  atomic.Bool

	inputs       [][]float32
	outputs      [][]float32
	bufferFrames int
}

func NewMalgoDevice(config DeviceConfig, logger *slog.Logger) (*MalgoDevice, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debug("miniaudio: " + message)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: initializing audio context: %w", ErrDeviceFailure, err)
	}

	return &MalgoDevice{
		config: config,
		logger: logger,
		ctx:    ctx,
	}, nil
}

func (d *MalgoDevice) Start(cb Callback) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.device != nil {
		return fmt.Errorf("%w: device already started", ErrDeviceFailure)
	}

	deviceType := malgo.Duplex
	if d.config.InputChannels == 0 {
		deviceType = malgo.Playback
	}

	deviceConfig := malgo.DefaultDeviceConfig(deviceType)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = uint32(d.config.InputChannels)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(max(1, d.config.OutputChannels))
	deviceConfig.SampleRate = uint32(d.config.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(d.config.FramesPerPeriod)

	d.callback = cb
	d.allocateBuffers(max(d.config.FramesPerPeriod, minBufferFrames))

	device, err := malgo.InitDevice(d.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: d.onData,
		Stop: d.onStop,
	})
	if err != nil {
		return fmt.Errorf("%w: initializing device: %w", ErrDeviceFailure, err)
	}

	d.stopped.Store(false)
	cb.AboutToStart(float64(device.SampleRate()), d.config.InputChannels)

	if err := device.Start(); err != nil {
		device.Uninit()
		d.notifyStopped()
		return fmt.Errorf("%w: starting device: %w", ErrDeviceFailure, err)
	}

	d.device = device

	d.logger.Info(fmt.Sprintf("Audio device started: %d Hz, %d in / %d out", device.SampleRate(), d.config.InputChannels, d.config.OutputChannels))

	return nil
}

func (d *MalgoDevice) Stop() error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.device == nil {
		return nil
	}

	err := d.device.Stop()
	d.device.Uninit()
	d.device = nil
	d.notifyStopped()

	if err != nil {
		return fmt.Errorf("%w: stopping device: %w", ErrDeviceFailure, err)
	}

	return nil
}

func (d *MalgoDevice) Close() error {
	err := d.Stop()

	if d.ctx != nil {
		if uninitErr := d.ctx.Uninit(); uninitErr != nil && err == nil {
			err = fmt.Errorf("%w: uninitializing context: %w", ErrDeviceFailure, uninitErr)
		}
		d.ctx.Free()
		d.ctx = nil
	}

	return err
}

func (d *MalgoDevice) allocateBuffers(frames int) {
	d.bufferFrames = frames

	d.inputs = make([][]float32, d.config.InputChannels)
	for ch := range d.inputs {
		d.inputs[ch] = make([]float32, frames)
	}

	d.outputs = make([][]float32, d.config.OutputChannels)
	for ch := range d.outputs {
		d.outputs[ch] = make([]float32, frames)
	}
}

// onData runs on the miniaudio thread and never allocates. A period longer
// than the buffers, which happens when the backend ignores the requested
// period size, is handed to the callback in buffer sized chunks.
func (d *MalgoDevice) onData(pOutput []byte, pInput []byte, frameCount uint32) {
	remaining := int(frameCount)

	if d.bufferFrames == 0 || d.callback == nil {
		clear(pOutput)
		return
	}

	inputStride := bytesPerSample * len(d.inputs)
	outputStride := bytesPerSample * len(d.outputs)

	for remaining > 0 {
		frames := min(remaining, d.bufferFrames)

		deinterleave(pInput, d.inputs, frames)
		d.callback.Process(d.inputs, d.outputs, frames)
		interleave(d.outputs, pOutput, frames)

		pInput = pInput[min(len(pInput), frames*inputStride):]
		pOutput = pOutput[min(len(pOutput), frames*outputStride):]
		remaining -= frames
	}
}

// onStop also fires when the device goes away underneath us.
func (d *MalgoDevice) onStop() {
	d.notifyStopped()
}

func (d *MalgoDevice) notifyStopped() {
	if d.stopped.CompareAndSwap(false, true) && d.callback != nil {
		d.callback.Stopped()
	}
}

func deinterleave(src []byte, dst [][]float32, frames int) {
	channels := len(dst)
	if channels == 0 {
		return
	}

	frames = min(frames, len(src)/(bytesPerSample*channels), len(dst[0]))

	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			offset := (i*channels + ch) * bytesPerSample
			dst[ch][i] = math.Float32frombits(binary.LittleEndian.Uint32(src[offset:]))
		}
	}
}

func interleave(src [][]float32, dst []byte, frames int) {
	channels := len(src)
	if channels == 0 {
		clear(dst)
		return
	}

	frames = min(frames, len(dst)/(bytesPerSample*channels), len(src[0]))

	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			offset := (i*channels + ch) * bytesPerSample
			binary.LittleEndian.PutUint32(dst[offset:], math.Float32bits(src[ch][i]))
		}
	}
}
