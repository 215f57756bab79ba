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
	"math"
	"path/filepath"
	"testing"
	"time"

	"playrec/waveform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkCounter writes a constant to every output channel and sums the input.
type chunkCounter struct {
	calls     int
	frames    int
	maxFrames int
	inputSum  float64
}

func (c *chunkCounter) AboutToStart(sampleRate float64, channelCount int) {}

func (c *chunkCounter) Stopped() {}

func (c *chunkCounter) Process(input [][]float32, output [][]float32, frames int) {
	c.calls++
	c.frames += frames
	c.maxFrames = max(c.maxFrames, frames)

	for i := range frames {
		for _, channel := range input {
			c.inputSum += float64(channel[i])
		}

		for _, channel := range output {
			channel[i] = 0.25
		}
	}
}

func newTestMalgoDevice(inputs int, outputs int, cb Callback) *MalgoDevice {
	d := &MalgoDevice{
		config:   DeviceConfig{InputChannels: inputs, OutputChannels: outputs},
		callback: cb,
	}
	d.allocateBuffers(minBufferFrames)

	return d
}

func interleavedBytes(frames int, channels int, value float32) []byte {
	buf := make([]byte, frames*channels*bytesPerSample)
	for offset := 0; offset < len(buf); offset += bytesPerSample {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(value))
	}

	return buf
}

func assertAllSamples(t *testing.T, buf []byte, expected float32) {
	t.Helper()

	for offset := 0; offset < len(buf); offset += bytesPerSample {
		sample := math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
		if sample != expected {
			t.Fatalf("sample at byte %d = %f, expected %f", offset, sample, expected)
		}
	}
}

func TestMalgoDevice_LongPeriodWithoutInputs(t *testing.T) {
	t.Parallel()

	cb := &chunkCounter{}
	d := newTestMalgoDevice(0, 2, cb)

	output := make([]byte, 8192*2*bytesPerSample)
	require.NotPanics(t, func() { d.onData(output, nil, 8192) })

	assert.Equal(t, 8192, cb.frames)
	assert.Equal(t, 2, cb.calls)
	assert.Equal(t, minBufferFrames, cb.maxFrames)
	assertAllSamples(t, output, 0.25)
}

func TestMalgoDevice_LongPeriodDuplex(t *testing.T) {
	t.Parallel()

	cb := &chunkCounter{}
	d := newTestMalgoDevice(1, 2, cb)

	const frames = 10000

	input := interleavedBytes(frames, 1, 1)
	output := make([]byte, frames*2*bytesPerSample)
	require.NotPanics(t, func() { d.onData(output, input, frames) })

	assert.Equal(t, frames, cb.frames)
	assert.Equal(t, 3, cb.calls)
	assert.LessOrEqual(t, cb.maxFrames, minBufferFrames)
	assert.InDelta(t, float64(frames), cb.inputSum, 1e-9)
	assertAllSamples(t, output, 0.25)

	// buffers are never regrown on the audio thread
	assert.Len(t, d.inputs[0], minBufferFrames)
}

func TestMalgoDevice_OnDataDoesNotAllocate(t *testing.T) {
	d := newTestMalgoDevice(2, 2, &chunkCounter{})

	input := interleavedBytes(9000, 2, 0.5)
	output := make([]byte, 9000*2*bytesPerSample)

	allocs := testing.AllocsPerRun(20, func() { d.onData(output, input, 9000) })
	assert.Zero(t, allocs)
}

func TestMalgoDevice_LongPeriodIsRecordedInFull(t *testing.T) {
	t.Parallel()

	r := NewRecorder(NewDeviceStream(), waveform.New(512, 10*time.Second), RecorderOptions{
		FifoFrames: 1 << 15,
		Logger:     discardLogger,
	})
	r.AboutToStart(testSampleRate, 1)
	t.Cleanup(func() { _ = r.Stop() })

	path := filepath.Join(t.TempDir(), "take.wav")
	require.NoError(t, r.Start(path))

	d := newTestMalgoDevice(1, 2, r)
	output := interleavedBytes(10000, 2, 0.75)
	d.onData(output, interleavedBytes(10000, 1, 0.5), 10000)

	// output is silenced even past the first chunk
	assertAllSamples(t, output, 0)

	require.NoError(t, r.Stop())
	assert.Equal(t, int64(10000), r.Status().Writer.FramesWritten)

	_, samples := readWav(t, path)
	assert.Len(t, samples, 10000)
}
