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
	"math/bits"
	"sync/atomic"
)

// sampleFifo is a fixed size ring of float32 samples with exactly one
// producer (the device callback) and one consumer (the disk writer).
// The read and write cursors only ever increase; the slot index is the
// cursor masked by the capacity, which is always a power of two.
type sampleFifo struct {
	data  []float32
	mask  uint64
	read  atomic.Uint64
	write atomic.Uint64
}

func newSampleFifo(capacity int) *sampleFifo {
	if capacity < 2 {
		capacity = 2
	}

	size := uint64(1) << bits.Len64(uint64(capacity-1))

	return &sampleFifo{
		data: make([]float32, size),
		mask: size - 1,
	}
}

func (f *sampleFifo) Cap() int {
	return len(f.data)
}

// Len is the number of samples waiting to be read.
func (f *sampleFifo) Len() int {
	return int(f.write.Load() - f.read.Load())
}

func (f *sampleFifo) Free() int {
	return f.Cap() - f.Len()
}

// Write copies all of samples into the ring or nothing at all. It returns
// false when there is not enough room.
func (f *sampleFifo) Write(samples []float32) bool {
	count := uint64(len(samples))
	if count == 0 {
		return true
	}

	w := f.write.Load()
	r := f.read.Load()

	if count > uint64(len(f.data))-(w-r) {
		return false
	}

	start := w & f.mask
	n := copy(f.data[start:], samples)
	copy(f.data, samples[n:])

	f.write.Store(w + count)
	return true
}

// Read moves up to len(dst) samples out of the ring and returns how many
// were copied.
func (f *sampleFifo) Read(dst []float32) int {
	r := f.read.Load()
	w := f.write.Load()

	count := min(uint64(len(dst)), w-r)
	if count == 0 {
		return 0
	}

	start := r & f.mask
	n := copy(dst[:count], f.data[start:])
	copy(dst[n:count], f.data)

	f.read.Store(r + count)
	return int(count)
}
