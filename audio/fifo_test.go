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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(start int, count int) []float32 {
	out := make([]float32, count)
	for i := range out {
		out[i] = float32(start + i)
	}

	return out
}

func TestSampleFifo_RoundsCapacityUp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 8, newSampleFifo(5).Cap())
	assert.Equal(t, 8, newSampleFifo(8).Cap())
	assert.Equal(t, 2, newSampleFifo(0).Cap())
	assert.Equal(t, 32768, newSampleFifo(32768).Cap())
}

func TestSampleFifo_WriteIsAllOrNothing(t *testing.T) {
	t.Parallel()

	f := newSampleFifo(8)

	require.True(t, f.Write(ramp(0, 6)))
	assert.Equal(t, 6, f.Len())
	assert.Equal(t, 2, f.Free())

	// 3 samples do not fit in the 2 free slots
	assert.False(t, f.Write(ramp(6, 3)))
	assert.Equal(t, 6, f.Len(), "a rejected write must not change the fifo")

	require.True(t, f.Write(ramp(6, 2)))
	assert.Equal(t, 0, f.Free())

	dst := make([]float32, 16)
	n := f.Read(dst)
	require.Equal(t, 8, n)
	assert.Equal(t, ramp(0, 8), dst[:n])
}

func TestSampleFifo_WrapsAround(t *testing.T) {
	t.Parallel()

	f := newSampleFifo(8)
	dst := make([]float32, 5)
	next := 0
	expected := 0

	for range 20 {
		require.True(t, f.Write(ramp(next, 5)))
		next += 5

		n := f.Read(dst)
		require.Equal(t, 5, n)
		assert.Equal(t, ramp(expected, 5), dst[:n])
		expected += 5
	}

	assert.Equal(t, 0, f.Len())
}

func TestSampleFifo_PartialRead(t *testing.T) {
	t.Parallel()

	f := newSampleFifo(16)
	require.True(t, f.Write(ramp(0, 10)))

	dst := make([]float32, 4)
	assert.Equal(t, 4, f.Read(dst))
	assert.Equal(t, ramp(0, 4), dst)
	assert.Equal(t, 4, f.Read(dst))
	assert.Equal(t, ramp(4, 4), dst)
	assert.Equal(t, 2, f.Read(dst))
	assert.Equal(t, ramp(8, 2), dst[:2])
	assert.Equal(t, 0, f.Read(dst))
}

func TestSampleFifo_ConcurrentProducerConsumer(t *testing.T) {
	t.Parallel()

	const total = 100000

	f := newSampleFifo(256)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for next := 0; next < total; {
			count := min(37, total-next)
			if f.Write(ramp(next, count)) {
				next += count
			}
		}
	}()

	received := make([]float32, 0, total)
	dst := make([]float32, 64)

	for len(received) < total {
		n := f.Read(dst)
		received = append(received, dst[:n]...)
	}

	wg.Wait()

	require.Len(t, received, total)
	for i, sample := range received {
		if sample != float32(i) {
			t.Fatalf("sample %d out of order: got %v", i, sample)
		}
	}
}
