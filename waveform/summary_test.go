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
package waveform

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sine fills a block with a sine of the given period, continuing from
// sample offset start.
func sine(start int64, frames int, period float64, channels int) [][]float32 {
	block := make([][]float32, channels)
	for ch := range block {
		block[ch] = make([]float32, frames)
		for i := range frames {
			phase := 2 * math.Pi * float64(start+int64(i)) / period
			block[ch][i] = float32(math.Sin(phase)) / float32(ch+1)
		}
	}

	return block
}

func fill(s *Summary, blocks int, frames int, channels int) int64 {
	var cursor int64
	for range blocks {
		s.AddBlock(cursor, sine(cursor, frames, 1000, channels), frames)
		cursor += int64(frames)
	}

	return cursor
}

func TestSummary_WindowSizeIsPowerOfTwo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 512, New(500, time.Second).WindowSize())
	assert.Equal(t, 256, New(256, time.Second).WindowSize())
	assert.Equal(t, DefaultWindowSize, New(0, time.Second).WindowSize())
}

func TestSummary_LevelZeroHoldsWindowExtremes(t *testing.T) {
	t.Parallel()

	s := New(4, time.Second)
	s.Reset(1, 1000)

	s.AddBlock(0, [][]float32{{0.1, -0.2, 0.3, 0.0, 0.5, 0.5, -0.9, 0.2, 0.7}}, 9)

	level := s.Level(0, 0)
	require.Len(t, level, 2, "the ninth sample is still pending")
	assert.Equal(t, MinMax{Min: -0.2, Max: 0.3}, level[0])
	assert.Equal(t, MinMax{Min: -0.9, Max: 0.5}, level[1])

	// a window split across blocks is folded the same way
	s.AddBlock(9, [][]float32{{-0.1, 0.0, 0.1}}, 3)
	level = s.Level(0, 0)
	require.Len(t, level, 3)
	assert.Equal(t, MinMax{Min: -0.1, Max: 0.7}, level[2])

	assert.Equal(t, int64(12), s.TotalSamples())
	assert.InDelta(t, 0.012, s.TotalLength(), 1e-12)
}

func TestSummary_CoarseLevelsBoundFinerLevels(t *testing.T) {
	t.Parallel()

	s := New(16, 10*time.Second)
	s.Reset(2, 8000)

	fill(s, 97, 173, 2)

	for ch := range 2 {
		for lvl := 1; lvl < s.Levels(); lvl++ {
			coarse := s.Level(ch, lvl)
			fine := s.Level(ch, lvl-1)

			require.Len(t, coarse, len(fine)/2, "channel %d level %d", ch, lvl)

			for i, pair := range coarse {
				for _, child := range fine[2*i : 2*i+2] {
					assert.LessOrEqual(t, pair.Min, child.Min)
					assert.GreaterOrEqual(t, pair.Max, child.Max)
				}

				assert.Equal(t, min(fine[2*i].Min, fine[2*i+1].Min), pair.Min)
				assert.Equal(t, max(fine[2*i].Max, fine[2*i+1].Max), pair.Max)
			}
		}
	}
}

func TestSummary_ChannelsAreIndependent(t *testing.T) {
	t.Parallel()

	s := New(64, time.Second)
	s.Reset(2, 8000)
	fill(s, 10, 200, 2)

	left := s.Level(0, 0)
	right := s.Level(1, 0)
	require.Equal(t, len(left), len(right))

	for i := range left {
		assert.InDelta(t, left[i].Max/2, right[i].Max, 1e-6)
	}
}

func TestSummary_AddBlockRejectsGaps(t *testing.T) {
	t.Parallel()

	s := New(16, time.Second)
	s.Reset(1, 1000)
	s.AddBlock(0, [][]float32{make([]float32, 10)}, 10)

	assert.Panics(t, func() {
		s.AddBlock(20, [][]float32{make([]float32, 10)}, 10)
	})
}

func TestSummary_ResetClearsEverything(t *testing.T) {
	t.Parallel()

	s := New(16, time.Second)
	s.Reset(1, 1000)
	fill(s, 5, 100, 1)
	require.NotZero(t, s.TotalSamples())

	s.Reset(1, 2000)

	assert.Zero(t, s.TotalSamples())
	assert.Zero(t, s.TotalLength())
	assert.Equal(t, float64(2000), s.SampleRate())
	assert.Empty(t, s.Level(0, 0))
	assert.Empty(t, s.Render(0, 0, 10, 100).Points)

	// a new take starts at sample zero again
	assert.NotPanics(t, func() {
		s.AddBlock(0, [][]float32{make([]float32, 10)}, 10)
	})
}

func TestSummary_CapacityIsBounded(t *testing.T) {
	t.Parallel()

	// room for 1000 samples, rounded up to 63 windows of 16
	s := New(16, time.Second)
	s.Reset(1, 1000)

	total := fill(s, 30, 100, 1)

	assert.Equal(t, int64(3000), total)
	assert.Equal(t, total, s.TotalSamples())
	assert.True(t, s.Truncated())
	assert.Len(t, s.Level(0, 0), 63)
	assert.Len(t, s.Level(0, 1), 31)
}

func TestSummary_AddBlockDoesNotAllocate(t *testing.T) {
	s := New(512, 60*time.Second)
	s.Reset(1, 48000)

	block := sine(0, 512, 100, 1)
	var cursor int64

	allocs := testing.AllocsPerRun(200, func() {
		s.AddBlock(cursor, block, 512)
		cursor += 512
	})

	assert.Zero(t, allocs)
}

func TestSummary_RenderCoversRequestedRange(t *testing.T) {
	t.Parallel()

	s := New(16, 10*time.Second)
	s.Reset(1, 1000)
	fill(s, 20, 100, 1)

	full := s.Render(0, 0, 2, 0)
	assert.Equal(t, 0, full.Level)
	assert.Equal(t, 16, full.SamplesPerPoint)
	assert.Equal(t, int64(0), full.FirstSample)
	assert.Len(t, full.Points, 125)

	// every window fully inside a range shows up in its rendering
	for _, window := range [][2]float64{{0, 0.1}, {0.5, 0.75}, {1.2, 1.9}, {0.016, 0.032}} {
		r := s.Render(0, window[0], window[1], 0)
		require.NotEmpty(t, r.Points, "range %v", window)
		assert.LessOrEqual(t, r.StartTime(), window[0])

		last := r.FirstSample + int64(len(r.Points)*r.SamplesPerPoint)
		assert.GreaterOrEqual(t, float64(last)/1000, window[1])
	}
}

func TestSummary_RenderPicksCoarserLevelForFewerPoints(t *testing.T) {
	t.Parallel()

	s := New(16, 10*time.Second)
	s.Reset(1, 1000)
	fill(s, 40, 100, 1)

	for _, maxPoints := range []int{200, 100, 50, 10, 3} {
		r := s.Render(0, 0, 4, maxPoints)
		require.NotEmpty(t, r.Points)
		assert.LessOrEqual(t, len(r.Points), maxPoints, "maxPoints %d", maxPoints)
		assert.Equal(t, 16<<r.Level, r.SamplesPerPoint)
	}

	// coarser renderings still bound the signal
	fine := s.Render(0, 0, 4, 0)
	coarse := s.Render(0, 0, 4, 8)

	var lo, hi float32
	for _, p := range fine.Points {
		lo, hi = min(lo, p.Min), max(hi, p.Max)
	}

	var clo, chi float32
	for _, p := range coarse.Points {
		clo, chi = min(clo, p.Min), max(chi, p.Max)
	}

	assert.Equal(t, lo, clo)
	assert.Equal(t, hi, chi)
}

func TestSummary_RenderEdgeCases(t *testing.T) {
	t.Parallel()

	s := New(16, time.Second)

	assert.Empty(t, s.Render(0, 0, 1, 10).Points, "before reset")

	s.Reset(1, 1000)
	assert.Empty(t, s.Render(0, 0, 1, 10).Points, "nothing added")

	fill(s, 2, 100, 1)
	assert.Empty(t, s.Render(1, 0, 1, 10).Points, "no such channel")
	assert.Empty(t, s.Render(0, 0.5, 0.1, 10).Points, "end before start")
	assert.Empty(t, s.Render(0, 5, 6, 10).Points, "past the end")
	assert.NotEmpty(t, s.Render(0, -1, 0.05, 10).Points, "negative start clamps to zero")
}

func TestSummary_ChangeNotificationsAreRateLimited(t *testing.T) {
	t.Parallel()

	s := New(16, 10*time.Second)
	s.SetNotifyInterval(100 * time.Millisecond)
	s.Reset(1, 1000)

	select {
	case <-s.Changes():
	default:
		t.Fatal("reset should notify")
	}

	// 50 samples is half the interval
	s.AddBlock(0, [][]float32{make([]float32, 50)}, 50)
	select {
	case <-s.Changes():
		t.Fatal("notified before the interval elapsed")
	default:
	}

	s.AddBlock(50, [][]float32{make([]float32, 50)}, 50)
	select {
	case <-s.Changes():
	default:
		t.Fatal("expected a notification after 100 samples")
	}

	// notifications coalesce when nobody is listening
	s.AddBlock(100, [][]float32{make([]float32, 500)}, 500)
	s.AddBlock(600, [][]float32{make([]float32, 500)}, 500)
	assert.Len(t, s.Changes(), 1)
}

func TestSummary_Peak(t *testing.T) {
	t.Parallel()

	s := New(4, time.Second)
	s.Reset(1, 100)

	s.AddBlock(0, [][]float32{{0.1, -0.8, 0.2, 0.1, 0.3, 0.3, 0.3, 0.3}}, 8)

	assert.InDelta(t, 0.8, s.Peak(0, 1), 1e-6)
	assert.InDelta(t, 0.3, s.Peak(0, 0.01), 1e-6, "only the last window")
	assert.Zero(t, s.Peak(3, 1))
}
