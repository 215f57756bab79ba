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

// Package waveform keeps a multi resolution min/max summary of a growing
// recording so a display can draw any range of it at any zoom without
// touching the audio file.
//
// Level 0 holds one min/max pair per window of samples. Every level above
// it holds one pair per two pairs of the level below, so a pair at level k
// covers windowSize*2^k samples. Storage for all levels is allocated by
// Reset, which lets AddBlock run on the audio thread without allocating.
package waveform

import (
	"fmt"
	"math"
	"math/bits"
	"sync"
	"sync/atomic"
	"time"
)

const (
	DefaultWindowSize     = 512
	DefaultNotifyInterval = 50 * time.Millisecond

	// coarsest level kept is one pair per windowSize*2^(maxLevels-1) samples
	maxLevels = 24
)

// MinMax is the lowest and highest sample seen within one window.
type MinMax struct {
	Min float32
	Max float32
}

func (m MinMax) merge(other MinMax) MinMax {
	return MinMax{Min: min(m.Min, other.Min), Max: max(m.Max, other.Max)}
}

var emptyWindow = MinMax{Min: float32(math.Inf(1)), Max: float32(math.Inf(-1))}

// Rendering is the result of Render. Point i covers the samples starting
// at FirstSample + i*SamplesPerPoint.
type Rendering struct {
	Level           int
	SamplesPerPoint int
	FirstSample     int64
	SampleRate      float64
	Points          []MinMax
}

// StartTime is the time in seconds of the first point.
func (r Rendering) StartTime() float64 {
	if r.SampleRate <= 0 {
		return 0
	}

	return float64(r.FirstSample) / r.SampleRate
}

type channelSummary struct {
	levels  [][]MinMax
	pending MinMax
}

type Summary struct {
	mu sync.RWMutex

	windowSize     int
	maxDuration    time.Duration
	notifyInterval time.Duration

	sampleRate   float64
	channels     []channelSummary
	numChannels  atomic.Int32
	totalSamples int64
	pendingCount int
	truncated    bool

	notifyEvery int64
	sinceNotify int64
	changes     chan struct{}
}

// New creates an empty summary. windowSize is rounded up to a power of two
// and maxDuration bounds how much audio Reset preallocates room for.
func New(windowSize int, maxDuration time.Duration) *Summary {
	if windowSize < 2 {
		windowSize = DefaultWindowSize
	}

	return &Summary{
		windowSize:     1 << bits.Len(uint(windowSize-1)),
		maxDuration:    maxDuration,
		notifyInterval: DefaultNotifyInterval,
		changes:        make(chan struct{}, 1),
	}
}

// SetNotifyInterval changes how much audio has to be added between change
// notifications. It takes effect on the next Reset.
func (s *Summary) SetNotifyInterval(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifyInterval = interval
}

// Reset discards everything and prepares storage for channelCount channels
// at sampleRate.
func (s *Summary) Reset(channelCount int, sampleRate float64) {
	s.mu.Lock()

	capacity := 0
	if sampleRate > 0 {
		capacity = int(math.Ceil(s.maxDuration.Seconds() * sampleRate / float64(s.windowSize)))
	}

	if len(s.channels) != channelCount || s.capacity() != capacity {
		s.channels = make([]channelSummary, channelCount)

		for ch := range s.channels {
			s.channels[ch].levels = allocateLevels(capacity)
		}
	}

	for ch := range s.channels {
		for lvl := range s.channels[ch].levels {
			s.channels[ch].levels[lvl] = s.channels[ch].levels[lvl][:0]
		}
		s.channels[ch].pending = emptyWindow
	}

	s.sampleRate = sampleRate
	s.totalSamples = 0
	s.pendingCount = 0
	s.truncated = false
	s.sinceNotify = 0
	s.notifyEvery = max(1, int64(s.notifyInterval.Seconds()*sampleRate))
	s.numChannels.Store(int32(channelCount))

	s.mu.Unlock()

	s.notify()
}

func allocateLevels(capacity int) [][]MinMax {
	levels := make([][]MinMax, 0, maxLevels)

	for size := capacity; size > 0 && len(levels) < maxLevels; size /= 2 {
		levels = append(levels, make([]MinMax, 0, size))
	}

	return levels
}

func (s *Summary) capacity() int {
	if len(s.channels) == 0 || len(s.channels[0].levels) == 0 {
		return 0
	}

	return cap(s.channels[0].levels[0])
}

// AddBlock folds frames samples per channel into the summary. start must
// equal the number of samples added since the last Reset. block must have
// at least NumChannels channels of at least frames samples each.
func (s *Summary) AddBlock(start int64, block [][]float32, frames int) {
	s.mu.Lock()

	if start != s.totalSamples {
		s.mu.Unlock()
		panic(fmt.Sprintf("waveform: block starts at sample %d but summary holds %d", start, s.totalSamples))
	}

	channelCount := len(s.channels)

	for i := 0; i < frames; {
		n := min(frames-i, s.windowSize-s.pendingCount)

		for ch := 0; ch < channelCount; ch++ {
			pending := s.channels[ch].pending

			for _, sample := range block[ch][i : i+n] {
				pending.Min = min(pending.Min, sample)
				pending.Max = max(pending.Max, sample)
			}

			s.channels[ch].pending = pending
		}

		s.pendingCount += n
		i += n

		if s.pendingCount == s.windowSize {
			s.completeWindow()
		}
	}

	s.totalSamples += int64(frames)
	s.sinceNotify += int64(frames)

	shouldNotify := s.sinceNotify >= s.notifyEvery
	if shouldNotify {
		s.sinceNotify = 0
	}

	s.mu.Unlock()

	if shouldNotify {
		s.notify()
	}
}

// completeWindow moves the pending window of every channel into level 0
// and carries pairs upward while a level holds an even count.
func (s *Summary) completeWindow() {
	s.pendingCount = 0

	for ch := range s.channels {
		c := &s.channels[ch]
		window := c.pending
		c.pending = emptyWindow

		if len(c.levels) == 0 || len(c.levels[0]) == cap(c.levels[0]) {
			s.truncated = true
			continue
		}

		c.levels[0] = append(c.levels[0], window)

		for lvl := 0; lvl+1 < len(c.levels); lvl++ {
			cur := c.levels[lvl]
			if len(cur)%2 != 0 {
				break
			}

			c.levels[lvl+1] = append(c.levels[lvl+1], cur[len(cur)-2].merge(cur[len(cur)-1]))
		}
	}
}

func (s *Summary) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Changes delivers a value whenever enough new audio has been summarized
// to be worth redrawing, and after every Reset. Notifications coalesce.
func (s *Summary) Changes() <-chan struct{} {
	return s.changes
}

// NumChannels is safe to call from the audio thread without locking.
func (s *Summary) NumChannels() int {
	return int(s.numChannels.Load())
}

func (s *Summary) SampleRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sampleRate
}

func (s *Summary) WindowSize() int {
	return s.windowSize
}

// TotalSamples counts every sample added since Reset, including those past
// the preallocated capacity.
func (s *Summary) TotalSamples() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.totalSamples
}

// TotalLength is the duration in seconds of the audio added since Reset.
func (s *Summary) TotalLength() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.sampleRate <= 0 {
		return 0
	}

	return float64(s.totalSamples) / s.sampleRate
}

// Truncated reports whether the recording outgrew the preallocated
// capacity. Samples past that point are counted but not summarized.
func (s *Summary) Truncated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.truncated
}

// Levels is the number of resolution levels available per channel.
func (s *Summary) Levels() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.channels) == 0 {
		return 0
	}

	return len(s.channels[0].levels)
}

// Level returns a copy of the completed pairs at one level.
func (s *Summary) Level(channel int, level int) []MinMax {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if channel < 0 || channel >= len(s.channels) || level < 0 || level >= len(s.channels[channel].levels) {
		return nil
	}

	src := s.channels[channel].levels[level]
	out := make([]MinMax, len(src))
	copy(out, src)

	return out
}

// Render returns min/max pairs covering start..end seconds of one channel.
// It uses the finest level that needs no more than maxPoints pairs for the
// range, or level 0 when maxPoints is not positive. Only completed windows
// are returned, so the tail of a live recording shows up one window late.
func (s *Summary) Render(channel int, start float64, end float64, maxPoints int) Rendering {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rendering := Rendering{SampleRate: s.sampleRate}

	if channel < 0 || channel >= len(s.channels) || s.sampleRate <= 0 || end <= start {
		return rendering
	}

	levels := s.channels[channel].levels
	if len(levels) == 0 || len(levels[0]) == 0 {
		return rendering
	}

	startSample := max(0, int64(math.Floor(start*s.sampleRate)))
	endSample := int64(math.Ceil(end * s.sampleRate))

	level := 0
	if maxPoints > 0 {
		for level+1 < len(levels) && windowSpan(startSample, endSample, s.windowSize<<level) > int64(maxPoints) {
			level++
		}
	}

	samplesPerPoint := int64(s.windowSize) << level
	pairs := levels[level]

	first := startSample / samplesPerPoint
	last := min((endSample+samplesPerPoint-1)/samplesPerPoint, int64(len(pairs)))

	rendering.Level = level
	rendering.SamplesPerPoint = int(samplesPerPoint)
	rendering.FirstSample = first * samplesPerPoint

	if first >= last {
		return rendering
	}

	rendering.Points = make([]MinMax, last-first)
	copy(rendering.Points, pairs[first:last])

	return rendering
}

// Peak is the largest absolute sample value over the last seconds of
// completed windows.
func (s *Summary) Peak(channel int, seconds float64) float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if channel < 0 || channel >= len(s.channels) || len(s.channels[channel].levels) == 0 {
		return 0
	}

	pairs := s.channels[channel].levels[0]
	count := max(1, int(seconds*s.sampleRate)/s.windowSize)

	peak := float32(0)
	for _, pair := range pairs[max(0, len(pairs)-count):] {
		peak = max(peak, -pair.Min, pair.Max)
	}

	return peak
}

func windowSpan(startSample int64, endSample int64, windowSamples int) int64 {
	w := int64(windowSamples)
	return (endSample+w-1)/w - startSample/w
}
