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
	"math"
	"sync/atomic"
)

// DeviceStream holds the parameters of the currently running device stream.
// The device lifecycle writes it from its own thread, the recorder reads it
// from the control thread, so both fields are atomics.
type DeviceStream struct {
	sampleRate   atomic.Uint64
	channelCount atomic.Int32
}

func NewDeviceStream() *DeviceStream {
	return &DeviceStream{}
}

// Open records the parameters negotiated with the device.
func (s *DeviceStream) Open(sampleRate float64, channelCount int) {
	s.channelCount.Store(int32(channelCount))
	s.sampleRate.Store(math.Float64bits(sampleRate))
}

// Close zeroes the parameters. A zero sample rate means no stream.
func (s *DeviceStream) Close() {
	s.sampleRate.Store(math.Float64bits(0))
	s.channelCount.Store(0)
}

func (s *DeviceStream) SampleRate() float64 {
	return math.Float64frombits(s.sampleRate.Load())
}

func (s *DeviceStream) ChannelCount() int {
	return int(s.channelCount.Load())
}

func (s *DeviceStream) Active() bool {
	return s.SampleRate() > 0
}
