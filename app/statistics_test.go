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
package app

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"playrec/audio"
	"playrec/display"
)

// statsUI records what the statistics tickers push.
type statsUI struct {
	display.UI

	lock        sync.Mutex
	duration    float64
	sessionSize uint64
	dropped     uint64
	buffer      int
	disk        int
}

func (u *statsUI) SetDuration(duration float64) {
	u.lock.Lock()
	defer u.lock.Unlock()
	u.duration = duration
}

func (u *statsUI) SetSessionSize(size uint64) {
	u.lock.Lock()
	defer u.lock.Unlock()
	u.sessionSize = size
}

func (u *statsUI) SetDroppedFrames(frames uint64) {
	u.lock.Lock()
	defer u.lock.Unlock()
	u.dropped = frames
}

func (u *statsUI) SetBufferUtilization(percent int) {
	u.lock.Lock()
	defer u.lock.Unlock()
	u.buffer = percent
}

func (u *statsUI) SetDiskUsage(percent int) {
	u.lock.Lock()
	defer u.lock.Unlock()
	u.disk = percent
}

type fixedStatus struct {
	status      audio.Status
	utilization float64
}

func (f fixedStatus) Status() audio.Status { return f.status }
func (f fixedStatus) Utilization() float64 { return f.utilization }
func (f fixedStatus) BitDepth() int { return 16 }

func TestUpdateTransport(t *testing.T) {
	ui := &statsUI{}
	stats := &statistics{
		ui: ui,
		recorder: fixedStatus{
			status: audio.Status{
				State:      audio.StateRecording,
				Path:       "/tmp/A_recording.wav",
				SampleRate: 48000,
				Writer: audio.WriterStats{
					FramesQueued:  96000,
					FramesWritten: 48000,
					FramesDropped: 512,
				},
			},
			utilization: 0.426,
		},
	}

	stats.updateTransport()

	assert.Equal(t, 2.0, ui.duration)
	assert.Equal(t, uint64(44+48000*2), ui.sessionSize)
	assert.Equal(t, uint64(512), ui.dropped)
	assert.Equal(t, 43, ui.buffer)
}

func TestUpdateDisk(t *testing.T) {
	ui := &statsUI{disk: -1}
	stats := &statistics{ui: ui, outputDir: t.TempDir()}

	stats.updateDisk()

	if stats.diskErrorLogged {
		t.Skip("disk usage is not available here")
	}

	assert.GreaterOrEqual(t, ui.disk, 0)
	assert.LessOrEqual(t, ui.disk, 100)
}

func TestProcessOnIntervalStopsOnShutdown(t *testing.T) {
	shutdown := make(chan struct{})
	calls := make(chan struct{}, 100)

	processOnInterval("test ticker", shutdown, time.Millisecond, func() {
		select {
		case calls <- struct{}{}:
		default:
		}
	})

	assert.Eventually(t, func() bool { return len(calls) >= 3 }, time.Second, time.Millisecond)
	close(shutdown)
}
