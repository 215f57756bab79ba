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
	"fmt"
	"math"
	"time"

	"playrec/audio"
	"playrec/display"
	"playrec/reaper"
	"playrec/util"
)

const (
	transportStatsInterval = 100 * time.Millisecond
	diskStatsInterval      = 1 * time.Second
)

type statusSource interface {
	Status() audio.Status
	Utilization() float64
	BitDepth() int
}

type statistics struct {
	ui        display.UI
	recorder  statusSource
	outputDir string

	diskErrorLogged bool
}

func startStatistics(ui display.UI, recorder statusSource, outputDir string, shutdown <-chan struct{}) {
	stats := &statistics{
		ui:        ui,
		recorder:  recorder,
		outputDir: outputDir,
	}

	processOnInterval("transport stats", shutdown, transportStatsInterval, stats.updateTransport)
	processOnInterval("disk stats", shutdown, diskStatsInterval, stats.updateDisk)
}

func (s *statistics) updateTransport() {
	status := s.recorder.Status()

	s.ui.SetDuration(status.Duration())
	s.ui.SetSessionSize(status.FileSize(s.recorder.BitDepth()))
	s.ui.SetDroppedFrames(uint64(status.Writer.FramesDropped))

	utilization := s.recorder.Utilization()
	if !math.IsNaN(utilization) {
		s.ui.SetBufferUtilization(int(math.Round(utilization * 100.0)))
	}

	util.TraceLog(fmt.Sprintf("buffer: %0.2f%%, queued %d, written %d, dropped %d", utilization*100.0, status.Writer.FramesQueued, status.Writer.FramesWritten, status.Writer.FramesDropped))
}

func (s *statistics) updateDisk() {
	diskInfo, err := util.GetDiskSpace(s.outputDir)
	if err != nil {
		if !s.diskErrorLogged {
			util.TraceLog("disk usage unavailable: " + err.Error())
			s.diskErrorLogged = true
		}
		return
	}

	s.ui.SetDiskUsage(int(math.Round(diskInfo.UsedPct)))

	util.TraceLog(fmt.Sprintf("Disk total: %d B, Disk Used: %d B, Disk free: %d B, used %0.2f%%", diskInfo.Size, diskInfo.Used, diskInfo.Free, diskInfo.UsedPct))
}

func processOnInterval(name string, shutdown <-chan struct{}, interval time.Duration, process func()) {
	reaper.Register(name)

	go func() {
		defer reaper.Done(name)

		process()

		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-shutdown:
				return
			case <-t.C:
				process()
			}
		}
	}()
}
