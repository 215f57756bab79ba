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
package display

import (
	"log/slog"

	"playrec/display/custom"
)

type WaveformSource = custom.WaveformSource

type UI interface {
	Initialize()
	Start()
	Shutdown()
	IsShutdown() bool
	WaitForShutdown()
	SetCommandHandler(handler CommandHandler)
	SetTransportStatus(status Status)
	SetDuration(duration float64)
	SetAudioFormat(format string)
	SetProfileName(value string)
	SetTakeName(value string)
	SetDirectory(value string)
	SetSessionSize(size uint64)
	AddOutputFile(name string)
	IncrementErrorCount()
	SetDroppedFrames(frames uint64)
	SetWaveformSource(source WaveformSource)
	WaveformChanged()
	WriteLevelLog(level slog.Level, message string)
	SetDiskUsage(percent int)
	SetBufferUtilization(percent int)
}
