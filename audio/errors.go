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

import "errors"

var (
	// ErrNoStream is returned by Recorder.Start when no device stream is
	// running, so there is no sample rate to record at.
	ErrNoStream = errors.New("no active audio stream")

	// ErrOpenFailure wraps any failure to create or open the output file.
	ErrOpenFailure = errors.New("failed to open output file")

	// ErrWriteDegraded is reported once the background writer has hit a
	// write error. Samples queued after that point are dropped.
	ErrWriteDegraded = errors.New("output file writes are failing")

	// ErrDeviceFailure wraps errors from the audio device backend.
	ErrDeviceFailure = errors.New("audio device failure")
)
