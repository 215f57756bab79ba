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
package model

type Profile struct {
	Name     string          `yaml:"name"`
	Device   ProfileDevice   `yaml:"device"`
	Output   ProfileOutput   `yaml:"output"`
	Waveform ProfileWaveform `yaml:"waveform"`
}

type ProfileDevice struct {
	SampleRate      int `yaml:"sample_rate"`
	InputChannels   int `yaml:"input_channels"`
	OutputChannels  int `yaml:"output_channels"`
	FramesPerPeriod int `yaml:"frames_per_period"`
}

type ProfileOutput struct {
	DirectoryTemplate string  `yaml:"directory_template"`
	BitDepth          int     `yaml:"bit_depth"`
	BufferSizeSeconds float64 `yaml:"buffer_size_seconds"`

	// these are calculated at runtime and used internally, but
	// not able to be set in the profile
	Directory string `yaml:"-"`
	Take      string `yaml:"-"`
}

type ProfileWaveform struct {
	WindowSize         int     `yaml:"window_size"`
	MaxDurationMinutes float64 `yaml:"max_duration_minutes"`
	RefreshMillis      int     `yaml:"refresh_millis"`
}

// DefaultProfile is used when no profile is given and fills in anything a
// profile file leaves out.
func DefaultProfile() *Profile {
	return &Profile{
		Name: "default",
		Device: ProfileDevice{
			SampleRate:      48000,
			InputChannels:   2,
			OutputChannels:  2,
			FramesPerPeriod: 512,
		},
		Output: ProfileOutput{
			DirectoryTemplate: "~/Recordings/2006-01-02",
			BitDepth:          16,
			BufferSizeSeconds: 0.75,
		},
		Waveform: ProfileWaveform{
			WindowSize:         512,
			MaxDurationMinutes: 120,
			RefreshMillis:      50,
		},
	}
}
