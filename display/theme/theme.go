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
package theme

import (
	"github.com/gdamore/tcell/v2"
)

const (
	Blue         = tcell.ColorBlue
	BlueRGB      = "0000FF"
	Green        = tcell.Color71
	GreenRGB     = "5FAF5F"
	Pink         = tcell.Color131
	PinkRGB      = "AF5F5F"
	Red          = tcell.Color124
	RedRGB       = "AF0000"
	SoftGreen    = tcell.Color72
	SoftGreenRGB = "5FAF87"
	Yellow       = tcell.Color142
	YellowRGB    = "AFAF00"
	Gray         = tcell.ColorGray
	GrayRGB      = "808080"

	BorderColor = tcell.Color243

	WaveformBackgroundColor = tcell.Color233
)

// peak dBFS thresholds for coloring the waveform
var LevelColors = map[int]tcell.Color{
	0:    Red,
	-2:   Pink,
	-6:   Yellow,
	-18:  Green,
	-150: SoftGreen,
}

const (
	RuneClock  = rune(9201) // ⏱
	RunePause  = rune(9208) // ⏸
	RuneRecord = rune(9210) // ⏺
	RuneStop   = rune(9209) // ⏹
	RuneFailed = rune(9932) // ⛌
)
