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
package custom

import (
	"strconv"
	"sync"

	"code.rocketnine.space/tslocum/cview"
	"github.com/gdamore/tcell/v2"

	"playrec/display/theme"
)

const (
	meterFilledRune = rune(9607) // ▇
	meterEmptyRune  = rune(9617) // ░
	meterValueWidth = 6
)

// MeterThresholds colour a StatusMeter: green up to Warn, yellow up to
// Caution and red above.
type MeterThresholds struct {
	Warn    int
	Caution int
}

func (t MeterThresholds) color(value int) tcell.Color {
	switch {
	case value <= t.Warn:
		return theme.Green
	case value <= t.Caution:
		return theme.Yellow
	default:
		return theme.Red
	}
}

// StatusMeter is a labelled 0..100 bar. An empty unit hides the numeric
// value next to the bar.
type StatusMeter struct {
	*cview.Grid

	bar        *cview.ProgressBar
	value      *cview.TextView
	unit       string
	thresholds MeterThresholds

	lock    sync.Mutex
	current int
	shown   bool
}

func NewStatusMeter(headerWidth int, name string, unit string, thresholds MeterThresholds) *StatusMeter {
	header := cview.NewTextView()
	header.SetTextAlign(cview.AlignRight)
	header.SetText(cview.Escape(name) + ": ")

	bar := cview.NewProgressBar()
	bar.SetFilledRune(meterFilledRune)
	bar.SetEmptyRune(meterEmptyRune)
	bar.SetEmptyColor(tcell.Color242)

	meter := &StatusMeter{
		Grid:       cview.NewGrid(),
		bar:        bar,
		unit:       unit,
		thresholds: thresholds,
	}

	columns := []int{headerWidth, -1}
	if unit != "" {
		columns = append(columns, meterValueWidth)
	}

	meter.SetColumns(columns...)
	meter.SetRows(1)
	meter.AddItem(header, 0, 0, 1, 1, 0, 0, false)
	meter.AddItem(bar, 0, 1, 1, 1, 0, 0, false)

	if unit != "" {
		meter.value = cview.NewTextView()
		meter.value.SetPadding(0, 0, 1, 0)
		meter.AddItem(meter.value, 0, 2, 1, 1, 0, 0, false)
	}

	meter.SetCurrentValue(0)

	return meter
}

// SetCurrentValue clamps value to 0..100 for the bar and recolours it. The
// text shows the unclamped value.
func (meter *StatusMeter) SetCurrentValue(value int) {
	meter.lock.Lock()
	defer meter.lock.Unlock()

	if meter.shown && value == meter.current {
		return
	}

	meter.current = value
	meter.shown = true

	meter.bar.SetProgress(min(100, max(0, value)))
	meter.bar.SetFilledColor(meter.thresholds.color(value))

	if meter.value != nil {
		meter.value.SetText(strconv.Itoa(value) + " " + cview.Escape(meter.unit))
	}
}

func (meter *StatusMeter) CurrentValue() int {
	meter.lock.Lock()
	defer meter.lock.Unlock()

	return meter.current
}

func (meter *StatusMeter) GetGrid() *cview.Grid {
	return meter.Grid
}
