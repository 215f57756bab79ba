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
	"math"
	"sort"
	"sync"

	"playrec/util"
	"playrec/waveform"

	"code.rocketnine.space/tslocum/cview"
	"github.com/gdamore/tcell/v2"
)

// WaveformSource is the part of a waveform summary the view draws from.
type WaveformSource interface {
	Render(channel int, start float64, end float64, maxPoints int) waveform.Rendering
	TotalLength() float64
}

// Column is the extent of the waveform drawn in one screen column.
type Column struct {
	waveform.MinMax
	Valid bool
}

// WaveformView draws the min/max outline of a recording, scrolling so the
// newest audio is always at the right edge once the take outgrows span.
type WaveformView struct {
	*cview.Box

	source WaveformSource

	// seconds of audio across the full width, zero fits the whole take
	span float64

	filledRune rune
	axisRune   rune
	axisColor  tcell.Color

	// peak dBFS to foreground color
	colorMap map[int]tcell.Color

	sync.RWMutex
}

func NewWaveformView(span float64, colorMap map[int]tcell.Color) *WaveformView {
	v := &WaveformView{
		Box:        cview.NewBox(),
		span:       span,
		filledRune: rune(9608), // █
		axisRune:   rune(9472), // ─
		axisColor:  tcell.Color239,
		colorMap:   colorMap,
	}
	v.SetBackgroundColor(cview.Styles.PrimitiveBackgroundColor)
	return v
}

func (v *WaveformView) SetSource(source WaveformSource) {
	v.Lock()
	defer v.Unlock()

	v.source = source
}

func (v *WaveformView) SetSpan(seconds float64) {
	v.Lock()
	defer v.Unlock()

	v.span = max(0, seconds)
}

// VisibleRange is the start and end time in seconds shown for a take of
// total seconds.
func VisibleRange(total float64, span float64) (float64, float64) {
	if span <= 0 {
		return 0, total
	}

	if total <= span {
		return 0, span
	}

	return total - span, total
}

// Columnize folds a rendering onto width screen columns covering start..end
// seconds. Columns with no completed window are left invalid.
func Columnize(r waveform.Rendering, start float64, end float64, width int) []Column {
	columns := make([]Column, max(0, width))

	if width <= 0 || end <= start || r.SampleRate <= 0 {
		return columns
	}

	scale := float64(width) / (end - start)

	for i, point := range r.Points {
		pointStart := float64(r.FirstSample+int64(i*r.SamplesPerPoint)) / r.SampleRate
		pointEnd := pointStart + float64(r.SamplesPerPoint)/r.SampleRate

		first := int(math.Floor((pointStart - start) * scale))
		last := int(math.Ceil((pointEnd-start)*scale)) - 1

		for c := max(0, first); c <= min(width-1, last); c++ {
			if !columns[c].Valid {
				columns[c] = Column{MinMax: point, Valid: true}
				continue
			}

			columns[c].Min = min(columns[c].Min, point.Min)
			columns[c].Max = max(columns[c].Max, point.Max)
		}
	}

	return columns
}

// ColumnRows maps a column's extent onto rows 0..height-1, row 0 at the
// top. Silence still covers the centre row.
func ColumnRows(column Column, height int) (int, int) {
	if height <= 0 {
		return 0, -1
	}

	half := float64(height-1) / 2.0
	toRow := func(value float32) int {
		clamped := math.Max(-1, math.Min(1, float64(value)))
		return int(math.Round(half - clamped*half))
	}

	return toRow(column.Max), toRow(column.Min)
}

func levelColor(colorMap map[int]tcell.Color, db float64) tcell.Color {
	keys := make([]int, 0, len(colorMap))

	for k := range colorMap {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	for _, key := range keys {
		if db >= float64(key) {
			return colorMap[key]
		}
	}

	return tcell.ColorDefault
}

// Draw draws this primitive onto the screen.
func (v *WaveformView) Draw(screen tcell.Screen) {
	if !v.GetVisible() {
		return
	}

	v.Box.Draw(screen)

	v.RLock()
	defer v.RUnlock()

	x, y, width, height := v.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}

	background := v.GetBackgroundColor()
	axisStyle := tcell.StyleDefault.Foreground(v.axisColor).Background(background)
	centre := y + (height-1)/2

	for c := 0; c < width; c++ {
		screen.SetContent(x+c, centre, v.axisRune, nil, axisStyle)
	}

	if v.source == nil {
		return
	}

	start, end := VisibleRange(v.source.TotalLength(), v.span)
	columns := Columnize(v.source.Render(0, start, end, width), start, end, width)

	for c, column := range columns {
		if !column.Valid {
			continue
		}

		peak := math.Max(math.Abs(float64(column.Min)), math.Abs(float64(column.Max)))
		style := tcell.StyleDefault.Foreground(levelColor(v.colorMap, util.AmplitudeToDb(peak))).Background(background)

		top, bottom := ColumnRows(column, height)
		for row := top; row <= bottom; row++ {
			screen.SetContent(x+c, y+row, v.filledRune, nil, style)
		}
	}
}
