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
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playrec/waveform"
)

func TestVisibleRange(t *testing.T) {
	start, end := VisibleRange(3, 0)
	assert.Equal(t, 0.0, start)
	assert.Equal(t, 3.0, end)

	start, end = VisibleRange(3, 10)
	assert.Equal(t, 0.0, start)
	assert.Equal(t, 10.0, end)

	start, end = VisibleRange(25, 10)
	assert.Equal(t, 15.0, start)
	assert.Equal(t, 25.0, end)
}

func TestColumnizeMergesPointsPerColumn(t *testing.T) {
	r := waveform.Rendering{
		SamplesPerPoint: 100,
		SampleRate:      1000,
		Points: []waveform.MinMax{
			{Min: -0.1, Max: 0.2},
			{Min: -0.5, Max: 0.1},
			{Min: -0.2, Max: 0.9},
			{Min: 0, Max: 0.3},
		},
	}

	// 0.4s of points onto 2 columns, two points per column
	columns := Columnize(r, 0, 0.4, 2)
	require.Len(t, columns, 2)

	assert.True(t, columns[0].Valid)
	assert.Equal(t, float32(-0.5), columns[0].Min)
	assert.Equal(t, float32(0.2), columns[0].Max)

	assert.True(t, columns[1].Valid)
	assert.Equal(t, float32(-0.2), columns[1].Min)
	assert.Equal(t, float32(0.9), columns[1].Max)
}

func TestColumnizeLeavesUnrecordedColumnsEmpty(t *testing.T) {
	r := waveform.Rendering{
		SamplesPerPoint: 500,
		SampleRate:      1000,
		Points:          []waveform.MinMax{{Min: -1, Max: 1}},
	}

	// half a second recorded in a ten second view
	columns := Columnize(r, 0, 10, 20)
	require.Len(t, columns, 20)

	assert.True(t, columns[0].Valid)
	for _, column := range columns[1:] {
		assert.False(t, column.Valid)
	}

	assert.Empty(t, Columnize(r, 0, 10, 0))
	assert.Len(t, Columnize(r, 5, 5, 4), 4)
}

func TestColumnizeSpreadsWidePoints(t *testing.T) {
	r := waveform.Rendering{
		SamplesPerPoint: 1000,
		SampleRate:      1000,
		Points:          []waveform.MinMax{{Min: -0.3, Max: 0.3}},
	}

	// one second point across a one second, four column view
	for _, column := range Columnize(r, 0, 1, 4) {
		assert.True(t, column.Valid)
	}
}

func TestColumnRows(t *testing.T) {
	top, bottom := ColumnRows(Column{MinMax: waveform.MinMax{Min: -1, Max: 1}, Valid: true}, 11)
	assert.Equal(t, 0, top)
	assert.Equal(t, 10, bottom)

	top, bottom = ColumnRows(Column{MinMax: waveform.MinMax{Min: 0, Max: 0}, Valid: true}, 11)
	assert.Equal(t, 5, top)
	assert.Equal(t, 5, bottom)

	top, bottom = ColumnRows(Column{MinMax: waveform.MinMax{Min: -3, Max: 0.5}, Valid: true}, 11)
	assert.Equal(t, 3, top)
	assert.Equal(t, 10, bottom)
}

func TestLevelColor(t *testing.T) {
	colors := map[int]tcell.Color{
		0:    tcell.ColorRed,
		-6:   tcell.ColorYellow,
		-150: tcell.ColorGreen,
	}

	assert.Equal(t, tcell.ColorRed, levelColor(colors, 0))
	assert.Equal(t, tcell.ColorYellow, levelColor(colors, -3))
	assert.Equal(t, tcell.ColorGreen, levelColor(colors, -40))
	assert.Equal(t, tcell.ColorDefault, levelColor(colors, -200))
}
