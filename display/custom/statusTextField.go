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
	"sync"

	"code.rocketnine.space/tslocum/cview"
	"github.com/gdamore/tcell/v2"
)

// StatusText is a "Header: value" row of the status panel. Values are shown
// literally, so paths containing brackets are not read as colour tags.
type StatusText struct {
	*cview.Grid

	value *cview.TextView

	lock    sync.Mutex
	current string
	shown   bool
}

func NewStatusTextField(headerWidth int, name string, initialValue string) *StatusText {
	header := cview.NewTextView()
	header.SetTextAlign(cview.AlignRight)
	header.SetText(cview.Escape(name) + ": ")

	field := &StatusText{
		Grid:  cview.NewGrid(),
		value: cview.NewTextView(),
	}

	field.SetColumns(headerWidth, -1)
	field.SetRows(1)
	field.AddItem(header, 0, 0, 1, 1, 0, 0, false)
	field.AddItem(field.value, 0, 1, 1, 1, 0, 0, false)

	field.SetCurrentValue(initialValue)

	return field
}

// SetCurrentValue replaces the value. Setting the value already shown does
// nothing, which keeps the periodic status updates from redrawing.
func (field *StatusText) SetCurrentValue(value string) {
	field.lock.Lock()
	defer field.lock.Unlock()

	if field.shown && value == field.current {
		return
	}

	field.current = value
	field.shown = true
	field.value.SetText(cview.Escape(value))
}

func (field *StatusText) CurrentValue() string {
	field.lock.Lock()
	defer field.lock.Unlock()

	return field.current
}

func (field *StatusText) SetColor(color tcell.Color) {
	field.value.SetTextColor(color)
}

func (field *StatusText) GetGrid() *cview.Grid {
	return field.Grid
}
