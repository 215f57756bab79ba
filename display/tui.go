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
	"fmt"
	"log/slog"
	"sync"
	"time"

	"playrec/display/custom"
	"playrec/display/theme"
	"playrec/model"
	"playrec/reaper"
	"playrec/util"

	"code.rocketnine.space/tslocum/cview"
	"github.com/gdamore/tcell/v2"
)

//
// constants
//

const (
	layoutStatusItemHeaderWidth = 16
	layoutStatusColumnIndex     = 0
	layoutMeterColumnIndex      = 1
	layoutStatusGridLeftWidth   = 48
	layoutStatusGridRightWidth  = 48
	layoutStatusRowCount        = 8
	layoutWaveformHeight        = 15

	layoutOutputFileColumnWidth = 36
	layoutOutputFileSizeWidth   = 11

	// seconds of audio across the waveform view
	waveformSpan = 30.0

	redrawInterval = 50 * time.Millisecond
)

const keyHelp = "[::b]r[::-] / [::b]space[::-] record or stop    [::b]q[::-] quit"

//
// types
//

type Tui struct {
	app      *cview.Application
	shutdown chan struct{}
	once     sync.Once
	handler  CommandHandler

	errorCount int
	lock       sync.Mutex

	gridApp            *cview.Grid
	gridOutputFiles    *cview.Grid
	elementOutputFiles []*custom.OutputFileField
	waveformView       *custom.WaveformView

	tvLogs            *cview.TextView
	tvTransportStatus *custom.StatusText
	tvPosition        *custom.StatusText
	tvFormat          *custom.StatusText
	tvFileSize        *custom.StatusText
	tvErrorCount      *custom.StatusText
	tvDropped         *custom.StatusText
	tvProfileName     *custom.StatusText
	tvTakeName        *custom.StatusText
	tvDirectory       *custom.StatusText

	statusMeterDiskUsed   *custom.StatusMeter
	statusMeterBufferUsed *custom.StatusMeter
}

//
// constructor
//

func NewTui() *Tui {
	return &Tui{
		shutdown:           make(chan struct{}),
		elementOutputFiles: make([]*custom.OutputFileField, 0),
		handler:            func(Command) {},
	}
}

//
// lifecycle managment
//

func (tui *Tui) Initialize() {
	tui.app = cview.NewApplication()
	defer tui.app.HandlePanic()

	statusRows := make([]int, layoutStatusRowCount)
	for i := range layoutStatusRowCount {
		statusRows[i] = 1
	}

	//
	// main application grid
	tui.gridApp = cview.NewGrid()
	tui.gridApp.SetPadding(0, 0, 0, 0)
	tui.gridApp.SetColumns(-1, layoutOutputFileColumnWidth)
	tui.gridApp.SetBorders(true)
	tui.gridApp.SetBordersColor(theme.BorderColor)
	tui.gridApp.SetRows(layoutStatusRowCount, layoutWaveformHeight, -1, 1)
	tui.gridApp.SetBackgroundColor(cview.Styles.PrimitiveBackgroundColor)

	//
	// take list
	tui.gridOutputFiles = cview.NewGrid()
	tui.gridOutputFiles.SetPadding(0, 0, 0, 0)
	tui.gridOutputFiles.SetColumns(-1)
	tui.gridOutputFiles.SetRows(-1)
	tui.gridOutputFiles.SetBackgroundColor(cview.Styles.PrimitiveBackgroundColor)

	tui.gridApp.AddItem(tui.gridOutputFiles, 0, 1, 3, 1, 0, 0, false)

	//
	// status fields and meters
	gridStatus := cview.NewGrid()
	gridStatus.SetPadding(0, 0, 1, 1)
	gridStatus.SetColumns(layoutStatusGridLeftWidth, layoutStatusGridRightWidth, -1)
	gridStatus.SetRows(statusRows...)
	gridStatus.SetBackgroundColor(cview.Styles.PrimitiveBackgroundColor)

	tui.tvTransportStatus = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Status", "")
	tui.tvPosition = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Position", util.FormatDuration(0))
	tui.tvFormat = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Format", "Unknown")
	tui.tvFileSize = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Take Size", util.FormatSize(0))
	tui.tvErrorCount = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Errors", "0")
	tui.tvDropped = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Dropped", "0")
	tui.tvProfileName = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Profile", "")
	tui.tvTakeName = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Take", "")
	tui.tvDirectory = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Directory", "")
	tui.SetTransportStatus(StatusStarting)

	gridStatus.AddItem(tui.tvTransportStatus.GetGrid(), 0, layoutStatusColumnIndex, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.tvPosition.GetGrid(), 1, layoutStatusColumnIndex, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.tvFormat.GetGrid(), 2, layoutStatusColumnIndex, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.tvFileSize.GetGrid(), 3, layoutStatusColumnIndex, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.tvProfileName.GetGrid(), 4, layoutStatusColumnIndex, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.tvTakeName.GetGrid(), 5, layoutStatusColumnIndex, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.tvDirectory.GetGrid(), layoutStatusRowCount-1, layoutStatusColumnIndex, 1, 2, 0, 0, false)

	tui.statusMeterDiskUsed = custom.NewStatusMeter(layoutStatusItemHeaderWidth, "Disk Space", "%", custom.MeterThresholds{Warn: 80, Caution: 90})
	tui.statusMeterBufferUsed = custom.NewStatusMeter(layoutStatusItemHeaderWidth, "Buffer", "%", custom.MeterThresholds{Warn: 50, Caution: 75})

	gridStatus.AddItem(tui.statusMeterDiskUsed.GetGrid(), 0, layoutMeterColumnIndex, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.statusMeterBufferUsed.GetGrid(), 1, layoutMeterColumnIndex, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.tvErrorCount.GetGrid(), 2, layoutMeterColumnIndex, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.tvDropped.GetGrid(), 3, layoutMeterColumnIndex, 1, 1, 0, 0, false)

	tui.gridApp.AddItem(gridStatus, 0, 0, 1, 1, 0, 0, false)

	//
	// waveform
	tui.waveformView = custom.NewWaveformView(waveformSpan, theme.LevelColors)
	tui.waveformView.SetPadding(0, 0, 1, 1)
	tui.waveformView.SetBackgroundColor(theme.WaveformBackgroundColor)

	tui.gridApp.AddItem(tui.waveformView, 1, 0, 1, 1, 0, 0, false)

	//
	// log output view
	tui.tvLogs = cview.NewTextView()
	tui.tvLogs.SetPadding(0, 0, 0, 0)
	tui.tvLogs.SetDynamicColors(true)
	tui.tvLogs.SetMaxLines(1000)

	tui.gridApp.AddItem(tui.tvLogs, 2, 0, 1, 1, 0, 0, true)

	//
	// key help
	tvHelp := cview.NewTextView()
	tvHelp.SetDynamicColors(true)
	tvHelp.SetPadding(0, 0, 1, 1)
	tvHelp.SetText(keyHelp)

	tui.gridApp.AddItem(tvHelp, 3, 0, 1, 2, 0, 0, false)

	tui.app.SetRoot(tui.gridApp, true)
}

func (tui *Tui) Start() {
	reaper.Register("tui")

	go func() {
		defer tui.app.HandlePanic()

		tui.app.SetInputCapture(tui.eventHandler)

		if err := tui.app.Run(); err != nil {
			slog.Error("TUI failed: " + err.Error())
		}

		close(tui.shutdown)
		reaper.Done("tui")
	}()

	go tui.excecuteLoop()
}

func (tui *Tui) Shutdown() {
	tui.once.Do(func() {
		slog.Debug("Shutting down TUI")
		tui.app.Stop()
	})

	slog.Debug("Waiting for TUI to shut down")
	tui.WaitForShutdown()
}

func (tui *Tui) IsShutdown() bool {
	select {
	case <-tui.shutdown:
		return true
	default:
		return false
	}
}

func (tui *Tui) WaitForShutdown() {
	<-tui.shutdown
}

func (tui *Tui) SetCommandHandler(handler CommandHandler) {
	tui.lock.Lock()
	defer tui.lock.Unlock()

	tui.handler = handler
}

//
// private functions
//

func (tui *Tui) dispatch(command Command) {
	tui.lock.Lock()
	handler := tui.handler
	tui.lock.Unlock()

	// never block the event loop on a stop that has to flush to disk
	go handler(command)
}

func (tui *Tui) eventHandler(event *tcell.EventKey) *tcell.EventKey {
	// Anything handled here will be executed on the main thread
	switch event.Key() {
	case tcell.KeyCtrlC:
		go reaper.Reap()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'r', 'R', ' ':
			tui.dispatch(Command{Action: ActionToggle})
			return nil
		case 'q', 'Q':
			tui.dispatch(Command{Action: ActionQuit})
			return nil
		}
	}

	return event
}

func (tui *Tui) excecuteLoop() {
	defer tui.app.HandlePanic()

	slog.Debug("TUI loop started")

	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	for {
		select {
		case <-tui.shutdown:
			slog.Debug("TUI loop finished")
			return
		case <-ticker.C:
			tui.app.QueueUpdateDraw(func() {})
		}
	}
}

//
// status update functions
//

func (tui *Tui) SetTransportStatus(status Status) {
	icon := theme.RuneClock
	color := theme.Yellow

	switch status {
	case StatusStandby:
		icon = theme.RuneStop
		color = theme.Blue
	case StatusRecording:
		icon = theme.RuneRecord
		color = theme.Red
	case StatusFailed:
		icon = theme.RuneFailed
		color = theme.Red
	}

	tui.tvTransportStatus.SetCurrentValue(string(icon) + " " + status.String())
	tui.tvTransportStatus.SetColor(color)
}

func (tui *Tui) SetDuration(duration float64) {
	tui.tvPosition.SetCurrentValue(util.FormatDuration(duration))
}

func (tui *Tui) SetAudioFormat(format string) {
	tui.tvFormat.SetCurrentValue(format)
}

func (tui *Tui) SetProfileName(value string) {
	tui.tvProfileName.SetCurrentValue(value)
}

func (tui *Tui) SetTakeName(value string) {
	tui.tvTakeName.SetCurrentValue(value)
}

func (tui *Tui) SetDirectory(value string) {
	tui.tvDirectory.SetCurrentValue(value)
}

func (tui *Tui) SetSessionSize(size uint64) {
	tui.tvFileSize.SetCurrentValue(util.FormatSize(size))

	tui.lock.Lock()
	defer tui.lock.Unlock()

	if count := len(tui.elementOutputFiles); count > 0 {
		tui.elementOutputFiles[count-1].SetSize(size)
	}
}

func (tui *Tui) IncrementErrorCount() {
	tui.lock.Lock()
	tui.errorCount++
	count := tui.errorCount
	tui.lock.Unlock()

	tui.tvErrorCount.SetCurrentValue(fmt.Sprintf("%d", count))
	tui.tvErrorCount.SetColor(theme.Red)
}

func (tui *Tui) SetDroppedFrames(frames uint64) {
	tui.tvDropped.SetCurrentValue(fmt.Sprintf("%d", frames))

	if frames > 0 {
		tui.tvDropped.SetColor(theme.Red)
	}
}

//
// takes
//

func (tui *Tui) AddOutputFile(name string) {
	tui.lock.Lock()
	defer tui.lock.Unlock()

	field := custom.NewOutputFileField(layoutOutputFileSizeWidth, model.UiOutputFile{Name: name})
	tui.elementOutputFiles = append(tui.elementOutputFiles, field)

	fileCount := len(tui.elementOutputFiles)
	outputFileRows := make([]int, fileCount+1)
	for i := range fileCount {
		outputFileRows[i] = 1
	}
	outputFileRows[fileCount] = -1

	tui.gridOutputFiles.SetRows(outputFileRows...)
	tui.gridOutputFiles.AddItem(field.GetGrid(), fileCount-1, 0, 1, 1, 0, 0, false)
}

//
// waveform
//

func (tui *Tui) SetWaveformSource(source WaveformSource) {
	tui.waveformView.SetSource(source)
}

// WaveformChanged is a no-op beyond the regular redraw, the view pulls
// from its source on every draw.
func (tui *Tui) WaveformChanged() {}

//
// logging
//

func (tui *Tui) WriteLevelLog(level slog.Level, message string) {
	color := "-"

	if level == slog.LevelWarn {
		color = "#" + theme.YellowRGB
	} else if level == slog.LevelError {
		color = "#" + theme.RedRGB + "::b"
	} else if level <= slog.LevelDebug {
		color = "#" + theme.GrayRGB
	}

	tui.tvLogs.Write([]byte(fmt.Sprintf("[%s][%s[] [%s[] %s[-:-:-]\n", color, time.Now().Format("2006-01-02 15:04:05"), level.String(), cview.Escape(message))))
}

//
// status meters
//

func (tui *Tui) SetDiskUsage(percent int) {
	tui.statusMeterDiskUsed.SetCurrentValue(percent)
}

func (tui *Tui) SetBufferUtilization(percent int) {
	tui.statusMeterBufferUsed.SetCurrentValue(percent)
}
