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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"playrec/model"
)

const (
	jsonStatusInterval = 1 * time.Second

	jsonWaveformSeconds = 10.0
	jsonWaveformPoints  = 200
)

//
// types
//

type JsonUI struct {
	output io.Writer
	input  io.Reader

	quit     chan struct{}
	stopped  chan struct{}
	quitOnce sync.Once

	interval time.Duration

	outputLock sync.Mutex
	lock       sync.Mutex

	handler CommandHandler

	statusTransport     Status
	statusDuration      float64
	statusFormat        string
	statusSessionSize   uint64
	statusErrorCount    int
	statusDroppedFrames uint64
	statusProfileName   string
	statusTakeName      string
	statusDirectory     string

	metricDiskUsedPct   int
	metricBufferUsedPct int

	outputFiles     []model.UiOutputFile
	waveformSource  WaveformSource
	waveformChanged bool
}

//
// constructor
//

// NewJsonUI writes one JSON object per line to output and reads commands,
// one per line, from input. input may be nil.
func NewJsonUI(output io.Writer, input io.Reader) *JsonUI {
	return &JsonUI{
		output:   output,
		input:    input,
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
		interval: jsonStatusInterval,
		handler:  func(Command) {},

		statusTransport: StatusStarting,
		outputFiles:     make([]model.UiOutputFile, 0),
	}
}

func (j *JsonUI) Initialize() {
	// nothing to do here
}

func (j *JsonUI) Start() {
	go j.excecuteLoop()

	if j.input != nil {
		go j.readCommands()
	}
}

func (j *JsonUI) Shutdown() {
	slog.Debug("Shutting down JSON UI")
	j.quitOnce.Do(func() { close(j.quit) })

	j.WaitForShutdown()
}

func (j *JsonUI) IsShutdown() bool {
	select {
	case <-j.stopped:
		return true
	default:
		return false
	}
}

func (j *JsonUI) WaitForShutdown() {
	<-j.stopped
}

func (j *JsonUI) SetCommandHandler(handler CommandHandler) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.handler = handler
}

//
// status update functions
//

func (j *JsonUI) SetTransportStatus(status Status) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.statusTransport = status
}

func (j *JsonUI) SetDuration(duration float64) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.statusDuration = duration
}

func (j *JsonUI) SetAudioFormat(format string) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.statusFormat = format
}

func (j *JsonUI) SetProfileName(value string) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.statusProfileName = value
}

func (j *JsonUI) SetTakeName(value string) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.statusTakeName = value
}

func (j *JsonUI) SetDirectory(value string) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.statusDirectory = value
}

func (j *JsonUI) SetSessionSize(size uint64) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.statusSessionSize = size

	if count := len(j.outputFiles); count > 0 {
		j.outputFiles[count-1].Size = size
	}
}

func (j *JsonUI) AddOutputFile(name string) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.outputFiles = append(j.outputFiles, model.UiOutputFile{Name: name})
}

func (j *JsonUI) IncrementErrorCount() {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.statusErrorCount += 1
}

func (j *JsonUI) SetDroppedFrames(frames uint64) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.statusDroppedFrames = frames
}

func (j *JsonUI) SetWaveformSource(source WaveformSource) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.waveformSource = source
	j.waveformChanged = true
}

func (j *JsonUI) WaveformChanged() {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.waveformChanged = true
}

func (j *JsonUI) WriteLevelLog(level slog.Level, message string) {
	j.printJson(JsonLog{
		MessageType: "log",

		Date:    time.Now().Format(time.RFC3339),
		Level:   level.String(),
		Message: message,
	})
}

func (j *JsonUI) SetDiskUsage(percent int) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.metricDiskUsedPct = percent
}

func (j *JsonUI) SetBufferUtilization(percent int) {
	j.lock.Lock()
	defer j.lock.Unlock()

	j.metricBufferUsedPct = percent
}

//
// private functions
//

func (j *JsonUI) excecuteLoop() {
	defer close(j.stopped)

	slog.Debug("JSON loop started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		j.publish()

		select {
		case <-j.quit:
			// one last status so consumers see the final state
			j.publish()
			slog.Debug("JSON UI shut down")
			return
		case <-ticker.C:
		}
	}
}

func (j *JsonUI) publish() {
	j.printJson(j.getStatus())
	j.printJson(j.getOutputFiles())

	if waveform := j.getWaveform(); waveform != nil {
		j.printJson(waveform)
	}
}

func (j *JsonUI) readCommands() {
	scanner := bufio.NewScanner(j.input)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		command, err := ParseCommand(line)
		if err != nil {
			j.printJson(JsonCommandError{
				MessageType: "command_error",
				Command:     line,
				Error:       err.Error(),
			})
			continue
		}

		j.lock.Lock()
		handler := j.handler
		j.lock.Unlock()

		handler(command)

		if command.Action == ActionQuit {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		slog.Warn("Stopped reading commands: " + err.Error())
	}
}

func (j *JsonUI) printJson(v any) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		slog.Error("Error marshalling to JSON: " + err.Error())
		return
	}

	j.outputLock.Lock()
	defer j.outputLock.Unlock()

	fmt.Fprintln(j.output, string(jsonBytes))
}

func (j *JsonUI) getStatus() *JsonStatus {
	j.lock.Lock()
	defer j.lock.Unlock()

	return &JsonStatus{
		MessageType: "status",

		Status: j.statusTransport.String(),

		Duration:      j.statusDuration,
		Format:        j.statusFormat,
		SessionSize:   j.statusSessionSize,
		ErrorCount:    j.statusErrorCount,
		DroppedFrames: j.statusDroppedFrames,
		ProfileName:   j.statusProfileName,
		TakeName:      j.statusTakeName,
		Directory:     j.statusDirectory,

		DiskUsedPct:   j.metricDiskUsedPct,
		BufferUsedPct: j.metricBufferUsedPct,
	}
}

func (j *JsonUI) getOutputFiles() *JsonOutputFiles {
	j.lock.Lock()
	defer j.lock.Unlock()

	outputFiles := &JsonOutputFiles{
		MessageType: "files",

		Files: make([]JsonOutputFile, len(j.outputFiles)),
	}

	for i, file := range j.outputFiles {
		outputFiles.Files[i].Name = file.Name
		outputFiles.Files[i].Size = file.Size
	}

	return outputFiles
}

// getWaveform returns nil unless the waveform changed since it was last
// published.
func (j *JsonUI) getWaveform() *JsonWaveform {
	j.lock.Lock()
	source := j.waveformSource
	changed := j.waveformChanged
	j.waveformChanged = false
	j.lock.Unlock()

	if source == nil || !changed {
		return nil
	}

	end := source.TotalLength()
	start := max(0, end-jsonWaveformSeconds)
	rendering := source.Render(0, start, end, jsonWaveformPoints)

	waveform := &JsonWaveform{
		MessageType: "waveform",

		Start:           rendering.StartTime(),
		Length:          end,
		SamplesPerPoint: rendering.SamplesPerPoint,
		SampleRate:      rendering.SampleRate,
		Min:             make([]float32, len(rendering.Points)),
		Max:             make([]float32, len(rendering.Points)),
	}

	for i, point := range rendering.Points {
		waveform.Min[i] = point.Min
		waveform.Max[i] = point.Max
	}

	return waveform
}
