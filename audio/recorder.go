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

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"sync"
	"sync/atomic"

	"playrec/waveform"

	"github.com/google/uuid"
)

const (
	// recordings are always mono
	OutputChannels = 1

	DefaultBitDepth   = 16
	DefaultFifoFrames = 32768
)

type State int32

const (
	StateIdle State = iota
	StateArmed
	StateRecording
)

var stateNames = map[State]string{
	StateIdle:      "Idle",
	StateArmed:     "Armed",
	StateRecording: "Recording",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return "Unknown"
}

type RecorderOptions struct {
	BitDepth int

	// BufferSeconds sizes each take's fifo from the sample rate the device
	// negotiated. FifoFrames is used when it is not set.
	BufferSeconds float64
	FifoFrames    int

	Logger *slog.Logger
}

func (o RecorderOptions) fifoFrames(sampleRate float64) int {
	if o.BufferSeconds > 0 && sampleRate > 0 {
		return max(1, int(math.Ceil(o.BufferSeconds*sampleRate)))
	}

	return o.FifoFrames
}

// Status describes the current take, or the last one once stopped.
type Status struct {
	State      State
	SessionID  string
	Path       string
	SampleRate float64
	Writer     WriterStats
	Faults     int64
}

// Duration in seconds of the audio accepted for this take.
func (s Status) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}

	return float64(s.Writer.FramesQueued) / s.SampleRate
}

// FileSize is the expected size of the output file once finalized.
func (s Status) FileSize(bitDepth int) uint64 {
	if s.Path == "" {
		return 0
	}

	return wavHeaderSize + uint64(s.Writer.FramesWritten)*uint64(OutputChannels*bitDepth/8)
}

// Recorder records the device stream to a WAV file and keeps a waveform
// summary of it. It is also the Callback handed to the device.
//
// Start, Stop and Status are called from control goroutines. AboutToStart,
// Process and Stopped are called by the device.
type Recorder struct {
	stream  *DeviceStream
	summary *waveform.Summary
	options RecorderOptions
	logger  *slog.Logger

	// serializes Start and Stop
	controlLock sync.Mutex
	writer      *BufferedWriter

	// guards the handoff of the active writer and the sample cursor
	writerLock   sync.Mutex
	activeWriter atomic.Pointer[BufferedWriter]
	nextSample   int64

	statusLock   sync.Mutex
	statusWriter *BufferedWriter
	sessionID    string
	path         string
	sampleRate   float64

	state  atomic.Int32
	faults atomic.Int64
}

func NewRecorder(stream *DeviceStream, summary *waveform.Summary, options RecorderOptions) *Recorder {
	if options.BitDepth == 0 {
		options.BitDepth = DefaultBitDepth
	}

	if options.FifoFrames <= 0 {
		options.FifoFrames = DefaultFifoFrames
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &Recorder{
		stream:  stream,
		summary: summary,
		options: options,
		logger:  options.Logger,
	}
}

// Start begins a new take at path, replacing any file already there. A
// take already in progress is stopped and finalized first.
func (r *Recorder) Start(path string) error {
	r.controlLock.Lock()
	defer r.controlLock.Unlock()

	if err := r.stopLocked(); err != nil {
		r.logger.Warn("Previous take did not close cleanly: " + err.Error())
	}

	sampleRate := r.stream.SampleRate()
	if sampleRate <= 0 {
		return ErrNoStream
	}

	r.state.Store(int32(StateArmed))

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.state.Store(int32(StateIdle))
		return fmt.Errorf("%w: %s: %w", ErrOpenFailure, path, err)
	}

	outputFile, err := CreateOutputFile(path, int(math.Round(sampleRate)), OutputChannels, r.options.BitDepth)
	if err != nil {
		r.state.Store(int32(StateIdle))
		return fmt.Errorf("%w: %s: %w", ErrOpenFailure, path, err)
	}

	sessionID := uuid.NewString()
	logger := r.logger.With("session", sessionID)
	writer := NewBufferedWriter(outputFile, outputFile.SampleRate, r.options.BitDepth, r.options.fifoFrames(sampleRate), logger)

	r.summary.Reset(OutputChannels, sampleRate)

	r.writerLock.Lock()
	r.nextSample = 0
	r.activeWriter.Store(writer)
	r.writerLock.Unlock()

	r.writer = writer

	r.statusLock.Lock()
	r.statusWriter = writer
	r.sessionID = sessionID
	r.path = path
	r.sampleRate = sampleRate
	r.statusLock.Unlock()

	r.state.Store(int32(StateRecording))

	logger.Info(fmt.Sprintf("Recording to %s (%dbit / %d Hz mono)", path, r.options.BitDepth, outputFile.SampleRate))

	return nil
}

// Stop ends the current take. It returns once every queued sample has been
// written and the file is finalized. Stopping while idle does nothing.
func (r *Recorder) Stop() error {
	r.controlLock.Lock()
	defer r.controlLock.Unlock()

	return r.stopLocked()
}

func (r *Recorder) stopLocked() error {
	// once this returns the callback can no longer reach the writer
	r.writerLock.Lock()
	r.activeWriter.Store(nil)
	r.writerLock.Unlock()

	writer := r.writer
	if writer == nil {
		return nil
	}
	r.writer = nil

	err := writer.Close()
	r.state.Store(int32(StateIdle))

	r.logger.Info("Recording stopped: " + r.Status().Path)

	return err
}

// IsRecording never blocks.
func (r *Recorder) IsRecording() bool {
	return r.activeWriter.Load() != nil
}

func (r *Recorder) Status() Status {
	r.statusLock.Lock()
	defer r.statusLock.Unlock()

	status := Status{
		State:      State(r.state.Load()),
		SessionID:  r.sessionID,
		Path:       r.path,
		SampleRate: r.sampleRate,
		Faults:     r.faults.Load(),
	}

	if r.statusWriter != nil {
		status.Writer = r.statusWriter.Stats()
	}

	return status
}

// Utilization of the active writer's fifo, zero when idle.
func (r *Recorder) Utilization() float64 {
	if writer := r.activeWriter.Load(); writer != nil {
		return writer.Utilization()
	}

	return 0
}

func (r *Recorder) Summary() *waveform.Summary {
	return r.summary
}

func (r *Recorder) Stream() *DeviceStream {
	return r.stream
}

func (r *Recorder) BitDepth() int {
	return r.options.BitDepth
}

//
// device callback
//

func (r *Recorder) AboutToStart(sampleRate float64, channelCount int) {
	r.stream.Open(sampleRate, channelCount)
}

func (r *Recorder) Stopped() {
	r.stream.Close()
}

// Process runs on the device thread. It must not allocate, block on
// anything but writerLock or touch the disk. Output channels are always
// cleared so nothing is monitored back to the speakers.
func (r *Recorder) Process(input [][]float32, output [][]float32, frames int) {
	if frames > 0 {
		r.capture(input, frames)
	}

	for _, channel := range output {
		clear(channel[:min(frames, len(channel))])
	}
}

func (r *Recorder) capture(input [][]float32, frames int) {
	defer func() {
		if recover() != nil {
			r.faults.Add(1)
		}
	}()

	r.writerLock.Lock()
	defer r.writerLock.Unlock()

	writer := r.activeWriter.Load()
	if writer == nil {
		return
	}

	channels := r.summary.NumChannels()
	if len(input) < channels {
		return
	}

	for _, channel := range input[:channels] {
		if len(channel) < frames {
			return
		}
	}

	writer.Write(input, frames)
	r.summary.AddBlock(r.nextSample, input[:channels], frames)
	r.nextSample += int64(frames)
}
