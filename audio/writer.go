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
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/transforms"
)

const (
	// how often the disk writer checks the fifo when nobody pokes it
	writerPollInterval = 10 * time.Millisecond

	// largest block handed to the sink in one call
	writerChunkFrames = 4096
)

// WriterStats is a snapshot of a BufferedWriter's counters.
type WriterStats struct {
	FramesQueued  int64
	FramesWritten int64
	FramesDropped int64
	FifoUsed      int
	FifoSize      int
	Degraded      bool
	Err           error
}

// BufferedWriter decouples the device callback from the disk. Write copies
// a block into a lock free fifo and returns immediately. A background
// goroutine drains the fifo, converts the samples to PCM and hands them to
// the sink. The output is always a single channel, taken from the first
// input channel.
type BufferedWriter struct {
	sink     Sink
	format   *goaudio.Format
	bitDepth int
	fifo     *sampleFifo
	scratch  []float32
	logger   *slog.Logger

	wake     chan struct{}
	done     chan struct{}
	finished chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error

	framesQueued  atomic.Int64
	framesWritten atomic.Int64
	framesDropped atomic.Int64
	degraded      atomic.Bool
	writeErr      atomic.Value
}

// NewBufferedWriter starts the disk writer goroutine. fifoFrames is the
// number of frames the fifo can hold before blocks get dropped.
func NewBufferedWriter(sink Sink, sampleRate int, bitDepth int, fifoFrames int, logger *slog.Logger) *BufferedWriter {
	if logger == nil {
		logger = slog.Default()
	}

	w := &BufferedWriter{
		sink: sink,
		format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		bitDepth: bitDepth,
		fifo:     newSampleFifo(fifoFrames),
		scratch:  make([]float32, writerChunkFrames),
		logger:   logger,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}

	go w.run()

	return w
}

// Write queues frames samples from the first channel of block. It never
// blocks. A block that does not fit in the fifo is dropped as a whole and
// false is returned, as it is once the writer is degraded or closed.
func (w *BufferedWriter) Write(block [][]float32, frames int) bool {
	if frames <= 0 {
		return true
	}

	if w.closed.Load() || w.degraded.Load() || len(block) == 0 || len(block[0]) < frames {
		w.framesDropped.Add(int64(frames))
		return false
	}

	if !w.fifo.Write(block[0][:frames]) {
		w.framesDropped.Add(int64(frames))
		return false
	}

	w.framesQueued.Add(int64(frames))

	select {
	case w.wake <- struct{}{}:
	default:
	}

	return true
}

// Close stops accepting samples, drains everything already queued to the
// sink and finalizes it. It blocks until the file is complete and is safe
// to call more than once.
func (w *BufferedWriter) Close() error {
	w.closeOnce.Do(func() {
		w.closed.Store(true)
		close(w.done)
		<-w.finished

		if err := w.sink.Close(); err != nil {
			w.closeErr = fmt.Errorf("closing output: %w", err)
		}

		stats := w.Stats()
		w.logger.Info(fmt.Sprintf("Disk writer finished: %d frames written, %d dropped", stats.FramesWritten, stats.FramesDropped))
	})

	return w.closeErr
}

// Err returns the write error that degraded the writer, or nil.
func (w *BufferedWriter) Err() error {
	if err, ok := w.writeErr.Load().(error); ok {
		return err
	}

	return nil
}

func (w *BufferedWriter) Degraded() bool {
	return w.degraded.Load()
}

func (w *BufferedWriter) Stats() WriterStats {
	return WriterStats{
		FramesQueued:  w.framesQueued.Load(),
		FramesWritten: w.framesWritten.Load(),
		FramesDropped: w.framesDropped.Load(),
		FifoUsed:      w.fifo.Len(),
		FifoSize:      w.fifo.Cap(),
		Degraded:      w.degraded.Load(),
		Err:           w.Err(),
	}
}

// Utilization is the fraction of the fifo currently holding samples.
func (w *BufferedWriter) Utilization() float64 {
	return float64(w.fifo.Len()) / float64(w.fifo.Cap())
}

func (w *BufferedWriter) run() {
	defer close(w.finished)

	ticker := time.NewTicker(writerPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			// producer is gone, whatever is left is the tail of the take
			w.drain()
			return
		case <-w.wake:
		case <-ticker.C:
		}

		w.drain()
	}
}

func (w *BufferedWriter) drain() {
	for {
		n := w.fifo.Read(w.scratch)
		if n == 0 {
			return
		}

		if w.degraded.Load() {
			w.framesDropped.Add(int64(n))
			continue
		}

		if err := w.writeBlock(w.scratch[:n]); err != nil {
			w.markDegraded(err)
			w.framesDropped.Add(int64(n))
			continue
		}

		w.framesWritten.Add(int64(n))
	}
}

func (w *BufferedWriter) writeBlock(samples []float32) error {
	for i, sample := range samples {
		samples[i] = max(-1, min(1, sample))
	}

	fBuf := &goaudio.Float32Buffer{
		Data:   samples,
		Format: w.format,
	}

	if err := transforms.PCMScaleF32(fBuf, w.bitDepth); err != nil {
		return err
	}

	iBuf := fBuf.AsIntBuffer()
	iBuf.SourceBitDepth = w.bitDepth

	// full scale must not wrap when narrowed to the file's sample size
	limit := 1<<(w.bitDepth-1) - 1
	for i, value := range iBuf.Data {
		iBuf.Data[i] = max(-limit-1, min(limit, value))
	}

	return w.sink.Write(iBuf)
}

func (w *BufferedWriter) markDegraded(err error) {
	wrapped := fmt.Errorf("%w: %w", ErrWriteDegraded, err)
	w.writeErr.Store(wrapped)
	w.degraded.Store(true)

	w.logger.Error("Disk write failed, further samples for this take will be dropped: " + err.Error())
}
