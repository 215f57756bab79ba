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
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// wav format tag for integer PCM
	wavFormatPCM = 1

	wavHeaderSize = 44
)

// Sink receives PCM blocks from the BufferedWriter. Close finalizes
// whatever container the sink writes.
type Sink interface {
	Write(buf *goaudio.IntBuffer) error
	Close() error
}

// OutputFile is a WAV file being written incrementally.
type OutputFile struct {
	FilePath     string
	FileName     string
	FileHandle   *os.File
	Encoder      *wav.Encoder
	ChannelCount int
	BitDepth     int
	SampleRate   int

	frames int64
}

func CreateOutputFile(filePath string, sampleRate int, channelCount int, bitDepth int) (*OutputFile, error) {
	f, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}

	return &OutputFile{
		FilePath:     filePath,
		FileName:     filepath.Base(filePath),
		FileHandle:   f,
		Encoder:      wav.NewEncoder(f, sampleRate, bitDepth, channelCount, wavFormatPCM),
		ChannelCount: channelCount,
		BitDepth:     bitDepth,
		SampleRate:   sampleRate,
	}, nil
}

func (of *OutputFile) Write(buf *goaudio.IntBuffer) error {
	if err := of.Encoder.Write(buf); err != nil {
		return err
	}

	of.frames += int64(len(buf.Data) / of.ChannelCount)
	return nil
}

// Frames returns the number of frames handed to the encoder so far.
func (of *OutputFile) Frames() int64 {
	return of.frames
}

// Size is the expected size on disk once the header is finalized.
func (of *OutputFile) Size() uint64 {
	return wavHeaderSize + uint64(of.frames)*uint64(of.ChannelCount*of.BitDepth/8)
}

// Close fixes up the header sizes and closes the file. The encoder only
// emits a header on its first write, so an empty take gets an empty write
// first to keep the file valid.
func (of *OutputFile) Close() error {
	var errs []error

	if of.Encoder != nil {
		if of.frames == 0 {
			empty := &goaudio.IntBuffer{
				Format: &goaudio.Format{
					NumChannels: of.ChannelCount,
					SampleRate:  of.SampleRate,
				},
				Data:           []int{},
				SourceBitDepth: of.BitDepth,
			}

			if err := of.Encoder.Write(empty); err != nil {
				errs = append(errs, fmt.Errorf("writing header: %w", err))
			}
		}

		if err := of.Encoder.Close(); err != nil {
			errs = append(errs, fmt.Errorf("finalizing wav: %w", err))
		}
		of.Encoder = nil
	}

	if of.FileHandle != nil {
		if err := of.FileHandle.Close(); err != nil {
			errs = append(errs, err)
		}
		of.FileHandle = nil
	}

	return errors.Join(errs...)
}
