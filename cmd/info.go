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
package cmd

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/cobra"

	"playrec/util"
	"playrec/waveform"
)

const infoBlockFrames = 4096

var errNotWav = errors.New("not a WAV file")

var peakRunes = []rune(" ▁▂▃▄▅▆▇█")

var (
	argWidth int

	infoCmd = &cobra.Command{
		Use:   "info <file.wav>",
		Short: "Show the format of a take and a preview of its waveform",
		Args:  cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := readWavInfo(args[0], argWidth)
			if err != nil {
				return err
			}

			info.print(cmd.OutOrStdout())
			return nil
		},
	}
)

func init() {
	infoCmd.Flags().IntVarP(&argWidth, "width", "w", 80, "columns in the waveform preview")

	rootCmd.AddCommand(infoCmd)
}

type wavInfo struct {
	Path       string
	Size       uint64
	SampleRate int
	BitDepth   int
	Channels   int
	Frames     int
	Peak       float32

	// one rendering per channel
	Waveform []waveform.Rendering
}

func (i *wavInfo) Duration() float64 {
	if i.SampleRate <= 0 {
		return 0
	}

	return float64(i.Frames) / float64(i.SampleRate)
}

// readWavInfo decodes a WAV file and folds it through a waveform summary
// the same way a live take is, rendering width columns per channel.
func readWavInfo(path string, width int) (*wavInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s: %w", path, errNotWav)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	info := &wavInfo{
		Path:       path,
		Size:       uint64(stat.Size()),
		SampleRate: int(decoder.SampleRate),
		BitDepth:   int(decoder.BitDepth),
		Channels:   int(decoder.NumChans),
	}

	if info.Channels > 0 {
		info.Frames = len(buf.Data) / info.Channels
	}

	if info.SampleRate <= 0 || info.Channels <= 0 {
		return info, nil
	}

	duration := time.Duration(info.Duration()*float64(time.Second)) + time.Second
	summary := waveform.New(waveform.DefaultWindowSize, duration)
	summary.Reset(info.Channels, float64(info.SampleRate))

	info.Peak = foldSamples(summary, buf, info.BitDepth)

	for ch := range info.Channels {
		info.Waveform = append(info.Waveform, summary.Render(ch, 0, summary.TotalLength(), width))
	}

	return info, nil
}

// foldSamples scales the interleaved ints to -1..1, feeds them to summary
// in blocks and returns the absolute peak.
func foldSamples(summary *waveform.Summary, buf *goaudio.IntBuffer, bitDepth int) float32 {
	channels := summary.NumChannels()
	scale := float32(math.Pow(2, float64(bitDepth-1)))

	block := make([][]float32, channels)
	for ch := range block {
		block[ch] = make([]float32, infoBlockFrames)
	}

	peak := float32(0)
	totalFrames := len(buf.Data) / channels

	for start := 0; start < totalFrames; start += infoBlockFrames {
		frames := min(infoBlockFrames, totalFrames-start)

		for frame := range frames {
			for ch := range channels {
				sample := float32(buf.Data[(start+frame)*channels+ch]) / scale
				block[ch][frame] = sample
				peak = max(peak, sample, -sample)
			}
		}

		summary.AddBlock(int64(start), block, frames)
	}

	return peak
}

func (i *wavInfo) print(out io.Writer) {
	sampleRate := float64(i.SampleRate) / 1000.0

	fmt.Fprintf(out, "file:      %s\n", i.Path)
	fmt.Fprintf(out, "format:    %dbit / %gKHz, %d channel(s)\n", i.BitDepth, sampleRate, i.Channels)
	fmt.Fprintf(out, "duration:  %s (%d frames)\n", util.FormatDuration(i.Duration()), i.Frames)
	fmt.Fprintf(out, "size:      %s\n", util.FormatSize(i.Size))

	if i.Frames == 0 {
		fmt.Fprintln(out, "peak:      silent")
		return
	}

	fmt.Fprintf(out, "peak:      %0.1f dBFS\n", util.AmplitudeToDb(float64(i.Peak)))

	for ch, rendering := range i.Waveform {
		fmt.Fprintf(out, "\n%d │%s│\n", ch+1, peakLine(rendering.Points))
	}
}

// peakLine draws one rune per point, its height the point's absolute peak.
func peakLine(points []waveform.MinMax) string {
	var line strings.Builder

	top := len(peakRunes) - 1

	for _, point := range points {
		peak := float64(max(point.Max, -point.Min))
		level := int(math.Ceil(min(1, max(0, peak)) * float64(top)))

		line.WriteRune(peakRunes[level])
	}

	return line.String()
}
