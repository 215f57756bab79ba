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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playrec/audio"
	"playrec/util"
	"playrec/waveform"
)

func writeTestWav(t *testing.T, path string, sampleRate int, samples []int) {
	t.Helper()

	of, err := audio.CreateOutputFile(path, sampleRate, 1, 16)
	require.NoError(t, err)

	if len(samples) > 0 {
		require.NoError(t, of.Write(&goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
			Data:           samples,
			SourceBitDepth: 16,
		}))
	}

	require.NoError(t, of.Close())
}

func TestReadWavInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A_recording.wav")

	// one second at 8 kHz, half scale for the first half then silence
	samples := make([]int, 8000)
	for i := range 4000 {
		if i%2 == 0 {
			samples[i] = 16384
		} else {
			samples[i] = -16384
		}
	}
	writeTestWav(t, path, 8000, samples)

	info, err := readWavInfo(path, 10)
	require.NoError(t, err)

	assert.Equal(t, 8000, info.SampleRate)
	assert.Equal(t, 16, info.BitDepth)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 8000, info.Frames)
	assert.InDelta(t, 1.0, info.Duration(), 1e-9)
	assert.InDelta(t, 0.5, info.Peak, 1e-6)
	assert.Equal(t, uint64(44+8000*2), info.Size)

	require.Len(t, info.Waveform, 1)
	points := info.Waveform[0].Points
	require.NotEmpty(t, points)
	assert.LessOrEqual(t, len(points), 10)
	assert.InDelta(t, 0.5, points[0].Max, 1e-6)
	assert.Equal(t, float32(0), points[len(points)-1].Max)

	var out bytes.Buffer
	info.print(&out)
	assert.Contains(t, out.String(), "16bit / 8KHz, 1 channel(s)")
	assert.Contains(t, out.String(), "-6.0 dBFS")
}

func TestReadWavInfoEmptyTake(t *testing.T) {
	path := filepath.Join(t.TempDir(), "B_recording.wav")
	writeTestWav(t, path, 48000, nil)

	info, err := readWavInfo(path, 80)
	require.NoError(t, err)
	assert.Equal(t, 0, info.Frames)

	var out bytes.Buffer
	info.print(&out)
	assert.Contains(t, out.String(), "silent")
}

func TestReadWavInfoRejectsOtherFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not audio at all, just some text"), 0644))

	_, err := readWavInfo(path, 80)
	assert.ErrorIs(t, err, errNotWav)
}

func TestPeakLine(t *testing.T) {
	line := peakLine([]waveform.MinMax{
		{Min: 0, Max: 0},
		{Min: -1, Max: 0.2},
		{Min: -0.1, Max: 2},
	})

	assert.Equal(t, " ██", line)
	assert.Equal(t, 3, len([]rune(line)))
}

func TestFindTake(t *testing.T) {
	dir := t.TempDir()

	_, err := findTake(dir, "")
	assert.ErrorIs(t, err, util.ErrNoTakes)

	for _, take := range []string{"A", "B"} {
		require.NoError(t, os.WriteFile(util.TakePath(dir, take), []byte("RIFF"), 0644))
	}

	path, err := findTake(dir, "")
	require.NoError(t, err)
	assert.Equal(t, util.TakePath(dir, "B"), path)

	path, err = findTake(dir, "a")
	require.NoError(t, err)
	assert.Equal(t, util.TakePath(dir, "A"), path)

	_, err = findTake(dir, "C")
	assert.ErrorIs(t, err, util.ErrNoTakes)
}

func TestCommands(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	takes := t.TempDir()
	writeTestWav(t, util.TakePath(takes, "A"), 8000, []int{1, 2, 3, 4})

	dest := t.TempDir()

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs(args)

		err := rootCmd.Execute()
		return out.String(), err
	}

	out, err := run("config", "show", "--log-level", "warn", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "log_level: warn")
	assert.Contains(t, out, "output_type: json")

	out, err = run("save", dest, "--dir", takes, "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "A_recording.wav"), strings.TrimSpace(out))
	assert.FileExists(t, filepath.Join(dest, "A_recording.wav"))

	out, err = run("info", filepath.Join(dest, "A_recording.wav"), "--width", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "(4 frames)")

	_, err = run("config", "show", "--output", "speakers")
	assert.ErrorContains(t, err, "invalid output type")
}
