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
package util

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512.00 B", FormatSize(512))
	assert.Equal(t, "1.50 KiB", FormatSize(1536))
	assert.Equal(t, "10.00 MiB", FormatSize(10*1024*1024))
	assert.Equal(t, "2.00 GiB", FormatSize(2*1024*1024*1024))
	assert.NotPanics(t, func() { FormatSize(math.MaxUint64) })
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00:00.000", FormatDuration(0))
	assert.Equal(t, "00:00:01.500", FormatDuration(1.5))
	assert.Equal(t, "00:01:05.250", FormatDuration(65.25))
	assert.Equal(t, "02:00:00.000", FormatDuration(7200))
}

func TestAmplitudeToDb(t *testing.T) {
	assert.Equal(t, MinimumDb, AmplitudeToDb(0))
	assert.Equal(t, MinimumDb, AmplitudeToDb(-1))
	assert.InDelta(t, 0.0, AmplitudeToDb(1), 1e-9)
	assert.InDelta(t, -6.02, AmplitudeToDb(0.5), 0.01)
}

func TestResolveHomeDirPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	resolved, err := ResolveHomeDirPath("~/takes")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "takes"), resolved)

	resolved, err = ResolveHomeDirPath("/tmp/takes")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/takes", resolved)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "A_recording.wav")
	dst := filepath.Join(dir, "keep.wav")

	require.NoError(t, os.WriteFile(src, []byte("RIFF take"), 0644))
	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "RIFF take", string(data))

	// the original stays put
	assert.True(t, FileExists(src))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestCopyFileErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "A_recording.wav")
	require.NoError(t, os.WriteFile(src, []byte("RIFF"), 0644))

	assert.ErrorIs(t, CopyFile(src, src), ErrSameFile)
	assert.ErrorIs(t, CopyFile(filepath.Join(dir, "missing.wav"), filepath.Join(dir, "out.wav")), os.ErrNotExist)

	err := CopyFile(src, filepath.Join(dir, "no", "such", "dir", "out.wav"))
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGetDiskSpace(t *testing.T) {
	info, err := GetDiskSpace(t.TempDir())
	if err != nil {
		t.Skip(err)
	}

	assert.Greater(t, info.Size, uint64(0))
	assert.LessOrEqual(t, info.Free, info.Size)
	assert.Equal(t, info.Size-info.Free, info.Used)
	assert.GreaterOrEqual(t, info.UsedPct, 0.0)
	assert.LessOrEqual(t, info.UsedPct, 100.0)
}
