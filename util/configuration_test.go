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
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "tui", config.OutputType)
	assert.True(t, config.Permissions.RecordAudio)
	assert.True(t, config.Permissions.WriteStorage)
	assert.False(t, config.SimulationOptions.EnableSimulation)
	assert.Equal(t, 440.0, config.SimulationOptions.Frequency)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")

	contents := `
log_level: debug
output_type: json
permissions:
  record_audio: false
simulation_options:
  enable: true
  frequency: 1000
`
	require.NoError(t, os.WriteFile(configFile, []byte(contents), 0644))
	t.Setenv("PLAYREC_PROFILE", "studio")
	t.Setenv("PLAYREC_PERMISSIONS_WRITE_STORAGE", "false")

	config, err := LoadConfig(viper.New(), configFile)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "json", config.OutputType)
	assert.Equal(t, "studio", config.Profile)
	assert.False(t, config.Permissions.RecordAudio)
	assert.False(t, config.Permissions.WriteStorage)
	assert.True(t, config.SimulationOptions.EnableSimulation)
	assert.Equal(t, 1000.0, config.SimulationOptions.Frequency)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")

	require.NoError(t, os.WriteFile(configFile, []byte("output_type: gui\n"), 0644))
	_, err := LoadConfig(viper.New(), configFile)
	assert.ErrorContains(t, err, "invalid output type")

	require.NoError(t, os.WriteFile(configFile, []byte("log_level: loud\n"), 0644))
	_, err = LoadConfig(viper.New(), configFile)
	assert.ErrorContains(t, err, "unexpected log level")

	require.NoError(t, os.WriteFile(configFile, []byte("log_level: [\n"), 0644))
	_, err = LoadConfig(viper.New(), configFile)
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("trace")
	require.NoError(t, err)
	assert.Equal(t, LevelTrace, level)

	level, err = ParseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}
