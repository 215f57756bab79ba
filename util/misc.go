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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	LevelTrace = slog.Level(-10)

	// floor used for silence when converting to dBFS
	MinimumDb = -150.0
)

var ErrYamlNotFound = errors.New("no yaml file found")

func FileExists(path string) bool {
	// if an error occurred or its a directory, we throw up
	if stat, err := os.Stat(path); err != nil || stat.IsDir() {
		return false
	}

	return true
}

func DirectoryExists(testDir string) bool {
	if stat, err := os.Stat(testDir); err != nil || !stat.IsDir() {
		return false
	}

	return true
}

func ResolveHomeDirPath(testPath string) (string, error) {
	if testPath == "~" || strings.HasPrefix(testPath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not find user home dir: %w", err)
		}

		return filepath.Join(homeDir, strings.TrimPrefix(testPath[1:], "/")), nil
	}

	return testPath, nil
}

// ConfigDirectory is where per user config and profiles live.
func ConfigDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home dir: %w", err)
	}

	return filepath.Join(homeDir, ".config", "playrec"), nil
}

// FindYamlFile resolves fileName the same way for every yaml file the app
// reads. Absolute and ~/ paths are taken as is, anything else is looked
// for next to the executable, then in the working directory, then in the
// user config directory.
func FindYamlFile(fileName string) (string, error) {
	if filepath.IsAbs(fileName) || strings.HasPrefix(fileName, "~/") {
		filePath, err := ResolveHomeDirPath(fileName)
		if err != nil {
			return "", err
		}

		if !FileExists(filePath) {
			return "", fmt.Errorf("%w: %s", ErrYamlNotFound, filePath)
		}

		return filePath, nil
	}

	searchDirs := make([]string, 0, 3)

	if binPath, err := os.Executable(); err == nil {
		searchDirs = append(searchDirs, filepath.Dir(binPath))
	}

	if cwd, err := os.Getwd(); err == nil {
		searchDirs = append(searchDirs, cwd)
	}

	if configDir, err := ConfigDirectory(); err == nil {
		searchDirs = append(searchDirs, configDir)
	}

	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, fileName)

		if FileExists(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrYamlNotFound, fileName)
}

// ReadYamlFile decodes fileName into cfg and returns the path it was read
// from. Fields missing from the file keep whatever value cfg already had.
func ReadYamlFile(cfg interface{}, fileName string) (string, error) {
	filePath, err := FindYamlFile(fileName)
	if err != nil {
		return "", err
	}

	slog.Info("Reading yaml from " + filePath)

	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(cfg); err != nil {
		return "", fmt.Errorf("parsing %s: %w", filePath, err)
	}

	return filePath, nil
}

func TraceLog(message string, args ...any) {
	slog.Log(context.Background(), LevelTrace, message, args...)
}

func FormatSize(bytes uint64) string {
	suffix := []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

	i := 0
	bytesFloat := float64(bytes)

	if bytes > 1024 {
		for i = 0; (bytes/1024) > 0 && i < len(suffix)-1; i++ {
			bytesFloat = float64(bytes) / 1024.0
			bytes /= 1024
		}
	}

	return fmt.Sprintf("%.02f %s", bytesFloat, suffix[i])
}

func FormatDuration(duration float64) string {
	hours := 0
	minutes := 0
	seconds := 0

	if duration >= 3600 {
		hours = int(duration) / 3600
		duration -= float64(hours) * 3600.0
	}

	if duration >= 60 {
		minutes = int(duration) / 60
		duration -= float64(minutes) * 60
	}

	seconds = int(duration)
	duration -= float64(seconds)

	mseconds := int(math.Round(duration * 1000))
	if mseconds > 999 {
		mseconds = 999
	}

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, mseconds)
}

// AmplitudeToDb converts a linear peak amplitude to dBFS.
func AmplitudeToDb(amplitude float64) float64 {
	if amplitude <= 0 {
		return MinimumDb
	}

	return max(MinimumDb, math.Log10(amplitude)*20.0)
}
