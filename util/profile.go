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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"playrec/model"
)

const takeSuffix = "_recording.wav"

var ErrNoTakes = errors.New("no recorded takes found")

// ReadProfile loads a profile by name or path on top of the defaults. An
// empty name returns the defaults. profileDir, when set, is searched before
// the usual yaml locations.
func ReadProfile(profileName string, profileDir string) (*model.Profile, error) {
	profile := model.DefaultProfile()

	if profileName != "" {
		if !strings.HasSuffix(profileName, ".profile") {
			profileName += ".profile"
		}

		if profileDir != "" && !filepath.IsAbs(profileName) {
			if dir, err := ResolveHomeDirPath(profileDir); err == nil && FileExists(filepath.Join(dir, profileName)) {
				profileName = filepath.Join(dir, profileName)
			}
		}

		if _, err := ReadYamlFile(profile, profileName); err != nil {
			return nil, fmt.Errorf("reading profile: %w", err)
		}

		if profile.Name == model.DefaultProfile().Name {
			profile.Name = strings.TrimSuffix(filepath.Base(profileName), ".profile")
		}
	}

	if err := prepareOutputDirectory(profile, time.Now()); err != nil {
		return nil, err
	}

	return profile, nil
}

func prepareOutputDirectory(profile *model.Profile, now time.Time) error {
	outputDir, err := ResolveHomeDirPath(now.Format(profile.Output.DirectoryTemplate))
	if err != nil {
		return fmt.Errorf("resolving output directory: %w", err)
	}

	if !DirectoryExists(outputDir) {
		slog.Info("Creating output directory: " + outputDir)

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	// set the calculated values in the profile for other parts of the app to use
	profile.Output.Take = NextTake(outputDir)
	profile.Output.Directory = outputDir

	return nil
}

// TakeName returns the letters for the nth take: A..Z, then AA, AB and so
// on, the way spreadsheet columns count.
func TakeName(n int) string {
	name := ""

	for n++; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}

	return name
}

func TakeFileName(take string) string {
	return take + takeSuffix
}

func TakePath(outputDir string, take string) string {
	return filepath.Join(outputDir, TakeFileName(take))
}

// NextTake returns the first take name without a recording in outputDir.
func NextTake(outputDir string) string {
	existing := existingTakes(outputDir)

	for i := 0; ; i++ {
		if _, found := existing[TakeName(i)]; !found {
			return TakeName(i)
		}
	}
}

// LatestTake returns the path of the last take recorded in outputDir.
func LatestTake(outputDir string) (string, error) {
	existing := existingTakes(outputDir)

	if len(existing) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoTakes, outputDir)
	}

	latest := ""
	for i := 0; len(existing) > 0; i++ {
		take := TakeName(i)
		if _, found := existing[take]; found {
			latest = take
			delete(existing, take)
		}
	}

	return TakePath(outputDir, latest), nil
}

func existingTakes(outputDir string) map[string]struct{} {
	takes := make(map[string]struct{})

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return takes
	}

	for _, entry := range entries {
		name := entry.Name()

		// skip directories or non-wav files
		if entry.IsDir() || !strings.HasSuffix(name, takeSuffix) {
			continue
		}

		take := strings.TrimSuffix(name, takeSuffix)
		if take != "" && strings.Trim(take, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") == "" {
			takes[take] = struct{}{}
		}
	}

	return takes
}
