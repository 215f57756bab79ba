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
package shared

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// HijackLogging redirects the process stdout and stderr into slog so that
// stray prints from libraries don't tear up the TUI. Lines from stdout are
// logged at info and stderr at error. The returned func restores both.
func HijackLogging() func() {
	stockStdout := os.Stdout
	stockStderr := os.Stderr

	var wg sync.WaitGroup
	writers := make([]*os.File, 0, 2)

	hijack := func(target **os.File, level slog.Level) {
		r, w, err := os.Pipe()
		if err != nil {
			slog.Warn("Unable to redirect output: " + err.Error())
			return
		}

		writers = append(writers, w)
		*target = w

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer r.Close()
			forwardLines(r, level, slog.Default())
		}()
	}

	hijack(&os.Stdout, slog.LevelInfo)
	hijack(&os.Stderr, slog.LevelError)

	return func() {
		os.Stdout = stockStdout
		os.Stderr = stockStderr

		for _, w := range writers {
			w.Close()
		}

		wg.Wait()
	}
}

func forwardLines(r io.Reader, level slog.Level, logger *slog.Logger) {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			logger.Log(context.Background(), level, line)
		}
	}
}
