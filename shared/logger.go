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
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"playrec/util"
)

const (
	logFileMaxSizeMB  = 20
	logFileMaxBackups = 3
)

func noopClose() error { return nil }

// OpenLogHandler builds the handler for the configured level and log file.
// "none" discards everything, a log file gets rotated JSON records and
// otherwise text goes to console. The returned func closes the log file.
func OpenLogHandler(levelName string, logFile string, console io.Writer) (slog.Handler, func() error, error) {
	if strings.EqualFold(levelName, "none") {
		return slog.NewTextHandler(io.Discard, nil), noopClose, nil
	}

	level, err := util.ParseLogLevel(levelName)
	if err != nil {
		return nil, nil, err
	}

	options := &slog.HandlerOptions{Level: level}

	if logFile == "" {
		return slog.NewTextHandler(console, options), noopClose, nil
	}

	logPath, err := util.ResolveHomeDirPath(logFile)
	if err != nil {
		return nil, nil, err
	}

	writer := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
	}

	return slog.NewJSONHandler(writer, options), writer.Close, nil
}

// ConfigureLogger installs the handler from OpenLogHandler as the default.
func ConfigureLogger(levelName string, logFile string, console io.Writer) (func() error, error) {
	handler, closer, err := OpenLogHandler(levelName, logFile, console)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(handler))
	return closer, nil
}

// TeeHandler hands every record to each of its handlers that wants it.
type TeeHandler struct {
	handlers []slog.Handler
}

func NewTeeHandler(handlers ...slog.Handler) *TeeHandler {
	return &TeeHandler{handlers: handlers}
}

func (t *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (t *TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error

	for _, h := range t.handlers {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}

	return errors.Join(errs...)
}

func (t *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}

	return &TeeHandler{handlers: handlers}
}

func (t *TeeHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithGroup(name)
	}

	return &TeeHandler{handlers: handlers}
}
