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
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"playrec/audio"
	"playrec/util"
)

// SessionRecorder is the part of audio.Recorder the controller drives.
type SessionRecorder interface {
	Start(path string) error
	Stop() error
	IsRecording() bool
	Status() audio.Status
}

type StopResult struct {
	Path string
	Err  error
}

// ControllerHooks let the UI follow the transport. Either may be nil.
type ControllerHooks struct {
	Started func(take string, path string)
	Stopped func(path string, err error)
}

// Controller turns UI commands into recording sessions. It names takes,
// checks permissions and remembers the last finished take for SaveAs.
type Controller struct {
	recorder    SessionRecorder
	permissions PermissionRequester
	outputDir   string
	logger      *slog.Logger

	lock          sync.Mutex
	hooks         ControllerHooks
	currentPath   string
	lastRecording string
}

func NewController(recorder SessionRecorder, permissions PermissionRequester, outputDir string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		recorder:    recorder,
		permissions: permissions,
		outputDir:   outputDir,
		logger:      logger,
	}
}

func (c *Controller) SetHooks(hooks ControllerHooks) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.hooks = hooks
}

// StartRecording begins the next take in the output directory and returns
// its path. Both permissions are checked before anything touches the disk.
func (c *Controller) StartRecording(ctx context.Context) (string, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.startLocked(ctx)
}

func (c *Controller) startLocked(ctx context.Context) (string, error) {
	for _, permission := range []Permission{PermissionRecordAudio, PermissionWriteStorage} {
		granted, err := c.permissions.Request(ctx, permission)
		if err != nil {
			return "", fmt.Errorf("requesting %s permission: %w", permission, err)
		}

		if !granted {
			return "", fmt.Errorf("%w: %s", ErrPermissionDenied, permission)
		}
	}

	if c.currentPath != "" {
		if _, err := c.stopLocked(); err != nil {
			c.logger.Warn("Previous take did not close cleanly: " + err.Error())
		}
	}

	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		return "", fmt.Errorf("%w: %s: %w", audio.ErrOpenFailure, c.outputDir, err)
	}

	take := util.NextTake(c.outputDir)
	path := util.TakePath(c.outputDir, take)

	if err := c.recorder.Start(path); err != nil {
		return "", err
	}

	c.currentPath = path

	if c.hooks.Started != nil {
		c.hooks.Started(take, path)
	}

	return path, nil
}

// StopRecording finalizes the current take and returns its path. It blocks
// until everything queued has been written. Stopping while idle returns an
// empty path and no error.
func (c *Controller) StopRecording() (string, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.stopLocked()
}

func (c *Controller) stopLocked() (string, error) {
	path := c.currentPath
	if path == "" {
		return "", nil
	}

	err := c.recorder.Stop()
	c.currentPath = ""

	if status := c.recorder.Status(); status.Writer.Err != nil {
		c.logger.Warn(fmt.Sprintf("Take %s is missing %d frames: %s", filepath.Base(path), status.Writer.FramesDropped, status.Writer.Err))
	}

	// a take that failed to finalize is still remembered so SaveAs can try
	// it and report the copy result
	c.lastRecording = path

	if c.hooks.Stopped != nil {
		c.hooks.Stopped(path, err)
	}

	return path, err
}

// StopRecordingAsync runs StopRecording on its own goroutine so a UI thread
// never waits on the disk.
func (c *Controller) StopRecordingAsync() <-chan StopResult {
	result := make(chan StopResult, 1)

	go func() {
		defer close(result)

		path, err := c.StopRecording()
		result <- StopResult{Path: path, Err: err}
	}()

	return result
}

// Toggle is the record button: it stops a take in progress or starts a new
// one. It reports whether a take is running afterwards.
func (c *Controller) Toggle(ctx context.Context) (bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.currentPath != "" {
		_, err := c.stopLocked()
		return false, err
	}

	_, err := c.startLocked(ctx)
	return err == nil, err
}

func (c *Controller) IsRecording() bool {
	return c.recorder.IsRecording()
}

func (c *Controller) LastRecording() string {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.lastRecording
}

// SaveAs copies the last finished take to dest. A directory destination
// keeps the take's file name.
func (c *Controller) SaveAs(dest string) (string, error) {
	source := c.LastRecording()
	if source == "" {
		return "", fmt.Errorf("%w: %w", ErrCopyFailure, ErrNothingRecorded)
	}

	target, err := CopyTake(source, dest)
	if err != nil {
		return "", err
	}

	c.logger.Info(fmt.Sprintf("Saved %s as %s", filepath.Base(source), target))

	return target, nil
}

// CopyTake copies a finished take to dest and returns the final path. The
// source is never modified and a failed copy leaves nothing at dest.
func CopyTake(source string, dest string) (string, error) {
	target, err := util.ResolveHomeDirPath(strings.TrimSpace(dest))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCopyFailure, err)
	}

	if target == "" {
		return "", fmt.Errorf("%w: no destination given", ErrCopyFailure)
	}

	if util.DirectoryExists(target) {
		target = filepath.Join(target, filepath.Base(source))
	}

	if err := util.CopyFile(source, target); err != nil {
		return "", fmt.Errorf("%w: %s to %s: %w", ErrCopyFailure, source, target, err)
	}

	return target, nil
}
