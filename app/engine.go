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
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"playrec/audio"
	"playrec/display"
	"playrec/model"
	"playrec/reaper"
	"playrec/shared"
	"playrec/util"
	"playrec/waveform"
)

type EngineOptions struct {
	// start the first take as soon as the device is running
	AutoStart bool
}

type engine struct {
	config  *model.Config
	profile *model.Profile
	options EngineOptions

	ui         display.UI
	recorder   *audio.Recorder
	controller *Controller
	ctx        context.Context
}

func newUI(config *model.Config) (display.UI, error) {
	outputType, err := model.ParseOutputType(config.OutputType)
	if err != nil {
		return nil, err
	}

	if outputType == model.OutputJSON {
		// the stdout handle is captured before logging hijacks it
		return display.NewJsonUI(os.Stdout, os.Stdin), nil
	}

	return display.NewTui(), nil
}

// configureUiLogger sends slog to the UI and the configured log file. The
// returned func restores stdout/stderr and closes the log file.
func configureUiLogger(ui display.UI, config *model.Config) (func(), error) {
	fileHandler, closeFile, err := shared.OpenLogHandler(config.LogLevel, config.LogFile, io.Discard)
	if err != nil {
		return nil, err
	}

	level, err := util.ParseLogLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}

	uiHandler := shared.NewUiLogHandler(ui, level, func(message string) {
		ui.IncrementErrorCount()
	})

	slog.SetDefault(slog.New(shared.NewTeeHandler(uiHandler, fileHandler)))

	restore := shared.HijackLogging()

	return func() {
		restore()
		closeFile()
	}, nil
}

func newDevice(config *model.Config, profile *model.Profile, inputChannels int) (audio.Device, error) {
	deviceConfig := audio.DeviceConfig{
		SampleRate:      profile.Device.SampleRate,
		InputChannels:   inputChannels,
		OutputChannels:  profile.Device.OutputChannels,
		FramesPerPeriod: profile.Device.FramesPerPeriod,
	}

	if config.SimulationOptions.EnableSimulation {
		return audio.NewSimulatedDevice(audio.SimulationConfig{
			DeviceConfig: deviceConfig,
			Frequency:    config.SimulationOptions.Frequency,
			Noise:        config.SimulationOptions.Noise,
		}, slog.Default()), nil
	}

	return audio.NewMalgoDevice(deviceConfig, slog.Default())
}

// RunEngine runs an interactive recording session until the user quits or
// the process is interrupted. A take in progress is always finalized before
// the device is closed.
func RunEngine(config *model.Config, profile *model.Profile, options EngineOptions) error {
	ui, err := newUI(config)
	if err != nil {
		return err
	}

	e := &engine{
		config:  config,
		profile: profile,
		options: options,
		ui:      ui,
	}

	// the engine itself is a worker so Wait covers every reap callback
	reaper.Register("engine")
	reaper.Callback("engine", func() { reaper.Done("engine") })

	ui.Initialize()
	ui.SetTransportStatus(display.StatusStarting)

	restoreLogging, err := configureUiLogger(ui, config)
	if err != nil {
		reaper.Reap()
		return err
	}
	reaper.Callback("logging", restoreLogging)

	ui.Start()
	reaper.Callback("ui", ui.Shutdown)

	go func() {
		ui.WaitForShutdown()
		reaper.Reap()
	}()

	stopSignals := shared.CatchSigint(func() {
		slog.Info("Caught sigint, calling reaper")
		reaper.Reap()
	})
	reaper.Callback("signals", stopSignals)

	ctx, cancel := context.WithCancel(context.Background())
	reaper.Callback("cancel", cancel)
	e.ctx = ctx

	if err := e.start(); err != nil {
		slog.Error(err.Error())
		ui.SetTransportStatus(display.StatusFailed)

		// the TUI keeps the failure on screen until the user quits
		if _, isJson := ui.(*display.JsonUI); isJson {
			reaper.Reap()
		}

		<-reaper.Reaping()
		reaper.Wait()
		return err
	}

	<-reaper.Reaping()
	reaper.Wait()

	return nil
}

func (e *engine) start() error {
	permissions := NewStaticPermissions(e.config.Permissions)

	inputChannels := e.profile.Device.InputChannels
	if granted, err := permissions.Request(e.ctx, PermissionRecordAudio); err != nil || !granted {
		slog.Warn("Microphone access denied, opening the device without inputs")
		inputChannels = 0
	}

	device, err := newDevice(e.config, e.profile, inputChannels)
	if err != nil {
		return err
	}
	reaper.Callback("close device", func() {
		if err := device.Close(); err != nil {
			slog.Warn("Closing audio device: " + err.Error())
		}
	})

	maxDuration := time.Duration(e.profile.Waveform.MaxDurationMinutes * float64(time.Minute))
	summary := waveform.New(e.profile.Waveform.WindowSize, maxDuration)
	summary.SetNotifyInterval(time.Duration(e.profile.Waveform.RefreshMillis) * time.Millisecond)

	stream := audio.NewDeviceStream()
	e.recorder = audio.NewRecorder(stream, summary, audio.RecorderOptions{
		BitDepth:      e.profile.Output.BitDepth,
		BufferSeconds: e.profile.Output.BufferSizeSeconds,
		Logger:        slog.Default(),
	})

	if err := device.Start(e.recorder); err != nil {
		return err
	}

	sampleRateStr := strconv.FormatFloat(stream.SampleRate()/1000.0, 'f', -1, 64)
	e.ui.SetAudioFormat(fmt.Sprintf("%dbit / %sKHz mono", e.recorder.BitDepth(), sampleRateStr))
	e.ui.SetProfileName(e.profile.Name)
	e.ui.SetDirectory(e.profile.Output.Directory)
	e.ui.SetTakeName(e.profile.Output.Take)
	e.ui.SetWaveformSource(summary)

	e.controller = NewController(e.recorder, permissions, e.profile.Output.Directory, slog.Default())
	e.controller.SetHooks(ControllerHooks{
		Started: func(take string, path string) {
			e.ui.AddOutputFile(filepath.Base(path))
			e.ui.SetTakeName(take)
			e.ui.SetTransportStatus(display.StatusRecording)
		},
		Stopped: func(path string, err error) {
			e.ui.SetTakeName(util.NextTake(e.profile.Output.Directory))
			e.ui.SetTransportStatus(display.StatusStandby)
		},
	})

	statsShutdown := make(chan struct{})
	startStatistics(e.ui, e.recorder, e.profile.Output.Directory, statsShutdown)
	reaper.Callback("stats", func() { close(statsShutdown) })

	go e.forwardWaveformChanges(summary)

	// registered last so it runs first, before the device goes away
	reaper.Callback("stop recording", func() {
		if e.controller.IsRecording() {
			e.ui.SetTransportStatus(display.StatusFlushing)
		}

		if _, err := e.controller.StopRecording(); err != nil {
			slog.Error("Finalizing take: " + err.Error())
		}

		e.ui.SetTransportStatus(display.StatusShuttingDown)
	})

	e.ui.SetCommandHandler(e.handleCommand)
	e.ui.SetTransportStatus(display.StatusStandby)

	if e.options.AutoStart {
		if _, err := e.controller.StartRecording(e.ctx); err != nil {
			slog.Error("Starting take: " + err.Error())
		}
	}

	return nil
}

func (e *engine) forwardWaveformChanges(summary *waveform.Summary) {
	for {
		select {
		case <-reaper.Reaping():
			return
		case <-summary.Changes():
			e.ui.WaveformChanged()
		}
	}
}

func (e *engine) handleCommand(command display.Command) {
	if e.controller == nil {
		return
	}

	switch command.Action {
	case display.ActionToggle:
		if _, err := e.controller.Toggle(e.ctx); err != nil {
			slog.Error("Record toggle failed: " + err.Error())
		}

	case display.ActionStart:
		if _, err := e.controller.StartRecording(e.ctx); err != nil {
			slog.Error("Starting take: " + err.Error())
		}

	case display.ActionStop:
		if _, err := e.controller.StopRecording(); err != nil {
			slog.Error("Stopping take: " + err.Error())
		}

	case display.ActionSave:
		if _, err := e.controller.SaveAs(command.Argument); err != nil {
			slog.Error(err.Error())
		}

	case display.ActionQuit:
		go reaper.Reap()
	}
}
