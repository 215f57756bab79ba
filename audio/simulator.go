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
package audio

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

type SimulationConfig struct {
	DeviceConfig

	// sine frequency in Hz
	Frequency float64

	// peak amplitude, 0..1
	Amplitude float64

	// amount of random noise mixed in, 0..1
	Noise float64
}

// SimulatedDevice stands in for a sound card. It generates a slowly
// swelling sine wave and delivers it in periods paced by a ticker.
type SimulatedDevice struct {
	config SimulationConfig
	logger *slog.Logger

	lock    sync.Mutex
	done    chan struct{}
	running sync.WaitGroup
}

func NewSimulatedDevice(config SimulationConfig, logger *slog.Logger) *SimulatedDevice {
	if logger == nil {
		logger = slog.Default()
	}

	if config.SampleRate <= 0 {
		config.SampleRate = 48000
	}

	if config.FramesPerPeriod <= 0 {
		config.FramesPerPeriod = 512
	}

	if config.Frequency <= 0 {
		config.Frequency = 440
	}

	if config.Amplitude <= 0 {
		config.Amplitude = 0.8
	}

	return &SimulatedDevice{
		config: config,
		logger: logger,
	}
}

func (d *SimulatedDevice) Start(cb Callback) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.done != nil {
		return fmt.Errorf("%w: simulated device already started", ErrDeviceFailure)
	}

	d.done = make(chan struct{})
	cb.AboutToStart(float64(d.config.SampleRate), d.config.InputChannels)

	d.running.Add(1)
	go d.run(cb, d.done)

	d.logger.Info(fmt.Sprintf("Simulated audio device started: %d Hz, %d channel(s), %0.0f Hz tone", d.config.SampleRate, d.config.InputChannels, d.config.Frequency))

	return nil
}

func (d *SimulatedDevice) Stop() error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.done == nil {
		return nil
	}

	close(d.done)
	d.running.Wait()
	d.done = nil

	return nil
}

func (d *SimulatedDevice) Close() error {
	return d.Stop()
}

func (d *SimulatedDevice) run(cb Callback, done chan struct{}) {
	defer d.running.Done()
	defer cb.Stopped()

	frames := d.config.FramesPerPeriod
	generator := newToneGenerator(d.config)

	inputs := make([][]float32, d.config.InputChannels)
	for ch := range inputs {
		inputs[ch] = make([]float32, frames)
	}

	outputs := make([][]float32, d.config.OutputChannels)
	for ch := range outputs {
		outputs[ch] = make([]float32, frames)
	}

	period := time.Duration(float64(time.Second) * float64(frames) / float64(d.config.SampleRate))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			generator.fill(inputs, frames)
			cb.Process(inputs, outputs, frames)
		}
	}
}

type toneGenerator struct {
	phase      float64
	step       float64
	swellPhase float64
	swellStep  float64
	amplitude  float64
	noise      float64
}

func newToneGenerator(config SimulationConfig) *toneGenerator {
	return &toneGenerator{
		step:      2 * math.Pi * config.Frequency / float64(config.SampleRate),
		swellStep: 2 * math.Pi * 0.25 / float64(config.SampleRate),
		amplitude: config.Amplitude,
		noise:     config.Noise,
	}
}

func (g *toneGenerator) fill(channels [][]float32, frames int) {
	for i := 0; i < frames; i++ {
		envelope := 0.5 + 0.5*math.Sin(g.swellPhase)
		sample := g.amplitude * envelope * math.Sin(g.phase)

		if g.noise > 0 {
			sample += g.noise * (rand.Float64()*2 - 1)
		}

		for ch := range channels {
			channels[ch][i] = float32(sample)
		}

		g.phase = math.Mod(g.phase+g.step, 2*math.Pi)
		g.swellPhase = math.Mod(g.swellPhase+g.swellStep, 2*math.Pi)
	}
}
