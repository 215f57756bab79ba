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
package reaper

import (
	"log/slog"
	"slices"
	"sync"
)

// Reaper coordinates shutdown. Long running workers Register and call Done
// when they exit; owners of resources add a Callback that Reap runs in
// reverse registration order, exactly once.
type Reaper struct {
	lock          sync.Mutex
	reaped        bool
	reapedChan    chan struct{}
	callbacks     []callback
	registrations []string
	waitGroup     sync.WaitGroup
}

type callback struct {
	name         string
	callbackFunc func()
}

var defaultReaper = New()

func New() *Reaper {
	return &Reaper{
		reapedChan:    make(chan struct{}),
		callbacks:     make([]callback, 0),
		registrations: make([]string, 0),
	}
}

func (r *Reaper) Reaped() bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.reaped
}

// Reaping is closed once Reap has been called.
func (r *Reaper) Reaping() <-chan struct{} {
	return r.reapedChan
}

func (r *Reaper) Reap() {
	r.lock.Lock()
	if r.reaped {
		r.lock.Unlock()
		return
	}

	r.reaped = true
	close(r.reapedChan)

	callbacksReversed := slices.Clone(r.callbacks)
	r.lock.Unlock()

	slices.Reverse(callbacksReversed)

	for _, callback := range callbacksReversed {
		slog.Debug("reaper: calling reap callback for '" + callback.name + "'")
		callback.callbackFunc()
	}
}

// Callback adds a reap callback. Callbacks added after Reap are ignored.
func (r *Reaper) Callback(name string, callbackFunc func()) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.reaped {
		slog.Warn("reaper: callback added after reap: '" + name + "'")
		return
	}

	r.callbacks = append(r.callbacks, callback{
		name:         name,
		callbackFunc: callbackFunc,
	})
}

func (r *Reaper) Register(name string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if slices.Contains(r.registrations, name) {
		slog.Warn("reaper: already registered '" + name + "'")
		return
	}

	r.registrations = append(r.registrations, name)
	r.waitGroup.Add(1)
	slog.Debug("reaper: registered '" + name + "'")
}

func (r *Reaper) Done(name string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if !slices.Contains(r.registrations, name) {
		slog.Warn("reaper: already done or doesn't exist: '" + name + "'")
		return
	}

	r.registrations = slices.DeleteFunc(r.registrations, func(test string) bool {
		return test == name
	})

	slog.Debug("reaper: done: '" + name + "'")
	r.waitGroup.Done()
}

func (r *Reaper) Wait() {
	r.waitGroup.Wait()
}

func Reaped() bool                              { return defaultReaper.Reaped() }
func Reaping() <-chan struct{}                  { return defaultReaper.Reaping() }
func Reap()                                     { defaultReaper.Reap() }
func Callback(name string, callbackFunc func()) { defaultReaper.Callback(name, callbackFunc) }
func Register(name string)                      { defaultReaper.Register(name) }
func Done(name string)                          { defaultReaper.Done(name) }
func Wait()                                     { defaultReaper.Wait() }
