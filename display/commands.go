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
package display

import (
	"errors"
	"fmt"
	"strings"
)

type Action string

const (
	ActionToggle Action = "toggle"
	ActionStart  Action = "start"
	ActionStop   Action = "stop"
	ActionSave   Action = "save"
	ActionQuit   Action = "quit"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command is a user request coming from the UI, a key press in the TUI or a
// line on stdin in JSON mode.
type Command struct {
	Action   Action
	Argument string
}

type CommandHandler func(Command)

// ParseCommand reads one command line such as "toggle" or
// "save /tmp/take.wav". Everything after the first word is the argument.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	word, argument, _ := strings.Cut(line, " ")
	argument = strings.TrimSpace(argument)

	command := Command{Action: Action(strings.ToLower(word)), Argument: argument}

	switch command.Action {
	case ActionToggle, ActionStart, ActionStop, ActionQuit:
		return command, nil
	case ActionSave:
		if argument == "" {
			return command, fmt.Errorf("save needs a destination path")
		}
		return command, nil
	}

	return command, fmt.Errorf("%w: '%s'", ErrUnknownCommand, word)
}
