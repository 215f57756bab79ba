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
package model

import (
	"fmt"
	"slices"
	"strings"
)

type OutputType int

const (
	OutputTUI OutputType = iota
	OutputJSON
)

var OutputTypeMap = map[string]OutputType{
	"tui":  OutputTUI,
	"json": OutputJSON,
}

func ParseOutputType(value string) (OutputType, error) {
	if outputType, ok := OutputTypeMap[strings.ToLower(value)]; ok {
		return outputType, nil
	}

	names := make([]string, 0, len(OutputTypeMap))
	for name := range OutputTypeMap {
		names = append(names, name)
	}
	slices.Sort(names)

	return OutputTUI, fmt.Errorf("invalid output type '%s', valid options: %s", value, strings.Join(names, ", "))
}

type Config struct {
	ProfileDirectory string `yaml:"profile_directory,omitempty" mapstructure:"profile_directory"`
	Profile          string `yaml:"profile,omitempty" mapstructure:"profile"`
	LogLevel         string `yaml:"log_level,omitempty" mapstructure:"log_level"`
	LogFile          string `yaml:"log_file,omitempty" mapstructure:"log_file"`
	OutputType       string `yaml:"output_type,omitempty" mapstructure:"output_type"`

	Permissions       PermissionOptions `yaml:"permissions" mapstructure:"permissions"`
	SimulationOptions SimulationOptions `yaml:"simulation_options" mapstructure:"simulation_options"`
}

// PermissionOptions answers the permission prompts a desktop has no
// equivalent for. Both default to granted.
type PermissionOptions struct {
	RecordAudio  bool `yaml:"record_audio" mapstructure:"record_audio"`
	WriteStorage bool `yaml:"write_storage" mapstructure:"write_storage"`
}

type SimulationOptions struct {
	EnableSimulation bool    `yaml:"enable,omitempty" mapstructure:"enable"`
	Frequency        float64 `yaml:"frequency,omitempty" mapstructure:"frequency"`
	Noise            float64 `yaml:"noise,omitempty" mapstructure:"noise"`
}
