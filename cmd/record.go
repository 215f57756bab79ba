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
package cmd

import (
	"github.com/spf13/cobra"

	"playrec/app"
)

var (
	argStart bool

	recordCmd = &cobra.Command{
		Use:   "record",
		Short: "Start a recording session",
		Long: `Opens the audio device and waits for the record key. In the TUI r or
space toggles recording and q quits. With --output json, commands are read
from stdin one per line: toggle, start, stop, save <dest>, quit.`,
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := readProfile()
			if err != nil {
				return err
			}

			return app.RunEngine(config, profile, app.EngineOptions{AutoStart: argStart})
		},
	}
)

func init() {
	recordCmd.Flags().Bool("simulate", false, "record a generated test tone instead of the audio device")
	recordCmd.Flags().BoolVar(&argStart, "start", false, "start the first take as soon as the device is running")

	if err := v.BindPFlag("simulation_options.enable", recordCmd.Flags().Lookup("simulate")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(recordCmd)
}
