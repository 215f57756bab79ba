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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"playrec/model"
	"playrec/shared"
	"playrec/util"
)

var (
	// arguments
	argConfigFile string

	v           = viper.New()
	config      *model.Config
	closeLogger = func() error { return nil }

	rootCmd = &cobra.Command{
		Use:   "playrec",
		Short: "Record audio straight to disk while watching the waveform",
		Long: `playrec records the default input device to a mono 16-bit WAV file
per take and draws the waveform of the take while it is captured.

Takes are named A, B, C... inside the profile's output directory and can be
copied elsewhere with "playrec save".`,
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error

			config, err = util.LoadConfig(v, argConfigFile)
			if err != nil {
				return err
			}

			// record routes slog into its own UI once the screen is up
			if cmd == recordCmd {
				return nil
			}

			closeLogger, err = shared.ConfigureLogger(config.LogLevel, config.LogFile, os.Stderr)
			return err
		},

		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeLogger()
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&argConfigFile, "config", "", "config file (default is config.yaml next to the binary, in the working directory or in ~/.config/playrec)")
	flags.String("log-level", "", "log level: none, error, warn, info, debug or trace")
	flags.String("log-file", "", "write a rotated JSON log to this file instead of stderr")
	flags.StringP("output", "o", "", "interface for record: tui or json")
	flags.StringP("profile", "p", "", "name or path of the recording profile")
	flags.String("profile-dir", "", "directory searched for *.profile files")

	bindFlag("log_level", "log-level")
	bindFlag("log_file", "log-file")
	bindFlag("output_type", "output")
	bindFlag("profile", "profile")
	bindFlag("profile_directory", "profile-dir")
}

func bindFlag(key string, flagName string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flagName)); err != nil {
		panic(err)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}

func readProfile() (*model.Profile, error) {
	return util.ReadProfile(config.Profile, config.ProfileDirectory)
}
