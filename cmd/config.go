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

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the configuration after defaults, file, environment and flags",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(config)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	configProfileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Print the resolved recording profile",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := readProfile()
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(profile)
			if err != nil {
				return fmt.Errorf("marshaling profile: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), string(out))
			fmt.Fprintf(cmd.OutOrStdout(), "# output directory: %s\n# next take: %s\n", profile.Output.Directory, profile.Output.Take)
			return nil
		},
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			used := v.ConfigFileUsed()
			if used == "" {
				used = "(none, using defaults)"
			}

			fmt.Fprintln(cmd.OutOrStdout(), used)
			return nil
		},
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configProfileCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}
