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
	"strings"

	"github.com/spf13/cobra"

	"playrec/app"
	"playrec/util"
)

var (
	argTake string
	argDir  string

	saveCmd = &cobra.Command{
		Use:   "save <dest>",
		Short: "Copy a finished take to another location",
		Long: `Copies the latest take in the profile's output directory, or the take
named with --take, to dest. When dest is a directory the take keeps its file
name. The take itself is never modified.`,
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir := argDir

			if outputDir == "" {
				profile, err := readProfile()
				if err != nil {
					return err
				}

				outputDir = profile.Output.Directory
			}

			source, err := findTake(outputDir, argTake)
			if err != nil {
				return err
			}

			target, err := app.CopyTake(source, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}
)

func init() {
	saveCmd.Flags().StringVarP(&argTake, "take", "t", "", "take to copy (default is the latest)")
	saveCmd.Flags().StringVarP(&argDir, "dir", "d", "", "directory holding the takes (default is the profile's output directory)")

	rootCmd.AddCommand(saveCmd)
}

// findTake resolves a take name like "b" to its file in outputDir. An
// empty name picks the latest take.
func findTake(outputDir string, take string) (string, error) {
	outputDir, err := util.ResolveHomeDirPath(outputDir)
	if err != nil {
		return "", err
	}

	if take == "" {
		return util.LatestTake(outputDir)
	}

	path := util.TakePath(outputDir, strings.ToUpper(take))
	if !util.FileExists(path) {
		return "", fmt.Errorf("%w: take %s in %s", util.ErrNoTakes, strings.ToUpper(take), outputDir)
	}

	return path, nil
}
