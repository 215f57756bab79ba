//go:build linux || darwin || freebsd

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
package util

import (
	"fmt"

	"golang.org/x/sys/unix"

	"playrec/model"
)

func GetDiskSpace(path string) (model.DiskInfo, error) {
	var stat unix.Statfs_t

	if err := unix.Statfs(path, &stat); err != nil {
		return model.DiskInfo{}, fmt.Errorf("statfs %s: %w", path, err)
	}

	blockSize := uint64(stat.Bsize)

	info := model.DiskInfo{
		Size: uint64(stat.Blocks) * blockSize,
		Free: uint64(stat.Bavail) * blockSize,
	}

	if info.Size > info.Free {
		info.Used = info.Size - info.Free
	}

	if info.Size > 0 {
		info.UsedPct = float64(info.Used) / float64(info.Size) * 100.0
	}

	return info, nil
}
