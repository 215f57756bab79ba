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

	"playrec/model"
)

type Permission int

const (
	PermissionRecordAudio Permission = iota
	PermissionWriteStorage
)

func (p Permission) String() string {
	switch p {
	case PermissionRecordAudio:
		return "record audio"
	case PermissionWriteStorage:
		return "write storage"
	}

	return "unknown"
}

// PermissionRequester asks the platform for a permission. It may block
// until the user answers.
type PermissionRequester interface {
	Request(ctx context.Context, permission Permission) (bool, error)
}

// StaticPermissions answers from configuration.
type StaticPermissions struct {
	RecordAudio  bool
	WriteStorage bool
}

func NewStaticPermissions(options model.PermissionOptions) StaticPermissions {
	return StaticPermissions{
		RecordAudio:  options.RecordAudio,
		WriteStorage: options.WriteStorage,
	}
}

func (s StaticPermissions) Request(ctx context.Context, permission Permission) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	switch permission {
	case PermissionRecordAudio:
		return s.RecordAudio, nil
	case PermissionWriteStorage:
		return s.WriteStorage, nil
	}

	return false, nil
}
